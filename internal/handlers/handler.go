package handlers

import (
	"cube_navigator/internal/logger"
	"cube_navigator/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// State stream over a WebSocket upgrade on the same port
	router.GET("/ws", h.identityMiddleware, h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.identityMiddleware)
	{
		h.registerRobotRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerRobotRoutes(api *gin.RouterGroup) {
	rb := api.Group("/robot")
	{
		rb.GET("/state", h.getState)

		drive := rb.Group("", h.requireOperator)
		drive.POST("/find-cube", h.findCube)
		drive.POST("/move-to-cube", h.moveToCube)
		// Body example: {"x_mm":100,"y_mm":100,"angle_z_deg":90}
		drive.POST("/go-to-pose", h.goToPose)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
