package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cube_navigator/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK      = "ok"
	statusFound   = "found"
	statusArrived = "arrived"

	errGetState        = "failed to load state"
	errInvalidBodyPref = "invalid body: "
	errInvalidTimeout  = "invalid 'timeout'; use a positive Go duration such as 90s"
	errRobotBusy       = "robot is busy"
	errCubeNotFound    = "cube not found"
	errDeadline        = "operation did not finish before timeout"
	errNavigation      = "navigation failed"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Respond with a status and include current state if available (best-effort).
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string, extra gin.H) {
	ctx := c.Request.Context()
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	st, err := h.services.Monitoring.GetState(ctx)
	if err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
}

// navigationError maps navigator failures to HTTP responses.
func (h *Handler) navigationError(c *gin.Context, logKey string, err error) {
	switch {
	case errors.Is(err, service.ErrRobotBusy):
		c.JSON(http.StatusConflict, gin.H{"error": errRobotBusy})
	case errors.Is(err, service.ErrCubeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errCubeNotFound})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": errDeadline})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errNavigation, logKey, err)
	}
}

// operationContext bounds the request by the optional ?timeout= query.
// ok is false when the request was already answered.
func (h *Handler) operationContext(c *gin.Context) (ctx context.Context, cancel context.CancelFunc, ok bool) {
	ctx = c.Request.Context()
	qs := c.Query("timeout")
	if qs == "" {
		return ctx, func() {}, true
	}
	d, err := time.ParseDuration(qs)
	if err != nil || d <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidTimeout})
		return nil, nil, false
	}
	ctx, cancel = context.WithTimeout(ctx, d)
	return ctx, cancel, true
}

// goToPoseRequest is the go-to-pose payload. Pointers make zero values
// distinguishable from missing fields.
type goToPoseRequest struct {
	X      *float64 `json:"x_mm" binding:"required"`
	Y      *float64 `json:"y_mm" binding:"required"`
	AngleZ *float64 `json:"angle_z_deg" binding:"required"`
}

// GoToPoseRequest is an exported model for Swagger docs of the goToPose payload.
type GoToPoseRequest struct {
	// Forward offset from the robot in millimetres
	X float64 `json:"x_mm" example:"100"`
	// Leftward offset from the robot in millimetres
	Y float64 `json:"y_mm" example:"100"`
	// Final heading relative to the starting heading, in degrees
	AngleZ float64 `json:"angle_z_deg" example:"90"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get robot state
// @Tags         robot
// @Produce      json
// @Success      200  {object}  models.RobotState
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/robot/state [get]
// @Security     BearerAuth
func (h *Handler) getState(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.services.Monitoring.GetState(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetState, "robot_get_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Find the cube
// @Description  Lowers the lift, levels the head and waits for the cube, retrying after every observe timeout.
// @Tags         robot
// @Produce      json
// @Param        timeout  query  string  false  "Overall bound on the search"  example(90s)
// @Success      200  {object}  map[string]interface{}  "status, sighting, state"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      504  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/robot/find-cube [post]
// @Security     BearerAuth
func (h *Handler) findCube(c *gin.Context) {
	ctx, cancel, ok := h.operationContext(c)
	if !ok {
		return
	}
	defer cancel()

	sighting, err := h.services.Navigator.FindCube(ctx)
	if err != nil {
		h.navigationError(c, "robot_find_cube_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusFound, gin.H{"sighting": sighting})
}

// @Summary      Move to the cube
// @Description  Finds the cube, then drives to the configured standoff pose next to it.
// @Tags         robot
// @Produce      json
// @Param        timeout  query  string  false  "Overall bound on search and motion"  example(2m)
// @Success      200  {object}  map[string]interface{}  "status, approach, state"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      504  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/robot/move-to-cube [post]
// @Security     BearerAuth
func (h *Handler) moveToCube(c *gin.Context) {
	ctx, cancel, ok := h.operationContext(c)
	if !ok {
		return
	}
	defer cancel()

	approach, err := h.services.Navigator.MoveToCube(ctx)
	if err != nil {
		h.navigationError(c, "robot_move_to_cube_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusArrived, gin.H{"approach": approach})
}

// @Summary      Go to pose
// @Description  Turns toward (x, y), drives there and turns to end angle_z_deg from the starting heading. All values are relative to the robot.
// @Tags         robot
// @Accept       json
// @Produce      json
// @Param        body  body   GoToPoseRequest  true  "Relative target pose"
// @Param        timeout  query  string  false  "Overall bound on the motion"  example(1m)
// @Success      200   {object}  map[string]interface{}  "status, commands, state"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      504   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/robot/go-to-pose [post]
// @Security     BearerAuth
func (h *Handler) goToPose(c *gin.Context) {
	var req goToPoseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ctx, cancel, ok := h.operationContext(c)
	if !ok {
		return
	}
	defer cancel()

	cmds, err := h.services.Navigator.GoToPose(ctx, *req.X, *req.Y, *req.AngleZ)
	if err != nil {
		h.navigationError(c, "robot_go_to_pose_failed", err)
		return
	}
	h.respondWithStatusAndState(c, statusArrived, gin.H{"commands": cmds})
}
