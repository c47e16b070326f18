package handlers

import (
	"net/http"
	"strings"

	"cube_navigator/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	identityKey = "identity"

	// Browsers cannot set headers on a WebSocket upgrade, so /ws also
	// accepts the token as a query parameter.
	accessTokenParam = "access_token"
)

// identityMiddleware resolves the bearer token into a models.Identity and
// stores it on the gin context.
func (h *Handler) identityMiddleware(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed bearer token"})
		return
	}

	id, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Debugw("auth_token_rejected", "path", c.FullPath(), "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	c.Set(identityKey, id)
	c.Next()
}

// requireOperator lets only operators through. It must run after
// identityMiddleware.
func (h *Handler) requireOperator(c *gin.Context) {
	if id, ok := identityFrom(c); !ok || !id.CanOperate() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "operator role required"})
		return
	}
	c.Next()
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		t := c.Query(accessTokenParam)
		return t, t != ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || token == "" {
		return "", false
	}
	return token, true
}

func identityFrom(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}
