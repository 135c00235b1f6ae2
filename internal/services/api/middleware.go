package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fernweh-labs/tripdesk/internal/token"
)

const ctxUserID = "auth.user_id"

// RequireAuth rejects requests without a valid bearer token and stores
// the caller's id on the gin context.
func RequireAuth(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || raw == "" {
			Error(c, http.StatusUnauthorized, "authorization required")
			c.Abort()
			return
		}
		id, err := tokens.Verify(raw)
		if err != nil {
			Error(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ctxUserID, id)
		c.Next()
	}
}

// UserID returns the authenticated caller's id. Zero means the route
// was registered without RequireAuth, which is a wiring bug.
func UserID(c *gin.Context) int64 {
	v, _ := c.Get(ctxUserID)
	id, _ := v.(int64)
	return id
}

// RequestLogger logs one line per request in the access-log shape the
// rest of the services use.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered", zap.Any("panic", r))
				Error(c, http.StatusInternalServerError, "internal error")
				c.Abort()
			}
		}()
		c.Next()
	}
}
