package server

import (
	"net/http"
	"strings"
	"time"

	"auction-market/internal/models"
	"auction-market/services/helpers"
	"auction-market/utils"

	"github.com/gin-gonic/gin"
)

// Authenticator resolves bearer tokens to users.
type Authenticator interface {
	Authenticate(token string) (models.User, error)
}

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// AuthMiddleware validates the Authorization bearer token and stores the
// resolved user (plus the raw token, for logout) on the request context.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthenticated")
			c.Abort()
			return
		}

		user, err := auth.Authenticate(token)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthenticated")
			c.Abort()
			return
		}

		c.Set(helpers.CurrentUserKey, user)
		c.Set(helpers.AccessTokenKey, token)
		c.Next()
	}
}
