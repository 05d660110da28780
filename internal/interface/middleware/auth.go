package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"imageshare/pkg/helpers"
	"imageshare/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
)

const bearerPrefix = "Bearer "

// Auth verifies the Authorization bearer token and injects the caller's
// identity into the Gin context. Expired and invalid tokens both come
// back as 401; only the server logs tell them apart. The guard never
// touches the stores.
func Auth(jwt *helpers.JWTManager, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			response.AbortError(c, http.StatusUnauthorized, "authentication token missing or malformed")
			return
		}

		claims, err := jwt.Parse(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			switch {
			case errors.Is(err, helpers.ErrTokenExpired):
				if logger != nil {
					logger.WithField("request_id", c.GetString("request_id")).Debug("rejected expired token")
				}
				response.AbortError(c, http.StatusUnauthorized, "token expired")
			case errors.Is(err, helpers.ErrTokenInvalid):
				response.AbortError(c, http.StatusUnauthorized, "invalid token")
			default:
				if logger != nil {
					logger.WithError(err).Error("token verification failed")
				}
				response.AbortError(c, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserEmailKey, claims.Email)
		c.Next()
	}
}
