package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"imageshare/internal/container"
	handlers "imageshare/internal/interface/http"
	"imageshare/internal/interface/middleware"
)

// AuthModule wires signup and login onto the root of the server.
// Public: POST /user, POST /login

type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(root, _ *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil) // 10 req/min per IP
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)

	root.POST("/user", registerLimiter, m.Handler.Register)
	root.POST("/login", loginLimiter, m.Handler.Login)
}
