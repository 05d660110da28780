package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"imageshare/internal/container"
	handlers "imageshare/internal/interface/http"
	"imageshare/internal/interface/middleware"
	"imageshare/pkg/helpers"
)

// UserModule registers the per-user image collections under /api/user.
// Protected: GET /api/user/my-images, GET /api/user/liked-images

type UserModule struct {
	Handler *handlers.ImageHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.ImageHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(_, api *gin.RouterGroup) {
	user := api.Group("/user")
	user.Use(middleware.Auth(m.JWT, container.GetLogger()))
	user.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		user.GET("/my-images", m.Handler.MyImages)
		user.GET("/liked-images", m.Handler.LikedImages)
	}
}
