package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"imageshare/internal/container"
	handlers "imageshare/internal/interface/http"
	"imageshare/internal/interface/middleware"
	"imageshare/pkg/helpers"
)

// ImageModule registers the image routes under /api.
// Public: GET /api/images, GET /api/images/search, GET /api/images/:id
// Protected: POST /api/upload, POST /api/images/:id/like, POST /api/images/:id/comment

type ImageModule struct {
	Handler *handlers.ImageHandler
	JWT     *helpers.JWTManager
}

func NewImageModule(h *handlers.ImageHandler, jwt *helpers.JWTManager) *ImageModule {
	return &ImageModule{Handler: h, JWT: jwt}
}

func (m *ImageModule) Register(_, api *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), nil)

	api.GET("/images", readLimiter, m.Handler.List)
	api.GET("/images/search", readLimiter, m.Handler.Search)
	api.GET("/images/:id", readLimiter, m.Handler.GetByID)

	auth := api.Group("/")
	auth.Use(middleware.Auth(m.JWT, container.GetLogger()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/upload", m.Handler.Upload)
		auth.POST("/images/:id/like", m.Handler.ToggleLike)
		auth.POST("/images/:id/comment", m.Handler.AddComment)
	}
}
