package router

import (
	"imageshare/internal/application"
	"imageshare/internal/container"
	"imageshare/internal/domain/repository"
	pginfra "imageshare/internal/infrastructure/postgres"
	handlers "imageshare/internal/interface/http"
	"imageshare/internal/router/modules"
)

type Deps struct {
	Users        repository.UserRepository
	Images       repository.ImageRepository
	AuthService  *application.AuthService
	ImageService *application.ImageService
	AuthHandler  *handlers.AuthHandler
	ImageHandler *handlers.ImageHandler
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	images := pginfra.NewImageRepository(pool)

	authSvc := application.NewAuthService(users, container.GetJWT(), cfg.BcryptCost, logger)
	imageSvc := application.NewImageService(images, container.GetStore(), logger, container.GetES(), cfg.ESImagesIndex)

	return Deps{
		Users:        users,
		Images:       images,
		AuthService:  authSvc,
		ImageService: imageSvc,
		AuthHandler:  handlers.NewAuthHandler(authSvc, container.GetRabbitPub(), logger, cfg),
		ImageHandler: handlers.NewImageHandler(imageSvc, logger),
	}
}

// InitModules builds the application modules and registers them with the
// router registry. Called once during startup.
func InitModules(r *Registry) {
	deps := buildDeps()
	jwt := container.GetJWT()

	r.Add(modules.NewAuthModule(deps.AuthHandler))
	r.Add(modules.NewImageModule(deps.ImageHandler, jwt))
	r.Add(modules.NewUserModule(deps.ImageHandler, jwt))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
