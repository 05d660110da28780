package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"imageshare/config"
	"imageshare/internal/application"
	"imageshare/pkg/helpers"
	"imageshare/pkg/mailer"
	tpl "imageshare/pkg/mailer/templates"
	"imageshare/pkg/response"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewAuthHandler(svc *application.AuthService, pub *helpers.RabbitPublisher, logger *logrus.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Svc: svc, Pub: pub, Logger: logger, Cfg: cfg}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register POST /user
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	res, err := h.Svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrMissingFields),
			errors.Is(err, application.ErrInvalidEmail),
			errors.Is(err, application.ErrPasswordTooShort):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, application.ErrEmailTaken):
			response.Error(c, http.StatusConflict, err.Error())
		default:
			h.Logger.WithError(err).Error("register failed")
			response.Error(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.sendWelcomeEmail(c, req.Name, res.Email)
	c.JSON(http.StatusCreated, gin.H{"email": res.Email, "token": res.Token})
}

// Login POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload")
		return
	}

	token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrMissingCredentials):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, application.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, err.Error())
		default:
			h.Logger.WithError(err).Error("login failed")
			response.Error(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// sendWelcomeEmail enqueues the post-registration email. Best effort:
// a missing publisher or a publish failure never fails the request.
func (h *AuthHandler) sendWelcomeEmail(c *gin.Context, name, email string) {
	if h.Pub == nil || h.Cfg == nil || !h.Cfg.MailSendEnabled {
		return
	}
	job := mailer.EmailJob{To: email, Template: tpl.Welcome, Data: map[string]any{"Name": name}}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil && h.Logger != nil {
		h.Logger.WithError(err).Warn("failed to enqueue welcome email")
	}
}
