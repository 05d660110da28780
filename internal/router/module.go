package router

import "github.com/gin-gonic/gin"

// Module describes a feature module that can register its routes.
// Signup and login live at the root; everything else hangs off /api.
type Module interface {
	Register(root, api *gin.RouterGroup)
}
