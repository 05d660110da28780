package response

import (
	"github.com/gin-gonic/gin"
)

// Error writes the flat error body used across the API. Internal causes
// are logged by callers, never returned to the client.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// AbortError writes the error body and stops the handler chain; used by
// middleware.
func AbortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// Paginated is the envelope shared by every listing endpoint.
type Paginated[T any] struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	Data       []T `json:"data"`
}
