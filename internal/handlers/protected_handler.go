package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ProtectedHandler struct{}

func NewProtectedHandler() *ProtectedHandler {
	return &ProtectedHandler{}
}

// @Summary      Current session identity
// @Tags         Protected
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Router       /protected/me [get]
func (h *ProtectedHandler) Me(c *gin.Context) {
	userID, email := sessionUser(c)
	c.JSON(http.StatusOK, gin.H{
		"message": "Access granted",
		"user": gin.H{
			"userId": userID,
			"email":  email,
		},
	})
}
