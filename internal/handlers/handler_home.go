package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tokokita/ecommerce_backend/internal/dto"
)

// homeHandler serves the welcome endpoint.
type homeHandler struct {
	appName string
}

// getHome godoc
// @Summary Welcome message
// @Description Returns the welcome message for the API.
// @Tags root
// @Produce json
// @Success 200 {object} dto.Response
// @Router / [get]
func (h *homeHandler) getHome(c *gin.Context) {
	respond(c, http.StatusOK, dto.CodeSuccess, gin.H{"message": "Welcome to " + h.appName + " API"})
}

// registerHomeRoutes registers the welcome route on the API group.
func registerHomeRoutes(group *gin.RouterGroup, appName string) {
	h := &homeHandler{appName: appName}
	group.GET("", h.getHome)
}
