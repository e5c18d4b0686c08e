package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LewF-Dev/local-help-platform/internal/services"
)

// RestProviderHandler serves public trade profiles.
type RestProviderHandler struct {
	providerService services.IProviderService
}

func NewRestProviderHandler(providerService services.IProviderService) *RestProviderHandler {
	return &RestProviderHandler{providerService: providerService}
}

// GetProvider handles GET /v1/providers/:id
func (h *RestProviderHandler) GetProvider(c *gin.Context) {
	view, err := h.providerService.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve trade")
		return
	}
	c.JSON(http.StatusOK, view)
}
