package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LewF-Dev/local-help-platform/internal/services"
)

// RestAdminHandler serves the administrator's trade management endpoints.
type RestAdminHandler struct {
	providerService services.IProviderService
}

func NewRestAdminHandler(providerService services.IProviderService) *RestAdminHandler {
	return &RestAdminHandler{providerService: providerService}
}

// ListTrades handles GET /v1/admin/trades
func (h *RestAdminHandler) ListTrades(c *gin.Context) {
	views, err := h.providerService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list trades")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

func (h *RestAdminHandler) setVerified(c *gin.Context, verified bool) {
	provider, err := h.providerService.SetVerified(c.Request.Context(), c.Param("id"), verified)
	if err != nil {
		respondError(c, err, "Failed to update verification")
		return
	}
	c.JSON(http.StatusOK, provider)
}

// Verify handles POST /v1/admin/trades/:id/verify
func (h *RestAdminHandler) Verify(c *gin.Context) { h.setVerified(c, true) }

// Unverify handles DELETE /v1/admin/trades/:id/verify
func (h *RestAdminHandler) Unverify(c *gin.Context) { h.setVerified(c, false) }
