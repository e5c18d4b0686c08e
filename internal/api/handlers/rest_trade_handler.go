package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LewF-Dev/local-help-platform/internal/api/middleware"
	"github.com/LewF-Dev/local-help-platform/internal/models"
	"github.com/LewF-Dev/local-help-platform/internal/services"
)

// RestTradeHandler serves the signed-in trade's own profile, subscription and photo.
type RestTradeHandler struct {
	providerService     services.IProviderService
	subscriptionService services.ISubscriptionService
}

func NewRestTradeHandler(providerService services.IProviderService, subscriptionService services.ISubscriptionService) *RestTradeHandler {
	return &RestTradeHandler{
		providerService:     providerService,
		subscriptionService: subscriptionService,
	}
}

// ownProviderID prefers the token's provider claim and falls back to a lookup
// by user for tokens issued before the profile existed.
func (h *RestTradeHandler) ownProviderID(c *gin.Context) (string, bool) {
	if id := middleware.CurrentProviderID(c); id != "" {
		return id, true
	}
	view, err := h.providerService.GetByUser(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err, "Failed to retrieve trade profile")
		return "", false
	}
	return view.ID, true
}

// GetProfile handles GET /v1/trades/profile
func (h *RestTradeHandler) GetProfile(c *gin.Context) {
	view, err := h.providerService.GetByUser(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err, "Failed to retrieve trade profile")
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateProfile handles PATCH /v1/trades/profile
func (h *RestTradeHandler) UpdateProfile(c *gin.Context) {
	var upd models.ProviderUpdate
	if !bindJSON(c, &upd) {
		return
	}
	provider, err := h.providerService.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), &upd)
	if err != nil {
		respondError(c, err, "Failed to update trade profile")
		return
	}
	c.JSON(http.StatusOK, provider)
}

// ActivateSubscription handles POST /v1/trades/subscription
func (h *RestTradeHandler) ActivateSubscription(c *gin.Context) {
	providerID, ok := h.ownProviderID(c)
	if !ok {
		return
	}
	provider, err := h.subscriptionService.Activate(c.Request.Context(), providerID)
	if err != nil {
		respondError(c, err, "Failed to activate subscription")
		return
	}
	c.JSON(http.StatusOK, provider)
}

// CancelSubscription handles DELETE /v1/trades/subscription
func (h *RestTradeHandler) CancelSubscription(c *gin.Context) {
	providerID, ok := h.ownProviderID(c)
	if !ok {
		return
	}
	provider, err := h.subscriptionService.Cancel(c.Request.Context(), providerID)
	if err != nil {
		respondError(c, err, "Failed to cancel subscription")
		return
	}
	c.JSON(http.StatusOK, provider)
}

type photoUploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// RequestPhotoUpload handles POST /v1/trades/profile/photo
func (h *RestTradeHandler) RequestPhotoUpload(c *gin.Context) {
	var req photoUploadRequest
	if !bindJSON(c, &req) {
		return
	}
	upload, err := h.providerService.RequestPhotoUpload(c.Request.Context(), middleware.CurrentUserID(c), req.Filename, req.ContentType)
	if err != nil {
		respondError(c, err, "Failed to prepare photo upload")
		return
	}
	c.JSON(http.StatusOK, upload)
}

type photoConfirmRequest struct {
	Key string `json:"key"`
}

// ConfirmPhoto handles PUT /v1/trades/profile/photo. Resizing happens in the
// background, so the response is 202.
func (h *RestTradeHandler) ConfirmPhoto(c *gin.Context) {
	var req photoConfirmRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.providerService.ConfirmPhoto(c.Request.Context(), middleware.CurrentUserID(c), req.Key); err != nil {
		respondError(c, err, "Failed to confirm photo")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"key": req.Key})
}
