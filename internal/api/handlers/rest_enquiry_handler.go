package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LewF-Dev/local-help-platform/internal/api/middleware"
	"github.com/LewF-Dev/local-help-platform/internal/models"
	"github.com/LewF-Dev/local-help-platform/internal/services"
)

// RestEnquiryHandler handles enquiry submission, listing and responses.
type RestEnquiryHandler struct {
	enquiryService  services.IEnquiryService
	providerService services.IProviderService
}

func NewRestEnquiryHandler(enquiryService services.IEnquiryService, providerService services.IProviderService) *RestEnquiryHandler {
	return &RestEnquiryHandler{
		enquiryService:  enquiryService,
		providerService: providerService,
	}
}

type submitEnquiryRequest struct {
	ProviderID string `json:"provider_id"`
	models.EnquiryRequest
}

// Submit handles POST /v1/enquiries
func (h *RestEnquiryHandler) Submit(c *gin.Context) {
	var req submitEnquiryRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.ProviderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider_id is required", "field": "provider_id"})
		return
	}

	enquiry, err := h.enquiryService.SubmitEnquiry(c.Request.Context(), middleware.CurrentUserID(c), req.ProviderID, &req.EnquiryRequest)
	if err != nil {
		respondError(c, err, "Failed to submit enquiry")
		return
	}
	c.JSON(http.StatusCreated, enquiry)
}

// List handles GET /v1/enquiries. Trades see what they received, everyone
// else what they sent.
func (h *RestEnquiryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		list []models.Enquiry
		err  error
	)
	if middleware.CurrentRole(c) == models.RoleTrade {
		providerID := middleware.CurrentProviderID(c)
		if providerID == "" {
			view, lookupErr := h.providerService.GetByUser(ctx, middleware.CurrentUserID(c))
			if lookupErr != nil {
				respondError(c, lookupErr, "Failed to list enquiries")
				return
			}
			providerID = view.ID
		}
		list, err = h.enquiryService.ListForProvider(ctx, providerID)
	} else {
		list, err = h.enquiryService.ListForClient(ctx, middleware.CurrentUserID(c))
	}
	if err != nil {
		respondError(c, err, "Failed to list enquiries")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /v1/enquiries/:id
func (h *RestEnquiryHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	providerID := middleware.CurrentProviderID(c)
	if providerID == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this resource"})
		return
	}

	enquiry, err := h.enquiryService.UpdateEnquiryStatus(c.Request.Context(), c.Param("id"), req.Status, providerID)
	if err != nil {
		respondError(c, err, "Failed to update enquiry")
		return
	}
	c.JSON(http.StatusOK, enquiry)
}
