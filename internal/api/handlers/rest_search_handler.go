package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LewF-Dev/local-help-platform/internal/services"
)

// RestSearchHandler serves provider search.
type RestSearchHandler struct {
	searchService services.ISearchService
}

func NewRestSearchHandler(searchService services.ISearchService) *RestSearchHandler {
	return &RestSearchHandler{searchService: searchService}
}

// Search handles GET /v1/search?postcode=&category=
func (h *RestSearchHandler) Search(c *gin.Context) {
	results, err := h.searchService.Search(c.Request.Context(), c.Query("postcode"), c.Query("category"))
	if err != nil {
		respondError(c, err, "Failed to search trades")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  results,
		"count": len(results),
	})
}
