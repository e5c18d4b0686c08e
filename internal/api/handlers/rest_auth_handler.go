package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LewF-Dev/local-help-platform/internal/models"
	"github.com/LewF-Dev/local-help-platform/internal/services"
)

// RestAuthHandler handles registration and login.
type RestAuthHandler struct {
	userService services.IUserService
}

func NewRestAuthHandler(userService services.IUserService) *RestAuthHandler {
	return &RestAuthHandler{userService: userService}
}

// Register handles POST /v1/auth/register
func (h *RestAuthHandler) Register(c *gin.Context) {
	var reg models.Registration
	if !bindJSON(c, &reg) {
		return
	}

	user, provider, err := h.userService.Register(c.Request.Context(), &reg)
	if err != nil {
		respondError(c, err, "Failed to register")
		return
	}

	resp := gin.H{"user": user}
	if provider != nil {
		resp["trade_profile"] = provider
	}
	c.JSON(http.StatusCreated, resp)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /v1/auth/login
func (h *RestAuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	session, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "Failed to sign in")
		return
	}
	c.JSON(http.StatusOK, session)
}
