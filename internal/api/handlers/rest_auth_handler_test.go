package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/LewF-Dev/local-help-platform/internal/api/handlers"
	"github.com/LewF-Dev/local-help-platform/internal/models"
	"github.com/LewF-Dev/local-help-platform/internal/services"
)

func authRouter() (*MockUserService, *testRouter) {
	users := new(MockUserService)
	h := handlers.NewRestAuthHandler(users)
	r := newEngine(anonymous)
	r.POST("/v1/auth/register", h.Register)
	r.POST("/v1/auth/login", h.Login)
	return users, &testRouter{r}
}

func TestRestAuthHandler_RegisterTrade(t *testing.T) {
	users, r := authRouter()
	users.On("Register", mock.Anything, mock.MatchedBy(func(reg *models.Registration) bool {
		return reg.Role == models.RoleTrade && reg.Profile != nil && reg.Profile.BusinessName == "Pipe Pros"
	})).Return(
		&models.User{Email: "pro@example.com", Role: models.RoleTrade},
		&models.Provider{BusinessName: "Pipe Pros", Active: true},
		nil,
	)

	w := r.do("POST", "/v1/auth/register", map[string]interface{}{
		"email":    "pro@example.com",
		"password": "long-enough",
		"name":     "Pat Pro",
		"role":     "TRADE",
		"trade_profile": map[string]interface{}{
			"business_name":  "Pipe Pros",
			"category":       "PLUMBER",
			"description":    "Family plumbing business since 1990",
			"postcode":       "SW1A 1AA",
			"service_radius": 10,
		},
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Contains(t, body, "user")
	assert.Contains(t, body, "trade_profile")
	users.AssertExpectations(t)
}

func TestRestAuthHandler_RegisterClientHasNoProfile(t *testing.T) {
	users, r := authRouter()
	users.On("Register", mock.Anything, mock.Anything).Return(&models.User{Email: "c@example.com"}, nil, nil)

	w := r.do("POST", "/v1/auth/register", map[string]string{"email": "c@example.com", "password": "long-enough", "name": "Cee", "role": "CLIENT"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, decode(t, w), "trade_profile")
}

func TestRestAuthHandler_RegisterDuplicateEmail(t *testing.T) {
	users, r := authRouter()
	users.On("Register", mock.Anything, mock.Anything).Return(nil, nil, services.ErrEmailExists)

	w := r.do("POST", "/v1/auth/register", map[string]string{"email": "dup@example.com"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already registered", decode(t, w)["error"])
}

func TestRestAuthHandler_Login(t *testing.T) {
	users, r := authRouter()
	users.On("Authenticate", mock.Anything, "pro@example.com", "long-enough").
		Return(&services.Session{Token: "jwt", ProviderID: "prov-1"}, nil)
	users.On("Authenticate", mock.Anything, "pro@example.com", "wrong").
		Return(nil, services.ErrInvalidCredentials)

	w := r.do("POST", "/v1/auth/login", map[string]string{"email": "pro@example.com", "password": "long-enough"})
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "jwt", body["token"])
	assert.Equal(t, "prov-1", body["provider_id"])

	w = r.do("POST", "/v1/auth/login", map[string]string{"email": "pro@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
