package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/LewF-Dev/local-help-platform/internal/api/middleware"
	"github.com/LewF-Dev/local-help-platform/internal/models"
)

type caller struct {
	userID     string
	role       models.Role
	providerID string
}

var (
	anonymous  = caller{}
	tradeUser  = caller{userID: "user-trade", role: models.RoleTrade, providerID: "prov-1"}
	clientUser = caller{userID: "user-client", role: models.RoleClient}
)

// asCaller stands in for AuthMiddleware.
func asCaller(who caller) gin.HandlerFunc {
	return func(c *gin.Context) {
		if who.userID != "" {
			c.Set(middleware.ContextKeyUserID, who.userID)
			c.Set(middleware.ContextKeyRole, who.role)
			c.Set(middleware.ContextKeyProviderID, who.providerID)
			c.Set(middleware.ContextKeyIsAdmin, who.role == models.RoleAdmin)
		}
		c.Next()
	}
}

func newEngine(who caller) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asCaller(who))
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

type testRouter struct {
	*gin.Engine
}

func (r *testRouter) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	return doJSON(r.Engine, method, path, body)
}
