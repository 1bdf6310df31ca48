package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rewardsuite/rms-backend/internal/middleware"
	"github.com/rewardsuite/rms-backend/internal/models"
	"github.com/rewardsuite/rms-backend/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func testTokens() *token.Service {
	return token.NewService(testSecret, 3600)
}

func protectedRouter(role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := []gin.HandlerFunc{middleware.JWTAuthMiddleware(testTokens())}
	if role != "" {
		handlers = append(handlers, middleware.RequireRole(role))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/protected", handlers...)
	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMissingHeader(t *testing.T) {
	router := protectedRouter("")
	w := doRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header is required")
}

func TestJWTAuthBadScheme(t *testing.T) {
	router := protectedRouter("")
	w := doRequest(router, "Basic abc123")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "must start with Bearer")
}

func TestJWTAuthInvalidToken(t *testing.T) {
	router := protectedRouter("")
	w := doRequest(router, "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestJWTAuthWrongSecret(t *testing.T) {
	forged, err := token.NewService("other-secret", 3600).Generate("abc", models.RoleAdmin, "a@b.c")
	require.NoError(t, err)

	router := protectedRouter("")
	w := doRequest(router, "Bearer "+forged)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	expired, err := token.NewService(testSecret, -60).Generate("abc", models.RoleAdmin, "a@b.c")
	require.NoError(t, err)

	router := protectedRouter("")
	w := doRequest(router, "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token has expired")
}

func TestJWTAuthSetsIdentityContext(t *testing.T) {
	signed, err := token.NewService(testSecret, 3600).Generate("abc123", models.RoleCustomer, "ada@example.com")
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", middleware.JWTAuthMiddleware(testTokens()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID":    c.GetString("userID"),
			"userEmail": c.GetString("userEmail"),
			"userRole":  c.GetString("userRole"),
		})
	})

	w := doRequest(router, "Bearer "+signed)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userID":"abc123"`)
	assert.Contains(t, w.Body.String(), `"userEmail":"ada@example.com"`)
	assert.Contains(t, w.Body.String(), `"userRole":"customer"`)
}

func TestRequireRole(t *testing.T) {
	adminToken, err := token.NewService(testSecret, 3600).Generate("abc", models.RoleAdmin, "a@b.c")
	require.NoError(t, err)
	customerToken, err := token.NewService(testSecret, 3600).Generate("def", models.RoleCustomer, "c@d.e")
	require.NoError(t, err)

	router := protectedRouter(models.RoleAdmin)

	w := doRequest(router, "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "Bearer "+customerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient permissions")
}
