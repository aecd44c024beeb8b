package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gracebti/admissions-api/internal/models"
)

const testSecret = "unit-test-secret"

func signedToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := models.AdminClaims{
		Email: "admin@example.com",
		Role:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func adminTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin/ping", AdminJWT(testSecret), func(c *gin.Context) {
		claims := AdminFromContext(c)
		c.JSON(http.StatusOK, gin.H{"email": claims.Email})
	})
	return router
}

func TestAdminJWTAcceptsValidToken(t *testing.T) {
	router := adminTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, testSecret, time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin@example.com")
}

func TestAdminJWTRejectsMissingHeader(t *testing.T) {
	router := adminTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminJWTRejectsWrongSecret(t *testing.T) {
	router := adminTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, "other-secret", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminJWTRejectsExpiredToken(t *testing.T) {
	router := adminTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, testSecret, time.Now().Add(-time.Hour)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
