package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/gracebti/admissions-api/internal/models"
	appErrors "github.com/gracebti/admissions-api/pkg/errors"
	"github.com/gracebti/admissions-api/pkg/response"
)

// ContextAdminKey is the gin context key storing validated admin claims.
const ContextAdminKey = "currentAdmin"

// AdminJWT protects admin routes by validating the hosted auth provider's
// HS256 access tokens. This API never issues tokens itself.
func AdminJWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims := &models.AdminClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(ContextAdminKey, claims)
		c.Next()
	}
}

// AdminFromContext returns the validated claims attached by AdminJWT.
func AdminFromContext(c *gin.Context) *models.AdminClaims {
	if v, exists := c.Get(ContextAdminKey); exists {
		if claims, ok := v.(*models.AdminClaims); ok {
			return claims
		}
	}
	return nil
}
