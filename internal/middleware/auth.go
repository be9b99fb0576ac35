package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adjamedev/transport-marketplace/internal/auth"
)

const companyIDKey = "company_id"

// RequireCompany ensures a valid company token is present and stores the
// acting company id in the request context.
func RequireCompany(service *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := service.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentification requise"})
			return
		}

		claims, err := service.ValidateToken(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Session expirée, reconnectez-vous"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Jeton invalide"})
			return
		}

		c.Set(companyIDKey, claims.CompanyID)
		c.Next()
	}
}

// CompanyID returns the authenticated company id stored by RequireCompany.
func CompanyID(c *gin.Context) (string, bool) {
	v, ok := c.Get(companyIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
