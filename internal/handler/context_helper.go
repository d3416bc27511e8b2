package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/docsched/clinic-booking-api/internal/middleware"
	"github.com/docsched/clinic-booking-api/internal/models"
)

// claimsFromContext reads the claims the JWT middleware stashed for this
// request, or nil when the route was reached unauthenticated.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}
