package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sweeply/marketplace-be/internal/domain"
)

const principalKey = "auth.principal"

// SetPrincipal stores the authenticated principal on the request context.
func SetPrincipal(c *gin.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}

func mustPrincipal(c *gin.Context) (domain.Principal, bool) {
	p, ok := PrincipalFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	}
	return p, ok
}
