package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TenantIDKey is the gin context key the resolved tenant id is stored under.
const TenantIDKey = "tenantID"

// TenantMiddleware resolves the tenant from the X-Tenant-ID header and aborts
// requests that carry none. Tenant routing beyond the header is owned by the
// gateway in front of this service.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader("X-Tenant-ID")
		if tenantID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing X-Tenant-ID header"})
			return
		}
		c.Set(TenantIDKey, tenantID)
		c.Next()
	}
}

// TenantID returns the tenant id resolved by TenantMiddleware.
func TenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}
