package middleware

import "github.com/gin-gonic/gin"

const (
	// HeaderTenantID carries the tenant on every API request.
	HeaderTenantID = "x-tenant-id"
	CtxTenantID    = "tenantID"
)

// TenantContext extracts the tenant id from the request header, falling back
// to the configured default. Handlers read it with TenantID(c) and thread it
// through every service call.
func TenantContext(defaultTenantID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader(HeaderTenantID)
		if tenantID == "" {
			tenantID = defaultTenantID
		}
		c.Set(CtxTenantID, tenantID)
		c.Next()
	}
}

// TenantID returns the tenant id injected by TenantContext.
func TenantID(c *gin.Context) string {
	return c.GetString(CtxTenantID)
}
