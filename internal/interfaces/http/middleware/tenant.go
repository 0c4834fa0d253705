package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/erp/receivables/internal/interfaces/http/dto"
)

// Context keys and headers for tenant and actor identification
const (
	TenantIDKey     = "tenant_id"
	UserIDKey       = "user_id"
	TenantHeaderKey = "X-Tenant-ID"
	UserHeaderKey   = "X-User-ID"
)

// DefaultDevTenantID is used when no tenant header is present and the
// middleware is configured as non-required, keeping local development and
// single-tenant deployments working without extra headers.
var DefaultDevTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// TenantConfig holds configuration for the tenant middleware
type TenantConfig struct {
	// Required rejects requests without a valid tenant header
	Required bool
	// SkipPaths are paths served without tenant context
	SkipPaths []string
}

// DefaultTenantConfig returns the default tenant middleware configuration
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{
		Required:  false,
		SkipPaths: []string{"/health", "/healthz", "/ready"},
	}
}

// Tenant extracts the tenant ID from the X-Tenant-ID header and stores it in
// the request context. The actor ID from X-User-ID is stored when present.
func Tenant() gin.HandlerFunc {
	return TenantWithConfig(DefaultTenantConfig())
}

// TenantWithConfig returns tenant middleware with custom configuration
func TenantWithConfig(cfg TenantConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		raw := c.GetHeader(TenantHeaderKey)
		if raw == "" {
			if cfg.Required {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Tenant ID is required"))
				return
			}
			c.Set(TenantIDKey, DefaultDevTenantID)
		} else {
			tenantID, err := uuid.Parse(raw)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest,
					dto.NewErrorResponse(dto.ErrCodeBadRequest, "Tenant ID is not a valid UUID"))
				return
			}
			c.Set(TenantIDKey, tenantID)
		}

		if rawUser := c.GetHeader(UserHeaderKey); rawUser != "" {
			if userID, err := uuid.Parse(rawUser); err == nil {
				c.Set(UserIDKey, userID)
			}
		}

		c.Next()
	}
}

// GetTenantID returns the tenant ID stored by the tenant middleware
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(TenantIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetUserID returns the acting user ID, or uuid.Nil when anonymous
func GetUserID(c *gin.Context) uuid.UUID {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return uuid.Nil
	}
	if id, ok := v.(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
