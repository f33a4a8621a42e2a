package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stayops/backend/internal/infrastructure/logger"
	"github.com/stayops/backend/internal/interfaces/http/dto"
)

const (
	// TenantIDKey is the gin context key for the tenant ID
	TenantIDKey = "tenant_id"
	// TenantHeaderKey is the HTTP header carrying the tenant ID
	TenantHeaderKey = "X-Tenant-ID"
)

// DefaultTenantID is the fallback tenant for unauthenticated development
// traffic. Production deployments should run with Required set.
var DefaultTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// TenantConfig holds tenant middleware configuration
type TenantConfig struct {
	// Required rejects requests without a tenant header instead of
	// falling back to DefaultTenantID
	Required bool
	// SkipPaths are paths served without tenant context
	SkipPaths []string
	Logger    *zap.Logger
}

// DefaultTenantConfig returns the default tenant middleware configuration
func DefaultTenantConfig() TenantConfig {
	return TenantConfig{
		Required:  false,
		SkipPaths: []string{"/health", "/healthz", "/ready"},
	}
}

// Tenant extracts the tenant ID from the X-Tenant-ID header and places it
// in both the gin context and the request context.
func Tenant() gin.HandlerFunc {
	return TenantWithConfig(DefaultTenantConfig())
}

// TenantWithConfig returns tenant middleware with custom configuration
func TenantWithConfig(cfg TenantConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip || strings.HasPrefix(path, skip+"/") {
				c.Next()
				return
			}
		}

		header := c.GetHeader(TenantHeaderKey)
		var tenantID uuid.UUID
		switch {
		case header != "":
			parsed, err := uuid.Parse(header)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Invalid tenant ID format"))
				return
			}
			tenantID = parsed
		case cfg.Required:
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Tenant identification required"))
			return
		default:
			tenantID = DefaultTenantID
		}

		c.Set(TenantIDKey, tenantID.String())

		ctx := c.Request.Context()
		ctx, log := logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID.String())
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			log.Debug("Tenant identified", zap.String("tenant_id", tenantID.String()))
		}

		c.Next()
	}
}

// GetTenantID returns the tenant ID set by the middleware, falling back to
// the development default when the middleware did not run.
func GetTenantID(c *gin.Context) (uuid.UUID, error) {
	if id := c.GetString(TenantIDKey); id != "" {
		return uuid.Parse(id)
	}
	if header := c.GetHeader(TenantHeaderKey); header != "" {
		return uuid.Parse(header)
	}
	return DefaultTenantID, nil
}
