package middleware

import (
	"context"
	"net/http"

	"dinepos/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SubscriptionAuthorizer decides whether a tenant may use tenant-scoped
// endpoints. The subscription service implements it.
type SubscriptionAuthorizer interface {
	Authorize(ctx context.Context, tenantID uuid.UUID) error
}

// Subscription rejects requests whose tenant has no usable subscription. It
// runs after Identity, so the tenant is already in the request context.
func Subscription(authz SubscriptionAuthorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			tenantID, ok := common.GetTenantIDFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "tenant not resolved")
			}
			if err := authz.Authorize(ctx, tenantID); err != nil {
				return common.RespondError(c, err)
			}
			return next(c)
		}
	}
}
