package order

import (
	"context"

	"github.com/google/uuid"
)

type contextKey int

const (
	tenantIDKey contextKey = iota
	orderIDKey
)

// WithValidationContext enriches the context with tenantID and orderID for validators that need DB access.
func WithValidationContext(ctx context.Context, tenantID, orderID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, tenantIDKey, tenantID)
	ctx = context.WithValue(ctx, orderIDKey, orderID)
	return ctx
}

// TenantIDFromContext extracts the tenant ID set by WithValidationContext.
func TenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(tenantIDKey).(uuid.UUID)
	return v, ok
}

// OrderIDFromContext extracts the order ID set by WithValidationContext.
func OrderIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	v, ok := ctx.Value(orderIDKey).(uuid.UUID)
	return v, ok
}
