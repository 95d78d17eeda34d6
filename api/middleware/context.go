package middleware

import (
	"context"

	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID        contextKey = "user_id"
	ctxCustomerClass contextKey = "customer_class"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func CustomerClassFromContext(ctx context.Context) enums.CustomerClass {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxCustomerClass).(enums.CustomerClass); ok {
		return v
	}
	return ""
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithCustomerClass injects the caller's customer class into the context.
func WithCustomerClass(ctx context.Context, class enums.CustomerClass) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCustomerClass, class)
}
