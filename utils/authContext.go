package utils

import (
	"context"
)

type contextKey string

const (
	operatorIDKey   contextKey = "operatorID"
	operatorRoleKey contextKey = "operatorRole"
)

// WithOperator stores the authenticated operator on the context.
func WithOperator(ctx context.Context, operatorID uint, role string) context.Context {
	ctx = context.WithValue(ctx, operatorIDKey, operatorID)
	return context.WithValue(ctx, operatorRoleKey, role)
}

// OperatorFromContext returns the operator id set by the token middleware, if any.
func OperatorFromContext(ctx context.Context) (*uint, bool) {
	id, ok := ctx.Value(operatorIDKey).(uint)
	if !ok || id == 0 {
		return nil, false
	}
	return &id, true
}

func OperatorRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(operatorRoleKey).(string)
	return role, ok
}
