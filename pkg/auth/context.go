package auth

import (
	"context"
	"errors"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const operatorKey contextKey = "operator"

// ErrOperatorNotFound is returned when no operator exists in the request context.
// Handlers should return 401 when this error occurs.
var ErrOperatorNotFound = errors.New("operator not found in context")

// OperatorFromCtx returns the NAV ident of the logged-in operator.
func OperatorFromCtx(ctx context.Context) (string, error) {
	ident, ok := ctx.Value(operatorKey).(string)
	if !ok || ident == "" {
		return "", ErrOperatorNotFound
	}
	return ident, nil
}

// WithOperator returns a new context carrying the operator's NAV ident.
// Used by authentication middleware after validating the session.
func WithOperator(ctx context.Context, ident string) context.Context {
	return context.WithValue(ctx, operatorKey, ident)
}
