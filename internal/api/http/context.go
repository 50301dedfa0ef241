package http

import (
	"context"
	"errors"

	"hoteldesk-panel/internal/security"
)

type contextKey string

const operatorKey contextKey = "operator"

var errNoOperator = errors.New("operator is not provided in request context")

func withOperator(ctx context.Context, claims *security.OperatorClaims) context.Context {
	return context.WithValue(ctx, operatorKey, claims)
}

// OperatorFromContext returns the authenticated desk operator of the request.
func OperatorFromContext(ctx context.Context) (*security.OperatorClaims, error) {
	claims, ok := ctx.Value(operatorKey).(*security.OperatorClaims)
	if !ok || claims == nil {
		return nil, errNoOperator
	}
	return claims, nil
}
