package auth

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"
)

// ErrUnauthorized is the error surfaced when a caller touches another
// user's record.
var ErrUnauthorized = errors.New("Unauthorized")

// RequireAuth extracts user claims from context or returns an unauthenticated error
func RequireAuth(ctx context.Context) (*UserClaims, error) {
	claims, ok := GetUserClaims(ctx)
	if !ok || claims.UID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("user not authenticated"))
	}
	return claims, nil
}

// RequireOwnership returns PermissionDenied unless the authenticated user
// owns the record.
func RequireOwnership(claims *UserClaims, ownerID string) error {
	if claims == nil || ownerID != claims.UID {
		return connect.NewError(connect.CodePermissionDenied, ErrUnauthorized)
	}
	return nil
}

// WrapStoreError wraps store errors with operation context
func WrapStoreError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return connect.NewError(connect.CodeInternal, fmt.Errorf("failed to %s: %w", operation, err))
}
