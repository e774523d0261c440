package auth

import (
	"context"
	"fmt"
)

// GetUserID extracts the account id from JWT claims in the context.
// Returns 0 and false if not authenticated.
func GetUserID(ctx context.Context) (int64, bool) {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil || claims.UserID == 0 {
		return 0, false
	}
	return claims.UserID, true
}

// RequireUserID extracts the account id from context and returns an error
// if not found. Use this when the operation must be owner-scoped.
func RequireUserID(ctx context.Context) (int64, error) {
	userID, ok := GetUserID(ctx)
	if !ok {
		return 0, fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}
