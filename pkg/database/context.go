package database

import "context"

type contextKey string

const (
	// ScopeKey is the context key for the request-scoped database connection.
	ScopeKey contextKey = "requestScope"
)

// GetScope retrieves the request-scoped database connection from context.
// Returns nil and false if not present.
func GetScope(ctx context.Context) (*RequestScope, bool) {
	scope, ok := ctx.Value(ScopeKey).(*RequestScope)
	return scope, ok
}

// SetScope stores the request-scoped database connection in context.
func SetScope(ctx context.Context, scope *RequestScope) context.Context {
	return context.WithValue(ctx, ScopeKey, scope)
}
