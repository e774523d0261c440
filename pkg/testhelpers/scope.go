package testhelpers

import (
	"context"
	"testing"

	"github.com/brewlog-io/brewlog/pkg/database"
)

// ScopedContext returns a context carrying a request-scoped database
// connection, the way the scope middleware prepares one per request.
// The connection is released when the test finishes.
func ScopedContext(t *testing.T, db *database.DB) context.Context {
	t.Helper()

	scope, err := db.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Failed to acquire request scope: %v", err)
	}
	t.Cleanup(scope.Close)

	return database.SetScope(context.Background(), scope)
}
