//go:build integration

package repositories

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/brewlog-io/brewlog/pkg/models"
	"github.com/brewlog-io/brewlog/pkg/testhelpers"
)

var userSeq atomic.Int64

// setupRepoTest returns a context scoped to one pooled connection against
// the shared migrated test database.
func setupRepoTest(t *testing.T) context.Context {
	t.Helper()
	db := testhelpers.GetBrewlogDB(t)
	return testhelpers.ScopedContext(t, db.DB)
}

// createTestUser inserts a fresh account and returns its id. Each call
// gets a unique email so tests sharing the container stay independent.
func createTestUser(t *testing.T, ctx context.Context) int64 {
	t.Helper()

	n := userSeq.Add(1)
	user := &models.User{
		Email:        fmt.Sprintf("user-%s-%d@test.local", t.Name(), n),
		Name:         "Test User",
		PasswordHash: "x",
	}
	if err := NewUserRepository().Create(ctx, user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user.ID
}
