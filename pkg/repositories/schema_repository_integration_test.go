//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewlog-io/brewlog/pkg/models"
)

func validSchema(ownerID int64, name string, def bool, fields ...models.SchemaField) *models.ValidatedSchema {
	if len(fields) == 0 {
		fields = []models.SchemaField{
			{Name: "grind_size", DisplayName: "Grind size", Type: models.FieldTypeString},
		}
	}
	return &models.ValidatedSchema{
		UserID:  ownerID,
		Name:    name,
		Default: def,
		Fields:  fields,
	}
}

func listDefaults(t *testing.T, ctx context.Context, repo SchemaRepository, ownerID int64) []*models.Schema {
	t.Helper()
	def := true
	schemas, _, err := repo.List(ctx, ownerID, models.SchemaFilter{Default: &def}, models.Page{Limit: 100})
	require.NoError(t, err)
	return schemas
}

func TestSchemaRepository_Create_SoleDefault(t *testing.T) {
	ctx := setupRepoTest(t)
	ownerID := createTestUser(t, ctx)
	repo := NewSchemaRepository()

	firstID, err := repo.Create(ctx, validSchema(ownerID, "first", true))
	require.NoError(t, err)

	secondID, err := repo.Create(ctx, validSchema(ownerID, "second", true))
	require.NoError(t, err)

	defaults := listDefaults(t, ctx, repo, ownerID)
	require.Len(t, defaults, 1, "at most one default schema per owner")
	assert.Equal(t, secondID, defaults[0].ID)
	assert.NotEqual(t, firstID, defaults[0].ID)
}

func TestSchemaRepository_Create_ReusesFieldDefinitions(t *testing.T) {
	ctx := setupRepoTest(t)
	ownerID := createTestUser(t, ctx)
	repo := NewSchemaRepository()

	shared := models.SchemaField{Name: "water_temp_c", DisplayName: "Water temperature", Type: models.FieldTypeDouble}

	aID, err := repo.Create(ctx, validSchema(ownerID, "a", false, shared))
	require.NoError(t, err)
	bID, err := repo.Create(ctx, validSchema(ownerID, "b", false, shared))
	require.NoError(t, err)

	schemas, _, err := repo.List(ctx, ownerID, models.SchemaFilter{}, models.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, schemas, 2)

	byID := map[int64]*models.Schema{}
	for _, s := range schemas {
		byID[s.ID] = s
	}
	require.Len(t, byID[aID].Fields, 1)
	require.Len(t, byID[bID].Fields, 1)
	assert.Equal(t, byID[aID].Fields[0].FieldID, byID[bID].Fields[0].FieldID,
		"same owner, name and type must reuse one field definition")
}

func TestSchemaRepository_Update_PromoteClearsSiblings(t *testing.T) {
	ctx := setupRepoTest(t)
	ownerID := createTestUser(t, ctx)
	repo := NewSchemaRepository()

	_, err := repo.Create(ctx, validSchema(ownerID, "old_default", true))
	require.NoError(t, err)
	otherID, err := repo.Create(ctx, validSchema(ownerID, "challenger", false))
	require.NoError(t, err)

	def := true
	affected, err := repo.Update(ctx, otherID, ownerID, &models.SchemaUpdate{Default: &def})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	defaults := listDefaults(t, ctx, repo, ownerID)
	require.Len(t, defaults, 1)
	assert.Equal(t, otherID, defaults[0].ID)
}

func TestSchemaRepository_Update_ZeroRowsLeavesDefaultsAlone(t *testing.T) {
	ctx := setupRepoTest(t)
	ownerID := createTestUser(t, ctx)
	repo := NewSchemaRepository()

	keptID, err := repo.Create(ctx, validSchema(ownerID, "kept_default", true))
	require.NoError(t, err)

	def := true
	affected, err := repo.Update(ctx, 99999999, ownerID, &models.SchemaUpdate{Default: &def})
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	defaults := listDefaults(t, ctx, repo, ownerID)
	require.Len(t, defaults, 1, "a zero-row update must not clear the existing default")
	assert.Equal(t, keptID, defaults[0].ID)
}

func TestSchemaRepository_CrossOwnerIsZeroRows(t *testing.T) {
	ctx := setupRepoTest(t)
	ownerID := createTestUser(t, ctx)
	strangerID := createTestUser(t, ctx)
	repo := NewSchemaRepository()

	schemaID, err := repo.Create(ctx, validSchema(ownerID, "mine", false))
	require.NoError(t, err)

	name := "stolen"
	affected, err := repo.Update(ctx, schemaID, strangerID, &models.SchemaUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	affected, err = repo.Delete(ctx, schemaID, strangerID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	// Owner still sees it untouched.
	schemas, total, err := repo.List(ctx, ownerID, models.SchemaFilter{}, models.Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "mine", schemas[0].Name)
}

func TestSchemaRepository_Delete_Idempotent(t *testing.T) {
	ctx := setupRepoTest(t)
	ownerID := createTestUser(t, ctx)
	repo := NewSchemaRepository()

	schemaID, err := repo.Create(ctx, validSchema(ownerID, "ephemeral", false))
	require.NoError(t, err)

	affected, err := repo.Delete(ctx, schemaID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.Delete(ctx, schemaID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected, "repeat delete is zero rows, not an error")
}

func TestSchemaRepository_List_SharedViewIsExclusive(t *testing.T) {
	ctx := setupRepoTest(t)
	ownerID := createTestUser(t, ctx)
	otherID := createTestUser(t, ctx)
	repo := NewSchemaRepository()

	_, err := repo.Create(ctx, validSchema(ownerID, "private_own", false))
	require.NoError(t, err)

	sharedSchema := validSchema(otherID, "community", false)
	sharedSchema.Shared = true
	sharedID, err := repo.Create(ctx, sharedSchema)
	require.NoError(t, err)

	schemas, _, err := repo.List(ctx, ownerID, models.SchemaFilter{Shared: true}, models.Page{Limit: 100})
	require.NoError(t, err)

	var sawShared, sawOwn bool
	for _, s := range schemas {
		if s.ID == sharedID {
			sawShared = true
		}
		if s.Name == "private_own" {
			sawOwn = true
		}
	}
	assert.True(t, sawShared, "shared view includes other owners' shared schemas")
	assert.False(t, sawOwn, "shared view excludes the caller's private schemas")
}

func TestSchemaRepository_List_FilterByName(t *testing.T) {
	ctx := setupRepoTest(t)
	ownerID := createTestUser(t, ctx)
	repo := NewSchemaRepository()

	_, err := repo.Create(ctx, validSchema(ownerID, "v60", false))
	require.NoError(t, err)
	_, err = repo.Create(ctx, validSchema(ownerID, "aeropress", false))
	require.NoError(t, err)

	name := "v60"
	schemas, total, err := repo.List(ctx, ownerID, models.SchemaFilter{Name: &name}, models.Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, schemas, 1)
	assert.Equal(t, "v60", schemas[0].Name)
}
