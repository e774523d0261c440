package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brewlog-io/brewlog/pkg/apperrors"
	"github.com/brewlog-io/brewlog/pkg/models"
)

// mockSchemaRepo implements repositories.SchemaRepository and records what
// reaches the store.
type mockSchemaRepo struct {
	created   *models.ValidatedSchema
	updated   *models.SchemaUpdate
	updatedID int64
	deletes   int
	affected  int64
	createErr error
}

func (m *mockSchemaRepo) Create(_ context.Context, schema *models.ValidatedSchema) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.created = schema
	return 1, nil
}

func (m *mockSchemaRepo) List(_ context.Context, _ int64, _ models.SchemaFilter, _ models.Page) ([]*models.Schema, int, error) {
	return nil, 0, nil
}

func (m *mockSchemaRepo) Update(_ context.Context, id, _ int64, upd *models.SchemaUpdate) (int64, error) {
	m.updated = upd
	m.updatedID = id
	return m.affected, nil
}

func (m *mockSchemaRepo) Delete(_ context.Context, _, _ int64) (int64, error) {
	m.deletes++
	return m.affected, nil
}

func fieldReq(name, displayName, typeToken string) *FieldDefinitionRequest {
	return &FieldDefinitionRequest{
		Name:        name,
		DisplayName: displayName,
		TypeToken:   json.RawMessage(typeToken),
	}
}

func TestSchemaService_Create_Valid(t *testing.T) {
	repo := &mockSchemaRepo{}
	svc := NewSchemaService(repo, zap.NewNop())

	id, err := svc.Create(context.Background(), 7, &CreateSchemaRequest{
		Name:    "v60_morning",
		Default: true,
		Fields: []*FieldDefinitionRequest{
			fieldReq("grind_size", "Grind size", `"STRING"`),
			fieldReq("water_temp_c", "Water temperature", `4`),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	require.NotNil(t, repo.created)
	assert.Equal(t, int64(7), repo.created.UserID)
	assert.True(t, repo.created.Default)
	require.Len(t, repo.created.Fields, 2)
	assert.Equal(t, models.FieldTypeString, repo.created.Fields[0].Type)
	assert.Equal(t, models.FieldTypeDouble, repo.created.Fields[1].Type)
}

func TestSchemaService_Create_EmptyFieldSet(t *testing.T) {
	repo := &mockSchemaRepo{}
	svc := NewSchemaService(repo, zap.NewNop())

	_, err := svc.Create(context.Background(), 7, &CreateSchemaRequest{
		Name:   "empty",
		Fields: nil,
	})

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, apperrors.ReasonEmptyFieldSet, ve.Reason)
	assert.Nil(t, repo.created, "nothing must reach the store on validation failure")
}

func TestSchemaService_Create_DuplicateFieldName(t *testing.T) {
	repo := &mockSchemaRepo{}
	svc := NewSchemaService(repo, zap.NewNop())

	_, err := svc.Create(context.Background(), 7, &CreateSchemaRequest{
		Name: "dupes",
		Fields: []*FieldDefinitionRequest{
			fieldReq("dose", "Dose", `3`),
			fieldReq("dose", "Dose again", `3`),
		},
	})

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "dose", ve.Field)
	assert.Equal(t, apperrors.ReasonDuplicateField, ve.Reason)
	assert.Nil(t, repo.created)
}

func TestSchemaService_Create_InvalidFieldRejectsWholeSchema(t *testing.T) {
	repo := &mockSchemaRepo{}
	svc := NewSchemaService(repo, zap.NewNop())

	_, err := svc.Create(context.Background(), 7, &CreateSchemaRequest{
		Name: "partial",
		Fields: []*FieldDefinitionRequest{
			fieldReq("good", "Good", `1`),
			fieldReq("bad", "Bad", `99`),
		},
	})

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, apperrors.ReasonInvalidType, ve.Reason)
	assert.Nil(t, repo.created)
}

func TestSchemaService_Create_MissingName(t *testing.T) {
	repo := &mockSchemaRepo{}
	svc := NewSchemaService(repo, zap.NewNop())

	_, err := svc.Create(context.Background(), 7, &CreateSchemaRequest{
		Fields: []*FieldDefinitionRequest{fieldReq("f", "F", `1`)},
	})

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
	assert.Equal(t, apperrors.ReasonMissingField, ve.Reason)
}

func TestSchemaService_Update_Empty(t *testing.T) {
	repo := &mockSchemaRepo{affected: 1}
	svc := NewSchemaService(repo, zap.NewNop())

	_, err := svc.Update(context.Background(), 3, 7, &UpdateSchemaRequest{})

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, apperrors.ReasonEmptyUpdate, ve.Reason)
	assert.Nil(t, repo.updated, "empty updates must be rejected before the store")
}

func TestSchemaService_Update_PartialReachesStore(t *testing.T) {
	repo := &mockSchemaRepo{affected: 1}
	svc := NewSchemaService(repo, zap.NewNop())

	def := true
	affected, err := svc.Update(context.Background(), 3, 7, &UpdateSchemaRequest{Default: &def})

	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	require.NotNil(t, repo.updated)
	assert.Equal(t, int64(3), repo.updatedID)
	require.NotNil(t, repo.updated.Default)
	assert.True(t, *repo.updated.Default)
	assert.Nil(t, repo.updated.Name)
}

func TestSchemaService_Update_NameValidated(t *testing.T) {
	repo := &mockSchemaRepo{affected: 1}
	svc := NewSchemaService(repo, zap.NewNop())

	empty := ""
	_, err := svc.Update(context.Background(), 3, 7, &UpdateSchemaRequest{Name: &empty})

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
	assert.Nil(t, repo.updated)
}

func TestSchemaService_Update_ZeroRowsPassedThrough(t *testing.T) {
	repo := &mockSchemaRepo{affected: 0}
	svc := NewSchemaService(repo, zap.NewNop())

	name := "renamed"
	affected, err := svc.Update(context.Background(), 999, 7, &UpdateSchemaRequest{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestSchemaService_Delete_ZeroRowsIsNotAnError(t *testing.T) {
	repo := &mockSchemaRepo{affected: 0}
	svc := NewSchemaService(repo, zap.NewNop())

	affected, err := svc.Delete(context.Background(), 999, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	assert.Equal(t, 1, repo.deletes)
}
