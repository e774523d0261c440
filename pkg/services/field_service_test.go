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

// mockFieldRepo implements repositories.FieldRepository for testing.
type mockFieldRepo struct {
	created  *models.FieldDefinition
	updated  *models.FieldUpdate
	affected int64
}

func (m *mockFieldRepo) Create(_ context.Context, field *models.FieldDefinition) (int64, error) {
	m.created = field
	return 1, nil
}

func (m *mockFieldRepo) List(_ context.Context, _ int64, _ bool, _ models.Page) ([]*models.FieldDefinition, int, error) {
	return nil, 0, nil
}

func (m *mockFieldRepo) Update(_ context.Context, _, _ int64, upd *models.FieldUpdate) (int64, error) {
	m.updated = upd
	return m.affected, nil
}

func (m *mockFieldRepo) Delete(_ context.Context, _, _ int64) (int64, error) {
	return m.affected, nil
}

func TestFieldService_Create_Valid(t *testing.T) {
	repo := &mockFieldRepo{}
	svc := NewFieldService(repo, zap.NewNop())

	var req CreateFieldRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"bloom_s","display_name":"Bloom time","type":"INT","shared":true}`), &req))

	id, err := svc.Create(context.Background(), 7, &req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	require.NotNil(t, repo.created)
	assert.Equal(t, int64(7), repo.created.UserID)
	assert.Equal(t, models.FieldTypeInt, repo.created.Type)
	assert.True(t, repo.created.Shared)
}

func TestFieldService_Create_UnknownKeyRejectedAtDecode(t *testing.T) {
	var req CreateFieldRequest
	err := json.Unmarshal([]byte(`{"name":"n","display_name":"D","type":1,"owner":"me"}`), &req)

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "owner", ve.Field)
	assert.Equal(t, apperrors.ReasonUnknownKey, ve.Reason)
}

func TestFieldService_Create_InvalidType(t *testing.T) {
	repo := &mockFieldRepo{}
	svc := NewFieldService(repo, zap.NewNop())

	req := &CreateFieldRequest{
		FieldDefinitionRequest: FieldDefinitionRequest{
			Name:        "n",
			DisplayName: "D",
			TypeToken:   json.RawMessage(`"FLOAT"`),
		},
	}

	_, err := svc.Create(context.Background(), 7, req)

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, apperrors.ReasonInvalidType, ve.Reason)
	assert.Nil(t, repo.created)
}

func TestFieldService_Update_Empty(t *testing.T) {
	repo := &mockFieldRepo{affected: 1}
	svc := NewFieldService(repo, zap.NewNop())

	_, err := svc.Update(context.Background(), 3, 7, &UpdateFieldRequest{})

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, apperrors.ReasonEmptyUpdate, ve.Reason)
	assert.Nil(t, repo.updated)
}

func TestFieldService_Update_TypeToken(t *testing.T) {
	repo := &mockFieldRepo{affected: 1}
	svc := NewFieldService(repo, zap.NewNop())

	affected, err := svc.Update(context.Background(), 3, 7, &UpdateFieldRequest{
		Type: json.RawMessage(`"BOOLEAN"`),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	require.NotNil(t, repo.updated)
	require.NotNil(t, repo.updated.Type)
	assert.Equal(t, models.FieldTypeBoolean, *repo.updated.Type)
}

func TestFieldService_Update_InvalidTypeToken(t *testing.T) {
	repo := &mockFieldRepo{affected: 1}
	svc := NewFieldService(repo, zap.NewNop())

	_, err := svc.Update(context.Background(), 3, 7, &UpdateFieldRequest{
		Type: json.RawMessage(`0`),
	})

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, apperrors.ReasonInvalidType, ve.Reason)
	assert.Nil(t, repo.updated)
}

func TestFieldService_Update_DisplayNameValidated(t *testing.T) {
	repo := &mockFieldRepo{affected: 1}
	svc := NewFieldService(repo, zap.NewNop())

	empty := ""
	_, err := svc.Update(context.Background(), 3, 7, &UpdateFieldRequest{DisplayName: &empty})

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "display_name", ve.Field)
	assert.Equal(t, apperrors.ReasonMissingField, ve.Reason)
}
