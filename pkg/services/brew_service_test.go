package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brewlog-io/brewlog/pkg/apperrors"
	"github.com/brewlog-io/brewlog/pkg/models"
)

// mockBrewRepo implements repositories.BrewRepository for testing.
type mockBrewRepo struct {
	created  *models.Brew
	updated  *models.BrewUpdate
	affected int64
}

func (m *mockBrewRepo) Create(_ context.Context, brew *models.Brew) (int64, error) {
	m.created = brew
	return 1, nil
}

func (m *mockBrewRepo) Get(_ context.Context, _, _ int64) (*models.Brew, error) {
	return nil, apperrors.ErrNotFound
}

func (m *mockBrewRepo) List(_ context.Context, _ int64, _ models.BrewFilter, _ models.Page) ([]*models.Brew, int, error) {
	return nil, 0, nil
}

func (m *mockBrewRepo) Update(_ context.Context, _, _ int64, upd *models.BrewUpdate) (int64, error) {
	m.updated = upd
	return m.affected, nil
}

func (m *mockBrewRepo) Delete(_ context.Context, _, _ int64) (int64, error) {
	return m.affected, nil
}

func TestBrewService_Create_Valid(t *testing.T) {
	repo := &mockBrewRepo{}
	svc := NewBrewService(repo, zap.NewNop())

	date := time.Date(2026, 8, 30, 7, 15, 0, 0, time.UTC)
	coffeeID := int64(4)
	mass := 18.5

	id, err := svc.Create(context.Background(), 7, &CreateBrewRequest{
		BrewDate:    &date,
		CoffeeID:    &coffeeID,
		CoffeeMassG: &mass,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	require.NotNil(t, repo.created)
	assert.Equal(t, int64(7), repo.created.UserID)
	assert.Equal(t, date, repo.created.BrewDate)
	require.NotNil(t, repo.created.CoffeeID)
	assert.Equal(t, int64(4), *repo.created.CoffeeID)
}

func TestBrewService_Create_NoDateLeavesZeroForRepoDefault(t *testing.T) {
	repo := &mockBrewRepo{}
	svc := NewBrewService(repo, zap.NewNop())

	_, err := svc.Create(context.Background(), 7, &CreateBrewRequest{})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.True(t, repo.created.BrewDate.IsZero())
}

func TestBrewService_Create_NegativeMass(t *testing.T) {
	repo := &mockBrewRepo{}
	svc := NewBrewService(repo, zap.NewNop())

	mass := -1.0
	_, err := svc.Create(context.Background(), 7, &CreateBrewRequest{WaterMassG: &mass})

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "water_mass_g", ve.Field)
	assert.Equal(t, apperrors.ReasonInvalidValue, ve.Reason)
	assert.Nil(t, repo.created)
}

func TestBrewService_Update_Empty(t *testing.T) {
	repo := &mockBrewRepo{affected: 1}
	svc := NewBrewService(repo, zap.NewNop())

	_, err := svc.Update(context.Background(), 3, 7, &UpdateBrewRequest{})

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, apperrors.ReasonEmptyUpdate, ve.Reason)
	assert.Nil(t, repo.updated)
}

func TestBrewService_Update_Partial(t *testing.T) {
	repo := &mockBrewRepo{affected: 1}
	svc := NewBrewService(repo, zap.NewNop())

	mass := 250.0
	affected, err := svc.Update(context.Background(), 3, 7, &UpdateBrewRequest{WaterMassG: &mass})

	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	require.NotNil(t, repo.updated)
	require.NotNil(t, repo.updated.WaterMassG)
	assert.Equal(t, 250.0, *repo.updated.WaterMassG)
	assert.Nil(t, repo.updated.BrewDate)
}

func TestBrewService_Update_NegativeMass(t *testing.T) {
	repo := &mockBrewRepo{affected: 1}
	svc := NewBrewService(repo, zap.NewNop())

	mass := -0.1
	_, err := svc.Update(context.Background(), 3, 7, &UpdateBrewRequest{CoffeeMassG: &mass})

	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "coffee_mass_g", ve.Field)
	assert.Nil(t, repo.updated)
}
