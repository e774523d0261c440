package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/brewlog-io/brewlog/pkg/apperrors"
	"github.com/brewlog-io/brewlog/pkg/models"
	"github.com/brewlog-io/brewlog/pkg/repositories"
)

// CreateBrewRequest is the payload for logging a brew.
type CreateBrewRequest struct {
	BrewDate    *time.Time `json:"brew_date"`
	CoffeeID    *int64     `json:"coffee_id"`
	WaterID     *int64     `json:"water_id"`
	BrewerID    *int64     `json:"brewer_id"`
	FilterID    *int64     `json:"filter_id"`
	VesselID    *int64     `json:"vessel_id"`
	CoffeeMassG *float64   `json:"coffee_mass_g"`
	WaterMassG  *float64   `json:"water_mass_g"`
}

// UpdateBrewRequest is a partial brew update.
type UpdateBrewRequest struct {
	BrewDate    *time.Time `json:"brew_date"`
	CoffeeID    *int64     `json:"coffee_id"`
	WaterID     *int64     `json:"water_id"`
	BrewerID    *int64     `json:"brewer_id"`
	FilterID    *int64     `json:"filter_id"`
	VesselID    *int64     `json:"vessel_id"`
	CoffeeMassG *float64   `json:"coffee_mass_g"`
	WaterMassG  *float64   `json:"water_mass_g"`
}

// BrewService validates and stores brew records.
type BrewService interface {
	Create(ctx context.Context, ownerID int64, req *CreateBrewRequest) (int64, error)
	Get(ctx context.Context, id, ownerID int64) (*models.Brew, error)
	List(ctx context.Context, ownerID int64, filter models.BrewFilter, page models.Page) ([]*models.Brew, int, error)
	Update(ctx context.Context, id, ownerID int64, req *UpdateBrewRequest) (int64, error)
	Delete(ctx context.Context, id, ownerID int64) (int64, error)
}

// brewService implements BrewService.
type brewService struct {
	brewRepo repositories.BrewRepository
	logger   *zap.Logger
}

// NewBrewService creates a new brew service with dependencies.
func NewBrewService(brewRepo repositories.BrewRepository, logger *zap.Logger) BrewService {
	return &brewService{
		brewRepo: brewRepo,
		logger:   logger,
	}
}

func validateMass(attr string, mass *float64) error {
	if mass != nil && *mass < 0 {
		return apperrors.NewValidation(attr, apperrors.ReasonInvalidValue)
	}
	return nil
}

func (s *brewService) Create(ctx context.Context, ownerID int64, req *CreateBrewRequest) (int64, error) {
	if err := validateMass("coffee_mass_g", req.CoffeeMassG); err != nil {
		return 0, err
	}
	if err := validateMass("water_mass_g", req.WaterMassG); err != nil {
		return 0, err
	}

	brew := &models.Brew{
		UserID:      ownerID,
		CoffeeID:    req.CoffeeID,
		WaterID:     req.WaterID,
		BrewerID:    req.BrewerID,
		FilterID:    req.FilterID,
		VesselID:    req.VesselID,
		CoffeeMassG: req.CoffeeMassG,
		WaterMassG:  req.WaterMassG,
	}
	if req.BrewDate != nil {
		brew.BrewDate = *req.BrewDate
	}

	return s.brewRepo.Create(ctx, brew)
}

func (s *brewService) Get(ctx context.Context, id, ownerID int64) (*models.Brew, error) {
	return s.brewRepo.Get(ctx, id, ownerID)
}

func (s *brewService) List(ctx context.Context, ownerID int64, filter models.BrewFilter, page models.Page) ([]*models.Brew, int, error) {
	return s.brewRepo.List(ctx, ownerID, filter, page)
}

func (s *brewService) Update(ctx context.Context, id, ownerID int64, req *UpdateBrewRequest) (int64, error) {
	upd := &models.BrewUpdate{
		BrewDate:    req.BrewDate,
		CoffeeID:    req.CoffeeID,
		WaterID:     req.WaterID,
		BrewerID:    req.BrewerID,
		FilterID:    req.FilterID,
		VesselID:    req.VesselID,
		CoffeeMassG: req.CoffeeMassG,
		WaterMassG:  req.WaterMassG,
	}
	if upd.Empty() {
		return 0, apperrors.NewValidation("", apperrors.ReasonEmptyUpdate)
	}
	if err := validateMass("coffee_mass_g", upd.CoffeeMassG); err != nil {
		return 0, err
	}
	if err := validateMass("water_mass_g", upd.WaterMassG); err != nil {
		return 0, err
	}

	return s.brewRepo.Update(ctx, id, ownerID, upd)
}

func (s *brewService) Delete(ctx context.Context, id, ownerID int64) (int64, error) {
	return s.brewRepo.Delete(ctx, id, ownerID)
}

// Ensure brewService implements BrewService at compile time.
var _ BrewService = (*brewService)(nil)
