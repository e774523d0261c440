package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/brewlog-io/brewlog/pkg/apperrors"
	"github.com/brewlog-io/brewlog/pkg/models"
	"github.com/brewlog-io/brewlog/pkg/repositories"
)

// CreateFieldRequest is the payload for the standalone field resource.
type CreateFieldRequest struct {
	FieldDefinitionRequest
	Shared bool
}

// UnmarshalJSON decodes strictly, recognizing the field definition keys
// plus shared.
func (r *CreateFieldRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key := range raw {
		switch key {
		case "name", "display_name", "type", "shared":
		default:
			return apperrors.NewValidation(key, apperrors.ReasonUnknownKey)
		}
	}

	if v, ok := raw["shared"]; ok {
		if err := json.Unmarshal(v, &r.Shared); err != nil {
			return apperrors.NewValidation("shared", apperrors.ReasonInvalidValue)
		}
		delete(raw, "shared")
	}

	rest, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return r.FieldDefinitionRequest.UnmarshalJSON(rest)
}

// UpdateFieldRequest is a partial field definition update.
type UpdateFieldRequest struct {
	Name        *string         `json:"name"`
	DisplayName *string         `json:"display_name"`
	Type        json.RawMessage `json:"type"`
	Shared      *bool           `json:"shared"`
}

// FieldService validates and stores reusable field definitions.
type FieldService interface {
	Create(ctx context.Context, ownerID int64, req *CreateFieldRequest) (int64, error)
	List(ctx context.Context, ownerID int64, shared bool, page models.Page) ([]*models.FieldDefinition, int, error)
	Update(ctx context.Context, id, ownerID int64, req *UpdateFieldRequest) (int64, error)
	Delete(ctx context.Context, id, ownerID int64) (int64, error)
}

// fieldService implements FieldService.
type fieldService struct {
	fieldRepo repositories.FieldRepository
	logger    *zap.Logger
}

// NewFieldService creates a new field service with dependencies.
func NewFieldService(fieldRepo repositories.FieldRepository, logger *zap.Logger) FieldService {
	return &fieldService{
		fieldRepo: fieldRepo,
		logger:    logger,
	}
}

func (s *fieldService) Create(ctx context.Context, ownerID int64, req *CreateFieldRequest) (int64, error) {
	validated, err := ValidateFieldDefinition(&req.FieldDefinitionRequest)
	if err != nil {
		return 0, err
	}

	field := &models.FieldDefinition{
		UserID:      ownerID,
		Name:        validated.Name,
		DisplayName: validated.DisplayName,
		Type:        validated.Type,
		Shared:      req.Shared,
	}

	return s.fieldRepo.Create(ctx, field)
}

func (s *fieldService) List(ctx context.Context, ownerID int64, shared bool, page models.Page) ([]*models.FieldDefinition, int, error) {
	return s.fieldRepo.List(ctx, ownerID, shared, page)
}

func (s *fieldService) Update(ctx context.Context, id, ownerID int64, req *UpdateFieldRequest) (int64, error) {
	upd := &models.FieldUpdate{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Shared:      req.Shared,
	}
	if len(req.Type) > 0 && string(req.Type) != "null" {
		fieldType, err := ResolveTypeToken(req.Type)
		if err != nil {
			return 0, err
		}
		upd.Type = &fieldType
	}

	if upd.Empty() {
		return 0, apperrors.NewValidation("", apperrors.ReasonEmptyUpdate)
	}
	if upd.Name != nil {
		if err := validateNameAttr("name", *upd.Name); err != nil {
			return 0, err
		}
	}
	if upd.DisplayName != nil {
		if err := validateNameAttr("display_name", *upd.DisplayName); err != nil {
			return 0, err
		}
	}

	return s.fieldRepo.Update(ctx, id, ownerID, upd)
}

func (s *fieldService) Delete(ctx context.Context, id, ownerID int64) (int64, error) {
	return s.fieldRepo.Delete(ctx, id, ownerID)
}

// Ensure fieldService implements FieldService at compile time.
var _ FieldService = (*fieldService)(nil)
