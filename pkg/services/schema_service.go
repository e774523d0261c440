package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/brewlog-io/brewlog/pkg/apperrors"
	"github.com/brewlog-io/brewlog/pkg/models"
	"github.com/brewlog-io/brewlog/pkg/repositories"
)

// CreateSchemaRequest is the decoded schema creation payload.
type CreateSchemaRequest struct {
	Name    string                    `json:"name"`
	Default bool                      `json:"default"`
	Shared  bool                      `json:"shared"`
	Fields  []*FieldDefinitionRequest `json:"fields"`
}

// UpdateSchemaRequest is a partial schema update. The field set is
// immutable after creation; changing fields requires a new schema.
type UpdateSchemaRequest struct {
	Name    *string `json:"name"`
	Default *bool   `json:"default"`
	Shared  *bool   `json:"shared"`
}

// SchemaService validates schema requests and drives the store adapter.
type SchemaService interface {
	Create(ctx context.Context, ownerID int64, req *CreateSchemaRequest) (int64, error)
	List(ctx context.Context, ownerID int64, filter models.SchemaFilter, page models.Page) ([]*models.Schema, int, error)
	Update(ctx context.Context, id, ownerID int64, req *UpdateSchemaRequest) (int64, error)
	Delete(ctx context.Context, id, ownerID int64) (int64, error)
}

// schemaService implements SchemaService.
type schemaService struct {
	schemaRepo repositories.SchemaRepository
	logger     *zap.Logger
}

// NewSchemaService creates a new schema service with dependencies.
func NewSchemaService(schemaRepo repositories.SchemaRepository, logger *zap.Logger) SchemaService {
	return &schemaService{
		schemaRepo: schemaRepo,
		logger:     logger,
	}
}

// Create validates the request and inserts the schema. Validation is
// complete before the store is touched; the one-default-per-owner
// invariant is the adapter's transactional concern.
func (s *schemaService) Create(ctx context.Context, ownerID int64, req *CreateSchemaRequest) (int64, error) {
	validated, err := s.validateCreate(ownerID, req)
	if err != nil {
		return 0, err
	}

	return s.schemaRepo.Create(ctx, validated)
}

func (s *schemaService) validateCreate(ownerID int64, req *CreateSchemaRequest) (*models.ValidatedSchema, error) {
	if err := validateNameAttr("name", req.Name); err != nil {
		return nil, err
	}
	if len(req.Fields) == 0 {
		return nil, apperrors.NewValidation("fields", apperrors.ReasonEmptyFieldSet)
	}

	fields := make([]models.SchemaField, 0, len(req.Fields))
	seen := make(map[string]bool, len(req.Fields))
	for _, fieldReq := range req.Fields {
		field, err := ValidateFieldDefinition(fieldReq)
		if err != nil {
			return nil, err
		}
		if seen[field.Name] {
			return nil, apperrors.NewValidation(field.Name, apperrors.ReasonDuplicateField)
		}
		seen[field.Name] = true
		fields = append(fields, field)
	}

	return &models.ValidatedSchema{
		UserID:  ownerID,
		Name:    req.Name,
		Default: req.Default,
		Shared:  req.Shared,
		Fields:  fields,
	}, nil
}

func (s *schemaService) List(ctx context.Context, ownerID int64, filter models.SchemaFilter, page models.Page) ([]*models.Schema, int, error) {
	return s.schemaRepo.List(ctx, ownerID, filter, page)
}

// Update validates the partial update and applies it scoped to the owner.
func (s *schemaService) Update(ctx context.Context, id, ownerID int64, req *UpdateSchemaRequest) (int64, error) {
	upd := &models.SchemaUpdate{
		Name:    req.Name,
		Default: req.Default,
		Shared:  req.Shared,
	}
	if upd.Empty() {
		return 0, apperrors.NewValidation("", apperrors.ReasonEmptyUpdate)
	}
	if upd.Name != nil {
		if err := validateNameAttr("name", *upd.Name); err != nil {
			return 0, err
		}
	}

	return s.schemaRepo.Update(ctx, id, ownerID, upd)
}

func (s *schemaService) Delete(ctx context.Context, id, ownerID int64) (int64, error) {
	return s.schemaRepo.Delete(ctx, id, ownerID)
}

// Ensure schemaService implements SchemaService at compile time.
var _ SchemaService = (*schemaService)(nil)
