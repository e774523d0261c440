package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/brewlog-io/brewlog/pkg/apperrors"
	"github.com/brewlog-io/brewlog/pkg/models"
	"github.com/brewlog-io/brewlog/pkg/repositories"
)

// CreateItemRequest is the payload for the simple gear resources.
type CreateItemRequest struct {
	Name string `json:"name"`
}

// UpdateItemRequest is a partial item update. Name is the only mutable
// attribute, so an update without it is empty.
type UpdateItemRequest struct {
	Name *string `json:"name"`
}

// ItemService is the generic CRUD contract for one simple gear resource.
type ItemService interface {
	Create(ctx context.Context, ownerID int64, req *CreateItemRequest) (int64, error)
	Get(ctx context.Context, id, ownerID int64) (*models.Item, error)
	List(ctx context.Context, ownerID int64, page models.Page) ([]*models.Item, int, error)
	Update(ctx context.Context, id, ownerID int64, req *UpdateItemRequest) (int64, error)
	Delete(ctx context.Context, id, ownerID int64) (int64, error)
}

// itemService implements ItemService over one table-bound repository.
type itemService struct {
	itemRepo repositories.OwnedItemRepository
	logger   *zap.Logger
}

// NewItemService creates a new item service with dependencies.
func NewItemService(itemRepo repositories.OwnedItemRepository, logger *zap.Logger) ItemService {
	return &itemService{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

func (s *itemService) Create(ctx context.Context, ownerID int64, req *CreateItemRequest) (int64, error) {
	if err := validateNameAttr("name", req.Name); err != nil {
		return 0, err
	}
	return s.itemRepo.Create(ctx, ownerID, req.Name)
}

func (s *itemService) Get(ctx context.Context, id, ownerID int64) (*models.Item, error) {
	return s.itemRepo.Get(ctx, id, ownerID)
}

func (s *itemService) List(ctx context.Context, ownerID int64, page models.Page) ([]*models.Item, int, error) {
	return s.itemRepo.List(ctx, ownerID, page)
}

func (s *itemService) Update(ctx context.Context, id, ownerID int64, req *UpdateItemRequest) (int64, error) {
	if req.Name == nil {
		return 0, apperrors.NewValidation("", apperrors.ReasonEmptyUpdate)
	}
	if err := validateNameAttr("name", *req.Name); err != nil {
		return 0, err
	}
	return s.itemRepo.Update(ctx, id, ownerID, *req.Name)
}

func (s *itemService) Delete(ctx context.Context, id, ownerID int64) (int64, error) {
	return s.itemRepo.Delete(ctx, id, ownerID)
}

// Ensure itemService implements ItemService at compile time.
var _ ItemService = (*itemService)(nil)
