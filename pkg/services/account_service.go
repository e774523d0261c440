package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/brewlog-io/brewlog/pkg/apperrors"
	"github.com/brewlog-io/brewlog/pkg/auth"
	"github.com/brewlog-io/brewlog/pkg/models"
	"github.com/brewlog-io/brewlog/pkg/repositories"
)

// RegisterRequest is the account creation payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// UpdateAccountRequest is a partial profile update.
type UpdateAccountRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// AccountService handles registration, login and profile management.
type AccountService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	// Login verifies credentials and returns the account plus a signed
	// access token. Wrong email and wrong password are not distinguished.
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, req *UpdateAccountRequest) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// accountService implements AccountService.
type accountService struct {
	userRepo   repositories.UserRepository
	tokens     *auth.Service
	bcryptCost int
	logger     *zap.Logger
}

// NewAccountService creates a new account service with dependencies.
func NewAccountService(userRepo repositories.UserRepository, tokens *auth.Service, bcryptCost int, logger *zap.Logger) AccountService {
	return &accountService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *accountService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if req.Email == "" {
		return nil, apperrors.NewValidation("email", apperrors.ReasonMissingField)
	}
	if req.Password == "" {
		return nil, apperrors.NewValidation("password", apperrors.ReasonMissingField)
	}
	if err := validateNameAttr("name", req.Name); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *accountService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *accountService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *accountService) Update(ctx context.Context, id int64, req *UpdateAccountRequest) (int64, error) {
	upd := &models.UserUpdate{}
	if req.Name != nil {
		if err := validateNameAttr("name", *req.Name); err != nil {
			return 0, err
		}
		upd.Name = req.Name
	}
	if req.Password != nil {
		if *req.Password == "" {
			return 0, apperrors.NewValidation("password", apperrors.ReasonMissingField)
		}
		hash, err := auth.HashPassword(*req.Password, s.bcryptCost)
		if err != nil {
			return 0, err
		}
		upd.PasswordHash = &hash
	}
	if upd.Empty() {
		return 0, apperrors.NewValidation("", apperrors.ReasonEmptyUpdate)
	}

	return s.userRepo.Update(ctx, id, upd)
}

func (s *accountService) Delete(ctx context.Context, id int64) (int64, error) {
	return s.userRepo.Delete(ctx, id)
}

// Ensure accountService implements AccountService at compile time.
var _ AccountService = (*accountService)(nil)
