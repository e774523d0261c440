package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/brewlog-io/brewlog/pkg/auth"
	"github.com/brewlog-io/brewlog/pkg/models"
	"github.com/brewlog-io/brewlog/pkg/services"
)

// authedRequest returns req with claims for the given account in context,
// as the auth middleware would leave them.
func authedRequest(req *http.Request, userID int64) *http.Request {
	claims := &auth.Claims{UserID: userID}
	ctx := context.WithValue(req.Context(), auth.ClaimsKey, claims)
	return req.WithContext(ctx)
}

// mockTokenValidator implements auth.TokenValidator for routing tests.
type mockTokenValidator struct {
	claims *auth.Claims
	err    error
}

func (m *mockTokenValidator) ValidateRequest(_ *http.Request) (*auth.Claims, string, error) {
	if m.err != nil {
		return nil, "", m.err
	}
	return m.claims, "test-token", nil
}

// newPassthroughAuth builds auth middleware that accepts every request as
// account 7.
func newPassthroughAuth() *auth.Middleware {
	return auth.NewMiddleware(&mockTokenValidator{claims: &auth.Claims{UserID: 7}}, zap.NewNop())
}

// mockSchemaService implements services.SchemaService for handler tests.
type mockSchemaService struct {
	createID   int64
	createErr  error
	schemas    []*models.Schema
	total      int
	listErr    error
	affected   int64
	updateErr  error
	gotFilter  models.SchemaFilter
	gotPage    models.Page
	gotOwnerID int64
}

func (m *mockSchemaService) Create(_ context.Context, ownerID int64, _ *services.CreateSchemaRequest) (int64, error) {
	m.gotOwnerID = ownerID
	return m.createID, m.createErr
}

func (m *mockSchemaService) List(_ context.Context, ownerID int64, filter models.SchemaFilter, page models.Page) ([]*models.Schema, int, error) {
	m.gotOwnerID = ownerID
	m.gotFilter = filter
	m.gotPage = page
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.schemas, m.total, nil
}

func (m *mockSchemaService) Update(_ context.Context, _, ownerID int64, _ *services.UpdateSchemaRequest) (int64, error) {
	m.gotOwnerID = ownerID
	return m.affected, m.updateErr
}

func (m *mockSchemaService) Delete(_ context.Context, _, ownerID int64) (int64, error) {
	m.gotOwnerID = ownerID
	return m.affected, nil
}

// mockItemService implements services.ItemService for handler tests.
type mockItemService struct {
	createID  int64
	createErr error
	item      *models.Item
	getErr    error
	items     []*models.Item
	total     int
	affected  int64
	updateErr error
}

func (m *mockItemService) Create(_ context.Context, _ int64, _ *services.CreateItemRequest) (int64, error) {
	return m.createID, m.createErr
}

func (m *mockItemService) Get(_ context.Context, _, _ int64) (*models.Item, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.item, nil
}

func (m *mockItemService) List(_ context.Context, _ int64, _ models.Page) ([]*models.Item, int, error) {
	return m.items, m.total, nil
}

func (m *mockItemService) Update(_ context.Context, _, _ int64, _ *services.UpdateItemRequest) (int64, error) {
	return m.affected, m.updateErr
}

func (m *mockItemService) Delete(_ context.Context, _, _ int64) (int64, error) {
	return m.affected, nil
}

// mockBrewService implements services.BrewService for handler tests.
type mockBrewService struct {
	createID  int64
	createErr error
	brew      *models.Brew
	getErr    error
	brews     []*models.Brew
	total     int
	gotFilter models.BrewFilter
	affected  int64
}

func (m *mockBrewService) Create(_ context.Context, _ int64, _ *services.CreateBrewRequest) (int64, error) {
	return m.createID, m.createErr
}

func (m *mockBrewService) Get(_ context.Context, _, _ int64) (*models.Brew, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.brew, nil
}

func (m *mockBrewService) List(_ context.Context, _ int64, filter models.BrewFilter, _ models.Page) ([]*models.Brew, int, error) {
	m.gotFilter = filter
	return m.brews, m.total, nil
}

func (m *mockBrewService) Update(_ context.Context, _, _ int64, _ *services.UpdateBrewRequest) (int64, error) {
	return m.affected, nil
}

func (m *mockBrewService) Delete(_ context.Context, _, _ int64) (int64, error) {
	return m.affected, nil
}

// mockAccountService implements services.AccountService for handler tests.
type mockAccountService struct {
	user        *models.User
	registerErr error
	token       string
	loginErr    error
	getErr      error
	affected    int64
	updateErr   error
}

func (m *mockAccountService) Register(_ context.Context, _ *services.RegisterRequest) (*models.User, error) {
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return m.user, nil
}

func (m *mockAccountService) Login(_ context.Context, _, _ string) (*models.User, string, error) {
	if m.loginErr != nil {
		return nil, "", m.loginErr
	}
	return m.user, m.token, nil
}

func (m *mockAccountService) Get(_ context.Context, _ int64) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}

func (m *mockAccountService) Update(_ context.Context, _ int64, _ *services.UpdateAccountRequest) (int64, error) {
	return m.affected, m.updateErr
}

func (m *mockAccountService) Delete(_ context.Context, _ int64) (int64, error) {
	return m.affected, nil
}

// mockFieldService implements services.FieldService for handler tests.
type mockFieldService struct {
	createID  int64
	createErr error
	fields    []*models.FieldDefinition
	total     int
	gotShared bool
	affected  int64
	updateErr error
}

func (m *mockFieldService) Create(_ context.Context, _ int64, _ *services.CreateFieldRequest) (int64, error) {
	return m.createID, m.createErr
}

func (m *mockFieldService) List(_ context.Context, _ int64, shared bool, _ models.Page) ([]*models.FieldDefinition, int, error) {
	m.gotShared = shared
	return m.fields, m.total, nil
}

func (m *mockFieldService) Update(_ context.Context, _, _ int64, _ *services.UpdateFieldRequest) (int64, error) {
	return m.affected, m.updateErr
}

func (m *mockFieldService) Delete(_ context.Context, _, _ int64) (int64, error) {
	return m.affected, nil
}
