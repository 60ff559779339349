package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/recipeapp/recipe-api/internal/api/middleware"
	"github.com/recipeapp/recipe-api/internal/core/domain"
	"github.com/recipeapp/recipe-api/internal/core/ports"
)

var testUser = &domain.User{ID: "u1", Email: "test@example.com", Name: "Test", IsActive: true}

// newTestContext builds an echo.Context for target with an optional JSON body.
func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func authenticated(c echo.Context) echo.Context {
	c.Set(middleware.ContextUserKey, testUser)
	return c
}

type stubUserService struct {
	createFn       func(ctx context.Context, email, password, name string) (*domain.User, error)
	issueTokenFn   func(ctx context.Context, email, password string) (string, error)
	authenticateFn func(ctx context.Context, token string) (*domain.User, error)
	updateSelfFn   func(ctx context.Context, userID string, in ports.UpdateUserInput) (*domain.User, error)
	listFn         func(ctx context.Context) ([]*domain.User, error)
}

func (s *stubUserService) CreateUser(ctx context.Context, email, password, name string) (*domain.User, error) {
	return s.createFn(ctx, email, password, name)
}

func (s *stubUserService) CreateSuperuser(ctx context.Context, email, password string) (*domain.User, error) {
	return s.createFn(ctx, email, password, "")
}

func (s *stubUserService) IssueToken(ctx context.Context, email, password string) (string, error) {
	return s.issueTokenFn(ctx, email, password)
}

func (s *stubUserService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	return s.authenticateFn(ctx, token)
}

func (s *stubUserService) UpdateSelf(ctx context.Context, userID string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateSelfFn(ctx, userID, in)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

type stubAttributeService struct {
	listFn   func(ctx context.Context, in ports.ListAttributesInput) ([]*domain.Attribute, error)
	createFn func(ctx context.Context, userID string, kind domain.AttributeKind, name string) (*domain.Attribute, error)
}

func (s *stubAttributeService) List(ctx context.Context, in ports.ListAttributesInput) ([]*domain.Attribute, error) {
	return s.listFn(ctx, in)
}

func (s *stubAttributeService) Create(ctx context.Context, userID string, kind domain.AttributeKind, name string) (*domain.Attribute, error) {
	return s.createFn(ctx, userID, kind, name)
}

type stubRecipeService struct {
	listFn   func(ctx context.Context, filter ports.RecipeFilter) ([]*domain.Recipe, error)
	getFn    func(ctx context.Context, userID, id string) (*ports.RecipeDetail, error)
	createFn func(ctx context.Context, userID string, in ports.RecipeInput) (*domain.Recipe, error)
	updateFn func(ctx context.Context, userID, id string, in ports.RecipeInput, partial bool) (*domain.Recipe, error)
	deleteFn func(ctx context.Context, userID, id string) error
	uploadFn func(ctx context.Context, userID, id string, r io.Reader) (*domain.Recipe, error)
}

func (s *stubRecipeService) List(ctx context.Context, filter ports.RecipeFilter) ([]*domain.Recipe, error) {
	return s.listFn(ctx, filter)
}

func (s *stubRecipeService) Get(ctx context.Context, userID, id string) (*ports.RecipeDetail, error) {
	return s.getFn(ctx, userID, id)
}

func (s *stubRecipeService) Create(ctx context.Context, userID string, in ports.RecipeInput) (*domain.Recipe, error) {
	return s.createFn(ctx, userID, in)
}

func (s *stubRecipeService) Update(ctx context.Context, userID, id string, in ports.RecipeInput, partial bool) (*domain.Recipe, error) {
	return s.updateFn(ctx, userID, id, in, partial)
}

func (s *stubRecipeService) Delete(ctx context.Context, userID, id string) error {
	return s.deleteFn(ctx, userID, id)
}

func (s *stubRecipeService) UploadImage(ctx context.Context, userID, id string, r io.Reader) (*domain.Recipe, error) {
	return s.uploadFn(ctx, userID, id, r)
}
