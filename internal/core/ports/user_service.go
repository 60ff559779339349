package ports

import (
	"context"

	"github.com/recipeapp/recipe-api/internal/core/domain"
)

// UpdateUserInput carries the fields a user may change on their own account.
// Nil fields are left untouched.
type UpdateUserInput struct {
	Name     *string
	Password *string
}

type UserService interface {
	CreateUser(ctx context.Context, email, password, name string) (*domain.User, error)
	CreateSuperuser(ctx context.Context, email, password string) (*domain.User, error)
	IssueToken(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	UpdateSelf(ctx context.Context, userID string, in UpdateUserInput) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
