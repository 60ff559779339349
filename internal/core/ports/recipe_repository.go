package ports

import (
	"context"
	"io"

	"github.com/recipeapp/recipe-api/internal/core/domain"
)

// RecipeFilter carries the query parameters for listing recipes.
// UserID is always enforced by the service layer.
type RecipeFilter struct {
	UserID        string
	TagIDs        []string // optional: recipes referencing any of these tags
	IngredientIDs []string // optional: recipes referencing any of these ingredients
}

// RecipeRepository defines persistence operations for recipes. Lookups are
// scoped by owner; a recipe owned by someone else is reported as
// domain.ErrNotFound.
type RecipeRepository interface {
	Create(ctx context.Context, r *domain.Recipe) error
	Update(ctx context.Context, r *domain.Recipe) error
	Delete(ctx context.Context, id, userID string) error
	FindByID(ctx context.Context, id, userID string) (*domain.Recipe, error)
	// List returns the user's recipes, newest first.
	List(ctx context.Context, filter RecipeFilter) ([]*domain.Recipe, error)
	// AssignedAttributeIDs returns the distinct attribute IDs of the given
	// kind referenced by any of the user's recipes.
	AssignedAttributeIDs(ctx context.Context, userID string, kind domain.AttributeKind) ([]string, error)
}

// ImageStore persists uploaded recipe images.
type ImageStore interface {
	// Save stores the content under name and returns its public path.
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
}
