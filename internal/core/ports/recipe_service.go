package ports

import (
	"context"
	"io"

	"github.com/shopspring/decimal"

	"github.com/recipeapp/recipe-api/internal/core/domain"
)

// RecipeInput is the DTO passed from the transport layer to RecipeService.
// A nil field was absent from the request: on a partial update it is left
// untouched, on a full update a nil relation list clears the relation.
type RecipeInput struct {
	Title         *string
	TimeMinutes   *int
	Price         *decimal.Decimal
	Link          *string
	TagIDs        *[]string
	IngredientIDs *[]string
}

// RecipeDetail is the full recipe view with resolved relations.
type RecipeDetail struct {
	Recipe      *domain.Recipe
	Tags        []*domain.Attribute
	Ingredients []*domain.Attribute
}

// RecipeService defines use-case operations for recipes.
type RecipeService interface {
	List(ctx context.Context, filter RecipeFilter) ([]*domain.Recipe, error)
	Get(ctx context.Context, userID, id string) (*RecipeDetail, error)
	Create(ctx context.Context, userID string, in RecipeInput) (*domain.Recipe, error)
	Update(ctx context.Context, userID, id string, in RecipeInput, partial bool) (*domain.Recipe, error)
	Delete(ctx context.Context, userID, id string) error
	UploadImage(ctx context.Context, userID, id string, r io.Reader) (*domain.Recipe, error)
}
