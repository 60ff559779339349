package ports

import (
	"context"

	"github.com/recipeapp/recipe-api/internal/core/domain"
)

// ListAttributesInput carries the parameters of a tag/ingredient listing.
type ListAttributesInput struct {
	UserID string
	Kind   domain.AttributeKind
	// AssignedOnly keeps only attributes used by at least one of the user's recipes.
	AssignedOnly bool
}

// AttributeService defines the use cases shared by tags and ingredients.
type AttributeService interface {
	List(ctx context.Context, in ListAttributesInput) ([]*domain.Attribute, error)
	Create(ctx context.Context, userID string, kind domain.AttributeKind, name string) (*domain.Attribute, error)
}
