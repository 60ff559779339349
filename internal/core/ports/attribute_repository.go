package ports

import (
	"context"

	"github.com/recipeapp/recipe-api/internal/core/domain"
)

// AttributeFilter selects tags or ingredients owned by a single user.
type AttributeFilter struct {
	UserID string
	Kind   domain.AttributeKind
	// OnlyIDs restricts the result to IDs; an empty IDs then matches nothing.
	OnlyIDs bool
	IDs     []string
}

// AttributeRepository persists tags and ingredients.
type AttributeRepository interface {
	// Create inserts a and sets its ID.
	Create(ctx context.Context, a *domain.Attribute) error
	// List returns the matching attributes ordered by name, descending.
	List(ctx context.Context, filter AttributeFilter) ([]*domain.Attribute, error)
}
