package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/recipeapp/recipe-api/internal/core/domain"
	"github.com/recipeapp/recipe-api/internal/core/ports"
	"github.com/recipeapp/recipe-api/internal/infrastructure/metrics"
)

// maxAttributeNameLength matches the storage limit on tag and ingredient names.
const maxAttributeNameLength = 255

type attributeService struct {
	attrs   ports.AttributeRepository
	recipes ports.RecipeRepository
	log     zerolog.Logger
}

// NewAttributeService returns the AttributeService serving both tags and ingredients.
func NewAttributeService(attrs ports.AttributeRepository, recipes ports.RecipeRepository, log zerolog.Logger) ports.AttributeService {
	return &attributeService{attrs: attrs, recipes: recipes, log: log}
}

// List returns the caller's attributes of one kind, ordered by name descending.
func (s *attributeService) List(ctx context.Context, in ports.ListAttributesInput) ([]*domain.Attribute, error) {
	if !in.Kind.Valid() {
		return nil, fmt.Errorf("list attributes: unknown kind %q", in.Kind)
	}

	filter := ports.AttributeFilter{UserID: in.UserID, Kind: in.Kind}
	if in.AssignedOnly {
		ids, err := s.recipes.AssignedAttributeIDs(ctx, in.UserID, in.Kind)
		if err != nil {
			return nil, fmt.Errorf("list attributes: assigned ids: %w", err)
		}
		filter.OnlyIDs = true
		filter.IDs = domain.UniqueIDs(ids)
	}

	attrs, err := s.attrs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list attributes: %w", err)
	}
	return attrs, nil
}

// Create stores a new tag or ingredient owned by userID.
func (s *attributeService) Create(ctx context.Context, userID string, kind domain.AttributeKind, name string) (*domain.Attribute, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("create attribute: unknown kind %q", kind)
	}

	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, domain.NewValidationError("name", "may not be blank")
	case utf8.RuneCountInString(name) > maxAttributeNameLength:
		return nil, domain.NewValidationError("name", fmt.Sprintf("must be at most %d characters", maxAttributeNameLength))
	}

	attr := &domain.Attribute{UserID: userID, Kind: kind, Name: name}
	if err := s.attrs.Create(ctx, attr); err != nil {
		s.log.Error().Err(err).Str("kind", string(kind)).Msg("failed to create attribute")
		return nil, fmt.Errorf("create attribute: %w", err)
	}

	metrics.AttributesCreatedTotal.WithLabelValues(string(kind)).Inc()
	s.log.Debug().Str("kind", string(kind)).Str("id", attr.ID).Str("user_id", userID).Msg("attribute created")

	return attr, nil
}
