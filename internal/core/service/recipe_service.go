package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/recipeapp/recipe-api/internal/core/domain"
	"github.com/recipeapp/recipe-api/internal/core/ports"
	"github.com/recipeapp/recipe-api/internal/infrastructure/metrics"
)

const (
	// MaxImageBytes caps the size of an uploaded recipe image.
	MaxImageBytes = 10 << 20

	maxTitleLength = 255
	maxPriceDigits = 5
	pricePlaces    = 2
)

var maxPrice = decimal.New(1, maxPriceDigits-pricePlaces) // 1000

type RecipeService struct {
	recipes ports.RecipeRepository
	attrs   ports.AttributeRepository
	images  ports.ImageStore
	log     zerolog.Logger
}

func NewRecipeService(recipes ports.RecipeRepository, attrs ports.AttributeRepository, images ports.ImageStore, log zerolog.Logger) *RecipeService {
	return &RecipeService{recipes: recipes, attrs: attrs, images: images, log: log}
}

// List returns the caller's recipes, newest first.
func (s *RecipeService) List(ctx context.Context, filter ports.RecipeFilter) ([]*domain.Recipe, error) {
	filter.TagIDs = domain.UniqueIDs(filter.TagIDs)
	filter.IngredientIDs = domain.UniqueIDs(filter.IngredientIDs)

	recipes, err := s.recipes.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// Get returns a recipe with its tags and ingredients resolved.
func (s *RecipeService) Get(ctx context.Context, userID, id string) (*ports.RecipeDetail, error) {
	r, err := s.recipes.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	tags, err := s.ownedAttributes(ctx, userID, domain.KindTag, r.TagIDs)
	if err != nil {
		return nil, fmt.Errorf("get recipe: tags: %w", err)
	}
	ingredients, err := s.ownedAttributes(ctx, userID, domain.KindIngredient, r.IngredientIDs)
	if err != nil {
		return nil, fmt.Errorf("get recipe: ingredients: %w", err)
	}

	return &ports.RecipeDetail{Recipe: r, Tags: tags, Ingredients: ingredients}, nil
}

// Create validates the input and stores a new recipe owned by userID.
func (s *RecipeService) Create(ctx context.Context, userID string, in ports.RecipeInput) (*domain.Recipe, error) {
	now := time.Now().UTC()
	r := &domain.Recipe{
		UserID:        userID,
		TagIDs:        []string{},
		IngredientIDs: []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.apply(ctx, r, in, false); err != nil {
		return nil, err
	}

	if err := s.recipes.Create(ctx, r); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("failed to create recipe")
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	metrics.RecipesCreatedTotal.Inc()
	s.log.Info().Str("recipe_id", r.ID).Str("user_id", userID).Msg("recipe created")

	return r, nil
}

// Update replaces (partial=false) or patches (partial=true) a recipe.
func (s *RecipeService) Update(ctx context.Context, userID, id string, in ports.RecipeInput, partial bool) (*domain.Recipe, error) {
	r, err := s.recipes.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, r, in, partial); err != nil {
		return nil, err
	}
	r.UpdatedAt = time.Now().UTC()

	if err := s.recipes.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return r, nil
}

// Delete removes a recipe and its stored image.
func (s *RecipeService) Delete(ctx context.Context, userID, id string) error {
	r, err := s.recipes.FindByID(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.recipes.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	s.removeImage(ctx, r.Image)
	return nil
}

// UploadImage validates that content is a decodable image, stores it and
// points the recipe at it. Any previous image is removed.
func (s *RecipeService) UploadImage(ctx context.Context, userID, id string, content io.Reader) (*domain.Recipe, error) {
	r, err := s.recipes.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(content, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("upload image: read: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, domain.NewValidationError("image", fmt.Sprintf("must be at most %d bytes", MaxImageBytes))
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, domain.NewValidationError("image", "upload a valid image; the file was either not an image or a corrupted image")
	}

	path, err := s.images.Save(ctx, uuid.NewString()+"."+imageExtension(format), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("upload image: save: %w", err)
	}

	previous := r.Image
	r.Image = path
	r.UpdatedAt = time.Now().UTC()
	if err := s.recipes.Update(ctx, r); err != nil {
		s.removeImage(ctx, path)
		return nil, fmt.Errorf("upload image: %w", err)
	}
	s.removeImage(ctx, previous)

	metrics.ImageUploadBytes.Observe(float64(len(data)))
	return r, nil
}

// apply copies the input onto r after validating it. On a full update
// (partial=false) absent scalars are required and absent relations are cleared.
func (s *RecipeService) apply(ctx context.Context, r *domain.Recipe, in ports.RecipeInput, partial bool) error {
	fields := make(map[string]string)

	switch {
	case in.Title != nil:
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			fields["title"] = "may not be blank"
		} else if utf8.RuneCountInString(title) > maxTitleLength {
			fields["title"] = fmt.Sprintf("must be at most %d characters", maxTitleLength)
		} else {
			r.Title = title
		}
	case !partial:
		fields["title"] = "is required"
	}

	switch {
	case in.TimeMinutes != nil:
		if *in.TimeMinutes < 0 {
			fields["time_minutes"] = "must be zero or greater"
		} else {
			r.TimeMinutes = *in.TimeMinutes
		}
	case !partial:
		fields["time_minutes"] = "is required"
	}

	switch {
	case in.Price != nil:
		if msg := validatePrice(*in.Price); msg != "" {
			fields["price"] = msg
		} else {
			r.Price = *in.Price
		}
	case !partial:
		fields["price"] = "is required"
	}

	switch {
	case in.Link != nil:
		r.Link = strings.TrimSpace(*in.Link)
	case !partial:
		r.Link = ""
	}

	relations := []struct {
		field string
		kind  domain.AttributeKind
		ids   *[]string
		dst   *[]string
	}{
		{"tags", domain.KindTag, in.TagIDs, &r.TagIDs},
		{"ingredients", domain.KindIngredient, in.IngredientIDs, &r.IngredientIDs},
	}
	for _, rel := range relations {
		if rel.ids == nil {
			if !partial {
				*rel.dst = []string{}
			}
			continue
		}
		ids := domain.UniqueIDs(*rel.ids)
		missing, err := s.missingAttributes(ctx, r.UserID, rel.kind, ids)
		if err != nil {
			return fmt.Errorf("validate %s: %w", rel.field, err)
		}
		if len(missing) > 0 {
			fields[rel.field] = fmt.Sprintf("invalid id %q: object does not exist", missing[0])
			continue
		}
		*rel.dst = ids
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// missingAttributes returns the ids that are not attributes of kind owned by userID.
func (s *RecipeService) missingAttributes(ctx context.Context, userID string, kind domain.AttributeKind, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	owned, err := s.ownedAttributes(ctx, userID, kind, ids)
	if err != nil {
		return nil, err
	}

	found := make(map[string]struct{}, len(owned))
	for _, a := range owned {
		found[a.ID] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (s *RecipeService) ownedAttributes(ctx context.Context, userID string, kind domain.AttributeKind, ids []string) ([]*domain.Attribute, error) {
	if len(ids) == 0 {
		return []*domain.Attribute{}, nil
	}
	return s.attrs.List(ctx, ports.AttributeFilter{
		UserID:  userID,
		Kind:    kind,
		OnlyIDs: true,
		IDs:     ids,
	})
}

func (s *RecipeService) removeImage(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.images.Delete(ctx, path); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("failed to remove recipe image")
	}
}

// validatePrice enforces a non-negative amount of at most five digits, two
// of them decimal places.
func validatePrice(p decimal.Decimal) string {
	switch {
	case p.IsNegative():
		return "must be zero or greater"
	case p.Exponent() < -pricePlaces && !p.Equal(p.Round(pricePlaces)):
		return fmt.Sprintf("ensure that there are no more than %d decimal places", pricePlaces)
	case p.GreaterThanOrEqual(maxPrice):
		return fmt.Sprintf("ensure that there are no more than %d digits in total", maxPriceDigits)
	}
	return ""
}

func imageExtension(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}
