package service

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/recipeapp/recipe-api/internal/core/domain"
	"github.com/recipeapp/recipe-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubAttributeRepo struct {
	items     []*domain.Attribute
	nextID    int
	createErr error
}

func (r *stubAttributeRepo) Create(_ context.Context, a *domain.Attribute) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	a.ID = fmt.Sprintf("%s%d", a.Kind, r.nextID)
	clone := *a
	r.items = append(r.items, &clone)
	return nil
}

// List applies the same filters and ordering the real Mongo repo would use.
func (r *stubAttributeRepo) List(_ context.Context, f ports.AttributeFilter) ([]*domain.Attribute, error) {
	ids := make(map[string]struct{}, len(f.IDs))
	for _, id := range f.IDs {
		ids[id] = struct{}{}
	}

	out := []*domain.Attribute{}
	for _, a := range r.items {
		if a.UserID != f.UserID || a.Kind != f.Kind {
			continue
		}
		if f.OnlyIDs {
			if _, ok := ids[a.ID]; !ok {
				continue
			}
		}
		clone := *a
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

func (r *stubAttributeRepo) add(userID string, kind domain.AttributeKind, name string) *domain.Attribute {
	a := &domain.Attribute{UserID: userID, Kind: kind, Name: name}
	_ = r.Create(context.Background(), a)
	return a
}

type stubRecipeRepo struct {
	items     []*domain.Recipe
	nextID    int
	updateErr error
}

func cloneRecipe(r *domain.Recipe) *domain.Recipe {
	clone := *r
	clone.TagIDs = append([]string(nil), r.TagIDs...)
	clone.IngredientIDs = append([]string(nil), r.IngredientIDs...)
	return &clone
}

func (r *stubRecipeRepo) Create(_ context.Context, rec *domain.Recipe) error {
	r.nextID++
	rec.ID = fmt.Sprintf("r%d", r.nextID)
	r.items = append(r.items, cloneRecipe(rec))
	return nil
}

func (r *stubRecipeRepo) Update(_ context.Context, rec *domain.Recipe) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	for i, existing := range r.items {
		if existing.ID == rec.ID && existing.UserID == rec.UserID {
			r.items[i] = cloneRecipe(rec)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *stubRecipeRepo) Delete(_ context.Context, id, userID string) error {
	for i, existing := range r.items {
		if existing.ID == id && existing.UserID == userID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *stubRecipeRepo) FindByID(_ context.Context, id, userID string) (*domain.Recipe, error) {
	for _, existing := range r.items {
		if existing.ID == id && existing.UserID == userID {
			return cloneRecipe(existing), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubRecipeRepo) List(_ context.Context, f ports.RecipeFilter) ([]*domain.Recipe, error) {
	out := []*domain.Recipe{}
	for i := len(r.items) - 1; i >= 0; i-- {
		rec := r.items[i]
		if rec.UserID != f.UserID {
			continue
		}
		if len(f.TagIDs) > 0 && !intersects(rec.TagIDs, f.TagIDs) {
			continue
		}
		if len(f.IngredientIDs) > 0 && !intersects(rec.IngredientIDs, f.IngredientIDs) {
			continue
		}
		out = append(out, cloneRecipe(rec))
	}
	return out, nil
}

// AssignedAttributeIDs deliberately returns duplicates, as a naive join would.
func (r *stubRecipeRepo) AssignedAttributeIDs(_ context.Context, userID string, kind domain.AttributeKind) ([]string, error) {
	var ids []string
	for _, rec := range r.items {
		if rec.UserID == userID {
			ids = append(ids, rec.AttributeIDs(kind)...)
		}
	}
	return ids, nil
}

func intersects(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

type stubImageStore struct {
	saved   map[string][]byte
	deleted []string
}

func newStubImageStore() *stubImageStore {
	return &stubImageStore{saved: make(map[string][]byte)}
}

func (s *stubImageStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	path := "/media/uploads/recipe/" + name
	s.saved[path] = data
	return path, nil
}

func (s *stubImageStore) Delete(_ context.Context, path string) error {
	s.deleted = append(s.deleted, path)
	delete(s.saved, path)
	return nil
}
