//go:build integration

package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/recipeapp/recipe-api/internal/core/domain"
	"github.com/recipeapp/recipe-api/internal/core/ports"
)

// newTestDB connects to MONGO_TEST_URI and returns a throwaway database that
// is dropped when the test ends.
func newTestDB(t *testing.T) (context.Context, *mongo.Database) {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	name := fmt.Sprintf("recipe_test_%d", time.Now().UnixNano())
	client, db, err := Connect(ctx, Config{URI: uri, Database: name})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	if err := EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	return ctx, db
}

func TestIntegrationUserRepository_DuplicateEmail(t *testing.T) {
	ctx, db := newTestDB(t)
	repo := NewUserRepository(db)

	if _, err := repo.Create(ctx, &domain.User{Email: "test@test.com", IsActive: true}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := repo.Create(ctx, &domain.User{Email: "test@test.com"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	got, err := repo.FindByEmail(ctx, "test@test.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if !got.IsActive {
		t.Errorf("IsActive not persisted")
	}
}

func TestIntegrationAttributes_AssignedOnly(t *testing.T) {
	ctx, db := newTestDB(t)
	attrs := NewAttributeRepository(db)
	recipes := NewRecipeRepository(db)

	salt := &domain.Attribute{UserID: "u1", Kind: domain.KindIngredient, Name: "Salt"}
	pepper := &domain.Attribute{UserID: "u1", Kind: domain.KindIngredient, Name: "Pepper"}
	for _, a := range []*domain.Attribute{salt, pepper} {
		if err := attrs.Create(ctx, a); err != nil {
			t.Fatalf("Create attribute failed: %v", err)
		}
	}

	for _, title := range []string{"Special Bass", "Posh Bass"} {
		rec := &domain.Recipe{
			UserID:        "u1",
			Title:         title,
			TimeMinutes:   20,
			Price:         decimal.NewFromInt(16),
			IngredientIDs: []string{salt.ID},
		}
		if err := recipes.Create(ctx, rec); err != nil {
			t.Fatalf("Create recipe failed: %v", err)
		}
	}

	ids, err := recipes.AssignedAttributeIDs(ctx, "u1", domain.KindIngredient)
	if err != nil {
		t.Fatalf("AssignedAttributeIDs failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != salt.ID {
		t.Fatalf("expected [%s], got %v", salt.ID, ids)
	}

	all, err := attrs.List(ctx, ports.AttributeFilter{UserID: "u1", Kind: domain.KindIngredient})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 || all[0].Name != "Salt" || all[1].Name != "Pepper" {
		t.Fatalf("expected name-descending order, got %v", all)
	}
}

func TestIntegrationRecipeRepository_ScopedCRUD(t *testing.T) {
	ctx, db := newTestDB(t)
	repo := NewRecipeRepository(db)

	rec := &domain.Recipe{UserID: "u1", Title: "Dossa", TimeMinutes: 10, Price: decimal.RequireFromString("5.00")}
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := repo.FindByID(ctx, rec.ID, "u2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other owner, got %v", err)
	}

	rec.Title = "Masala Dossa"
	if err := repo.Update(ctx, rec); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err := repo.FindByID(ctx, rec.ID, "u1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.Title != "Masala Dossa" || !got.Price.Equal(rec.Price) {
		t.Fatalf("unexpected recipe: %+v", got)
	}

	if err := repo.Delete(ctx, rec.ID, "u1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.Delete(ctx, rec.ID, "u1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
