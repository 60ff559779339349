package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/recipeapp/recipe-api/internal/core/domain"
	"github.com/recipeapp/recipe-api/internal/core/ports"
)

type RecipeRepository struct {
	col *mongo.Collection
}

func NewRecipeRepository(db *mongo.Database) *RecipeRepository {
	return &RecipeRepository{col: db.Collection(collectionRecipes)}
}

// recipeDoc stores relation ids as hex strings so they can be matched and
// distinct-ed directly against query parameters.
type recipeDoc struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	UserID        string               `bson:"user_id"`
	Title         string               `bson:"title"`
	TimeMinutes   int                  `bson:"time_minutes"`
	Price         primitive.Decimal128 `bson:"price"`
	Link          string               `bson:"link"`
	TagIDs        []string             `bson:"tag_ids"`
	IngredientIDs []string             `bson:"ingredient_ids"`
	Image         string               `bson:"image,omitempty"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

var attributeFields = map[domain.AttributeKind]string{
	domain.KindTag:        "tag_ids",
	domain.KindIngredient: "ingredient_ids",
}

func toRecipeDoc(r *domain.Recipe) (recipeDoc, error) {
	price, err := primitive.ParseDecimal128(r.Price.String())
	if err != nil {
		return recipeDoc{}, fmt.Errorf("encode price %s: %w", r.Price, err)
	}
	return recipeDoc{
		UserID:        r.UserID,
		Title:         r.Title,
		TimeMinutes:   r.TimeMinutes,
		Price:         price,
		Link:          r.Link,
		TagIDs:        nonNil(r.TagIDs),
		IngredientIDs: nonNil(r.IngredientIDs),
		Image:         r.Image,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}, nil
}

func (d recipeDoc) toDomain() (*domain.Recipe, error) {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return nil, fmt.Errorf("decode price of recipe %s: %w", d.ID.Hex(), err)
	}
	return &domain.Recipe{
		ID:            d.ID.Hex(),
		UserID:        d.UserID,
		Title:         d.Title,
		TimeMinutes:   d.TimeMinutes,
		Price:         price,
		Link:          d.Link,
		TagIDs:        nonNil(d.TagIDs),
		IngredientIDs: nonNil(d.IngredientIDs),
		Image:         d.Image,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}, nil
}

// Create inserts a new recipe document and sets its ID.
func (r *RecipeRepository) Create(ctx context.Context, rec *domain.Recipe) error {
	doc, err := toRecipeDoc(rec)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert recipe: unexpected id type %T", res.InsertedID)
	}
	rec.ID = oid.Hex()
	return nil
}

// Update replaces the stored recipe with rec.
func (r *RecipeRepository) Update(ctx context.Context, rec *domain.Recipe) error {
	filter, ok := ownedFilter(rec.ID, rec.UserID)
	if !ok {
		return domain.ErrNotFound
	}
	doc, err := toRecipeDoc(rec)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RecipeRepository) Delete(ctx context.Context, id, userID string) error {
	filter, ok := ownedFilter(id, userID)
	if !ok {
		return domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindByID retrieves a recipe owned by userID.
func (r *RecipeRepository) FindByID(ctx context.Context, id, userID string) (*domain.Recipe, error) {
	filter, ok := ownedFilter(id, userID)
	if !ok {
		return nil, domain.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc recipeDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find recipe: %w", err)
	}
	return doc.toDomain()
}

// List returns the user's recipes, newest first. Relation filters match
// recipes referencing any of the given ids.
func (r *RecipeRepository) List(ctx context.Context, f ports.RecipeFilter) ([]*domain.Recipe, error) {
	filter := bson.M{"user_id": f.UserID}
	if len(f.TagIDs) > 0 {
		filter["tag_ids"] = bson.M{"$in": f.TagIDs}
	}
	if len(f.IngredientIDs) > 0 {
		filter["ingredient_ids"] = bson.M{"$in": f.IngredientIDs}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	var docs []recipeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list recipes: decode: %w", err)
	}

	out := make([]*domain.Recipe, 0, len(docs))
	for _, d := range docs {
		rec, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// AssignedAttributeIDs returns the distinct attribute ids of kind referenced
// by the user's recipes.
func (r *RecipeRepository) AssignedAttributeIDs(ctx context.Context, userID string, kind domain.AttributeKind) ([]string, error) {
	field, ok := attributeFields[kind]
	if !ok {
		return nil, fmt.Errorf("unknown attribute kind %q", kind)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	values, err := r.col.Distinct(ctx, field, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func ownedFilter(id, userID string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid, "user_id": userID}, true
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
