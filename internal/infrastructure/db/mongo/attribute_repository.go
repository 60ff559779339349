package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/recipeapp/recipe-api/internal/core/domain"
	"github.com/recipeapp/recipe-api/internal/core/ports"
)

// AttributeRepository implements ports.AttributeRepository with one
// collection per attribute kind.
type AttributeRepository struct {
	colls map[domain.AttributeKind]*mongo.Collection
}

func NewAttributeRepository(db *mongo.Database) *AttributeRepository {
	return &AttributeRepository{colls: map[domain.AttributeKind]*mongo.Collection{
		domain.KindTag:        db.Collection(collectionTags),
		domain.KindIngredient: db.Collection(collectionIngredients),
	}}
}

type attributeDoc struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	UserID string             `bson:"user_id"`
	Name   string             `bson:"name"`
}

func (r *AttributeRepository) collection(kind domain.AttributeKind) (*mongo.Collection, error) {
	coll, ok := r.colls[kind]
	if !ok {
		return nil, fmt.Errorf("unknown attribute kind %q", kind)
	}
	return coll, nil
}

// Create inserts a new attribute and sets its ID.
func (r *AttributeRepository) Create(ctx context.Context, a *domain.Attribute) error {
	coll, err := r.collection(a.Kind)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := coll.InsertOne(ctx, attributeDoc{UserID: a.UserID, Name: a.Name})
	if err != nil {
		return fmt.Errorf("insert %s: %w", a.Kind, err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert %s: unexpected id type %T", a.Kind, res.InsertedID)
	}
	a.ID = oid.Hex()
	return nil
}

// List returns the matching attributes ordered by name, descending.
func (r *AttributeRepository) List(ctx context.Context, f ports.AttributeFilter) ([]*domain.Attribute, error) {
	coll, err := r.collection(f.Kind)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"user_id": f.UserID}
	if f.OnlyIDs {
		oids := objectIDs(f.IDs)
		if len(oids) == 0 {
			return []*domain.Attribute{}, nil
		}
		filter["_id"] = bson.M{"$in": oids}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", f.Kind, err)
	}

	var docs []attributeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list %s: decode: %w", f.Kind, err)
	}

	out := make([]*domain.Attribute, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.Attribute{
			ID:     d.ID.Hex(),
			UserID: d.UserID,
			Kind:   f.Kind,
			Name:   d.Name,
		})
	}
	return out, nil
}
