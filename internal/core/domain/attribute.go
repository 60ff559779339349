package domain

// AttributeKind distinguishes the labelled records a recipe can reference.
type AttributeKind string

const (
	KindTag        AttributeKind = "tag"
	KindIngredient AttributeKind = "ingredient"
)

// Valid reports whether k is a known attribute kind.
func (k AttributeKind) Valid() bool {
	return k == KindTag || k == KindIngredient
}

// Attribute is a user-owned named record: a Tag or an Ingredient.
type Attribute struct {
	ID     string        `json:"id"`
	UserID string        `json:"-"`
	Kind   AttributeKind `json:"-"`
	Name   string        `json:"name"`
}

func (a Attribute) String() string {
	return a.Name
}
