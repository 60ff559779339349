package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		"test@GMAIL.com":         "test@gmail.com",
		"Mixed.Case@Example.ORG": "Mixed.Case@example.org",
		"  user@host.IO ":        "user@host.io",
		"no-at-sign":             "no-at-sign",
		"":                       "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeEmail(in), "input %q", in)
	}
}

func TestAttributeString(t *testing.T) {
	tag := Attribute{Kind: KindTag, Name: "Vegan"}
	ing := Attribute{Kind: KindIngredient, Name: "Cucumber"}

	assert.Equal(t, "Vegan", tag.String())
	assert.Equal(t, "Cucumber", fmt.Sprint(ing))
}

func TestAttributeKindValid(t *testing.T) {
	assert.True(t, KindTag.Valid())
	assert.True(t, KindIngredient.Valid())
	assert.False(t, AttributeKind("spice").Valid())
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, UniqueIDs([]string{"a", "b", "a", "", "c", "b"}))

	empty := UniqueIDs(nil)
	require.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestRecipeAttributeIDs(t *testing.T) {
	r := &Recipe{TagIDs: []string{"t1"}, IngredientIDs: []string{"i1", "i2"}}

	assert.Equal(t, []string{"t1"}, r.AttributeIDs(KindTag))
	assert.Equal(t, []string{"i1", "i2"}, r.AttributeIDs(KindIngredient))
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("create: %w", &ValidationError{Fields: map[string]string{
		"password": "too short",
		"email":    "is required",
	}})

	ve, ok := IsValidation(err)
	require.True(t, ok)
	assert.Len(t, ve.Fields, 2)
	assert.Equal(t, "validation failed: email: is required; password: too short", ve.Error())

	_, ok = IsValidation(ErrNotFound)
	assert.False(t, ok)
}
