package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe is the aggregate root of the recipe book.
type Recipe struct {
	ID            string
	UserID        string
	Title         string
	TimeMinutes   int
	Price         decimal.Decimal
	Link          string
	TagIDs        []string
	IngredientIDs []string
	Image         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AttributeIDs returns the ids of the given kind referenced by the recipe.
func (r *Recipe) AttributeIDs(kind AttributeKind) []string {
	if kind == KindTag {
		return r.TagIDs
	}
	return r.IngredientIDs
}

// UniqueIDs returns ids with duplicates and empty strings removed, keeping
// first-seen order. A nil input yields an empty, non-nil slice.
func UniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
