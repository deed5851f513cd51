package model

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/shopspring/decimal"
)

// DefaultCategoryIDs are seeded by the backend and cannot be deleted.
var DefaultCategoryIDs = []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8", "c9", "c10"}

// IsDefaultCategory reports whether id belongs to the seeded set.
func IsDefaultCategory(id string) bool {
	return slices.Contains(DefaultCategoryIDs, id)
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
	Kind  Kind   `json:"type"`
}

// Accepts reports whether transactions of kind k may be filed under c.
func (c Category) Accepts(k Kind) bool {
	return c.Kind == KindBoth || c.Kind == k
}

func (c Category) Draft() CategoryDraft {
	return CategoryDraft{Name: c.Name, Icon: c.Icon, Color: c.Color, Kind: c.Kind}
}

type CategoryDraft struct {
	Name  string
	Icon  string
	Color string
	Kind  Kind
}

func (d CategoryDraft) Normalize() CategoryDraft {
	d.Name = normalizeText(d.Name)
	d.Icon = normalizeText(d.Icon)
	d.Color = normalizeText(d.Color)
	return d
}

func (d CategoryDraft) Validate() error {
	if normalizeText(d.Name) == "" {
		return fmt.Errorf("%w: category name is required", ErrValidation)
	}
	if !hexColor.MatchString(normalizeText(d.Color)) {
		return fmt.Errorf("%w: invalid color %q, want #rrggbb", ErrValidation, d.Color)
	}
	switch d.Kind {
	case KindIncome, KindExpense, KindBoth:
	default:
		return fmt.Errorf("%w: invalid category type %q", ErrValidation, d.Kind)
	}
	return nil
}

func (d CategoryDraft) WithID(id string) Category {
	return Category{ID: id, Name: d.Name, Icon: d.Icon, Color: d.Color, Kind: d.Kind}
}

// CategoryLimit is a monthly spending cap for one category.
type CategoryLimit struct {
	CategoryID string          `json:"categoryId"`
	Limit      decimal.Decimal `json:"limit"`
}
