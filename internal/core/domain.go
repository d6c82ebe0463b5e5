package core

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type (
	// Category is a named budget bucket. Position is implicit in the
	// order of Budget.Categories, not stored on the category itself.
	Category struct {
		ID    string
		Label string
		Icon  string
	}

	// SubItem is one itemized line of a category's breakdown.
	SubItem struct {
		ID     string
		Name   string
		Amount decimal.Decimal
	}

	// Budget is the root aggregate: income, one scalar amount per
	// category, the ordered category list and the per-category
	// breakdown lists. It is mutated only through the methods in this
	// package; callers that need isolation work on a Clone.
	//
	// Once a category has breakdown items, its scalar amount is a
	// derived cache of the item sum and is no longer directly editable.
	Budget struct {
		Income     decimal.Decimal
		Amounts    map[string]decimal.Decimal
		Categories []Category
		Breakdown  map[string][]SubItem
	}
)

var (
	ErrNotNumeric       = errors.New("not a numeric value")
	ErrEmptyLabel       = errors.New("empty category label")
	ErrEmptyName        = errors.New("empty item name")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrCategoryNotFound = errors.New("category not found")
	ErrItemNotFound     = errors.New("breakdown item not found")
	ErrAmountLocked     = errors.New("amount is derived from breakdown items")
)

// NewBudget returns an empty budget with initialized maps.
func NewBudget() *Budget {
	return &Budget{
		Amounts:   make(map[string]decimal.Decimal),
		Breakdown: make(map[string][]SubItem),
	}
}

// DefaultBudget returns the seed budget presented on first run: the
// standard category set and a starting income of 4000.
func DefaultBudget() *Budget {
	seed := []struct{ label, icon string }{
		{"Rent, Mortgage & Utilities", "🏠"},
		{"Transportation (Car, Taxi, Transit)", "🚗"},
		{"Food (Groceries, Eating Out, Coffee)", "🍽️"},
		{"Insurance, Healthcare & Pension", "🏥"},
		{"Entertainment & Subscriptions", "🎬"},
		{"Education, Reading & Courses", "📚"},
		{"Gifts & Donations", "🎁"},
		{"Non-Categorized / Other", "📋"},
		{"Investments", "📈"},
	}

	b := NewBudget()
	b.Income = decimal.NewFromInt(4000)
	for _, s := range seed {
		cat := Category{ID: newID(), Label: s.label, Icon: s.icon}
		b.Categories = append(b.Categories, cat)
		b.Amounts[cat.ID] = decimal.Zero
	}
	return b
}

// Clone returns a deep copy. Handed out to readers so that the live
// budget is never visible mid-mutation.
func (b *Budget) Clone() *Budget {
	c := &Budget{
		Income:     b.Income,
		Amounts:    make(map[string]decimal.Decimal, len(b.Amounts)),
		Categories: append([]Category(nil), b.Categories...),
		Breakdown:  make(map[string][]SubItem, len(b.Breakdown)),
	}
	for id, amt := range b.Amounts {
		c.Amounts[id] = amt
	}
	for id, items := range b.Breakdown {
		c.Breakdown[id] = append([]SubItem(nil), items...)
	}
	return c
}

// Amount returns the scalar amount for a category, zero if absent.
func (b *Budget) Amount(categoryID string) decimal.Decimal {
	return b.Amounts[categoryID]
}

// HasBreakdown reports whether a category has any breakdown items.
func (b *Budget) HasBreakdown(categoryID string) bool {
	return len(b.Breakdown[categoryID]) > 0
}

func (b *Budget) findCategory(id string) (int, bool) {
	for i := range b.Categories {
		if b.Categories[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func newID() string {
	return uuid.NewString()
}
