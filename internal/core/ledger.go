package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ExpandCategory prepares a category for itemized editing. When the
// category carries a non-zero scalar amount and no breakdown yet, a
// single "<label> (Base)" item is synthesized from that amount so the
// pre-existing total is never silently lost. A category that already
// has items is left untouched; collapsing is purely a view transition
// and never reaches this package.
func (b *Budget) ExpandCategory(id string) error {
	i, ok := b.findCategory(id)
	if !ok {
		return ErrCategoryNotFound
	}
	if len(b.Breakdown[id]) > 0 {
		return nil
	}
	amount := b.Amounts[id]
	if amount.IsZero() {
		return nil
	}
	b.Breakdown[id] = []SubItem{{
		ID:     newID(),
		Name:   b.Categories[i].Label + " (Base)",
		Amount: amount,
	}}
	return nil
}

// AddItem validates and appends a breakdown item, then refreshes the
// category's scalar amount to the item sum in the same step.
func (b *Budget) AddItem(categoryID, name, rawAmount string) (SubItem, error) {
	if _, ok := b.findCategory(categoryID); !ok {
		return SubItem{}, ErrCategoryNotFound
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return SubItem{}, ErrEmptyName
	}
	amount, err := ParseCurrency(rawAmount)
	if err != nil {
		return SubItem{}, ErrInvalidAmount
	}
	item := SubItem{ID: newID(), Name: name, Amount: amount}
	b.Breakdown[categoryID] = append(b.Breakdown[categoryID], item)
	b.reconcile(categoryID)
	return item, nil
}

// EditItem replaces an item's name and amount in place. On validation
// failure nothing changes and the item keeps its pre-edit state.
func (b *Budget) EditItem(categoryID, itemID, name, rawAmount string) error {
	items := b.Breakdown[categoryID]
	idx := -1
	for i := range items {
		if items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrItemNotFound
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	amount, err := ParseCurrency(rawAmount)
	if err != nil {
		return ErrInvalidAmount
	}
	items[idx].Name = name
	items[idx].Amount = amount
	b.reconcile(categoryID)
	return nil
}

// DeleteItem removes one item and refreshes the category sum; deleting
// the last item leaves the scalar amount at zero and reopens it for
// direct edits.
func (b *Budget) DeleteItem(categoryID, itemID string) error {
	items := b.Breakdown[categoryID]
	for i := range items {
		if items[i].ID == itemID {
			b.Breakdown[categoryID] = append(items[:i], items[i+1:]...)
			if len(b.Breakdown[categoryID]) == 0 {
				delete(b.Breakdown, categoryID)
			}
			b.reconcile(categoryID)
			return nil
		}
	}
	return ErrItemNotFound
}

// reconcile recomputes the derived scalar amount from the breakdown.
// Sum over an empty list is zero.
func (b *Budget) reconcile(categoryID string) {
	sum := decimal.Zero
	for _, item := range b.Breakdown[categoryID] {
		sum = sum.Add(item.Amount)
	}
	if _, ok := b.Amounts[categoryID]; ok || len(b.Breakdown[categoryID]) > 0 {
		b.Amounts[categoryID] = sum
	}
}
