package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AddCategory appends a new category at the end of the order with a
// fresh id and a zero amount. Ids are never reused within a session.
func (b *Budget) AddCategory(label, icon string) (Category, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Category{}, ErrEmptyLabel
	}
	cat := Category{ID: newID(), Label: label, Icon: icon}
	b.Categories = append(b.Categories, cat)
	b.Amounts[cat.ID] = decimal.Zero
	return cat, nil
}

// RenameCategory updates a category's label.
func (b *Budget) RenameCategory(id, label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return ErrEmptyLabel
	}
	i, ok := b.findCategory(id)
	if !ok {
		return ErrCategoryNotFound
	}
	b.Categories[i].Label = label
	return nil
}

// SetCategoryIcon updates a category's icon glyph.
func (b *Budget) SetCategoryIcon(id, icon string) error {
	i, ok := b.findCategory(id)
	if !ok {
		return ErrCategoryNotFound
	}
	b.Categories[i].Icon = icon
	return nil
}

// RemoveCategory deletes a category and purges its amount and breakdown
// entries in the same step, so no later read can observe the orphaned id.
func (b *Budget) RemoveCategory(id string) error {
	i, ok := b.findCategory(id)
	if !ok {
		return ErrCategoryNotFound
	}
	b.Categories = append(b.Categories[:i], b.Categories[i+1:]...)
	delete(b.Amounts, id)
	delete(b.Breakdown, id)
	return nil
}

// ReorderCategory moves the category at from to position to, shifting
// the ones in between. Equal or out-of-range indices are a no-op.
func (b *Budget) ReorderCategory(from, to int) {
	n := len(b.Categories)
	if from == to || from < 0 || from >= n || to < 0 || to >= n {
		return
	}
	moved := b.Categories[from]
	rest := append(b.Categories[:from], b.Categories[from+1:]...)
	b.Categories = append(rest[:to], append([]Category{moved}, rest[to:]...)...)
}
