package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireReconciled asserts the core invariant: every category with a
// non-empty breakdown has its scalar amount equal to the item sum.
func requireReconciled(t *testing.T, b *Budget) {
	t.Helper()
	for id, items := range b.Breakdown {
		if len(items) == 0 {
			continue
		}
		sum := decimal.Zero
		for _, it := range items {
			sum = sum.Add(it.Amount)
		}
		require.True(t, b.Amounts[id].Equal(sum),
			"category %s: amount %s != item sum %s", id, b.Amounts[id], sum)
	}
}

func TestExpandCategorySynthesizesBaseItem(t *testing.T) {
	b := testBudget(t, "Transportation")
	id := b.Categories[0].ID
	require.NoError(t, b.SetAmount(id, "500"))

	require.NoError(t, b.ExpandCategory(id))

	items := b.Breakdown[id]
	require.Len(t, items, 1)
	assert.Equal(t, "Transportation (Base)", items[0].Name)
	assert.True(t, items[0].Amount.Equal(decimal.NewFromInt(500)))
	assert.True(t, b.Amounts[id].Equal(decimal.NewFromInt(500)),
		"expansion must not change the total")
	requireReconciled(t, b)
}

func TestExpandCategoryNoSynthesisCases(t *testing.T) {
	b := testBudget(t, "Food")
	id := b.Categories[0].ID

	// Zero amount: nothing to preserve.
	require.NoError(t, b.ExpandCategory(id))
	assert.Empty(t, b.Breakdown[id])

	// Existing breakdown: expansion is idempotent.
	_, err := b.AddItem(id, "Groceries", "120")
	require.NoError(t, err)
	require.NoError(t, b.ExpandCategory(id))
	assert.Len(t, b.Breakdown[id], 1)

	assert.ErrorIs(t, b.ExpandCategory("missing"), ErrCategoryNotFound)
}

func TestAddItem(t *testing.T) {
	b := testBudget(t, "Food")
	id := b.Categories[0].ID

	first, err := b.AddItem(id, "Groceries", "$120.50")
	require.NoError(t, err)
	assert.True(t, first.Amount.Equal(decimal.RequireFromString("120.5")))

	second, err := b.AddItem(id, "Coffee", "30")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// Refund line: negative amounts are legal.
	_, err = b.AddItem(id, "Cashback", "-$10")
	require.NoError(t, err)

	assert.True(t, b.Amounts[id].Equal(decimal.RequireFromString("140.5")))
	requireReconciled(t, b)
}

func TestAddItemValidation(t *testing.T) {
	b := testBudget(t, "Food")
	id := b.Categories[0].ID

	_, err := b.AddItem(id, "  ", "10")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = b.AddItem(id, "Groceries", "not money")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = b.AddItem("missing", "Groceries", "10")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	assert.Empty(t, b.Breakdown[id], "failed adds must not leave items behind")
	assert.True(t, b.Amounts[id].IsZero())
}

func TestEditItem(t *testing.T) {
	b := testBudget(t, "Food")
	id := b.Categories[0].ID
	item, err := b.AddItem(id, "Groceries", "100")
	require.NoError(t, err)

	require.NoError(t, b.EditItem(id, item.ID, "Whole Foods", "80"))
	assert.Equal(t, "Whole Foods", b.Breakdown[id][0].Name)
	assert.True(t, b.Amounts[id].Equal(decimal.NewFromInt(80)))
	requireReconciled(t, b)

	// Validation failure reverts nothing: the item keeps its state.
	assert.ErrorIs(t, b.EditItem(id, item.ID, "", "90"), ErrEmptyName)
	assert.ErrorIs(t, b.EditItem(id, item.ID, "Market", "x"), ErrInvalidAmount)
	assert.Equal(t, "Whole Foods", b.Breakdown[id][0].Name)
	assert.True(t, b.Amounts[id].Equal(decimal.NewFromInt(80)))

	assert.ErrorIs(t, b.EditItem(id, "missing", "x", "1"), ErrItemNotFound)
}

func TestDeleteItem(t *testing.T) {
	b := testBudget(t, "Food")
	id := b.Categories[0].ID
	first, err := b.AddItem(id, "Groceries", "100")
	require.NoError(t, err)
	second, err := b.AddItem(id, "Coffee", "40")
	require.NoError(t, err)

	require.NoError(t, b.DeleteItem(id, first.ID))
	assert.True(t, b.Amounts[id].Equal(decimal.NewFromInt(40)))
	requireReconciled(t, b)

	// Deleting the last item zeroes the amount and reopens direct edits.
	require.NoError(t, b.DeleteItem(id, second.ID))
	assert.True(t, b.Amounts[id].IsZero())
	assert.False(t, b.HasBreakdown(id))
	require.NoError(t, b.SetAmount(id, "75"))

	assert.ErrorIs(t, b.DeleteItem(id, second.ID), ErrItemNotFound)
}
