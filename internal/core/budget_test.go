package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetIncome(t *testing.T) {
	b := NewBudget()

	b.SetIncome("$4,500")
	assert.True(t, b.Income.Equal(decimal.NewFromInt(4500)))

	b.SetIncome("000450")
	assert.True(t, b.Income.Equal(decimal.NewFromInt(450)))

	b.SetIncome("garbage")
	assert.True(t, b.Income.IsZero(), "unparsable income defaults to zero")
}

func TestSetAmount(t *testing.T) {
	b := testBudget(t, "Food")
	id := b.Categories[0].ID

	require.NoError(t, b.SetAmount(id, "100"))
	require.NoError(t, b.SetAmount(id, "+50"))
	assert.True(t, b.Amounts[id].Equal(decimal.NewFromInt(150)))

	require.NoError(t, b.SetAmount(id, "20*3"))
	assert.True(t, b.Amounts[id].Equal(decimal.NewFromInt(60)))

	// Failed resolution keeps the prior value; the caller treats the
	// error as a silent no-op.
	assert.Error(t, b.SetAmount(id, "bad"))
	assert.True(t, b.Amounts[id].Equal(decimal.NewFromInt(60)))

	assert.ErrorIs(t, b.SetAmount("missing", "10"), ErrCategoryNotFound)
}

func TestSetAmountLockedByBreakdown(t *testing.T) {
	b := testBudget(t, "Food")
	id := b.Categories[0].ID
	_, err := b.AddItem(id, "Groceries", "120")
	require.NoError(t, err)

	assert.ErrorIs(t, b.SetAmount(id, "999"), ErrAmountLocked)
	assert.True(t, b.Amounts[id].Equal(decimal.NewFromInt(120)))
}

func TestDefaultBudget(t *testing.T) {
	b := DefaultBudget()

	assert.True(t, b.Income.Equal(decimal.NewFromInt(4000)))
	assert.Len(t, b.Categories, 9)
	for _, cat := range b.Categories {
		amt, ok := b.Amounts[cat.ID]
		require.True(t, ok, "every category needs an amounts entry")
		assert.True(t, amt.IsZero())
		assert.NotEmpty(t, cat.Icon)
	}
}

func TestCloneIsolation(t *testing.T) {
	b := testBudget(t, "Food")
	id := b.Categories[0].ID
	_, err := b.AddItem(id, "Groceries", "100")
	require.NoError(t, err)

	c := b.Clone()
	_, err = b.AddItem(id, "Coffee", "40")
	require.NoError(t, err)
	require.NoError(t, b.RenameCategory(id, "Renamed"))

	assert.Len(t, c.Breakdown[id], 1, "clone must not see later mutations")
	assert.Equal(t, "Food", c.Categories[0].Label)
	assert.True(t, c.Amounts[id].Equal(decimal.NewFromInt(100)))
}
