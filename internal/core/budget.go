package core

// SetIncome replaces the monthly income from raw input. Unparsable
// input resolves to zero, matching the forgiving data-entry behavior
// of the income field.
func (b *Budget) SetIncome(raw string) {
	b.Income = ParseIncome(raw)
}

// SetAmount resolves a direct edit of a category's scalar amount,
// supporting inline arithmetic against the current value. The guard
// for derived amounts lives here: a category with breakdown items
// rejects direct edits, which must go through the ledger operations
// instead.
func (b *Budget) SetAmount(categoryID, raw string) error {
	if _, ok := b.findCategory(categoryID); !ok {
		return ErrCategoryNotFound
	}
	if len(b.Breakdown[categoryID]) > 0 {
		return ErrAmountLocked
	}
	result, err := EvaluateExpression(b.Amounts[categoryID], raw)
	if err != nil {
		return err
	}
	b.Amounts[categoryID] = result
	return nil
}
