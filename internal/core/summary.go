package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BreakdownEntry is one row of the ranked breakdown view.
type BreakdownEntry struct {
	Category     Category
	Amount       decimal.Decimal
	ShareOfTotal float64 // percent of total expenses
}

type (
	// SummaryCategory is one category of the structured summary, with
	// its share of income and any breakdown items.
	SummaryCategory struct {
		Label      string
		Icon       string
		Amount     decimal.Decimal
		Percentage float64 // percent of income
		Items      []SubItem
	}

	// Summary is the structured budget overview consumed by the
	// presentation layer and by the savings-suggestion collaborator.
	// Only categories with spending appear.
	Summary struct {
		Income        decimal.Decimal
		TotalExpenses decimal.Decimal
		Remaining     decimal.Decimal
		Categories    []SummaryCategory
	}
)

// TotalExpenses sums the scalar amounts of all live categories.
func (b *Budget) TotalExpenses() decimal.Decimal {
	total := decimal.Zero
	for _, cat := range b.Categories {
		total = total.Add(b.Amounts[cat.ID])
	}
	return total
}

// Remaining is income minus total expenses.
func (b *Budget) Remaining() decimal.Decimal {
	return b.Income.Sub(b.TotalExpenses())
}

// CategoryPercentage is the category amount as a share of income, zero
// when there is no income.
func (b *Budget) CategoryPercentage(categoryID string) float64 {
	return percentOf(b.Amounts[categoryID], b.Income)
}

// OverallPercentage is total expenses as a share of income, zero when
// there is no income.
func (b *Budget) OverallPercentage() float64 {
	return percentOf(b.TotalExpenses(), b.Income)
}

// RankedBreakdown returns every category with a non-zero amount sorted
// descending by amount, each annotated with its share of total
// expenses. Ties keep registry order.
func (b *Budget) RankedBreakdown() []BreakdownEntry {
	total := b.TotalExpenses()
	var entries []BreakdownEntry
	for _, cat := range b.Categories {
		amount := b.Amounts[cat.ID]
		if amount.IsZero() {
			continue
		}
		entries = append(entries, BreakdownEntry{
			Category:     cat,
			Amount:       amount,
			ShareOfTotal: percentOf(amount, total),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Amount.GreaterThan(entries[j].Amount)
	})
	return entries
}

// TopExpense returns the largest-spend category, nil when nothing has
// been spent.
func (b *Budget) TopExpense() *BreakdownEntry {
	ranked := b.RankedBreakdown()
	if len(ranked) == 0 {
		return nil
	}
	return &ranked[0]
}

// BuildSummary assembles the structured overview handed to the
// presentation layer and to the savings-suggestion prompt.
func (b *Budget) BuildSummary() Summary {
	s := Summary{
		Income:        b.Income,
		TotalExpenses: b.TotalExpenses(),
		Remaining:     b.Remaining(),
	}
	for _, cat := range b.Categories {
		amount := b.Amounts[cat.ID]
		if amount.IsZero() {
			continue
		}
		s.Categories = append(s.Categories, SummaryCategory{
			Label:      cat.Label,
			Icon:       cat.Icon,
			Amount:     amount,
			Percentage: b.CategoryPercentage(cat.ID),
			Items:      append([]SubItem(nil), b.Breakdown[cat.ID]...),
		})
	}
	return s
}

func percentOf(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	pct, _ := part.Mul(hundred).Div(whole).Float64()
	return pct
}
