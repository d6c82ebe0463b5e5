package storage

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// Persisted snapshot shape. Amounts travel as plain JSON numbers so the
// blob stays readable and round-trips exactly.
type (
	// Absent fields decode as nil and keep their seed defaults; the
	// encoder always writes every field so saved blobs round-trip
	// exactly, empty lists included.
	snapshot struct {
		Income     *json.Number              `json:"income"`
		Amounts    map[string]json.Number    `json:"amounts"`
		Categories []snapshotCategory        `json:"categories"`
		Breakdown  map[string][]snapshotItem `json:"breakdown"`
	}

	snapshotCategory struct {
		ID    string `json:"id"`
		Label string `json:"label"`
		Icon  string `json:"icon"`
	}

	snapshotItem struct {
		ID     string      `json:"id"`
		Name   string      `json:"name"`
		Amount json.Number `json:"amount"`
	}
)

// EncodeSnapshot serializes a budget into the persisted blob format.
func EncodeSnapshot(b *core.Budget) ([]byte, error) {
	income := toNumber(b.Income)
	s := snapshot{
		Income:     &income,
		Amounts:    make(map[string]json.Number, len(b.Amounts)),
		Categories: make([]snapshotCategory, 0, len(b.Categories)),
		Breakdown:  make(map[string][]snapshotItem, len(b.Breakdown)),
	}
	for id, amt := range b.Amounts {
		s.Amounts[id] = toNumber(amt)
	}
	for _, cat := range b.Categories {
		s.Categories = append(s.Categories, snapshotCategory(cat))
	}
	for id, items := range b.Breakdown {
		out := make([]snapshotItem, 0, len(items))
		for _, it := range items {
			out = append(out, snapshotItem{ID: it.ID, Name: it.Name, Amount: toNumber(it.Amount)})
		}
		s.Breakdown[id] = out
	}

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot rebuilds a budget from a persisted blob. Fields absent
// from the blob keep their seed defaults; only a malformed document is
// an error.
func DecodeSnapshot(data []byte) (*core.Budget, error) {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	b := core.DefaultBudget()
	if s.Income != nil {
		b.Income = fromNumber(*s.Income)
	}
	if s.Categories != nil {
		b.Categories = b.Categories[:0]
		b.Amounts = make(map[string]decimal.Decimal, len(s.Categories))
		b.Breakdown = make(map[string][]core.SubItem)
		for _, cat := range s.Categories {
			b.Categories = append(b.Categories, core.Category(cat))
		}
	}
	if s.Amounts != nil {
		for id, n := range s.Amounts {
			b.Amounts[id] = fromNumber(n)
		}
	}
	if s.Breakdown != nil {
		for id, items := range s.Breakdown {
			out := make([]core.SubItem, 0, len(items))
			for _, it := range items {
				out = append(out, core.SubItem{ID: it.ID, Name: it.Name, Amount: fromNumber(it.Amount)})
			}
			b.Breakdown[id] = out
		}
	}

	normalize(b)
	return b, nil
}

// normalize restores the structural invariants after a partial blob:
// every live category has an amounts key, and no amount or breakdown
// entry survives for a category that no longer exists.
func normalize(b *core.Budget) {
	live := make(map[string]bool, len(b.Categories))
	for _, cat := range b.Categories {
		live[cat.ID] = true
		if _, ok := b.Amounts[cat.ID]; !ok {
			b.Amounts[cat.ID] = decimal.Zero
		}
	}
	for id := range b.Amounts {
		if !live[id] {
			delete(b.Amounts, id)
		}
	}
	for id, items := range b.Breakdown {
		if !live[id] || len(items) == 0 {
			delete(b.Breakdown, id)
		}
	}
}

func toNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// fromNumber coerces a persisted number to a decimal, zero if it does
// not parse.
func fromNumber(n json.Number) decimal.Decimal {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}
