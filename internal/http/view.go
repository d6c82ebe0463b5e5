package http

import (
	"strings"

	"bilancio/internal/core"
)

// Wire representation of the budget screen. Amounts travel as the
// formatted strings the client displays, percentages as numbers.
type budgetView struct {
	Revision      int64          `json:"revision"`
	Income        string         `json:"income"`
	TotalExpenses string         `json:"total_expenses"`
	Remaining     string         `json:"remaining"`
	Categories    []categoryView `json:"categories"`
}

type categoryView struct {
	ID              string     `json:"id"`
	Label           string     `json:"label"`
	Icon            string     `json:"icon"`
	Amount          string     `json:"amount"`
	Percentage      float64    `json:"percentage"`
	Locked          bool       `json:"locked"`
	Expanded        bool       `json:"expanded"`
	ItemPlaceholder string     `json:"item_placeholder,omitempty"`
	Items           []itemView `json:"items,omitempty"`
}

type itemView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

func (s *Server) buildBudgetView() budgetView {
	b := s.svc.Snapshot()

	view := budgetView{
		Revision:      s.svc.Revision(),
		Income:        core.FormatAmount(b.Income),
		TotalExpenses: core.FormatAmount(b.TotalExpenses()),
		Remaining:     core.FormatAmount(b.Remaining()),
		Categories:    make([]categoryView, 0, len(b.Categories)),
	}

	for _, cat := range b.Categories {
		amount := b.Amount(cat.ID)
		cv := categoryView{
			ID:         cat.ID,
			Label:      cat.Label,
			Icon:       cat.Icon,
			Amount:     core.FormatAmount(amount),
			Percentage: b.CategoryPercentage(cat.ID),
			Locked:     b.HasBreakdown(cat.ID),
			Expanded:   s.isExpanded(cat.ID),
		}
		if cv.Expanded {
			cv.ItemPlaceholder = itemPlaceholder(cat.Label)
			items := b.Breakdown[cat.ID]
			cv.Items = make([]itemView, 0, len(items))
			for _, item := range items {
				cv.Items = append(cv.Items, itemView{
					ID:     item.ID,
					Name:   item.Name,
					Amount: core.FormatAmount(item.Amount),
				})
			}
		}
		view.Categories = append(view.Categories, cv)
	}

	return view
}

// itemPlaceholder suggests an example item name for the category.
func itemPlaceholder(categoryLabel string) string {
	label := strings.ToLower(categoryLabel)

	contains := func(subs ...string) bool {
		for _, sub := range subs {
			if strings.Contains(label, sub) {
				return true
			}
		}
		return false
	}

	switch {
	case contains("car", "transport", "vehicle"):
		return "e.g., Audi A5"
	case contains("phone", "cell"):
		return "e.g., T-Mobile"
	case contains("food", "groceries", "eating"):
		return "e.g., Whole Foods"
	case contains("insurance", "health"):
		return "e.g., Blue Cross"
	case contains("entertainment", "subscription"):
		return "e.g., Netflix"
	case contains("education", "course", "reading"):
		return "e.g., Textbooks"
	case contains("gift", "donation"):
		return "e.g., Birthday Gift"
	case contains("investment"):
		return "e.g., 401k"
	case contains("rent", "mortgage", "utilities"):
		return "e.g., Rent"
	default:
		return "e.g., Item name"
	}
}

type summaryView struct {
	Revision      int64                 `json:"revision"`
	Income        string                `json:"income"`
	TotalExpenses string                `json:"total_expenses"`
	Remaining     string                `json:"remaining"`
	Categories    []summaryCategoryView `json:"categories"`
}

type summaryCategoryView struct {
	Label      string     `json:"label"`
	Icon       string     `json:"icon"`
	Amount     string     `json:"amount"`
	Percentage float64    `json:"percentage"`
	Items      []itemView `json:"items,omitempty"`
}

func (s *Server) buildSummaryView() summaryView {
	sum := s.svc.Summary()
	view := summaryView{
		Revision:      s.svc.Revision(),
		Income:        core.FormatAmount(sum.Income),
		TotalExpenses: core.FormatAmount(sum.TotalExpenses),
		Remaining:     core.FormatAmount(sum.Remaining),
		Categories:    make([]summaryCategoryView, 0, len(sum.Categories)),
	}
	for _, cat := range sum.Categories {
		scv := summaryCategoryView{
			Label:      cat.Label,
			Icon:       cat.Icon,
			Amount:     core.FormatAmount(cat.Amount),
			Percentage: cat.Percentage,
		}
		for _, item := range cat.Items {
			scv.Items = append(scv.Items, itemView{
				ID:     item.ID,
				Name:   item.Name,
				Amount: core.FormatAmount(item.Amount),
			})
		}
		view.Categories = append(view.Categories, scv)
	}
	return view
}

type breakdownEntryView struct {
	Category     string  `json:"category"`
	Icon         string  `json:"icon"`
	Amount       string  `json:"amount"`
	ShareOfTotal float64 `json:"share_of_total"`
}

func (s *Server) buildBreakdownView() []breakdownEntryView {
	b := s.svc.Snapshot()
	entries := b.RankedBreakdown()
	views := make([]breakdownEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, breakdownEntryView{
			Category:     e.Category.Label,
			Icon:         e.Category.Icon,
			Amount:       core.FormatAmount(e.Amount),
			ShareOfTotal: e.ShareOfTotal,
		})
	}
	return views
}
