package ai

import (
	"fmt"
	"strings"

	"bilancio/internal/core"
)

func iconPrompt(label string) string {
	return fmt.Sprintf(`Given this expense category name: %q, suggest ONE single emoji that best represents it. Respond with ONLY the emoji character, nothing else. No text, no explanation, just the emoji.`, label)
}

// savingsPrompt renders the structured summary into the advisor prompt:
// headline figures, then one line per spending category with its share
// of income and any itemized lines.
func savingsPrompt(s core.Summary) string {
	var sb strings.Builder
	sb.WriteString("You are a financial advisor. Analyze this monthly budget and provide 3-5 actionable, specific suggestions to reduce expenses. Be practical and encouraging.\n\n")
	fmt.Fprintf(&sb, "Monthly Income (after tax): %s\n", core.FormatAmount(s.Income))
	fmt.Fprintf(&sb, "Total Expenses: %s\n", core.FormatAmount(s.TotalExpenses))
	fmt.Fprintf(&sb, "Remaining: %s\n\n", core.FormatAmount(s.Remaining))
	sb.WriteString("Expense Breakdown:\n")
	for _, cat := range s.Categories {
		fmt.Fprintf(&sb, "- %s: %s (%.1f%% of income)",
			cat.Label, core.FormatAmount(cat.Amount), cat.Percentage)
		if len(cat.Items) > 0 {
			parts := make([]string, 0, len(cat.Items))
			for _, it := range cat.Items {
				parts = append(parts, fmt.Sprintf("%s %s", it.Name, core.FormatAmount(it.Amount)))
			}
			fmt.Fprintf(&sb, "\n  Items: %s", strings.Join(parts, ", "))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\nProvide practical suggestions in a friendly, conversational tone. Focus on the highest-impact areas. Keep each suggestion to 1-2 sentences. Format as a bulleted list.")
	return sb.String()
}
