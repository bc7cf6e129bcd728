package fallback

import (
	"fmt"
	"strings"

	"github.com/spektr-org/ratelens/engine"
)

// BuildPrompt wraps the question with a short description of the loaded
// data. Without a summary the question is sent as-is.
func BuildPrompt(question string, summary *engine.Summary) string {
	if summary == nil || summary.TotalRecords == 0 {
		return question
	}

	var b strings.Builder
	b.WriteString("You are an assistant for a car rental rate-shopping analyst.\n\n")
	b.WriteString("LOADED DATA (metadata only):\n")
	fmt.Fprintf(&b, "- %d price quotes from %d suppliers across %d car categories\n",
		summary.TotalRecords, summary.UniqueSuppliers, summary.UniqueCategories)
	if summary.DateRange.Min != "" {
		fmt.Fprintf(&b, "- pickup dates %s to %s\n", summary.DateRange.Min, summary.DateRange.Max)
	}
	if len(summary.Websites) > 0 {
		fmt.Fprintf(&b, "- websites: %s\n", strings.Join(summary.Websites, ", "))
	}
	b.WriteString("\nYou cannot see individual prices. Answer briefly.\n\n")
	b.WriteString("QUESTION: ")
	b.WriteString(question)
	return b.String()
}
