package intent

import (
	"fmt"
	"regexp"

	"github.com/spektr-org/ratelens/engine"
)

// ============================================================================
// VISUALIZATION SUB-ROUTER — Chart vocabulary → ChartDirective
// ============================================================================
// Cues are checked in a fixed order and the first hit decides the chart.
// Once a question reaches here it always gets a chart; the fallback is
// price_by_category.
// ============================================================================

var chartVocabulary = []string{"plot", "graph", "chart", "visualize", "visualization", "show me"}

var (
	categoryCues = []string{
		"category", "car category", "car categories", "price by category",
		"category price", "category prices", "prices by category", "show category",
	}
	supplierCues = []string{
		"supplier", "supplier price", "price by supplier", "supplier comparison",
		"compare suppliers", "suppliers price", "visualize supplier",
	}
	trendCues = []string{
		"trend", "time", "date", "price trend", "price over time", "price by date",
		"date comparison", "dates", "over time", "plot trends",
	}
	weekendCues = []string{"weekend", "weekday", "week day"}
	dealCues    = []string{"best deal", "top deal", "good deal"}
	weeklyCues  = []string{"compare week", "weekly", "first week", "last week"}

	compareSuppliersChart   = regexp.MustCompile(`compare (.*?) and (.*?) (?:for|on) (.*)`)
	categoryDifferenceChart = regexp.MustCompile(`(plot|show|visualize|graph).*?difference.* (.*?) and (.*?) cars`)
)

// wantsChart reports whether the question asks for a visualization.
func wantsChart(q string) bool {
	return containsAny(q, chartVocabulary...)
}

// visualize maps a lower-cased chart request to a directive.
func visualize(q string) Answer {
	switch {
	case containsAny(q, categoryCues...):
		return Chart("Here's a graph comparing prices across different car categories.",
			engine.ChartDirective{Type: engine.ChartPriceByCategory})
	case containsAny(q, supplierCues...):
		return Chart("I'll show you a graph of average prices by supplier.",
			engine.ChartDirective{Type: engine.ChartPriceBySupplier})
	case containsAny(q, trendCues...):
		return Chart("Here's a graph showing how prices trend over different pickup dates.",
			engine.ChartDirective{Type: engine.ChartPriceByDate})
	}

	if m := compareSuppliersChart.FindStringSubmatch(q); m != nil {
		s1, s2 := titleCase(cleanName(m[1])), titleCase(cleanName(m[2]))
		category := cleanName(m[3])
		return Chart(fmt.Sprintf("Here's a price comparison between %s and %s for %s.", s1, s2, category),
			engine.ChartDirective{Type: engine.ChartSupplierComparison, Suppliers: []string{s1, s2}, Category: category})
	}

	switch {
	case containsAny(q, weekendCues...):
		return Chart("Here's a comparison of weekend versus weekday pricing.",
			engine.ChartDirective{Type: engine.ChartWeekendWeekday})
	case containsAny(q, dealCues...):
		return Chart("Here are the best deals I found across all suppliers and categories.",
			engine.ChartDirective{Type: engine.ChartBestDeals})
	}

	if m := categoryDifferenceChart.FindStringSubmatch(q); m != nil {
		c1, c2 := titleCase(cleanName(m[2])), titleCase(cleanName(m[3]))
		return Chart(fmt.Sprintf("Here's a visual comparison of prices between %s and %s cars.", c1, c2),
			engine.ChartDirective{Type: engine.ChartCategoryDifference, Categories: []string{c1, c2}})
	}

	if containsAny(q, weeklyCues...) {
		return Chart("Here's a comparison of prices between the first and last weeks of the data period.",
			engine.ChartDirective{Type: engine.ChartWeeklyComparison})
	}

	return Chart("Here's a graph comparing prices across different car categories.",
		engine.ChartDirective{Type: engine.ChartPriceByCategory})
}
