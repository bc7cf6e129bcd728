package intent

import (
	"fmt"
	"math"
	"strings"

	"github.com/spektr-org/ratelens/engine"
)

// ============================================================================
// COMPARISON HANDLERS — Websites, suppliers, categories, weekends
// ============================================================================

// side is one participant of a two-way comparison.
type side struct {
	Name string
	Avg  float64
	ok   bool
}

// resolveSide picks the best match for a captured name within view and
// averages its rows. An unresolved name keeps the captured text.
func resolveSide(view engine.RecordView, known []string, text string, key engine.KeyFunc) side {
	name, found := engine.BestMatch(view, known, text, key)
	if !found {
		return side{Name: text}
	}
	avg, n := engine.MeanRate(engine.Filter(view, engine.KeyIs(key, name)))
	return side{Name: name, Avg: avg, ok: n > 0}
}

func compareWebsites(q *query, g []string) string {
	sites := q.ds.Websites()
	a := resolveSide(q.ds.View(), sites, cleanName(g[0]), engine.ByWebsite)
	b := resolveSide(q.ds.View(), sites, cleanName(g[1]), engine.ByWebsite)
	if !a.ok || !b.ok {
		return fmt.Sprintf("Sorry, I couldn't find data for both %s and %s. Available websites in the data are: %s.",
			displayName(a), displayName(b), strings.Join(sites, ", "))
	}

	better := b.Name
	if a.Avg < b.Avg {
		better = a.Name
	}
	lo, hi := math.Min(a.Avg, b.Avg), math.Max(a.Avg, b.Avg)
	return fmt.Sprintf("%s is currently offering better deals with average rates %s vs %s (%s%% difference).",
		better, engine.FormatMoney(lo), engine.FormatMoney(hi), engine.FormatPercent(engine.PercentOf(hi-lo, hi)))
}

// displayName capitalizes names that did not resolve against the data.
func displayName(s side) string {
	if s.ok {
		return s.Name
	}
	return capitalize(s.Name)
}

func compareSuppliersForCategory(q *query, g []string) string {
	category := cleanName(g[2])
	inCategory := engine.Filter(q.ds.View(), engine.CategoryContains(category))
	suppliers := q.ds.Suppliers()
	a := resolveSide(inCategory, suppliers, cleanName(g[0]), engine.BySupplier)
	b := resolveSide(inCategory, suppliers, cleanName(g[1]), engine.BySupplier)
	if !a.ok || !b.ok {
		return fmt.Sprintf("Sorry, I couldn't find comparison data for both %s and %s for %s cars.", a.Name, b.Name, category)
	}

	cheaper, other := b, a
	if a.Avg < b.Avg {
		cheaper, other = a, b
	}
	diff := math.Abs(a.Avg - b.Avg)
	hi := math.Max(a.Avg, b.Avg)
	return fmt.Sprintf("For %s cars, %s offers better rates with an average of %s compared to %s from %s. That's a difference of %s (%s%%).",
		category, cheaper.Name, engine.FormatMoney(cheaper.Avg), engine.FormatMoney(other.Avg), other.Name,
		engine.FormatMoney(diff), engine.FormatPercent(engine.PercentOf(diff, hi)))
}

func categoryPriceDifference(q *query, g []string) string {
	cat1, cat2 := cleanName(g[0]), cleanName(g[1])
	avg1, n1 := engine.MeanRate(engine.Filter(q.ds.View(), engine.CategoryContains(cat1)))
	avg2, n2 := engine.MeanRate(engine.Filter(q.ds.View(), engine.CategoryContains(cat2)))
	if n1 == 0 || n2 == 0 {
		return fmt.Sprintf("Sorry, I couldn't find comparison data for both %s and %s car categories.", cat1, cat2)
	}

	higher, lower := cat1, cat2
	if avg2 > avg1 {
		higher, lower = cat2, cat1
	}
	diff := math.Abs(avg1 - avg2)
	lo, hi := math.Min(avg1, avg2), math.Max(avg1, avg2)
	return fmt.Sprintf("The average price difference between %s and %s cars is %s. %s cars are %s%% more expensive than %s cars (%s vs %s).",
		cat1, cat2, engine.FormatMoney(diff), higher, engine.FormatPercent(engine.PercentOf(diff, lo)), lower,
		engine.FormatMoney(hi), engine.FormatMoney(lo))
}

func compareSuppliersOverall(q *query, g []string) string {
	suppliers := q.ds.Suppliers()
	a := resolveSide(q.ds.View(), suppliers, cleanName(g[0]), engine.BySupplier)
	b := resolveSide(q.ds.View(), suppliers, cleanName(g[1]), engine.BySupplier)
	if !a.ok || !b.ok {
		return fmt.Sprintf("Sorry, I couldn't find data for both %s and %s.", a.Name, b.Name)
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Comparing %s vs %s:\n\n", a.Name, b.Name)
	fmt.Fprintf(&out, "Overall average: %s: %s | %s: %s\n\n", a.Name, engine.FormatMoney(a.Avg), b.Name, engine.FormatMoney(b.Avg))

	var lines []string
	for _, cat := range q.idx.SupplierCategoryKeys() {
		means := q.idx.SupplierByCategory[cat]
		p1, ok1 := means.Get(a.Name)
		p2, ok2 := means.Get(b.Name)
		if !ok1 || !ok2 {
			continue
		}
		cheaper := b.Name
		if p1 < p2 {
			cheaper = a.Name
		}
		lines = append(lines, fmt.Sprintf("- %s: %s is %s cheaper\n", cat, cheaper, engine.FormatMoney(math.Abs(p1-p2))))
	}
	if len(lines) > 0 {
		out.WriteString("Comparison by car category:\n")
		for _, l := range lines {
			out.WriteString(l)
		}
	}
	return out.String()
}

func howMuchCheaper(q *query, g []string) string {
	suppliers := q.ds.Suppliers()
	a := resolveSide(q.ds.View(), suppliers, cleanName(g[0]), engine.BySupplier)
	b := resolveSide(q.ds.View(), suppliers, cleanName(g[1]), engine.BySupplier)
	if !a.ok || !b.ok {
		return fmt.Sprintf("Sorry, I couldn't find data for both %s and %s.", a.Name, b.Name)
	}

	diff := math.Abs(a.Avg - b.Avg)
	pct := engine.FormatPercent(engine.PercentOf(diff, math.Max(a.Avg, b.Avg)))
	if a.Avg < b.Avg {
		return fmt.Sprintf("%s is %s cheaper than %s on average, which is %s%% less (%s vs %s).",
			a.Name, engine.FormatMoney(diff), b.Name, pct, engine.FormatMoney(a.Avg), engine.FormatMoney(b.Avg))
	}
	return fmt.Sprintf("%s is actually %s more expensive than %s on average, which is %s%% more (%s vs %s).",
		a.Name, engine.FormatMoney(diff), b.Name, pct, engine.FormatMoney(a.Avg), engine.FormatMoney(b.Avg))
}

func websitePriceDifferences(q *query, _ []string) string {
	type siteAvg struct {
		Name string
		Avg  float64
	}
	var sites []siteAvg
	for _, w := range q.ds.Websites() {
		if avg, n := engine.MeanRate(engine.Filter(q.ds.View(), engine.WebsiteIs(w))); n > 0 {
			sites = append(sites, siteAvg{Name: w, Avg: avg})
		}
	}
	if len(sites) < 2 {
		return "Sorry, I could only find one website in the data, so there's no comparison to make."
	}

	var b strings.Builder
	b.WriteString("Here are the price differences between websites:\n\n")
	for i := 0; i < len(sites); i++ {
		for j := i + 1; j < len(sites); j++ {
			w1, w2 := sites[i], sites[j]
			cheaper := w2.Name
			if w1.Avg < w2.Avg {
				cheaper = w1.Name
			}
			diff := math.Abs(w1.Avg - w2.Avg)
			fmt.Fprintf(&b, "%s vs %s: %s is %s cheaper (%s%%)\n", w1.Name, w2.Name, cheaper,
				engine.FormatMoney(diff), engine.FormatPercent(engine.PercentOf(diff, math.Max(w1.Avg, w2.Avg))))
		}
	}
	return b.String()
}

func weekendVsWeekday(q *query, _ []string) string {
	split := q.idx.WeekendWeekday
	if !split.Complete() {
		return "Sorry, I couldn't analyze weekend vs weekday prices from the available data."
	}
	diff := math.Abs(split.Weekend - split.Weekday)
	pct := engine.FormatPercent(engine.PercentOf(diff, math.Min(split.Weekend, split.Weekday)))
	if split.Weekend > split.Weekday {
		return fmt.Sprintf("Yes, weekends are %s more expensive than weekdays on average, which is %s%% higher (%s vs %s).",
			engine.FormatMoney(diff), pct, engine.FormatMoney(split.Weekend), engine.FormatMoney(split.Weekday))
	}
	return fmt.Sprintf("No, weekends are actually %s cheaper than weekdays on average, which is %s%% lower (%s vs %s).",
		engine.FormatMoney(diff), pct, engine.FormatMoney(split.Weekend), engine.FormatMoney(split.Weekday))
}
