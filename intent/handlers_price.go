package intent

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spektr-org/ratelens/engine"
)

// ============================================================================
// PRICE HANDLERS — Cheapest quotes, rankings, deals, tiers
// ============================================================================

const (
	topRanked   = 5
	topDeals    = 5
	topValue    = 3
	topSupplier = 3
)

func cheapestCarForDate(q *query, g []string) string {
	category := capitalize(g[0])
	date, err := parseDate(g[1], q.now)
	if err != nil {
		return "I couldn't understand the date format. Please specify a date like 'April 5'."
	}
	key := date.Format(engine.DateLayout)

	matches := engine.Filter(q.ds.View(), engine.And(engine.CategoryContains(category), engine.PickupOn(key)))
	best := engine.MinRate(matches)
	if best == nil {
		return fmt.Sprintf("Sorry, I couldn't find any %s cars available for %s.", category, key)
	}
	return fmt.Sprintf("The cheapest %s car for %s is a %s from %s at %s per day.",
		category, date.Format("January 02"), best.VehicleName, best.WebsiteSupplier, engine.FormatMoney(best.InclusiveRate))
}

func bestRatesForCategory(q *query, g []string) string {
	category := cleanName(g[1])

	if strings.Contains(category, "suv") {
		suvs := engine.Filter(q.ds.View(), engine.CategoryContains("suv"))
		best, ok := engine.Lowest(engine.GroupMeans(suvs, engine.BySupplier))
		if !ok {
			return "Sorry, I couldn't find any SUV categories in the data."
		}
		return fmt.Sprintf("For SUVs, %s has the best average rate at %s per day.", best.Key, engine.FormatMoney(best.Value))
	}

	var b strings.Builder
	for _, cat := range engine.MatchAll(q.ds.Categories(), category) {
		best, ok := q.idx.SupplierByCategory[cat].Lowest()
		if !ok {
			continue
		}
		if b.Len() == 0 {
			fmt.Fprintf(&b, "Here are the suppliers with the best rates for %s car categories:\n\n", category)
		}
		fmt.Fprintf(&b, "- %s: %s at %s per day\n", cat, best.Key, engine.FormatMoney(best.Value))
	}
	if b.Len() == 0 {
		return fmt.Sprintf("Sorry, I couldn't find data for '%s' car categories.", category)
	}
	return b.String()
}

func dealsBelowAverage(q *query, g []string) string {
	threshold, _ := strconv.Atoi(g[0])
	deals, _ := engine.FindDeals(q.ds, float64(threshold))
	if len(deals) == 0 {
		return fmt.Sprintf("Sorry, I couldn't find any deals more than %d%% below average price.", threshold)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I found %d deals with more than %d%% below average price. Here are the top %d:\n\n", len(deals), threshold, topDeals)
	for i, d := range deals {
		if i >= topDeals {
			break
		}
		fmt.Fprintf(&b, "%d. %s (%s) from %s: %s (%s%% below avg) on %s\n",
			i+1, d.Vehicle, d.Category, d.Supplier, engine.FormatMoney(d.Price), engine.FormatPercent(d.Discount), d.Date)
	}
	return b.String()
}

func mostAffordableCategories(q *query, _ []string) string {
	ranked := q.idx.AvgByCategory.Ascending(topRanked)
	if len(ranked) == 0 {
		return "Sorry, I couldn't analyze prices by car category from the available data."
	}
	var b strings.Builder
	b.WriteString("The most affordable car categories based on average rates are:\n\n")
	for i, c := range ranked {
		fmt.Fprintf(&b, "%d. %s: %s per day\n", i+1, c.Key, engine.FormatMoney(c.Value))
	}
	return b.String()
}

func lowestPriceSuppliers(q *query, _ []string) string {
	ranked := q.idx.AvgBySupplier.Ascending(topRanked)
	if len(ranked) == 0 {
		return "Sorry, I couldn't analyze prices by supplier from the available data."
	}
	var b strings.Builder
	b.WriteString("The suppliers with the lowest average prices are:\n\n")
	for i, s := range ranked {
		fmt.Fprintf(&b, "%d. %s: %s per day\n", i+1, s.Key, engine.FormatMoney(s.Value))
	}
	return b.String()
}

// byVehicleSupplier keys a row by (vehicle, supplier); "\x00" keeps tuple order.
func byVehicleSupplier(r *engine.Record) string {
	if r.VehicleName == "" || r.WebsiteSupplier == "" {
		return ""
	}
	return r.VehicleName + "\x00" + r.WebsiteSupplier
}

func tierCarsUnderPrice(q *query, g []string) string {
	tier := g[1]
	limit, _ := strconv.ParseFloat(g[2], 64)

	cats := engine.MatchAll(q.ds.Categories(), tier)
	if len(cats) == 0 {
		return fmt.Sprintf("Sorry, I couldn't find any car categories matching '%s' in the data.", tier)
	}

	under := engine.Filter(q.ds.View(), engine.And(engine.CategoryIn(cats...), engine.RateBelow(limit)))
	if under.Len() == 0 {
		return fmt.Sprintf("Sorry, I couldn't find any %s cars under %s per day.", tier, engine.FormatMoney(limit))
	}

	cheapest := make([]*engine.Record, 0)
	for _, grp := range engine.GroupBy(under, byVehicleSupplier) {
		if r := engine.MinRate(grp.View); r != nil {
			cheapest = append(cheapest, r)
		}
	}
	sort.SliceStable(cheapest, func(i, j int) bool { return cheapest[i].InclusiveRate < cheapest[j].InclusiveRate })

	var b strings.Builder
	fmt.Fprintf(&b, "Here are %s cars under %s per day:\n\n", tier, engine.FormatMoney(limit))
	for i, r := range cheapest {
		if i >= topRanked {
			break
		}
		fmt.Fprintf(&b, "%d. %s from %s: %s per day\n", i+1, r.VehicleName, r.WebsiteSupplier, engine.FormatMoney(r.InclusiveRate))
	}
	return b.String()
}

func averagePriceForCategory(q *query, g []string) string {
	category := cleanName(g[0])

	var b strings.Builder
	for _, cat := range engine.MatchAll(q.ds.Categories(), category) {
		avg, ok := q.idx.AvgByCategory.Get(cat)
		if !ok {
			continue
		}
		if b.Len() == 0 {
			fmt.Fprintf(&b, "Here are the average prices for %s car categories:\n\n", category)
		}
		fmt.Fprintf(&b, "- %s: %s per day\n", cat, engine.FormatMoney(avg))
	}
	if b.Len() == 0 {
		return fmt.Sprintf("Sorry, I couldn't find any car categories matching '%s' in the data.", category)
	}
	return b.String()
}

// sizeClass groups category keywords by vehicle size; Factor approximates
// the extra space a larger class buys.
type sizeClass struct {
	Name     string
	Keywords []string
	Factor   float64
}

var sizeClasses = []sizeClass{
	{Name: "small", Keywords: []string{"economy", "compact", "mini"}, Factor: 1},
	{Name: "medium", Keywords: []string{"midsize", "standard", "intermediate"}, Factor: 1.2},
	{Name: "large", Keywords: []string{"fullsize", "premium", "luxury", "suv"}, Factor: 1.5},
}

func (s sizeClass) matches(category string) bool {
	return containsAny(strings.ToLower(category), s.Keywords...)
}

func bestValueSize(q *query, _ []string) string {
	bestIdx, bestScore := -1, math.Inf(1)
	for i, size := range sizeClasses {
		size := size
		mean, n := engine.MeanRate(engine.Filter(q.ds.View(), func(r *engine.Record) bool {
			return size.matches(r.WebsiteCarCategory)
		}))
		if n == 0 {
			continue
		}
		if score := mean / size.Factor; score < bestScore {
			bestIdx, bestScore = i, score
		}
	}
	if bestIdx < 0 {
		return "Sorry, I couldn't determine which car category has the best value."
	}
	best := sizeClasses[bestIdx]

	var members []engine.Group
	for _, cat := range q.ds.Categories() {
		if classOf(cat) != bestIdx {
			continue
		}
		if avg, ok := q.idx.AvgByCategory.Get(cat); ok {
			members = append(members, engine.Group{Key: cat, Value: avg})
		}
	}
	if len(members) == 0 {
		return "Sorry, I couldn't determine which car category has the best value."
	}
	engine.SortGroups(members, engine.SortValueAsc)

	var b strings.Builder
	fmt.Fprintf(&b, "Based on price-to-size value, %s cars offer the best value.\n\n", capitalize(best.Name))
	b.WriteString("The best value specific categories are:\n")
	for i, m := range members {
		if i >= topValue {
			break
		}
		fmt.Fprintf(&b, "%d. %s: %s per day\n", i+1, m.Key, engine.FormatMoney(m.Value))
	}
	return b.String()
}

// classOf returns the first size class a category belongs to, or -1.
func classOf(category string) int {
	for i, s := range sizeClasses {
		if s.matches(category) {
			return i
		}
	}
	return -1
}

type tierStats struct {
	Supplier string
	Avg      float64
	Variety  int
}

func bestTierSupplier(q *query, g []string) string {
	tier := g[1]
	cats := engine.MatchAll(q.ds.Categories(), tier)
	if len(cats) == 0 {
		return fmt.Sprintf("Sorry, I couldn't find any car categories matching '%s' in the data.", tier)
	}
	tierRows := engine.Filter(q.ds.View(), engine.CategoryIn(cats...))

	var stats []tierStats
	for _, s := range engine.Distinct(tierRows, engine.BySupplier) {
		rows := engine.Filter(tierRows, engine.SupplierIs(s))
		avg, n := engine.MeanRate(rows)
		if n == 0 {
			continue
		}
		stats = append(stats, tierStats{Supplier: s, Avg: avg, Variety: engine.CountDistinct(rows, engine.ByVehicle)})
	}
	if len(stats) == 0 {
		return fmt.Sprintf("Sorry, I couldn't find any %s cars in the data.", tier)
	}

	byPrice := append([]tierStats(nil), stats...)
	sort.SliceStable(byPrice, func(i, j int) bool { return byPrice[i].Avg < byPrice[j].Avg })
	byVariety := append([]tierStats(nil), stats...)
	sort.SliceStable(byVariety, func(i, j int) bool { return byVariety[i].Variety > byVariety[j].Variety })

	var b strings.Builder
	fmt.Fprintf(&b, "Best suppliers for %s cars:\n\n", tier)
	b.WriteString("By price (lowest first):\n")
	for i, s := range byPrice {
		if i >= topSupplier {
			break
		}
		fmt.Fprintf(&b, "%d. %s: %s avg, %d different models\n", i+1, s.Supplier, engine.FormatMoney(s.Avg), s.Variety)
	}
	b.WriteString("\nBy variety (most options first):\n")
	for i, s := range byVariety {
		if i >= topSupplier {
			break
		}
		fmt.Fprintf(&b, "%d. %s: %d different models, %s avg\n", i+1, s.Supplier, s.Variety, engine.FormatMoney(s.Avg))
	}
	return b.String()
}
