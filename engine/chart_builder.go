package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/rotisserie/eris"
)

// ============================================================================
// CHART BUILDER — Produces ChartConfig from a ChartDirective
// ============================================================================
// Computes the series each chart type plots. Drawing is the renderer's job.
// ============================================================================

var (
	// ErrUnknownChart is returned for a directive type outside ChartTypes.
	ErrUnknownChart = eris.New("unknown chart type")
	// ErrNotEnoughData is returned when the dataset cannot feed the chart.
	ErrNotEnoughData = eris.New("not enough data for chart")
)

// Chart tuning taken from the rate-shopping dashboards.
const (
	maxCategoryBars    = 15
	bestDealsThreshold = 30.0
	maxDealBars        = 10
	dealLabelVehicle   = 15
)

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildChart produces render-ready series for a directive.
func BuildChart(ds *Dataset, d ChartDirective) (*ChartConfig, error) {
	if !d.Type.Valid() {
		return nil, eris.Wrapf(ErrUnknownChart, "chart %q", d.Type)
	}
	if ds.Len() == 0 {
		return nil, eris.Wrapf(ErrNotEnoughData, "chart %s: empty dataset", d.Type)
	}

	var (
		cfg *ChartConfig
		err error
	)
	switch d.Type {
	case ChartPriceByCategory:
		cfg, err = priceByCategoryChart(ds)
	case ChartPriceBySupplier:
		cfg, err = priceBySupplierChart(ds)
	case ChartPriceByDate:
		cfg, err = priceByDateChart(ds)
	case ChartSupplierComparison:
		cfg, err = supplierComparisonChart(ds, d.Suppliers, d.Category)
	case ChartWeekendWeekday:
		cfg, err = weekendWeekdayChart(ds)
	case ChartBestDeals:
		cfg, err = bestDealsChart(ds)
	case ChartCategoryDifference:
		cfg, err = categoryDifferenceChart(ds, d.Categories)
	case ChartWeeklyComparison:
		cfg, err = weeklyComparisonChart(ds)
	}
	if err != nil {
		return nil, err
	}
	cfg.Colors = assignColors(len(cfg.Series))
	return cfg, nil
}

// ============================================================================
// SINGLE-SERIES CHARTS
// ============================================================================

func priceByCategoryChart(ds *Dataset) (*ChartConfig, error) {
	groups := ds.Index().AvgByCategory.Ascending(0)
	if len(groups) == 0 {
		return nil, eris.Wrap(ErrNotEnoughData, "price by category")
	}
	if len(groups) > maxCategoryBars {
		groups = groups[len(groups)-maxCategoryBars:]
	}
	return &ChartConfig{
		ChartType: "bar",
		Title:     fmt.Sprintf("Average Rental Prices by Car Category (Top %d)", maxCategoryBars),
		XAxis:     "Car Category",
		YAxis:     "Average Price ($)",
		Series:    singleSeries("Average Price", groups),
		ShowGrid:  true,
	}, nil
}

func priceBySupplierChart(ds *Dataset) (*ChartConfig, error) {
	groups := ds.Index().AvgBySupplier.Ascending(0)
	if len(groups) == 0 {
		return nil, eris.Wrap(ErrNotEnoughData, "price by supplier")
	}
	return &ChartConfig{
		ChartType: "bar",
		Title:     "Average Rental Prices by Supplier",
		XAxis:     "Supplier",
		YAxis:     "Average Price ($)",
		Series:    singleSeries("Average Price", groups),
		ShowGrid:  true,
	}, nil
}

func priceByDateChart(ds *Dataset) (*ChartConfig, error) {
	groups := ds.Index().AvgByDate.Groups() // ISO keys sort chronologically
	if len(groups) == 0 {
		return nil, eris.Wrap(ErrNotEnoughData, "price by date")
	}
	return &ChartConfig{
		ChartType: "line",
		Title:     "Average Rental Prices by Pickup Date",
		XAxis:     "Pickup Date",
		YAxis:     "Average Price ($)",
		Series:    singleSeries("Average Price", groups),
		ShowGrid:  true,
	}, nil
}

func weekendWeekdayChart(ds *Dataset) (*ChartConfig, error) {
	split := ds.Index().WeekendWeekday
	if !split.Complete() {
		return nil, eris.Wrap(ErrNotEnoughData, "weekend vs weekday")
	}
	diff := split.Weekend - split.Weekday
	pricier := "Weekends"
	if diff <= 0 {
		pricier = "Weekdays"
		diff = -diff
	}
	lower := split.Weekday
	if split.Weekend < lower {
		lower = split.Weekend
	}
	return &ChartConfig{
		ChartType: "bar",
		Title:     "Weekend vs Weekday Average Rental Prices",
		YAxis:     "Average Price ($)",
		Series: []ChartSeries{{
			Name: "Average Price",
			Data: []ChartPoint{
				{Label: "Weekday", Value: RoundTo2(split.Weekday)},
				{Label: "Weekend", Value: RoundTo2(split.Weekend)},
			},
		}},
		ShowGrid: true,
		Note: fmt.Sprintf("%s are %s more expensive (%s%% higher)",
			pricier, FormatMoney(diff), FormatPercent(PercentOf(diff, lower))),
	}, nil
}

func bestDealsChart(ds *Dataset) (*ChartConfig, error) {
	deals, ok := FindDeals(ds, bestDealsThreshold)
	if !ok || len(deals) == 0 {
		return nil, eris.Wrap(ErrNotEnoughData, "best deals")
	}
	if len(deals) > maxDealBars {
		deals = deals[:maxDealBars]
	}
	points := make([]ChartPoint, 0, len(deals))
	for _, deal := range deals {
		points = append(points, ChartPoint{
			Label: fmt.Sprintf("%s - %s...", deal.Supplier, ClipRunes(deal.Vehicle, dealLabelVehicle)),
			Value: RoundTo2(deal.Discount),
		})
	}
	return &ChartConfig{
		ChartType: "bar",
		Title:     fmt.Sprintf("Top %d Car Rental Deals (%% Below Average Price)", maxDealBars),
		XAxis:     "Discount Percentage (%)",
		Series:    []ChartSeries{{Name: "Discount", Data: points}},
		ShowGrid:  true,
	}, nil
}

// ============================================================================
// MULTI-SERIES CHARTS
// ============================================================================

func supplierComparisonChart(ds *Dataset, requested []string, category string) (*ChartConfig, error) {
	known := ds.Suppliers()
	var suppliers []string
	for _, name := range requested {
		if s, ok := BestMatch(ds.View(), known, name, BySupplier); ok {
			suppliers = append(suppliers, s)
		}
	}
	if len(suppliers) == 0 {
		return nil, eris.Wrapf(ErrNotEnoughData, "supplier comparison: no supplier among %v", requested)
	}

	pred := SupplierIn(suppliers...)
	xKey, xLabel, title := ByCategory, "Car Category", "Price Comparison for All Categories"
	if category != "" {
		pred = And(pred, CategoryContains(category))
		xKey, xLabel, title = ByDate, "Date", "Price Comparison for "+category
	}
	filtered := Filter(ds.View(), pred)
	if filtered.Len() == 0 {
		return nil, eris.Wrap(ErrNotEnoughData, "supplier comparison")
	}

	var series []ChartSeries
	for _, sg := range GroupMeans(filtered, BySupplier) {
		series = append(series, ChartSeries{
			Name: sg.Key,
			Data: pointsOf(GroupMeans(sg.View, xKey)),
		})
	}
	return &ChartConfig{
		ChartType:  "line",
		Title:      title,
		XAxis:      xLabel,
		YAxis:      "Average Price ($)",
		Series:     series,
		ShowLegend: true,
		ShowGrid:   true,
	}, nil
}

func categoryDifferenceChart(ds *Dataset, categories []string) (*ChartConfig, error) {
	if len(categories) < 2 {
		categories = []string{"Economy", "Luxury"}
	}

	var avgs []Group
	for _, c := range categories {
		mean, rated := MeanRate(Filter(ds.View(), CategoryContains(c)))
		if rated > 0 {
			avgs = append(avgs, Group{Key: c, Value: mean, Rated: rated})
		}
	}
	if len(avgs) < 2 {
		return nil, eris.Wrap(ErrNotEnoughData, "category price difference")
	}

	var diffs []ChartPoint
	var note string
	for i := 0; i < len(avgs); i++ {
		for j := i + 1; j < len(avgs); j++ {
			a, b := avgs[i], avgs[j]
			diff := a.Value - b.Value
			higher, lower := a, b
			if diff < 0 {
				diff = -diff
				higher, lower = b, a
			}
			diffs = append(diffs, ChartPoint{Label: a.Key + " vs " + b.Key, Value: RoundTo2(diff)})
			if note == "" {
				note = fmt.Sprintf("%s is %s%% more expensive", higher.Key, FormatPercent(PercentOf(diff, lower.Value)))
			}
		}
	}

	labels := make([]string, len(avgs))
	for i, g := range avgs {
		labels[i] = g.Key
	}
	return &ChartConfig{
		ChartType: "bar",
		Title:     "Price Comparison: " + joinVs(labels),
		YAxis:     "Average Price ($)",
		Series: []ChartSeries{
			{Name: "Average Price", Data: pointsOf(avgs)},
			{Name: "Price Difference", Data: diffs},
		},
		ShowLegend: true,
		ShowGrid:   true,
		Note:       note,
	}, nil
}

func weeklyComparisonChart(ds *Dataset) (*ChartConfig, error) {
	var lo, hi time.Time
	view := ds.View()
	for i := 0; i < view.Len(); i++ {
		r := view.At(i)
		if !r.HasPickup() {
			continue
		}
		if lo.IsZero() || r.PickupDate.Before(lo) {
			lo = r.PickupDate
		}
		if hi.IsZero() || r.PickupDate.After(hi) {
			hi = r.PickupDate
		}
	}
	if lo.IsZero() {
		return nil, eris.Wrap(ErrNotEnoughData, "weekly comparison: no pickup dates")
	}

	week := 6 * 24 * time.Hour
	first := Filter(view, PickupWithin(lo, lo.Add(week)))
	last := Filter(view, PickupWithin(hi.Add(-week), hi))
	firstAvg, firstN := MeanRate(first)
	lastAvg, lastN := MeanRate(last)
	if firstN == 0 || lastN == 0 {
		return nil, eris.Wrap(ErrNotEnoughData, "weekly comparison")
	}

	diff := lastAvg - firstAvg
	pricier := "Last week"
	if diff <= 0 {
		pricier = "First week"
		diff = -diff
	}
	lower := firstAvg
	if lastAvg < lower {
		lower = lastAvg
	}
	const dayLabel = "Jan 02"
	return &ChartConfig{
		ChartType: "line",
		Title:     "Daily Price Comparison: First Week vs Last Week",
		XAxis:     "Day",
		YAxis:     "Average Daily Price ($)",
		Series: []ChartSeries{
			{
				Name: fmt.Sprintf("First Week (%s - %s)", lo.Format(dayLabel), lo.Add(week).Format(dayLabel)),
				Data: dayPoints(GroupMeans(first, ByDate)),
			},
			{
				Name: fmt.Sprintf("Last Week (%s - %s)", hi.Add(-week).Format(dayLabel), hi.Format(dayLabel)),
				Data: dayPoints(GroupMeans(last, ByDate)),
			},
			{
				Name: "Overall",
				Data: []ChartPoint{
					{Label: "First Week", Value: RoundTo2(firstAvg)},
					{Label: "Last Week", Value: RoundTo2(lastAvg)},
				},
			},
		},
		ShowLegend: true,
		ShowGrid:   true,
		Note: fmt.Sprintf("%s is %s more expensive (%s%% higher)",
			pricier, FormatMoney(diff), FormatPercent(PercentOf(diff, lower))),
	}, nil
}

// ============================================================================
// SERIES HELPERS
// ============================================================================

func singleSeries(name string, groups []Group) []ChartSeries {
	return []ChartSeries{{Name: name, Data: pointsOf(groups)}}
}

func pointsOf(groups []Group) []ChartPoint {
	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, ChartPoint{Label: g.Key, Value: RoundTo2(g.Value)})
	}
	return points
}

// dayPoints relabels date-ordered groups as "Day 1", "Day 2", ...
func dayPoints(groups []Group) []ChartPoint {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	points := make([]ChartPoint, 0, len(groups))
	for i, g := range groups {
		points = append(points, ChartPoint{Label: fmt.Sprintf("Day %d", i+1), Value: RoundTo2(g.Value)})
	}
	return points
}

func joinVs(labels []string) string {
	out := ""
	for i, l := range labels {
		if i > 0 {
			out += " vs "
		}
		out += l
	}
	return out
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
