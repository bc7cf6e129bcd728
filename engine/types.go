package engine

import "time"

// ============================================================================
// RATELENS ENGINE TYPES — Rate-shopping records, summary, chart output
// ============================================================================
// Record is one price quote. Dataset (dataset.go) owns an ordered slice of
// them plus the Aggregation Index (index.go). Chart types describe what an
// external renderer should draw; the engine never draws.
// ============================================================================

// ============================================================================
// RECORD — One price quote row
// ============================================================================

// Record is a single rate-shopping quote.
// Zero time values mean the source date was absent or unparsable.
type Record struct {
	PickupDate         time.Time `json:"pickupDate"`
	DropoffDate        time.Time `json:"dropoffDate"`
	ShopDate           time.Time `json:"shopDate"`
	Website            string    `json:"website"`
	WebsiteSupplier    string    `json:"websiteSupplier"`
	WebsiteCarCategory string    `json:"websiteCarCategory"`
	VehicleName        string    `json:"vehicleName"`
	InclusiveRate      float64   `json:"inclusiveRate"`
	HasRate            bool      `json:"hasRate"`
}

// HasPickup reports whether the pickup date is known.
func (r *Record) HasPickup() bool { return !r.PickupDate.IsZero() }

// PickupKey returns the pickup date as YYYY-MM-DD, or "" when absent.
func (r *Record) PickupKey() string {
	if r.PickupDate.IsZero() {
		return ""
	}
	return r.PickupDate.Format(DateLayout)
}

// DateLayout is the ISO layout used for date keys.
const DateLayout = "2006-01-02"

// ============================================================================
// COLUMNS — Which source columns the ingested file carried
// ============================================================================

// Source column names as they appear in rate-shopping exports.
const (
	ColPickupDate    = "PickUpDate"
	ColDropoffDate   = "DropOffDate"
	ColShopDate      = "ShopDate"
	ColWebsite       = "Website"
	ColSupplier      = "WebsiteSupplier"
	ColCategory      = "WebsiteCarCategory"
	ColVehicle       = "VehicleName"
	ColInclusiveRate = "InclusiveRate"
)

// KnownColumns lists every column the engine understands, in export order.
var KnownColumns = []string{
	ColPickupDate, ColDropoffDate, ColShopDate, ColWebsite,
	ColSupplier, ColCategory, ColVehicle, ColInclusiveRate,
}

// Columns records which known columns were present in the source.
// Aggregates whose inputs are missing are simply not built.
type Columns map[string]bool

// AllColumns marks every known column present.
func AllColumns() Columns {
	c := make(Columns, len(KnownColumns))
	for _, k := range KnownColumns {
		c[k] = true
	}
	return c
}

// Has reports whether every named column is present.
func (c Columns) Has(names ...string) bool {
	for _, n := range names {
		if !c[n] {
			return false
		}
	}
	return true
}

// Missing lists the known columns that were not present.
func (c Columns) Missing() []string {
	var out []string
	for _, k := range KnownColumns {
		if !c[k] {
			out = append(out, k)
		}
	}
	return out
}

// ============================================================================
// SUMMARY — Returned to callers after ingestion
// ============================================================================

// Summary describes a loaded dataset.
type Summary struct {
	TotalRecords     int       `json:"total_records"`
	UniqueSuppliers  int       `json:"unique_suppliers"`
	UniqueCategories int       `json:"unique_categories"`
	DateRange        DateRange `json:"date_range"`
	Websites         []string  `json:"websites"`
}

// DateRange is the min/max pickup date as YYYY-MM-DD ("" when unknown).
type DateRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// ============================================================================
// CHART DIRECTIVE — What the visualization router asks a renderer to draw
// ============================================================================

// ChartType names one of the fixed chart kinds. Values are wire identifiers.
type ChartType string

const (
	ChartPriceByCategory    ChartType = "price_by_category"
	ChartPriceBySupplier    ChartType = "price_by_supplier"
	ChartPriceByDate        ChartType = "price_by_date"
	ChartSupplierComparison ChartType = "supplier_comparison"
	ChartWeekendWeekday     ChartType = "weekend_weekday_comparison"
	ChartBestDeals          ChartType = "best_deals"
	ChartCategoryDifference ChartType = "category_price_difference"
	ChartWeeklyComparison   ChartType = "weekly_comparison"
)

// ChartTypes lists every chart type in declaration order.
var ChartTypes = []ChartType{
	ChartPriceByCategory, ChartPriceBySupplier, ChartPriceByDate,
	ChartSupplierComparison, ChartWeekendWeekday, ChartBestDeals,
	ChartCategoryDifference, ChartWeeklyComparison,
}

// Valid reports whether t is one of the known chart types.
func (t ChartType) Valid() bool {
	for _, c := range ChartTypes {
		if c == t {
			return true
		}
	}
	return false
}

// ChartDirective names a chart type plus optional entities extracted from
// the question.
type ChartDirective struct {
	Type       ChartType `json:"type"`
	Suppliers  []string  `json:"suppliers,omitempty"`
	Category   string    `json:"category,omitempty"`
	Categories []string  `json:"categories,omitempty"`
}

// ============================================================================
// CHART DATA — Render-ready series for a directive
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
	Note       string        `json:"note,omitempty"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Labels returns every label used by any series, in first-seen order.
// Series may cover different labels.
func (c *ChartConfig) Labels() []string {
	seen := make(map[string]bool)
	var labels []string
	for _, s := range c.Series {
		for _, d := range s.Data {
			if !seen[d.Label] {
				seen[d.Label] = true
				labels = append(labels, d.Label)
			}
		}
	}
	return labels
}

// Value returns the series' value at label.
func (s ChartSeries) Value(label string) (float64, bool) {
	for _, d := range s.Data {
		if d.Label == label {
			return d.Value, true
		}
	}
	return 0, false
}

// ============================================================================
// GROUP — Intermediate aggregation result
// ============================================================================

// Group is one key of a grouped aggregation.
// Count includes unrated rows; Value is the mean over the Rated ones.
type Group struct {
	Key   string     `json:"key"`
	Value float64    `json:"value"`
	Count int        `json:"count"`
	Rated int        `json:"rated"`
	View  RecordView `json:"-"` // rows in this group (zero-copy)
}
