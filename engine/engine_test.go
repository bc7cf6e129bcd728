package engine

import (
	"math"
	"testing"
	"time"
)

// ============================================================================
// TEST FIXTURES
// ============================================================================

func mustDate(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func rated(date, website, supplier, category, vehicle string, rate float64) Record {
	r := Record{
		Website:            website,
		WebsiteSupplier:    supplier,
		WebsiteCarCategory: category,
		VehicleName:        vehicle,
		InclusiveRate:      rate,
		HasRate:            true,
	}
	if date != "" {
		r.PickupDate = mustDate(date)
	}
	return r
}

// 2024-04-06 is a Saturday, 2024-04-07 a Sunday.
func fixtureRecords() []Record {
	unrated := rated("2024-04-02", "Kayak", "Zeta", "Economy", "Kia Rio", 0)
	unrated.HasRate = false
	return []Record{
		rated("2024-04-01", "Expedia", "Acme", "Economy", "Toyota Yaris", 30),
		rated("2024-04-01", "Kayak", "Zeta", "Economy", "Kia Rio", 50),
		rated("2024-04-06", "Expedia", "Acme", "Luxury SUV", "BMW X5", 120),
		rated("2024-04-07", "Kayak", "Zeta", "Luxury SUV", "Audi Q7", 100),
		rated("2024-04-25", "Expedia", "Acme", "Compact SUV", "Ford Escape", 60),
		rated("", "Kayak", "Zeta", "Economy", "Kia Rio", 40),
		unrated,
	}
}

func fixtureDataset() *Dataset {
	return NewDataset(fixtureRecords(), WithSource("fixture"))
}

func approxEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// ============================================================================
// AGGREGATION PROPERTIES
// ============================================================================

func TestCategoryCountsPartitionRecords(t *testing.T) {
	blank := rated("2024-04-03", "Kayak", "Zeta", "", "Mystery Car", 70)
	tests := []struct {
		name      string
		records   []Record
		wantBlank int
	}{
		{"every category filled", fixtureRecords(), 0},
		{"one blank category", append(fixtureRecords(), blank), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := NewDataset(tt.records)
			groups, rest := Partition(ds.View(), ByCategory)
			total := rest.Len()
			for _, g := range groups {
				total += g.Count
			}
			if total != ds.Len() {
				t.Errorf("per-category counts plus blank rows = %d, want %d", total, ds.Len())
			}
			if rest.Len() != tt.wantBlank {
				t.Errorf("blank rows = %d, want %d", rest.Len(), tt.wantBlank)
			}
			if len(GroupBy(ds.View(), ByCategory)) != len(groups) {
				t.Error("GroupBy and Partition disagree on groups")
			}
			for _, g := range groups {
				if g.Key == "" {
					t.Error("blank key must not form a category group")
				}
			}
		})
	}
}

func TestMeansMatchArithmeticMean(t *testing.T) {
	ds := fixtureDataset()
	idx := ds.Index()

	check := func(name string, means *Means, key KeyFunc) {
		t.Helper()
		sums := map[string]float64{}
		counts := map[string]int{}
		for _, r := range fixtureRecords() {
			r := r
			if !r.HasRate || key(&r) == "" {
				continue
			}
			sums[key(&r)] += r.InclusiveRate
			counts[key(&r)]++
		}
		if means.Len() != len(sums) {
			t.Errorf("%s: %d keys, want %d", name, means.Len(), len(sums))
		}
		for k, sum := range sums {
			got, ok := means.Get(k)
			if !ok {
				t.Errorf("%s: missing key %q", name, k)
				continue
			}
			if want := sum / float64(counts[k]); !approxEqual(got, want) {
				t.Errorf("%s[%s] = %v, want %v", name, k, got, want)
			}
		}
	}
	check("category", idx.AvgByCategory, ByCategory)
	check("supplier", idx.AvgBySupplier, BySupplier)
	check("date", idx.AvgByDate, ByDate)

	// Economy: 30, 50, 40 (the unrated Kia is excluded)
	if avg, _ := idx.AvgByCategory.Get("Economy"); !approxEqual(avg, 40) {
		t.Errorf("Economy mean = %v, want 40", avg)
	}
}

func TestWeekendWeekdayPartition(t *testing.T) {
	ds := fixtureDataset()
	split := ds.Index().WeekendWeekday

	dated := 0
	for i := 0; i < ds.View().Len(); i++ {
		r := ds.View().At(i)
		if r.HasPickup() && r.HasRate {
			dated++
		}
	}
	if split.WeekendCount+split.WeekdayCount != dated {
		t.Errorf("split covers %d rows, want %d", split.WeekendCount+split.WeekdayCount, dated)
	}
	if split.WeekendCount != 2 || !approxEqual(split.Weekend, 110) {
		t.Errorf("weekend = %v over %d rows, want 110 over 2", split.Weekend, split.WeekendCount)
	}
	if split.WeekdayCount != 3 || !approxEqual(split.Weekday, 140.0/3) {
		t.Errorf("weekday = %v over %d rows, want %v over 3", split.Weekday, split.WeekdayCount, 140.0/3)
	}
}

func TestMinByCategoryAndSupplierByCategory(t *testing.T) {
	idx := fixtureDataset().Index()

	lux := idx.MinByCategory["Luxury SUV"]
	if lux.Supplier != "Zeta" || lux.Vehicle != "Audi Q7" || lux.Rate != 100 {
		t.Errorf("Luxury SUV min = %+v", lux)
	}

	best, ok := idx.SupplierByCategory["Economy"].Lowest()
	if !ok || best.Key != "Acme" || !approxEqual(best.Value, 30) {
		t.Errorf("Economy best supplier = %+v", best)
	}

	want := []string{"Compact SUV", "Economy", "Luxury SUV"}
	got := idx.SupplierCategoryKeys()
	if len(got) != len(want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keys = %v, want %v", got, want)
			break
		}
	}
}

func TestMissingColumnsDegrade(t *testing.T) {
	cols := AllColumns()
	delete(cols, ColPickupDate)
	delete(cols, ColWebsite)
	ds := NewDataset(fixtureRecords(), WithColumns(cols))

	idx := ds.Index()
	if idx.AvgByDate != nil || idx.AvgByDayOfWeek != nil || idx.WeekendWeekday != nil {
		t.Error("date aggregates should not be built without PickUpDate")
	}
	if idx.AvgByCategory == nil {
		t.Error("category aggregate should still be built")
	}

	sum := ds.Summary()
	if sum.DateRange.Min != "" || sum.DateRange.Max != "" {
		t.Errorf("date range = %+v, want empty", sum.DateRange)
	}
	if len(sum.Websites) != 0 {
		t.Errorf("websites = %v, want empty", sum.Websites)
	}
	missing := ds.Columns().Missing()
	if len(missing) != 2 || missing[0] != ColPickupDate || missing[1] != ColWebsite {
		t.Errorf("missing = %v", missing)
	}
}

func TestSummary(t *testing.T) {
	s := fixtureDataset().Summary()
	if s.TotalRecords != 7 || s.UniqueSuppliers != 2 || s.UniqueCategories != 3 {
		t.Errorf("summary counts = %+v", s)
	}
	if s.DateRange.Min != "2024-04-01" || s.DateRange.Max != "2024-04-25" {
		t.Errorf("date range = %+v", s.DateRange)
	}
	if len(s.Websites) != 2 || s.Websites[0] != "Expedia" || s.Websites[1] != "Kayak" {
		t.Errorf("websites = %v", s.Websites)
	}
}

func TestNilDatasetIsEmpty(t *testing.T) {
	var ds *Dataset
	if ds.Len() != 0 || ds.View().Len() != 0 {
		t.Error("nil dataset should be empty")
	}
	if _, ok := ds.Index().AvgByCategory.Lowest(); ok {
		t.Error("nil dataset should have no category means")
	}
	if ds.Summary().Websites == nil {
		t.Error("summary websites should be an empty list, not nil")
	}
}

// ============================================================================
// GROUPING AND SORTING
// ============================================================================

func TestTopNTiesKeepKeyOrder(t *testing.T) {
	groups := []Group{
		{Key: "a", Value: 2}, {Key: "b", Value: 1}, {Key: "c", Value: 1}, {Key: "d", Value: 3},
	}
	got := TopN(groups, SortValueAsc, 3)
	want := []string{"b", "c", "a"}
	for i := range want {
		if got[i].Key != want[i] {
			t.Fatalf("TopN = %v, want keys %v", got, want)
		}
	}
	if groups[0].Key != "a" {
		t.Error("TopN must not reorder its input")
	}

	if lo, _ := Lowest(groups); lo.Key != "b" {
		t.Errorf("Lowest = %s, want b", lo.Key)
	}
	if hi, _ := Highest(groups); hi.Key != "d" {
		t.Errorf("Highest = %s, want d", hi.Key)
	}
}

func TestFiltersCompose(t *testing.T) {
	ds := fixtureDataset()

	suv := Filter(ds.View(), CategoryContains("suv"))
	if suv.Len() != 3 {
		t.Errorf("suv rows = %d, want 3", suv.Len())
	}

	hasRate := func(r *Record) bool { return r.HasRate }
	april := Filter(ds.View(), And(PickupInMonth(time.April), PickupDayBetween(1, 7), hasRate))
	if april.Len() != 4 {
		t.Errorf("first-week rated rows = %d, want 4", april.Len())
	}

	cheap := Filter(ds.View(), RateBelow(50))
	if cheap.Len() != 2 {
		t.Errorf("rows under 50 = %d, want 2", cheap.Len())
	}

	zeta := Filter(suv, KeyIs(BySupplier, "Zeta"))
	if zeta.Len() != 1 || zeta.At(0).VehicleName != "Audi Q7" {
		t.Errorf("zeta suv rows = %d", zeta.Len())
	}
}

func TestBestMatch(t *testing.T) {
	idle := rated("2024-04-02", "Kayak", "Acme Idle", "Economy", "Kia Rio", 0)
	idle.HasRate = false
	view := NewSliceView([]Record{
		idle,
		rated("2024-04-01", "Expedia", "Acme Premium", "Economy", "Toyota Yaris", 80),
		rated("2024-04-01", "Expedia", "Acme Basic", "Economy", "Toyota Yaris", 30),
		rated("2024-04-01", "Kayak", "Zeta", "Economy", "Kia Rio", 50),
		rated("2024-04-01", "Kayak", "Beta Two", "Economy", "Kia Rio", 40),
		rated("2024-04-01", "Kayak", "Beta One", "Economy", "Kia Rio", 40),
		rated("2024-04-01", "Kayak", "Hertz", "Economy", "Kia Rio", 90),
		rated("2024-04-01", "Kayak", "Hertz Local", "Economy", "Kia Rio", 20),
	})
	values := Distinct(view, BySupplier)

	tests := []struct {
		in, want string
		ok       bool
	}{
		{"zeta", "Zeta", true},
		{"acme", "Acme Basic", true},
		{"ACME premium", "Acme Premium", true},
		{"beta", "Beta One", true},
		{"hertz", "Hertz", true},
		{"idle", "Acme Idle", true},
		{"avis", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := BestMatch(view, values, tt.in, BySupplier)
			if ok != tt.ok || got != tt.want {
				t.Errorf("BestMatch(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}

	if got := MatchAll([]string{"Luxury SUV", "Economy", "Compact SUV"}, "suv"); len(got) != 2 || got[0] != "Luxury SUV" {
		t.Errorf("MatchAll = %v", got)
	}
}
