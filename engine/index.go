package engine

import (
	"sort"
	"time"
)

// ============================================================================
// AGGREGATION INDEX — Built once per Dataset, never updated in place
// ============================================================================
// Each aggregate is only built when its source columns were present;
// a nil field means "not available for this dataset".
// ============================================================================

// Means is a key → mean-rate table ordered by key.
type Means struct {
	groups []Group
	byKey  map[string]int
}

func newMeans(groups []Group) *Means {
	m := &Means{groups: groups, byKey: make(map[string]int, len(groups))}
	for i, g := range groups {
		m.byKey[g.Key] = i
	}
	return m
}

// Len returns the number of keys.
func (m *Means) Len() int {
	if m == nil {
		return 0
	}
	return len(m.groups)
}

// Get returns the mean for key.
func (m *Means) Get(key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	i, ok := m.byKey[key]
	if !ok {
		return 0, false
	}
	return m.groups[i].Value, true
}

// Groups returns the entries ordered by key. Callers must not modify it.
func (m *Means) Groups() []Group {
	if m == nil {
		return nil
	}
	return m.groups
}

// Lowest returns the entry with the smallest mean (first key on ties).
func (m *Means) Lowest() (Group, bool) {
	if m == nil {
		return Group{}, false
	}
	return Lowest(m.groups)
}

// Ascending returns up to n entries ordered by mean ascending.
func (m *Means) Ascending(n int) []Group {
	if m == nil {
		return nil
	}
	return TopN(m.groups, SortValueAsc, n)
}

// MinQuote is the cheapest quote seen for a category.
type MinQuote struct {
	Rate     float64 `json:"rate"`
	Supplier string  `json:"supplier"`
	Vehicle  string  `json:"vehicle"`
}

// WeekSplit holds the weekend and weekday mean rates.
// Undated rows belong to neither side.
type WeekSplit struct {
	Weekend      float64 `json:"weekend"`
	Weekday      float64 `json:"weekday"`
	WeekendCount int     `json:"weekendCount"`
	WeekdayCount int     `json:"weekdayCount"`
}

// Complete reports whether both sides have rated rows.
func (w *WeekSplit) Complete() bool {
	return w != nil && w.WeekendCount > 0 && w.WeekdayCount > 0
}

// Index holds the precomputed aggregates of one Dataset.
type Index struct {
	AvgByCategory      *Means
	AvgBySupplier      *Means
	AvgByDate          *Means // keyed by YYYY-MM-DD
	AvgByDayOfWeek     *Means // keyed by weekday name
	MinByCategory      map[string]MinQuote
	SupplierByCategory map[string]*Means
	WeekendWeekday     *WeekSplit
}

// BuildIndex computes every aggregate the columns allow.
func BuildIndex(view RecordView, cols Columns) *Index {
	idx := &Index{}

	if cols.Has(ColCategory, ColInclusiveRate) {
		idx.AvgByCategory = newMeans(GroupMeans(view, ByCategory))
	}
	if cols.Has(ColSupplier, ColInclusiveRate) {
		idx.AvgBySupplier = newMeans(GroupMeans(view, BySupplier))
	}
	if cols.Has(ColPickupDate, ColInclusiveRate) {
		idx.AvgByDate = newMeans(GroupMeans(view, ByDate))
		idx.AvgByDayOfWeek = newMeans(GroupMeans(view, ByWeekday))
		idx.WeekendWeekday = buildWeekSplit(view)
	}
	if cols.Has(ColCategory, ColInclusiveRate) {
		idx.MinByCategory = make(map[string]MinQuote)
		for _, g := range GroupBy(view, ByCategory) {
			if best := MinRate(g.View); best != nil {
				idx.MinByCategory[g.Key] = MinQuote{
					Rate:     best.InclusiveRate,
					Supplier: best.WebsiteSupplier,
					Vehicle:  best.VehicleName,
				}
			}
		}
	}
	if cols.Has(ColCategory, ColSupplier, ColInclusiveRate) {
		idx.SupplierByCategory = make(map[string]*Means)
		for _, g := range GroupBy(view, ByCategory) {
			idx.SupplierByCategory[g.Key] = newMeans(GroupMeans(g.View, BySupplier))
		}
	}
	return idx
}

func buildWeekSplit(view RecordView) *WeekSplit {
	var weekendSum, weekdaySum float64
	split := &WeekSplit{}
	for i := 0; i < view.Len(); i++ {
		r := view.At(i)
		if !r.HasPickup() || !r.HasRate {
			continue
		}
		if IsWeekend(r) {
			weekendSum += r.InclusiveRate
			split.WeekendCount++
		} else {
			weekdaySum += r.InclusiveRate
			split.WeekdayCount++
		}
	}
	if split.WeekendCount > 0 {
		split.Weekend = weekendSum / float64(split.WeekendCount)
	}
	if split.WeekdayCount > 0 {
		split.Weekday = weekdaySum / float64(split.WeekdayCount)
	}
	return split
}

// IsWeekend reports whether the pickup falls on Saturday or Sunday.
func IsWeekend(r *Record) bool {
	if !r.HasPickup() {
		return false
	}
	wd := r.PickupDate.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// SupplierCategoryKeys returns the categories of SupplierByCategory sorted.
func (idx *Index) SupplierCategoryKeys() []string {
	keys := make([]string, 0, len(idx.SupplierByCategory))
	for k := range idx.SupplierByCategory {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
