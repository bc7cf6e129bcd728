package engine

import (
	"sort"
	"strconv"
)

// ============================================================================
// AGGREGATORS — Grouping, means and sorting via RecordView
// ============================================================================
// Groups come back ordered by key so that ties always resolve the same way.
// Rows with an empty key are dropped from grouping (Partition returns them
// separately); rows without a rate count toward Count but never toward Value.
// ============================================================================

// KeyFunc extracts a grouping key from a record ("" = skip).
type KeyFunc func(*Record) string

// Common grouping keys.
var (
	ByCategory KeyFunc = func(r *Record) string { return r.WebsiteCarCategory }
	BySupplier KeyFunc = func(r *Record) string { return r.WebsiteSupplier }
	ByWebsite  KeyFunc = func(r *Record) string { return r.Website }
	ByVehicle  KeyFunc = func(r *Record) string { return r.VehicleName }
	ByDate     KeyFunc = func(r *Record) string { return r.PickupKey() }
	ByWeekday  KeyFunc = func(r *Record) string {
		if !r.HasPickup() {
			return ""
		}
		return r.PickupDate.Weekday().String()
	}
	// ByPickupDay zero-pads the day so key order equals numeric order.
	ByPickupDay KeyFunc = func(r *Record) string {
		if !r.HasPickup() {
			return ""
		}
		d := r.PickupDate.Day()
		if d < 10 {
			return "0" + strconv.Itoa(d)
		}
		return strconv.Itoa(d)
	}
)

// GroupBy partitions view by key and computes each group's mean rate.
// Result is sorted by key ascending. Rows with an empty key are left out;
// use Partition to see them.
func GroupBy(view RecordView, key KeyFunc) []Group {
	groups, _ := Partition(view, key)
	return groups
}

// Partition is GroupBy plus the rows whose key is empty, so the group
// counts and blank.Len() always add up to view.Len().
func Partition(view RecordView, key KeyFunc) (groups []Group, blank RecordView) {
	grouped := make(map[string][]int)
	var empty []int
	for i := 0; i < view.Len(); i++ {
		k := key(view.At(i))
		if k == "" {
			empty = append(empty, i)
			continue
		}
		grouped[k] = append(grouped[k], i)
	}

	groups = make([]Group, 0, len(grouped))
	for k, idx := range grouped {
		sub := newSubView(view, idx)
		mean, rated := MeanRate(sub)
		groups = append(groups, Group{
			Key:   k,
			Value: mean,
			Count: len(idx),
			Rated: rated,
			View:  sub,
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups, newSubView(view, empty)
}

// RatedGroups drops groups that have no rated rows.
func RatedGroups(groups []Group) []Group {
	out := groups[:0:0]
	for _, g := range groups {
		if g.Rated > 0 {
			out = append(out, g)
		}
	}
	return out
}

// GroupMeans is GroupBy restricted to groups with at least one rate.
func GroupMeans(view RecordView, key KeyFunc) []Group {
	return RatedGroups(GroupBy(view, key))
}

// ============================================================================
// MEASURES
// ============================================================================

// MeanRate returns the arithmetic mean of InclusiveRate over rated rows and
// how many rows contributed.
func MeanRate(view RecordView) (float64, int) {
	var total float64
	n := 0
	for i := 0; i < view.Len(); i++ {
		r := view.At(i)
		if !r.HasRate {
			continue
		}
		total += r.InclusiveRate
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return total / float64(n), n
}

// MinRate returns the first record holding the lowest rate, or nil.
func MinRate(view RecordView) *Record {
	var best *Record
	for i := 0; i < view.Len(); i++ {
		r := view.At(i)
		if !r.HasRate {
			continue
		}
		if best == nil || r.InclusiveRate < best.InclusiveRate {
			best = r
		}
	}
	return best
}

// CountDistinct counts distinct non-empty keys.
func CountDistinct(view RecordView, key KeyFunc) int {
	return len(Distinct(view, key))
}

// Distinct returns distinct non-empty keys in first-appearance order.
func Distinct(view RecordView, key KeyFunc) []string {
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < view.Len(); i++ {
		k := key(view.At(i))
		if k != "" && !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// ============================================================================
// SORTING
// ============================================================================

// Sort modes for SortGroups.
const (
	SortValueAsc  = "value_asc"
	SortValueDesc = "value_desc"
)

// SortGroups sorts groups in place. Sorting is stable, so equal values keep
// their incoming (key) order.
func SortGroups(groups []Group, sortBy string) {
	switch sortBy {
	case SortValueAsc:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
	case SortValueDesc:
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	default:
		// preserve order
	}
}

// Lowest returns the group with the minimum value (first on ties).
func Lowest(groups []Group) (Group, bool) {
	if len(groups) == 0 {
		return Group{}, false
	}
	best := groups[0]
	for _, g := range groups[1:] {
		if g.Value < best.Value {
			best = g
		}
	}
	return best, true
}

// Highest returns the group with the maximum value (first on ties).
func Highest(groups []Group) (Group, bool) {
	if len(groups) == 0 {
		return Group{}, false
	}
	best := groups[0]
	for _, g := range groups[1:] {
		if g.Value > best.Value {
			best = g
		}
	}
	return best, true
}

// TopN returns a sorted copy of groups truncated to n (n <= 0 = all).
func TopN(groups []Group, sortBy string, n int) []Group {
	out := make([]Group, len(groups))
	copy(out, groups)
	SortGroups(out, sortBy)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
