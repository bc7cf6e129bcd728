package engine

import (
	"strings"
	"time"
)

// ============================================================================
// FILTERS — Predicate-based filtering via RecordView
// ============================================================================
// Single pass over the view; returns a SubView (index list into parent).
// Predicates compose with And.
// ============================================================================

// Predicate selects records.
type Predicate func(*Record) bool

// Filter returns a view of records matching pred.
func Filter(view RecordView, pred Predicate) RecordView {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if pred(view.At(i)) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// And combines predicates; all must hold.
func And(preds ...Predicate) Predicate {
	return func(r *Record) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// CategoryContains matches categories containing sub, case-insensitively.
// "suv" matches both "Luxury SUV" and "Compact SUV".
func CategoryContains(sub string) Predicate {
	sub = strings.ToLower(sub)
	return func(r *Record) bool {
		return r.WebsiteCarCategory != "" && strings.Contains(strings.ToLower(r.WebsiteCarCategory), sub)
	}
}

// CategoryIn matches an exact category from the given set.
func CategoryIn(categories ...string) Predicate {
	set := make(map[string]bool, len(categories))
	for _, c := range categories {
		set[c] = true
	}
	return func(r *Record) bool { return set[r.WebsiteCarCategory] }
}

// KeyIs matches records whose key equals value.
func KeyIs(key KeyFunc, value string) Predicate {
	return func(r *Record) bool { return key(r) == value }
}

// SupplierIs matches one exact supplier.
func SupplierIs(supplier string) Predicate {
	return func(r *Record) bool { return r.WebsiteSupplier == supplier }
}

// SupplierIn matches any of the given suppliers.
func SupplierIn(suppliers ...string) Predicate {
	set := make(map[string]bool, len(suppliers))
	for _, s := range suppliers {
		set[s] = true
	}
	return func(r *Record) bool { return set[r.WebsiteSupplier] }
}

// WebsiteIs matches one exact website.
func WebsiteIs(website string) Predicate {
	return func(r *Record) bool { return r.Website == website }
}

// PickupOn matches records picked up on the given YYYY-MM-DD date.
func PickupOn(dateKey string) Predicate {
	return func(r *Record) bool { return r.HasPickup() && r.PickupKey() == dateKey }
}

// PickupInMonth matches pickups in month m of any year.
func PickupInMonth(m time.Month) Predicate {
	return func(r *Record) bool { return r.HasPickup() && r.PickupDate.Month() == m }
}

// PickupDayBetween matches pickups whose day-of-month is in [from, to].
func PickupDayBetween(from, to int) Predicate {
	return func(r *Record) bool {
		if !r.HasPickup() {
			return false
		}
		d := r.PickupDate.Day()
		return d >= from && d <= to
	}
}

// PickupWithin matches pickups in the inclusive time window [from, to].
func PickupWithin(from, to time.Time) Predicate {
	return func(r *Record) bool {
		return r.HasPickup() && !r.PickupDate.Before(from) && !r.PickupDate.After(to)
	}
}

// RateBelow matches rated records strictly under limit.
func RateBelow(limit float64) Predicate {
	return func(r *Record) bool { return r.HasRate && r.InclusiveRate < limit }
}

