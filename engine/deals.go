package engine

import "sort"

// Deal is a quote priced below its category's mean rate.
type Deal struct {
	Category     string  `json:"category"`
	Supplier     string  `json:"supplier"`
	Vehicle      string  `json:"vehicle"`
	Price        float64 `json:"price"`
	CategoryMean float64 `json:"categoryMean"`
	Discount     float64 `json:"discount"` // percent below CategoryMean
	Date         string  `json:"date"`     // pickup YYYY-MM-DD, "" when unknown
}

// FindDeals returns every rated quote whose discount against its category
// mean is strictly greater than threshold percent, sorted by discount
// descending. Equal discounts keep category-key then row order.
// ok is false when the dataset has no category means at all.
func FindDeals(ds *Dataset, threshold float64) (deals []Deal, ok bool) {
	means := ds.Index().AvgByCategory
	if means == nil {
		return nil, false
	}
	for _, g := range GroupBy(ds.View(), ByCategory) {
		avg, found := means.Get(g.Key)
		if !found {
			continue
		}
		for i := 0; i < g.View.Len(); i++ {
			r := g.View.At(i)
			if !r.HasRate {
				continue
			}
			discount := PercentOf(avg-r.InclusiveRate, avg)
			if discount > threshold {
				deals = append(deals, Deal{
					Category:     g.Key,
					Supplier:     r.WebsiteSupplier,
					Vehicle:      r.VehicleName,
					Price:        r.InclusiveRate,
					CategoryMean: avg,
					Discount:     discount,
					Date:         r.PickupKey(),
				})
			}
		}
	}
	sort.SliceStable(deals, func(i, j int) bool { return deals[i].Discount > deals[j].Discount })
	return deals, true
}
