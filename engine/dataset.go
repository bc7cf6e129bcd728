package engine

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================================
// DATASET — Immutable records + summary + aggregation index
// ============================================================================
// NewDataset builds everything up front. Nothing mutates a Dataset after it
// is returned, so any number of readers may share one.
// ============================================================================

// Dataset is a loaded rate-shopping table.
type Dataset struct {
	ID       uuid.UUID
	Source   string
	LoadedAt time.Time

	records []Record
	view    RecordView
	columns Columns
	summary Summary
	index   *Index
}

// NewDataset takes ownership of records and builds the summary and index.
func NewDataset(records []Record, opts ...Option) *Dataset {
	cfg := applyOptions(opts)

	ds := &Dataset{
		ID:       uuid.New(),
		Source:   cfg.Source,
		LoadedAt: time.Now(),
		records:  records,
		columns:  cfg.Columns,
	}
	ds.view = NewSliceView(ds.records)
	ds.summary = buildSummary(ds.view, ds.columns)
	ds.index = BuildIndex(ds.view, ds.columns)

	cfg.Logger.Info("📊 dataset built",
		zap.String("id", ds.ID.String()),
		zap.String("source", ds.Source),
		zap.Int("records", len(records)),
		zap.Strings("missingColumns", ds.columns.Missing()),
	)
	return ds
}

// View returns a zero-copy view over all records in source order.
func (d *Dataset) View() RecordView {
	if d == nil {
		return EmptyView()
	}
	return d.view
}

// Len returns the record count.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Summary returns the ingestion summary.
func (d *Dataset) Summary() Summary {
	if d == nil {
		return Summary{Websites: []string{}}
	}
	return d.summary
}

// Index returns the precomputed aggregates.
func (d *Dataset) Index() *Index {
	if d == nil {
		return &Index{}
	}
	return d.index
}

// Columns returns which source columns were present.
func (d *Dataset) Columns() Columns {
	if d == nil {
		return Columns{}
	}
	return d.columns
}

// Categories returns distinct categories in first-appearance order.
func (d *Dataset) Categories() []string { return Distinct(d.View(), ByCategory) }

// Suppliers returns distinct suppliers in first-appearance order.
func (d *Dataset) Suppliers() []string { return Distinct(d.View(), BySupplier) }

// Websites returns distinct websites in first-appearance order.
func (d *Dataset) Websites() []string { return Distinct(d.View(), ByWebsite) }

func buildSummary(view RecordView, cols Columns) Summary {
	s := Summary{
		TotalRecords: view.Len(),
		Websites:     []string{},
	}
	if cols.Has(ColSupplier) {
		s.UniqueSuppliers = CountDistinct(view, BySupplier)
	}
	if cols.Has(ColCategory) {
		s.UniqueCategories = CountDistinct(view, ByCategory)
	}
	if cols.Has(ColWebsite) {
		s.Websites = Distinct(view, ByWebsite)
		if s.Websites == nil {
			s.Websites = []string{}
		}
	}
	if cols.Has(ColPickupDate) {
		var lo, hi time.Time
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
		if !lo.IsZero() {
			s.DateRange = DateRange{Min: lo.Format(DateLayout), Max: hi.Format(DateLayout)}
		}
	}
	return s
}
