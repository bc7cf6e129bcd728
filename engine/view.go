package engine

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// Handlers never copy the dataset. They read through this interface.
//
// Implementations:
//   SliceView  — wraps the dataset's []Record
//   SubView    — filtered subset (indices into parent, zero-copy)
// ============================================================================

// RecordView provides indexed access to a set of records.
// Handlers call At in tight loops; implementations must stay cheap.
type RecordView interface {
	Len() int
	At(index int) *Record
}

// ============================================================================
// SLICE VIEW
// ============================================================================

// SliceView wraps a []Record slice as a RecordView.
type SliceView struct {
	records []Record
}

// NewSliceView creates a RecordView from a []Record slice. Holds a reference.
func NewSliceView(records []Record) RecordView {
	return &SliceView{records: records}
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) At(i int) *Record {
	if i < 0 || i >= len(v.records) {
		return nil
	}
	return &v.records[i]
}

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent RecordView.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) At(i int) *Record {
	if i < 0 || i >= len(v.indices) {
		return nil
	}
	return v.parent.At(v.indices[i])
}

// emptyView is shared by callers that need a view over nothing.
var emptyView RecordView = &SliceView{}

// EmptyView returns a view with no records.
func EmptyView() RecordView { return emptyView }
