package fastqx

import (
	"fastqx/internal/errors"
	"fastqx/internal/row"
	"fastqx/internal/value"
)

// View is a zero-copy sub-selection over a Data container held by shared
// reference: a pair of column and row index vectors that is re-resolved
// against the parent on every access. It borrows the parent for its own
// lifetime and excludes concurrent mutation of that parent (enforced by
// convention, not the Go runtime — callers must not mutate a Data while a
// View over it is in use, per the concurrency model).
type View struct {
	parent  *Data
	cols    []int
	rowsIdx []int
}

var _ Reader = (*View)(nil)

// NewView builds a view selecting the given column and row positions of
// parent (both in parent's own index space).
func NewView(parent *Data, cols, rowsIdx []int) *View {
	return &View{parent: parent, cols: append([]int(nil), cols...), rowsIdx: append([]int(nil), rowsIdx...)}
}

// ViewAll returns a view over the whole of parent.
func ViewAll(parent *Data) *View {
	cols := make([]int, parent.Width())
	for i := range cols {
		cols[i] = i
	}
	rows := make([]int, parent.Height())
	for i := range rows {
		rows[i] = i
	}
	return NewView(parent, cols, rows)
}

func (v *View) Columns() []string {
	all := v.parent.Columns()
	out := make([]string, len(v.cols))
	for i, c := range v.cols {
		out[i] = all[c]
	}
	return out
}

func (v *View) Types() []value.ValueType {
	all := v.parent.Types()
	out := make([]value.ValueType, len(v.cols))
	for i, c := range v.cols {
		out[i] = all[c]
	}
	return out
}

func (v *View) Height() int { return len(v.rowsIdx) }
func (v *View) Width() int  { return len(v.cols) }

func (v *View) ColIndex(name string) (int, bool) {
	for i, c := range v.cols {
		if v.parent.columns[c] == name {
			return i, true
		}
	}
	return 0, false
}

func (v *View) RowAt(i int) (row.Row, error) {
	if i < 0 || i >= len(v.rowsIdx) {
		return nil, errors.NewIndexOutOfRange("view row index %d out of range [0,%d)", i, len(v.rowsIdx))
	}
	parentRow, err := v.parent.RowAt(v.rowsIdx[i])
	if err != nil {
		return nil, err
	}
	return parentRow.Select(v.cols)
}

// View composes a sub-view: the column/row index sets are intersected by
// re-indexing through v's own selection, so a view over a view never
// reaches further than the innermost parent.
func (v *View) View(cols, rowsIdx []int) (*View, error) {
	newCols := make([]int, len(cols))
	for i, c := range cols {
		if c < 0 || c >= len(v.cols) {
			return nil, errors.NewIndexOutOfRange("column index %d out of range [0,%d)", c, len(v.cols))
		}
		newCols[i] = v.cols[c]
	}
	newRows := make([]int, len(rowsIdx))
	for i, r := range rowsIdx {
		if r < 0 || r >= len(v.rowsIdx) {
			return nil, errors.NewIndexOutOfRange("row index %d out of range [0,%d)", r, len(v.rowsIdx))
		}
		newRows[i] = v.rowsIdx[r]
	}
	return NewView(v.parent, newCols, newRows), nil
}

// Cloned materialises the view into an independently-owned Data, cloning
// the selected cells. Distinct from the implicit materialisation that
// read-algebra helpers perform internally: this is the explicit deep
// clone named by the spec's supplementary operations.
func (v *View) Cloned() *Data {
	rows := make([]row.Row, v.Height())
	for i := 0; i < v.Height(); i++ {
		r, _ := v.RowAt(i)
		rows[i] = r.Clone()
	}
	return NewUnchecked(v.Columns(), v.Types(), rows)
}

// ToData is an alias for Cloned, named to match call sites that think of
// this as "give me an owned Data".
func (v *View) ToData() *Data { return v.Cloned() }
