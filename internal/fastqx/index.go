package fastqx

import (
	"fastqx/internal/errors"
	"fastqx/internal/row"
	"fastqx/internal/value"
)

// SelKind distinguishes the three index shapes the unified indexer
// accepts: a single position, a half-open range, or an explicit list.
type SelKind int

const (
	SelScalarKind SelKind = iota
	SelRangeKind
	SelListKind
)

// Sel is one side of a 2D selection (row-side or column-side). Build one
// with Scalar, Range or List rather than the struct literal.
type Sel struct {
	Kind SelKind
	At   int
	Lo   int
	Hi   int // half-open
	List []int
}

func Scalar(i int) Sel        { return Sel{Kind: SelScalarKind, At: i} }
func RangeSel(lo, hi int) Sel { return Sel{Kind: SelRangeKind, Lo: lo, Hi: hi} }
func List(idx []int) Sel      { return Sel{Kind: SelListKind, List: append([]int(nil), idx...)} }

// IsMulti reports whether this side denotes more than a single position.
func (s Sel) IsMulti() bool { return s.Kind != SelScalarKind }

// resolve expands a Sel against a bound n (row or column count) into an
// explicit, validated position list.
func (s Sel) resolve(n int, what string) ([]int, error) {
	switch s.Kind {
	case SelScalarKind:
		if s.At < 0 || s.At >= n {
			return nil, errors.NewIndexOutOfRange("%s index %d out of range [0,%d)", what, s.At, n)
		}
		return []int{s.At}, nil
	case SelRangeKind:
		lo, hi := s.Lo, s.Hi
		if lo < 0 {
			lo = 0
		}
		if hi > n {
			hi = n
		}
		if hi < lo {
			hi = lo
		}
		out := make([]int, 0, hi-lo)
		for i := lo; i < hi; i++ {
			out = append(out, i)
		}
		return out, nil
	case SelListKind:
		for _, i := range s.List {
			if i < 0 || i >= n {
				return nil, errors.NewIndexOutOfRange("%s index %d out of range [0,%d)", what, i, n)
			}
		}
		return append([]int(nil), s.List...), nil
	default:
		return nil, errors.NewShapeMismatch("unknown selector kind")
	}
}

// ColumnsByNames resolves a name list to positions, rejecting unknown
// names and resolving each name to its first (only, by I2) occurrence.
func ColumnsByNames(d Reader, names []string) (Sel, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		pos, ok := d.ColIndex(name)
		if !ok {
			return Sel{}, errors.NewUnknownColumn(name)
		}
		idx[i] = pos
	}
	return List(idx), nil
}

// ColumnByName resolves a single column name to a scalar selector.
func ColumnByName(d Reader, name string) (Sel, error) {
	pos, ok := d.ColIndex(name)
	if !ok {
		return Sel{}, errors.NewUnknownColumn(name)
	}
	return Scalar(pos), nil
}

// Column reads an entire column as an ordered sequence of Values.
func Column(d Reader, colSel Sel) ([]value.Value, error) {
	cols, err := colSel.resolve(d.Width(), "column")
	if err != nil {
		return nil, err
	}
	if len(cols) != 1 {
		return nil, errors.NewShapeMismatch("Column expects a single column selector")
	}
	c := cols[0]
	out := make([]value.Value, d.Height())
	for i := 0; i < d.Height(); i++ {
		r, err := d.RowAt(i)
		if err != nil {
			return nil, err
		}
		out[i] = r[c]
	}
	return out, nil
}

// Select2D implements the spec's unified 2D indexing: the result is a
// Value when both sides are scalar, a Row when only the column side is
// scalar, and a Data otherwise (including when only the row side is
// scalar, which yields a single-row Data).
func Select2D(d Reader, rowSel, colSel Sel) (interface{}, error) {
	rows, err := rowSel.resolve(d.Height(), "row")
	if err != nil {
		return nil, err
	}
	cols, err := colSel.resolve(d.Width(), "column")
	if err != nil {
		return nil, err
	}

	if !rowSel.IsMulti() && !colSel.IsMulti() {
		r, err := d.RowAt(rows[0])
		if err != nil {
			return nil, err
		}
		return r[cols[0]], nil
	}
	if rowSel.IsMulti() && !colSel.IsMulti() {
		out := make(row.Row, len(rows))
		for i, ri := range rows {
			r, err := d.RowAt(ri)
			if err != nil {
				return nil, err
			}
			out[i] = r[cols[0]]
		}
		return out, nil
	}
	// multi columns (row side scalar or multi): always a Data.
	outCols := make([]string, len(cols))
	outTypes := make([]value.ValueType, len(cols))
	allCols := d.Columns()
	allTypes := d.Types()
	for i, c := range cols {
		outCols[i] = allCols[c]
		outTypes[i] = allTypes[c]
	}
	outRows := make([]row.Row, len(rows))
	for i, ri := range rows {
		r, err := d.RowAt(ri)
		if err != nil {
			return nil, err
		}
		sel, err := r.Select(cols)
		if err != nil {
			return nil, err
		}
		outRows[i] = sel
	}
	return NewUnchecked(outCols, outTypes, outRows), nil
}

// RowRange returns the half-open row slice [lo,hi) as a Data with the
// same header.
func RowRange(d Reader, lo, hi int) (*Data, error) {
	res, err := Select2D(d, RangeSel(lo, hi), RangeSel(0, d.Width()))
	if err != nil {
		return nil, err
	}
	return res.(*Data), nil
}

// Project returns the columns in names, reordered/subset as requested.
func Project(d Reader, names []string) (*Data, error) {
	colSel, err := ColumnsByNames(d, names)
	if err != nil {
		return nil, err
	}
	res, err := Select2D(d, RangeSel(0, d.Height()), colSel)
	if err != nil {
		return nil, err
	}
	return res.(*Data), nil
}

// SetAt mirrors Select2D's read shape for assignment: a Value fills a
// single cell, a Row fills a row slot (when colSel is multi but rowSel is
// scalar), and a Data replaces a block position-wise. Only available on
// the owned Data (views are read-only).
func (d *Data) SetAt(rowSel, colSel Sel, v interface{}) error {
	rows, err := rowSel.resolve(d.Height(), "row")
	if err != nil {
		return err
	}
	cols, err := colSel.resolve(d.Width(), "column")
	if err != nil {
		return err
	}

	switch val := v.(type) {
	case value.Value:
		if len(rows) != 1 || len(cols) != 1 {
			return errors.NewShapeMismatch("a Value assignment requires a scalar row and column selector")
		}
		return d.SetCell(rows[0], cols[0], val)
	case row.Row:
		if val.Len() != len(cols) {
			return errors.NewShapeMismatch("row assignment has width %d, selector has %d columns", val.Len(), len(cols))
		}
		for _, ri := range rows {
			for j, c := range cols {
				if err := d.SetCell(ri, c, val[j]); err != nil {
					return err
				}
			}
		}
		return nil
	case *Data:
		if val.Height() != len(rows) || val.Width() != len(cols) {
			return errors.NewShapeMismatch("block assignment shape (%d,%d) does not match selector shape (%d,%d)", val.Height(), val.Width(), len(rows), len(cols))
		}
		for i, ri := range rows {
			srcRow, err := val.RowAt(i)
			if err != nil {
				return err
			}
			for j, c := range cols {
				if err := d.SetCell(ri, c, srcRow[j]); err != nil {
					return err
				}
			}
		}
		return nil
	default:
		return errors.NewShapeMismatch("unsupported assignment value type %T", v)
	}
}

// SetColumnValues replaces an entire column; the new values must number
// exactly Height() rows.
func (d *Data) SetColumnValues(colSel Sel, values []value.Value) error {
	cols, err := colSel.resolve(d.Width(), "column")
	if err != nil {
		return err
	}
	if len(cols) != 1 {
		return errors.NewShapeMismatch("SetColumnValues expects a single column selector")
	}
	if len(values) != d.Height() {
		return errors.NewShapeMismatch("column assignment has %d values, data has %d rows", len(values), d.Height())
	}
	c := cols[0]
	for i, v := range values {
		if err := d.SetCell(i, c, v); err != nil {
			return err
		}
	}
	return nil
}
