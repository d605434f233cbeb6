// Package fastqx implements the tabular data container and its operation
// algebra: Data (the owned container), View (a zero-copy borrowed
// sub-selection), Group (eager/lazy partitions), the unified indexer, and
// the apply/filter/reduce/fold/aggregate/group/sort/join algebra described
// by the specification. It is grounded on the teacher's
// internal/dataframe package (DataFrame/Series/GroupedDataFrame), rebuilt
// against the closed Value/Row types instead of interface{} columns.
package fastqx

import (
	"fastqx/internal/errors"
	"fastqx/internal/row"
	"fastqx/internal/value"
)

// Data is the primary container: a header (columns, types) plus an
// ordered sequence of rows, all of the same width C.
type Data struct {
	columns []string
	types   []value.ValueType
	rows    []row.Row
}

// Reader is the read-only algebra surface shared by Data and View, so the
// operation algebra (apply/filter/reduce/...) is written once against an
// interface rather than duplicated per shape, per the design notes.
type Reader interface {
	Columns() []string
	Types() []value.ValueType
	Height() int
	Width() int
	RowAt(i int) (row.Row, error)
	ColIndex(name string) (int, bool)
}

var _ Reader = (*Data)(nil)

func indexOfDup(columns []string) (string, bool) {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if c == "" {
			return c, true
		}
		if _, ok := seen[c]; ok {
			return c, true
		}
		seen[c] = struct{}{}
	}
	return "", false
}

// New constructs a Data container, enforcing I1 (columns/types same
// length), I2 (column names distinct and non-empty) and I3 (every row has
// width C). Cells are taken as-is: a variant mismatch against types[c]
// that is not Null is rejected (I4), no coercion is attempted — Push
// coerces cells one row at a time.
func New(columns []string, types []value.ValueType, rows []row.Row) (*Data, error) {
	if len(columns) != len(types) {
		return nil, errors.NewShapeMismatch("columns has %d entries, types has %d", len(columns), len(types))
	}
	if name, dup := indexOfDup(columns); dup {
		return nil, errors.NewDuplicateColumn(name)
	}
	c := len(columns)
	for ri, r := range rows {
		if r.Len() != c {
			return nil, errors.NewShapeMismatch("row %d has width %d, expected %d", ri, r.Len(), c)
		}
		for ci, cell := range r {
			if !cell.IsNull() && cell.Kind != types[ci] {
				return nil, errors.NewTypeMismatch("row %d column %q: cell is %s, column type is %s", ri, columns[ci], cell.Kind, types[ci])
			}
		}
	}
	out := &Data{
		columns: append([]string(nil), columns...),
		types:   append([]value.ValueType(nil), types...),
		rows:    make([]row.Row, len(rows)),
	}
	for i, r := range rows {
		out.rows[i] = r.Clone()
	}
	return out, nil
}

// NewUnchecked builds a Data bypassing I3/I4, for internal use by
// operations that already uphold the invariants (e.g. a filter result
// built by copying existing, already-valid rows).
func NewUnchecked(columns []string, types []value.ValueType, rows []row.Row) *Data {
	return &Data{
		columns: append([]string(nil), columns...),
		types:   append([]value.ValueType(nil), types...),
		rows:    rows,
	}
}

// NewEmpty builds a zero-row Data with the given header.
func NewEmpty(columns []string, types []value.ValueType) (*Data, error) {
	return New(columns, types, nil)
}

// NewByData infers a header from the first row: synthesized column names
// c0..c{C-1}, each column's type taken from the first row's cell (Null
// columns are typed Null until the first non-Null Push/Insert re-types
// them to that cell's type; SetCell does not re-type a Null column).
func NewByData(rows []row.Row) (*Data, error) {
	if len(rows) == 0 {
		return &Data{}, nil
	}
	c := rows[0].Len()
	columns := make([]string, c)
	types := make([]value.ValueType, c)
	for i := 0; i < c; i++ {
		columns[i] = syntheticColumnName(i)
		cell, _ := rows[0].At(i)
		types[i] = cell.Kind
	}
	return New(columns, types, rows)
}

func syntheticColumnName(i int) string {
	return "c" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

// Columns, Types, Height, Width, ColIndex satisfy Reader.
func (d *Data) Columns() []string          { return append([]string(nil), d.columns...) }
func (d *Data) Types() []value.ValueType   { return append([]value.ValueType(nil), d.types...) }
func (d *Data) Height() int                { return len(d.rows) }
func (d *Data) Width() int                 { return len(d.columns) }
func (d *Data) IsEmpty() bool              { return len(d.rows) == 0 }
func (d *Data) Shape() (int, int)          { return d.Height(), d.Width() }

func (d *Data) ColIndex(name string) (int, bool) {
	for i, c := range d.columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

func (d *Data) RowAt(i int) (row.Row, error) {
	if i < 0 || i >= len(d.rows) {
		return nil, errors.NewIndexOutOfRange("row index %d out of range [0,%d)", i, len(d.rows))
	}
	return d.rows[i], nil
}

// SetColumns renames every column at once; the new names must be the same
// count and remain unique.
func (d *Data) SetColumns(names []string) error {
	if len(names) != len(d.columns) {
		return errors.NewShapeMismatch("expected %d column names, got %d", len(d.columns), len(names))
	}
	if name, dup := indexOfDup(names); dup {
		return errors.NewDuplicateColumn(name)
	}
	d.columns = append([]string(nil), names...)
	return nil
}

// Rename renames a single column by position.
func (d *Data) Rename(idx int, name string) error {
	if idx < 0 || idx >= len(d.columns) {
		return errors.NewIndexOutOfRange("column index %d out of range [0,%d)", idx, len(d.columns))
	}
	for i, c := range d.columns {
		if i != idx && c == name {
			return errors.NewDuplicateColumn(name)
		}
	}
	d.columns[idx] = name
	return nil
}

// coerceRow validates/coerces r against d's header (I3/I4), returning a
// fresh row with every cell either matching its column type or Null. A
// column still typed Null takes the type of the row's non-Null cell once
// the whole row has been accepted.
func (d *Data) coerceRow(r row.Row) (row.Row, error) {
	if r.Len() != len(d.columns) {
		return nil, errors.NewShapeMismatch("row has width %d, expected %d", r.Len(), len(d.columns))
	}
	out := make(row.Row, len(d.columns))
	for i, cell := range r {
		if cell.IsNull() || d.types[i] == value.Null {
			out[i] = cell
			continue
		}
		if cell.Kind == d.types[i] {
			out[i] = cell
			continue
		}
		cast := cell.TryCast(d.types[i])
		if cast.IsNull() && !cell.IsNull() {
			return nil, errors.NewTypeMismatch("cannot coerce %s into column type %s", cell.Kind, d.types[i])
		}
		out[i] = cast
	}
	for i, cell := range out {
		if d.types[i] == value.Null && !cell.IsNull() {
			d.types[i] = cell.Kind
		}
	}
	return out, nil
}

// Push appends row r after coercing it to the header (I3/I4).
func (d *Data) Push(r row.Row) error {
	coerced, err := d.coerceRow(r)
	if err != nil {
		return err
	}
	d.rows = append(d.rows, coerced)
	return nil
}

// Extend pushes every row in rs, in order.
func (d *Data) Extend(rs []row.Row) error {
	for _, r := range rs {
		if err := d.Push(r); err != nil {
			return err
		}
	}
	return nil
}

// Insert inserts row r at position at.
func (d *Data) Insert(at int, r row.Row) error {
	if at < 0 || at > len(d.rows) {
		return errors.NewIndexOutOfRange("insert index %d out of range [0,%d]", at, len(d.rows))
	}
	coerced, err := d.coerceRow(r)
	if err != nil {
		return err
	}
	d.rows = append(d.rows, nil)
	copy(d.rows[at+1:], d.rows[at:])
	d.rows[at] = coerced
	return nil
}

// Remove deletes the row at position at and returns it.
func (d *Data) Remove(at int) (row.Row, error) {
	if at < 0 || at >= len(d.rows) {
		return nil, errors.NewIndexOutOfRange("row index %d out of range [0,%d)", at, len(d.rows))
	}
	r := d.rows[at]
	d.rows = append(d.rows[:at], d.rows[at+1:]...)
	return r, nil
}

// Pop removes and returns the last row.
func (d *Data) Pop() (row.Row, error) {
	if len(d.rows) == 0 {
		return nil, errors.NewIndexOutOfRange("pop on empty data")
	}
	return d.Remove(len(d.rows) - 1)
}

// SetCell coerces value to types[c] and assigns it to data[r][c].
func (d *Data) SetCell(r, c int, v value.Value) error {
	if r < 0 || r >= len(d.rows) {
		return errors.NewIndexOutOfRange("row index %d out of range [0,%d)", r, len(d.rows))
	}
	if c < 0 || c >= len(d.columns) {
		return errors.NewIndexOutOfRange("column index %d out of range [0,%d)", c, len(d.columns))
	}
	if v.IsNull() {
		d.rows[r][c] = v
		return nil
	}
	if v.Kind == d.types[c] {
		d.rows[r][c] = v
		return nil
	}
	cast := v.TryCast(d.types[c])
	if cast.IsNull() {
		return errors.NewTypeMismatch("value %s not representable as column type %s", v.Kind, d.types[c])
	}
	d.rows[r][c] = cast
	return nil
}

// Clone returns an independently-owned deep copy.
func (d *Data) Clone() *Data {
	rows := make([]row.Row, len(d.rows))
	for i, r := range d.rows {
		rows[i] = r.Clone()
	}
	return NewUnchecked(d.columns, d.types, rows)
}

// RowsSlice exposes the underlying row slice read-only (used by iteration and
// by operations that need direct positional access without going through
// RowAt's bounds check per element).
func (d *Data) RowsSlice() []row.Row { return d.rows }
