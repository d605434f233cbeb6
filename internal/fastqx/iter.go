package fastqx

import "fastqx/internal/row"

// Iterator is a finite, restartable, single-threaded cooperative sequence
// of rows: no internal parallelism, no suspension — a consumer may pause
// (stop calling Next) and resume deterministically by continuing to call
// it, matching the spec's iteration contract.
type Iterator struct {
	src   Reader
	pos   int
	owned bool // not set or read by any method; IntoRows provides into_iter semantics
}

// Iter returns a lazy, restartable iterator of immutable row references
// over d (or a View).
func Iter(d Reader) *Iterator {
	return &Iterator{src: d}
}

// Next returns the next row and true, or a zero row and false at the end.
func (it *Iterator) Next() (row.Row, bool) {
	if it.pos >= it.src.Height() {
		return nil, false
	}
	r, err := it.src.RowAt(it.pos)
	it.pos++
	if err != nil {
		return nil, false
	}
	return r, true
}

// Reset rewinds the iterator to the beginning, implementing "restartable
// by re-creation" without requiring callers to actually reconstruct it.
func (it *Iterator) Reset() { it.pos = 0 }

// IterMut yields mutable row references; available only on an owned Data,
// since Views are read-only.
type MutIterator struct {
	d   *Data
	pos int
}

func IterMut(d *Data) *MutIterator { return &MutIterator{d: d} }

// Next returns a pointer to the next row's backing slice (mutations are
// visible through d) and true, or false at the end.
func (it *MutIterator) Next() (row.Row, bool) {
	if it.pos >= len(it.d.rows) {
		return nil, false
	}
	r := it.d.rows[it.pos]
	it.pos++
	return r, true
}

// IntoRows consumes d (a Data) and returns its rows as owned values; the
// iterator no longer re-reads the source afterward (into_iter semantics).
func IntoRows(d *Data) []row.Row {
	out := d.rows
	d.rows = nil
	return out
}

// Projected wraps an Iterator with an on-the-fly column projection,
// implementing the spec's "lazy sub-iterators that apply a column
// projection on the fly" without materialising an intermediate Data.
type Projected struct {
	base *Iterator
	cols []int
}

func NewProjected(d Reader, cols []int) *Projected {
	return &Projected{base: Iter(d), cols: cols}
}

func (p *Projected) Next() (row.Row, bool) {
	r, ok := p.base.Next()
	if !ok {
		return nil, false
	}
	sel, err := r.Select(p.cols)
	if err != nil {
		return nil, false
	}
	return sel, true
}

func (p *Projected) Reset() { p.base.Reset() }
