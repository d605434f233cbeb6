package fastqx

import (
	"fastqx/internal/errors"
	"fastqx/internal/row"
)

// Apply maps f left-to-right over every row; f may fail and the error
// surfaces at the first failure, cancelling the rest of the scan.
func Apply[T any](d Reader, f func(row.Row) (T, error)) ([]T, error) {
	out := make([]T, 0, d.Height())
	for i := 0; i < d.Height(); i++ {
		r, err := d.RowAt(i)
		if err != nil {
			return nil, err
		}
		v, err := f(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Filter retains the rows for which p returns true, preserving column
// order and types. A predicate failure is treated as false rather than
// aborting the scan — documented in the spec as matching the dynamic
// scripting frontend's expectation (an Open Question the spec resolves
// in favour of the source's existing behaviour).
func Filter(d Reader, p func(row.Row) (bool, error)) (*Data, error) {
	cols := d.Columns()
	types := d.Types()
	var rows []row.Row
	for i := 0; i < d.Height(); i++ {
		r, err := d.RowAt(i)
		if err != nil {
			return nil, err
		}
		ok, perr := p(r)
		if perr != nil {
			ok = false
		}
		if ok {
			rows = append(rows, r.Clone())
		}
	}
	return NewUnchecked(cols, types, rows), nil
}

// Reduce left-folds using the first row as seed; each successive
// application must yield a row of the same width, enforced as a
// ShapeMismatch error. Returns (nil,false,nil) on an empty input.
func Reduce(d Reader, f func(a, b row.Row) (row.Row, error)) (row.Row, bool, error) {
	if d.Height() == 0 {
		return nil, false, nil
	}
	acc, err := d.RowAt(0)
	if err != nil {
		return nil, false, err
	}
	width := acc.Len()
	for i := 1; i < d.Height(); i++ {
		r, err := d.RowAt(i)
		if err != nil {
			return nil, false, err
		}
		next, err := f(acc, r)
		if err != nil {
			return nil, false, err
		}
		if next.Len() != width {
			return nil, false, errors.NewShapeMismatch("reduce step produced width %d, expected %d", next.Len(), width)
		}
		acc = next
	}
	return acc, true, nil
}

// Fold is an ordered left fold seeded with init.
func Fold[T any](d Reader, init T, f func(acc T, r row.Row) (T, error)) (T, error) {
	acc := init
	for i := 0; i < d.Height(); i++ {
		r, err := d.RowAt(i)
		if err != nil {
			return acc, err
		}
		acc, err = f(acc, r)
		if err != nil {
			return acc, err
		}
	}
	return acc, nil
}

// NUnique counts the distinct Values (by Value.Equal, via its key
// encoding) in a single column.
func NUnique(d Reader, colSel Sel) (int, error) {
	cols, err := colSel.resolve(d.Width(), "column")
	if err != nil {
		return 0, err
	}
	if len(cols) != 1 {
		return 0, errors.NewShapeMismatch("NUnique expects a single column selector")
	}
	c := cols[0]
	seen := make(map[string]struct{})
	for i := 0; i < d.Height(); i++ {
		r, err := d.RowAt(i)
		if err != nil {
			return 0, err
		}
		var buf []byte
		buf = r[c].EncodeKey(buf)
		seen[string(buf)] = struct{}{}
	}
	return len(seen), nil
}

// RowsEqualUnordered compares two rows cell-by-cell after reordering b's
// columns to match a's column order (by name), ignoring any extra
// columns present in b but not in a; a column of a missing from b makes
// the rows unequal.
func RowsEqualUnordered(a, b row.Row, aCols, bCols []string) bool {
	idx := make(map[string]int, len(bCols))
	for i, c := range bCols {
		idx[c] = i
	}
	for i, c := range aCols {
		j, ok := idx[c]
		if !ok {
			return false
		}
		if !a[i].Equal(b[j]) {
			return false
		}
	}
	return true
}
