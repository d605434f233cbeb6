package fastqx

import (
	"sort"

	"fastqx/internal/row"
)

// SortedBy performs a stable sort using the boolean-to-ordering
// convention: cmp(a,b) == true means a precedes b. A cmp failure is
// treated as "equal" so the sort stays total, per spec.
func SortedBy(d Reader, cmp func(a, b row.Row) (bool, error)) (*Data, error) {
	n := d.Height()
	rows := make([]row.Row, n)
	for i := 0; i < n; i++ {
		r, err := d.RowAt(i)
		if err != nil {
			return nil, err
		}
		rows[i] = r
	}
	var firstErr error
	sort.SliceStable(rows, func(i, j int) bool {
		ok, err := cmp(rows[i], rows[j])
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return false
		}
		return ok
	})
	_ = firstErr // cmp errors are swallowed into "equal", per spec; not propagated
	out := make([]row.Row, n)
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return NewUnchecked(d.Columns(), d.Types(), out), nil
}

// Sort orders d by a single column, ascending or descending, grounded on
// the teacher's DataFrame.Sort but using Value.Compare instead of a
// string/float64 fallback ladder.
func Sort(d Reader, colSel Sel, ascending bool) (*Data, error) {
	cols, err := colSel.resolve(d.Width(), "column")
	if err != nil {
		return nil, err
	}
	c := cols[0]
	return SortedBy(d, func(a, b row.Row) (bool, error) {
		cmp, ok := a[c].Compare(b[c])
		if !ok {
			return false, nil
		}
		if ascending {
			return cmp < 0, nil
		}
		return cmp > 0, nil
	})
}
