// join.go implements the relational join/merge algebra: inner, left,
// right and outer joins over a positional key tuple, plus merge's
// asymmetric left/right key-name variant. Grounded on the teacher's
// DataFrame.Merge (internal/dataframe/dataframe.go), generalised from a
// single string key and interface{} cells to a multi-column value.Value
// key tuple encoded the same way group_by encodes its own keys.
package fastqx

import (
	"sort"

	"fastqx/internal/errors"
	"fastqx/internal/row"
	"fastqx/internal/value"
)

// JoinType selects which unmatched side, if any, is Null-extended into
// the result.
type JoinType int

const (
	Inner JoinType = iota
	Left
	Right
	Outer
)

// Join requires the same column names on both sides; the join key is the
// positional tuple read from those columns on each side.
func Join(left, right Reader, on []string, how JoinType) (*Data, error) {
	leftCols, err := ColumnsByNames(left, on)
	if err != nil {
		return nil, err
	}
	rightCols, err := ColumnsByNames(right, on)
	if err != nil {
		return nil, err
	}
	return merge(left, right, leftCols.List, rightCols.List, how)
}

// Merge allows asymmetric key-column names of equal arity between the
// two sides.
func Merge(left, right Reader, leftOn, rightOn []string, how JoinType) (*Data, error) {
	if len(leftOn) != len(rightOn) {
		return nil, errors.NewShapeMismatch("merge key arity mismatch: %d left keys, %d right keys", len(leftOn), len(rightOn))
	}
	leftCols, err := ColumnsByNames(left, leftOn)
	if err != nil {
		return nil, err
	}
	rightCols, err := ColumnsByNames(right, rightOn)
	if err != nil {
		return nil, err
	}
	return merge(left, right, leftCols.List, rightCols.List, how)
}

func buildKeyIndex(d Reader, keyCols []int) (order []string, byKey map[string][]row.Row, reprKey map[string]row.Row, err error) {
	byKey = make(map[string][]row.Row)
	reprKey = make(map[string]row.Row)
	for i := 0; i < d.Height(); i++ {
		r, rerr := d.RowAt(i)
		if rerr != nil {
			return nil, nil, nil, rerr
		}
		k, kerr := r.GroupKey(keyCols)
		if kerr != nil {
			return nil, nil, nil, kerr
		}
		if _, seen := byKey[k]; !seen {
			order = append(order, k)
			keyVals, _ := r.Select(keyCols)
			reprKey[k] = keyVals
		}
		byKey[k] = append(byKey[k], r.Clone())
	}
	return order, byKey, reprKey, nil
}

func nullRow(width int) row.Row {
	r := make(row.Row, width)
	for i := range r {
		r[i] = value.NewNull()
	}
	return r
}

func merge(left, right Reader, leftKeyCols, rightKeyCols []int, how JoinType) (*Data, error) {
	outCols := append(append([]string(nil), left.Columns()...), right.Columns()...)
	outTypes := append(append([]value.ValueType(nil), left.Types()...), right.Types()...)

	leftOrder, leftByKey, leftRepr, err := buildKeyIndex(left, leftKeyCols)
	if err != nil {
		return nil, err
	}
	rightOrder, rightByKey, rightRepr, err := buildKeyIndex(right, rightKeyCols)
	if err != nil {
		return nil, err
	}
	rightWidth := right.Width()
	leftWidth := left.Width()

	var rows []row.Row

	switch how {
	case Inner:
		for _, k := range leftOrder {
			rightRows, ok := rightByKey[k]
			if !ok {
				continue
			}
			for _, lr := range leftByKey[k] {
				for _, rr := range rightRows {
					rows = append(rows, lr.Append(rr))
				}
			}
		}
	case Left:
		for _, k := range leftOrder {
			rightRows, ok := rightByKey[k]
			for _, lr := range leftByKey[k] {
				if !ok || len(rightRows) == 0 {
					rows = append(rows, lr.Append(nullRow(rightWidth)))
					continue
				}
				for _, rr := range rightRows {
					rows = append(rows, lr.Append(rr))
				}
			}
		}
	case Right:
		for _, k := range rightOrder {
			leftRows, ok := leftByKey[k]
			for _, rr := range rightByKey[k] {
				if !ok || len(leftRows) == 0 {
					rows = append(rows, nullRow(leftWidth).Append(rr))
					continue
				}
				for _, lr := range leftRows {
					rows = append(rows, lr.Append(rr))
				}
			}
		}
	case Outer:
		repr := make(map[string]row.Row, len(leftRepr)+len(rightRepr))
		for k, r := range leftRepr {
			repr[k] = r
		}
		for k, r := range rightRepr {
			repr[k] = r
		}
		rows = outerJoinRows(leftOrder, rightOrder, leftByKey, rightByKey, repr, leftWidth, rightWidth)
	default:
		return nil, errors.NewShapeMismatch("unknown join type %d", how)
	}

	return NewUnchecked(outCols, outTypes, rows), nil
}

// outerJoinRows emits matched partitions as their Cartesian product and
// unmatched rows extended with the opposite side's Null row, in order of
// sorted key tuples (ties broken by left-then-right discovery order). Key
// tuples sort by Value.Compare position-wise, falling back to the
// encoded-key byte string when a pair of keys has no defined ordering
// (e.g. mismatched variants), so the order is still total.
func outerJoinRows(leftOrder, rightOrder []string, leftByKey, rightByKey map[string][]row.Row, repr map[string]row.Row, leftWidth, rightWidth int) []row.Row {
	seen := make(map[string]bool)
	var allKeys []string
	for _, k := range leftOrder {
		if !seen[k] {
			seen[k] = true
			allKeys = append(allKeys, k)
		}
	}
	for _, k := range rightOrder {
		if !seen[k] {
			seen[k] = true
			allKeys = append(allKeys, k)
		}
	}
	sort.SliceStable(allKeys, func(i, j int) bool {
		a, b := repr[allKeys[i]], repr[allKeys[j]]
		for c := 0; c < a.Len() && c < b.Len(); c++ {
			cmp, ok := a[c].Compare(b[c])
			if !ok {
				return allKeys[i] < allKeys[j]
			}
			if cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})

	var rows []row.Row
	for _, k := range allKeys {
		lrs, lok := leftByKey[k]
		rrs, rok := rightByKey[k]
		switch {
		case lok && rok:
			for _, lr := range lrs {
				for _, rr := range rrs {
					rows = append(rows, lr.Append(rr))
				}
			}
		case lok && !rok:
			for _, lr := range lrs {
				rows = append(rows, lr.Append(nullRow(rightWidth)))
			}
		case !lok && rok:
			for _, rr := range rrs {
				rows = append(rows, nullRow(leftWidth).Append(rr))
			}
		}
	}
	return rows
}
