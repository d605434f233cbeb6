package fastqx

import (
	"math"
	"sort"

	"fastqx/internal/row"
	"fastqx/internal/value"
)

// colAccumulator folds one column's values across rows for sum/min/max/mean.
type colAccumulator struct {
	typ      value.ValueType
	sum      value.Value
	sumCount int
	min      value.Value
	hasMin   bool
	max      value.Value
	hasMax   bool
}

func newColAccumulator(typ value.ValueType) *colAccumulator {
	return &colAccumulator{typ: typ, sum: value.NewF64(0)}
}

func (a *colAccumulator) add(v value.Value) {
	if a.typ.IsNumeric() && !v.IsNull() {
		a.sum = a.sum.Add(v.TryCast(value.F64))
		a.sumCount++
	}
	if v.IsNull() {
		return
	}
	if !a.hasMin {
		a.min, a.hasMin = v, true
	} else if v.Less(a.min) {
		a.min = v
	}
	if !a.hasMax {
		a.max, a.hasMax = v, true
	} else if a.max.Less(v) {
		a.max = v
	}
}

// aggregateRows runs the shared scan that sum/min/max/mean all need, once
// per call, and returns the per-column accumulators (nil, false if there
// are no rows).
func aggregateRows(d Reader) ([]*colAccumulator, bool, error) {
	if d.Height() == 0 {
		return nil, false, nil
	}
	types := d.Types()
	accs := make([]*colAccumulator, len(types))
	for i, t := range types {
		accs[i] = newColAccumulator(t)
	}
	for i := 0; i < d.Height(); i++ {
		r, err := d.RowAt(i)
		if err != nil {
			return nil, false, err
		}
		for c, cell := range r {
			accs[c].add(cell)
		}
	}
	return accs, true, nil
}

// Sum returns the position-wise sum, skipping Null, Null for non-numeric
// columns, and (nil,false,nil) on an empty input.
func Sum(d Reader) (row.Row, bool, error) {
	accs, ok, err := aggregateRows(d)
	if err != nil || !ok {
		return nil, ok, err
	}
	out := make(row.Row, len(accs))
	for i, a := range accs {
		if !a.typ.IsNumeric() {
			out[i] = value.NewNull()
			continue
		}
		out[i] = a.sum.TryCast(a.typ)
	}
	return out, true, nil
}

// Mean returns the position-wise sum cast to F64 divided by the non-null
// count, Null for non-numeric columns.
func Mean(d Reader) (row.Row, bool, error) {
	accs, ok, err := aggregateRows(d)
	if err != nil || !ok {
		return nil, ok, err
	}
	out := make(row.Row, len(accs))
	for i, a := range accs {
		if !a.typ.IsNumeric() || a.sumCount == 0 {
			out[i] = value.NewNull()
			continue
		}
		mean := a.sum.Float() / float64(a.sumCount)
		out[i] = value.NewF64(mean)
	}
	return out, true, nil
}

// Min and Max return the position-wise extremum using the Value partial
// order (works for any orderable column, not only numeric); an all-Null
// column yields Null.
func Min(d Reader) (row.Row, bool, error) {
	accs, ok, err := aggregateRows(d)
	if err != nil || !ok {
		return nil, ok, err
	}
	out := make(row.Row, len(accs))
	for i, a := range accs {
		if !a.hasMin {
			out[i] = value.NewNull()
			continue
		}
		out[i] = a.min
	}
	return out, true, nil
}

func Max(d Reader) (row.Row, bool, error) {
	accs, ok, err := aggregateRows(d)
	if err != nil || !ok {
		return nil, ok, err
	}
	out := make(row.Row, len(accs))
	for i, a := range accs {
		if !a.hasMax {
			out[i] = value.NewNull()
			continue
		}
		out[i] = a.max
	}
	return out, true, nil
}

// cumulative produces one row per input row, each the aggregate of the
// prefix [0..=i], using the same per-column rules as the scalar
// aggregate named by agg.
func cumulative(d Reader, agg func(Reader) (row.Row, bool, error)) ([]row.Row, error) {
	n := d.Height()
	out := make([]row.Row, n)
	cols := d.Columns()
	types := d.Types()
	prefix := NewUnchecked(cols, types, nil)
	for i := 0; i < n; i++ {
		r, err := d.RowAt(i)
		if err != nil {
			return nil, err
		}
		prefix.rows = append(prefix.rows, r)
		res, _, err := agg(prefix)
		if err != nil {
			return nil, err
		}
		out[i] = res
	}
	return out, nil
}

func CumSum(d Reader) ([]row.Row, error)  { return cumulative(d, Sum) }
func CumMin(d Reader) ([]row.Row, error)  { return cumulative(d, Min) }
func CumMax(d Reader) ([]row.Row, error)  { return cumulative(d, Max) }
func CumMean(d Reader) ([]row.Row, error) { return cumulative(d, Mean) }

// Describe returns, per numeric column, count/mean/std/min/max/median —
// a convenience computed in its own pass over the non-Null cells (it does
// not call Sum/Mean/Min/Max), grounded on
// the teacher's DataFrame.Describe but driven by ValueType classification
// instead of a reflected dtype string.
type ColumnSummary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Max    float64
	Median float64
}

func Describe(d Reader) ([]ColumnSummary, error) {
	cols := d.Columns()
	types := d.Types()
	var out []ColumnSummary
	for c, t := range types {
		if !t.IsNumeric() {
			continue
		}
		var nums []float64
		for i := 0; i < d.Height(); i++ {
			r, err := d.RowAt(i)
			if err != nil {
				return nil, err
			}
			if r[c].IsNull() {
				continue
			}
			nums = append(nums, r[c].TryCast(value.F64).Float())
		}
		if len(nums) == 0 {
			out = append(out, ColumnSummary{Column: cols[c]})
			continue
		}
		sum := 0.0
		for _, n := range nums {
			sum += n
		}
		mean := sum / float64(len(nums))
		variance := 0.0
		for _, n := range nums {
			diff := n - mean
			variance += diff * diff
		}
		variance /= float64(len(nums))
		sorted := append([]float64(nil), nums...)
		sort.Float64s(sorted)
		median := sorted[len(sorted)/2]
		if len(sorted)%2 == 0 {
			median = (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
		}
		out = append(out, ColumnSummary{
			Column: cols[c],
			Count:  len(nums),
			Mean:   mean,
			Std:    math.Sqrt(variance),
			Min:    sorted[0],
			Max:    sorted[len(sorted)-1],
			Median: median,
		})
	}
	return out, nil
}
