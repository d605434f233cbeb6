package fastqx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastqx/internal/errors"
	"fastqx/internal/row"
	"fastqx/internal/value"
)

func TestApplyMapsEveryRow(t *testing.T) {
	d := s1Data(t)
	vals, err := Apply(d, func(r row.Row) (int64, error) { return r[0].Int(), nil })
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, vals)
}

func TestApplyPropagatesFirstError(t *testing.T) {
	d := s1Data(t)
	calls := 0
	_, err := Apply(d, func(r row.Row) (int64, error) {
		calls++
		if r[0].Int() == 2 {
			return 0, errors.NewParseError("boom")
		}
		return r[0].Int(), nil
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestFilterPreservesHeaderAndLengthInvariant(t *testing.T) {
	d := s1Data(t)
	out, err := Filter(d, func(r row.Row) (bool, error) { return r[0].Int() > 1, nil })
	require.NoError(t, err)
	assert.Equal(t, d.Columns(), out.Columns())
	assert.Equal(t, d.Types(), out.Types())
	assert.LessOrEqual(t, out.Height(), d.Height())
	assert.Equal(t, 2, out.Height())
}

// Predicate failure is treated as false rather than aborting the scan.
func TestFilterTreatsPredicateErrorAsFalse(t *testing.T) {
	d := s1Data(t)
	out, err := Filter(d, func(r row.Row) (bool, error) {
		if r[0].Int() == 2 {
			return true, errors.NewParseError("boom")
		}
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Height())
}

func TestFilterIsIdempotent(t *testing.T) {
	d := s1Data(t)
	pred := func(r row.Row) (bool, error) { return r[0].Int() > 1, nil }
	once, err := Filter(d, pred)
	require.NoError(t, err)
	twice, err := Filter(once, pred)
	require.NoError(t, err)
	require.Equal(t, once.Height(), twice.Height())
	for i := 0; i < once.Height(); i++ {
		r1, _ := once.RowAt(i)
		r2, _ := twice.RowAt(i)
		assert.True(t, r1.Equal(r2))
	}
}

func TestReduceSeedsFromFirstRow(t *testing.T) {
	d := s1Data(t)
	acc, ok, err := Reduce(d, func(a, b row.Row) (row.Row, error) {
		return row.New(value.NewI32(int32(a[0].Int()+b[0].Int())), a[1], a[2]), nil
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(6), acc[0].Int())
}

func TestReduceRejectsWidthMismatch(t *testing.T) {
	d := s1Data(t)
	_, _, err := Reduce(d, func(a, b row.Row) (row.Row, error) {
		return row.New(a[0]), nil
	})
	require.Error(t, err)
	assert.True(t, errors.Of(err, errors.ShapeMismatch))
}

func TestReduceEmptyInputReportsNotOk(t *testing.T) {
	d, err := NewEmpty([]string{"a"}, []value.ValueType{value.I32})
	require.NoError(t, err)
	_, ok, err := Reduce(d, func(a, b row.Row) (row.Row, error) { return a, nil })
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFoldAccumulatesInOrder(t *testing.T) {
	d := s1Data(t)
	total, err := Fold(d, int64(0), func(acc int64, r row.Row) (int64, error) {
		return acc + r[0].Int(), nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
}

func TestNUniqueCountsDistinctValues(t *testing.T) {
	d := s1Data(t)
	require.NoError(t, d.Push(row.New(value.NewI32(3), value.NewString("Z"), value.NewF32(9.9))))
	col, err := ColumnByName(d, "c1")
	require.NoError(t, err)
	n, err := NUnique(d, col)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

// S6: filter(c1 > 1) |> reduce(+) over a frame whose third column is a
// String must surface TypeMismatch rather than silently concatenating,
// per the combinator-owns-the-check resolution recorded in DESIGN.md.
func TestS6FilterThenReduceAddRejectsStringColumn(t *testing.T) {
	d := s1Data(t)
	filtered, err := Filter(d, func(r row.Row) (bool, error) { return r[0].Int() > 1, nil })
	require.NoError(t, err)
	require.Equal(t, 2, filtered.Height())

	addRow := func(a, b row.Row) (row.Row, error) {
		out := make(row.Row, len(a))
		for i := range a {
			if a[i].Kind == value.String || b[i].Kind == value.String {
				return nil, errors.NewTypeMismatch("cannot add String column %d", i)
			}
			out[i] = a[i].Add(b[i])
		}
		return out, nil
	}

	_, _, err = Reduce(filtered, addRow)
	require.Error(t, err)
	assert.True(t, errors.Of(err, errors.TypeMismatch))
}

func TestRowsEqualUnorderedIgnoresColumnOrder(t *testing.T) {
	a := row.New(value.NewI32(1), value.NewString("x"))
	b := row.New(value.NewString("x"), value.NewI32(1))
	assert.True(t, RowsEqualUnordered(a, b, []string{"id", "name"}, []string{"name", "id"}))

	c := row.New(value.NewString("y"), value.NewI32(1))
	assert.False(t, RowsEqualUnordered(a, c, []string{"id", "name"}, []string{"name", "id"}))
}
