package fastqx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastqx/internal/row"
	"fastqx/internal/value"
)

func d5(t *testing.T) *Data {
	t.Helper()
	mk := func(i int32, s string, f float64) row.Row {
		return row.New(value.NewI32(i), value.NewString(s), value.NewF64(f))
	}
	d, err := New(
		[]string{"c0", "c1", "c2"},
		[]value.ValueType{value.I32, value.String, value.F64},
		[]row.Row{
			mk(1, "A", 1.1), mk(2, "B", 2.2), mk(3, "C", 3.3),
			mk(2, "D", 4.4), mk(1, "E", 5.5), mk(2, "F", 6.6),
			mk(3, "G", 7.7), mk(3, "H", 8.8), mk(1, "I", 9.9),
		},
	)
	require.NoError(t, err)
	return d
}

// S2: group by c0, sums on c2 are 16.5 / 13.2 / 19.8 for keys 1 / 2 / 3.
func TestS2GroupBySum(t *testing.T) {
	g, err := GroupBy(d5(t), []string{"c0"})
	require.NoError(t, err)
	require.Equal(t, 3, g.Len())

	summed, err := g.Sum()
	require.NoError(t, err)
	require.Equal(t, 3, summed.Height())

	want := map[int64]float64{1: 16.5, 2: 13.2, 3: 19.8}
	for i := 0; i < summed.Height(); i++ {
		r, err := summed.RowAt(i)
		require.NoError(t, err)
		key := r[0].Int()
		got, ok := want[key]
		require.True(t, ok, "unexpected key %d", key)
		assert.InDelta(t, got, r[2].Float(), 1e-9)
	}
}

func TestGroupByPartitionSumEqualsTotalLength(t *testing.T) {
	d := d5(t)
	g, err := GroupBy(d, []string{"c0"})
	require.NoError(t, err)
	total := 0
	for i := 0; i < g.Len(); i++ {
		p, err := g.Partition(i)
		require.NoError(t, err)
		total += p.Height()
	}
	assert.Equal(t, d.Height(), total)
}

func TestGroupCount(t *testing.T) {
	g, err := GroupBy(d5(t), []string{"c0"})
	require.NoError(t, err)
	counts := g.Count()
	want := map[int64]int64{1: 3, 2: 3, 3: 3}
	for i := 0; i < counts.Height(); i++ {
		r, _ := counts.RowAt(i)
		assert.Equal(t, want[r[0].Int()], r[1].Int())
	}
}

func TestGroupFirstLastHeadTail(t *testing.T) {
	g, err := GroupBy(d5(t), []string{"c0"})
	require.NoError(t, err)

	first, err := g.First()
	require.NoError(t, err)
	assert.Equal(t, 3, first.Height())

	last, err := g.Last()
	require.NoError(t, err)
	assert.Equal(t, 3, last.Height())

	head, err := g.Head(1)
	require.NoError(t, err)
	assert.Equal(t, first.Height(), head.Height())

	tail, err := g.Tail(10)
	require.NoError(t, err)
	assert.Equal(t, d5(t).Height(), tail.Height())
}

func TestGroupNUniqueAndAll(t *testing.T) {
	g, err := GroupBy(d5(t), []string{"c0"})
	require.NoError(t, err)

	nu, err := g.NUnique("c1")
	require.NoError(t, err)
	for i := 0; i < nu.Height(); i++ {
		r, _ := nu.RowAt(i)
		assert.Equal(t, int64(3), r[1].Int())
	}

	allPositive, err := g.All(func(r row.Row) bool { return r[2].Float() > 0 })
	require.NoError(t, err)
	assert.True(t, allPositive)
}

func TestGroupUnknownColumnErrors(t *testing.T) {
	_, err := GroupBy(d5(t), []string{"nope"})
	require.Error(t, err)
}

func TestLazyGroupMaterialisesOnDemand(t *testing.T) {
	g, err := GroupByLazy(d5(t), []string{"c0"})
	require.NoError(t, err)
	require.Equal(t, 3, g.Len())
	p, err := g.Partition(0)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Height())
}
