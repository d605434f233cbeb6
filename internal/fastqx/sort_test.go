package fastqx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastqx/internal/row"
	"fastqx/internal/value"
)

func unsortedData(t *testing.T) *Data {
	t.Helper()
	d, err := New(
		[]string{"c0"},
		[]value.ValueType{value.I32},
		[]row.Row{
			row.New(value.NewI32(3)),
			row.New(value.NewI32(1)),
			row.New(value.NewI32(2)),
			row.New(value.NewI32(1)),
		},
	)
	require.NoError(t, err)
	return d
}

func colSel(t *testing.T, d Reader, name string) Sel {
	t.Helper()
	s, err := ColumnByName(d, name)
	require.NoError(t, err)
	return s
}

func TestSortAscending(t *testing.T) {
	d := unsortedData(t)
	sorted, err := Sort(d, colSel(t, d, "c0"), true)
	require.NoError(t, err)
	want := []int64{1, 1, 2, 3}
	for i, w := range want {
		r, _ := sorted.RowAt(i)
		assert.Equal(t, w, r[0].Int())
	}
}

// Idempotence: sort(sort(d, c)) == sort(d, c).
func TestSortIsIdempotent(t *testing.T) {
	d := unsortedData(t)
	once, err := Sort(d, colSel(t, d, "c0"), true)
	require.NoError(t, err)
	twice, err := Sort(once, colSel(t, once, "c0"), true)
	require.NoError(t, err)
	require.Equal(t, once.Height(), twice.Height())
	for i := 0; i < once.Height(); i++ {
		r1, _ := once.RowAt(i)
		r2, _ := twice.RowAt(i)
		assert.True(t, r1.Equal(r2))
	}
}

func TestSortIsStable(t *testing.T) {
	d, err := New(
		[]string{"k", "orig"},
		[]value.ValueType{value.I32, value.I32},
		[]row.Row{
			row.New(value.NewI32(1), value.NewI32(0)),
			row.New(value.NewI32(1), value.NewI32(1)),
			row.New(value.NewI32(1), value.NewI32(2)),
		},
	)
	require.NoError(t, err)
	sorted, err := Sort(d, colSel(t, d, "k"), true)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		r, _ := sorted.RowAt(i)
		assert.Equal(t, int64(i), r[1].Int())
	}
}

func TestSortDescending(t *testing.T) {
	d := unsortedData(t)
	sorted, err := Sort(d, colSel(t, d, "c0"), false)
	require.NoError(t, err)
	want := []int64{3, 2, 1, 1}
	for i, w := range want {
		r, _ := sorted.RowAt(i)
		assert.Equal(t, w, r[0].Int())
	}
}
