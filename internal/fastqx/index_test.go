package fastqx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastqx/internal/row"
	"fastqx/internal/value"
)

// S5: unified 2D indexing over the S1 frame.
func TestS5Indexing(t *testing.T) {
	d := s1Data(t)

	sub, err := Select2D(d, RangeSel(1, 3), RangeSel(0, d.Width()))
	require.NoError(t, err)
	subData := sub.(*Data)
	assert.Equal(t, d.Columns(), subData.Columns())
	assert.Equal(t, 2, subData.Height())
	r0, _ := subData.RowAt(0)
	r1, _ := d.RowAt(1)
	assert.True(t, r0.Equal(r1))

	colSel, err := ColumnByName(d, "c2")
	require.NoError(t, err)
	colVals, err := Column(d, colSel)
	require.NoError(t, err)
	got := make([]string, len(colVals))
	for i, v := range colVals {
		got[i] = v.Str()
	}
	assert.Equal(t, []string{"A", "B", "C"}, got)

	cell, err := Select2D(d, Scalar(0), Scalar(2))
	require.NoError(t, err)
	assert.InDelta(t, 2.1, float64(cell.(value.Value).Float()), 0.01)

	block, err := Select2D(d, RangeSel(0, 2), List([]int{0, 2}))
	require.NoError(t, err)
	blockData := block.(*Data)
	assert.Equal(t, []string{"c1", "c3"}, blockData.Columns())
	assert.Equal(t, []value.ValueType{value.I32, value.F32}, blockData.Types())
	r0, _ = blockData.RowAt(0)
	assert.Equal(t, int64(1), r0[0].Int())
}

func TestSetAtMirrorsReadShape(t *testing.T) {
	d := s1Data(t)
	require.NoError(t, d.SetAt(Scalar(0), Scalar(0), value.NewI32(42)))
	r, _ := d.RowAt(0)
	assert.Equal(t, int64(42), r[0].Int())

	err := d.SetAt(Scalar(0), Scalar(0), row.New(value.NewI32(1)))
	require.Error(t, err)
}

func TestProjectRejectsUnknownColumn(t *testing.T) {
	d := s1Data(t)
	_, err := Project(d, []string{"nope"})
	require.Error(t, err)
}
