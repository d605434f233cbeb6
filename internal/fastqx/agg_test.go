package fastqx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastqx/internal/row"
	"fastqx/internal/value"
)

// S1: sum/mean/max over a mixed numeric/string/float frame.
func TestS1Aggregates(t *testing.T) {
	d := s1Data(t)

	sum, ok, err := Sum(d)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(6), sum[0].Int())
	assert.True(t, sum[1].IsNull())
	assert.InDelta(t, 6.6, float64(float32(sum[2].Float())), 0.01)

	mean, ok, err := Mean(d)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 2.0, mean[0].Float(), 1e-9)
	assert.True(t, mean[1].IsNull())
	assert.InDelta(t, 2.2, mean[2].Float(), 0.01)

	max, ok, err := Max(d)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(3), max[0].Int())
	assert.Equal(t, "C", max[1].Str())
	assert.InDelta(t, 3.2, float64(float32(max[2].Float())), 0.01)
}

func TestAggregateEmptyInput(t *testing.T) {
	d, err := NewEmpty([]string{"a"}, []value.ValueType{value.I32})
	require.NoError(t, err)
	_, ok, err := Sum(d)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCumSumMatchesSumOnLastRow(t *testing.T) {
	d := s1Data(t)
	cum, err := CumSum(d)
	require.NoError(t, err)
	require.Len(t, cum, 3)
	sum, _, err := Sum(d)
	require.NoError(t, err)
	last := cum[len(cum)-1]
	assert.Equal(t, sum[0].Int(), last[0].Int())
}

func TestDescribeSkipsNonNumericColumns(t *testing.T) {
	d := s1Data(t)
	summaries, err := Describe(d)
	require.NoError(t, err)
	cols := make([]string, len(summaries))
	for i, s := range summaries {
		cols[i] = s.Column
	}
	assert.Contains(t, cols, "c1")
	assert.Contains(t, cols, "c3")
	assert.NotContains(t, cols, "c2")
}

func mkRow(vals ...value.Value) row.Row { return row.New(vals...) }
