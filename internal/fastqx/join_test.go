package fastqx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastqx/internal/row"
	"fastqx/internal/value"
)

func keyedFrame(t *testing.T, col string, keys []int64) *Data {
	t.Helper()
	rows := make([]row.Row, len(keys))
	for i, k := range keys {
		rows[i] = row.New(value.NewI64(k))
	}
	d, err := New([]string{col}, []value.ValueType{value.I64}, rows)
	require.NoError(t, err)
	return d
}

// S3: inner join row count is the sum, over matching keys, of left*right counts.
func TestS3InnerJoinRowCount(t *testing.T) {
	d6 := keyedFrame(t, "c0", []int64{1, 2, 3, 2, 1, 2, 3, 3, 1})
	d7 := keyedFrame(t, "c0", []int64{1, 4, 1, 3, 1})

	out, err := Join(d6, d7, []string{"c0"}, Inner)
	require.NoError(t, err)
	assert.Equal(t, 12, out.Height())
	assert.Equal(t, []string{"c0", "c0"}, out.Columns())
}

func TestLeftJoinKeepsEveryLeftRow(t *testing.T) {
	d6 := keyedFrame(t, "c0", []int64{1, 2, 3, 2, 1, 2, 3, 3, 1})
	d7 := keyedFrame(t, "c0", []int64{1, 4, 1, 3, 1})

	out, err := Join(d6, d7, []string{"c0"}, Left)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, out.Height(), d6.Height())
}

func TestLeftJoinNoMatchesEqualsNullExtended(t *testing.T) {
	left := keyedFrame(t, "c0", []int64{1, 2, 3})
	right := keyedFrame(t, "c0", []int64{9, 8})

	out, err := Join(left, right, []string{"c0"}, Left)
	require.NoError(t, err)
	require.Equal(t, left.Height(), out.Height())
	for i := 0; i < out.Height(); i++ {
		r, err := out.RowAt(i)
		require.NoError(t, err)
		assert.True(t, r[1].IsNull())
	}
}

func TestRightJoinMirrorsLeft(t *testing.T) {
	left := keyedFrame(t, "c0", []int64{1, 2})
	right := keyedFrame(t, "c0", []int64{1, 2, 3})

	l2r, err := Join(left, right, []string{"c0"}, Left)
	require.NoError(t, err)
	r2l, err := Join(right, left, []string{"c0"}, Right)
	require.NoError(t, err)
	assert.Equal(t, l2r.Height(), r2l.Height())
}

func TestOuterJoinIsUnionOfLeftAndRight(t *testing.T) {
	left := keyedFrame(t, "c0", []int64{1, 2})
	right := keyedFrame(t, "c0", []int64{2, 3})

	out, err := Join(left, right, []string{"c0"}, Outer)
	require.NoError(t, err)
	// keys 1 (left-only), 2 (matched), 3 (right-only)
	assert.Equal(t, 3, out.Height())
}

func TestOuterJoinOrdersByKey(t *testing.T) {
	left := keyedFrame(t, "c0", []int64{3, 1, 2})
	right := keyedFrame(t, "c0", []int64{5, 4})

	out, err := Join(left, right, []string{"c0"}, Outer)
	require.NoError(t, err)
	require.Equal(t, 5, out.Height())
	var keys []int64
	for i := 0; i < out.Height(); i++ {
		r, _ := out.RowAt(i)
		if !r[0].IsNull() {
			keys = append(keys, r[0].Int())
		} else {
			keys = append(keys, r[1].Int())
		}
	}
	for i := 1; i < len(keys); i++ {
		assert.LessOrEqual(t, keys[i-1], keys[i])
	}
}

// Join identity: inner join on an empty key set is the Cartesian product.
func TestInnerJoinEmptyKeySetIsCartesianProduct(t *testing.T) {
	left := keyedFrame(t, "a", []int64{1, 2})
	right := keyedFrame(t, "b", []int64{10, 20, 30})

	out, err := Join(left, right, nil, Inner)
	require.NoError(t, err)
	assert.Equal(t, left.Height()*right.Height(), out.Height())
}

func TestMergeRejectsArityMismatch(t *testing.T) {
	left := keyedFrame(t, "a", []int64{1})
	right := keyedFrame(t, "b", []int64{1})

	_, err := Merge(left, right, []string{"a"}, []string{})
	require.Error(t, err)
}

func TestMergeAsymmetricKeyNames(t *testing.T) {
	left := keyedFrame(t, "lkey", []int64{1, 2, 3})
	right := keyedFrame(t, "rkey", []int64{2, 3, 4})

	out, err := Merge(left, right, []string{"lkey"}, []string{"rkey"}, Inner)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Height())
	assert.Equal(t, []string{"lkey", "rkey"}, out.Columns())
}
