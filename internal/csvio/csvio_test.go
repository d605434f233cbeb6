package csvio

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastqx/internal/fastqx"
	"fastqx/internal/row"
	"fastqx/internal/value"
)

func s1Data(t *testing.T) *fastqx.Data {
	t.Helper()
	d, err := fastqx.New(
		[]string{"c1", "c2", "c3"},
		[]value.ValueType{value.I32, value.String, value.F32},
		[]row.Row{
			row.New(value.NewI32(1), value.NewString("A"), value.NewF32(2.1)),
			row.New(value.NewI32(2), value.NewString("B"), value.NewF32(1.3)),
			row.New(value.NewI32(3), value.NewString("C"), value.NewF32(3.2)),
		},
	)
	require.NoError(t, err)
	return d
}

// S4: csv_write(d); csv_read(path, d.types) == d.
func TestS4RoundTrip(t *testing.T) {
	d := s1Data(t)
	path := filepath.Join(t.TempDir(), "s1.csv")

	require.NoError(t, WriteFile(path, d))
	got, err := ReadFile(path, []value.ValueType{value.I32, value.String, value.F32})
	require.NoError(t, err)

	require.Equal(t, d.Columns(), got.Columns())
	require.Equal(t, d.Height(), got.Height())
	for i := 0; i < d.Height(); i++ {
		wantRow, _ := d.RowAt(i)
		gotRow, _ := got.RowAt(i)
		assert.Equal(t, wantRow[0].Int(), gotRow[0].Int())
		assert.Equal(t, wantRow[1].Str(), gotRow[1].Str())
		assert.InDelta(t, float64(wantRow[2].Float()), float64(gotRow[2].Float()), 0.01)
	}
}

func TestReadDefaultsTrailingColumnsToString(t *testing.T) {
	r := strings.NewReader("a,b,c\n1,2,3\n")
	d, err := Read(r, []value.ValueType{value.I32})
	require.NoError(t, err)
	assert.Equal(t, []value.ValueType{value.I32, value.String, value.String}, d.Types())
}

func TestReadEmptyFieldParsesToNull(t *testing.T) {
	r := strings.NewReader("a,b\n1,\n")
	d, err := Read(r, []value.ValueType{value.I32, value.String})
	require.NoError(t, err)
	row0, _ := d.RowAt(0)
	assert.True(t, row0[1].IsNull())
}

func TestReadRejectsMissingHeader(t *testing.T) {
	r := strings.NewReader("")
	_, err := Read(r, nil)
	require.Error(t, err)
}

func TestReadRejectsRecordWidthMismatch(t *testing.T) {
	r := strings.NewReader("a,b\n1\n")
	_, err := Read(r, []value.ValueType{value.I32, value.I32})
	require.Error(t, err)
}
