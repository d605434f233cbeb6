package sqlconn

import (
	"context"
	"path/filepath"
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

func sqliteURL(t *testing.T) string {
	t.Helper()
	return "sqlite3://" + filepath.Join(t.TempDir(), "fastqx.db")
}

func TestNewRejectsUnknownScheme(t *testing.T) {
	_, err := New("redis://localhost")
	require.Error(t, err)
}

func TestNewRejectsMissingScheme(t *testing.T) {
	_, err := New("not-a-url")
	require.Error(t, err)
}

// Round trip: sql_save(d, mode=Override); sql_fetch("select * from t") ≡ d, up to row order.
func TestSaveOverrideThenFetchRoundTrips(t *testing.T) {
	conn, err := New(sqliteURL(t))
	require.NoError(t, err)
	defer conn.Disconnect()

	ctx := context.Background()
	d := s1Data(t)
	require.NoError(t, conn.Save(ctx, d, "people", Override, nil, false))

	got, err := conn.Fetch(ctx, "SELECT * FROM people")
	require.NoError(t, err)
	require.Equal(t, d.Height(), got.Height())

	wantC1 := map[int64]bool{1: true, 2: true, 3: true}
	for i := 0; i < got.Height(); i++ {
		r, err := got.RowAt(i)
		require.NoError(t, err)
		assert.True(t, wantC1[r[0].Int()])
	}
}

func TestSaveAppendAccumulatesRows(t *testing.T) {
	conn, err := New(sqliteURL(t))
	require.NoError(t, err)
	defer conn.Disconnect()

	ctx := context.Background()
	d := s1Data(t)
	require.NoError(t, conn.Save(ctx, d, "events", Override, nil, false))
	require.NoError(t, conn.Save(ctx, d, "events", Append, nil, false))

	got, err := conn.Fetch(ctx, "SELECT * FROM events")
	require.NoError(t, err)
	assert.Equal(t, d.Height()*2, got.Height())
}

func TestUpsertRequiresConflictKeys(t *testing.T) {
	conn, err := New(sqliteURL(t))
	require.NoError(t, err)
	defer conn.Disconnect()

	err = conn.Save(context.Background(), s1Data(t), "keyed", Upsert, nil, false)
	require.Error(t, err)
}

func TestIsConnectedTracksLifecycle(t *testing.T) {
	conn, err := New(sqliteURL(t))
	require.NoError(t, err)
	assert.False(t, conn.IsConnected())
	require.NoError(t, conn.Connect(context.Background()))
	assert.True(t, conn.IsConnected())
	require.NoError(t, conn.Disconnect())
	assert.False(t, conn.IsConnected())
}

func TestMapDriverTypeFallsBackToString(t *testing.T) {
	assert.Equal(t, value.I64, mapDriverType("BIGINT"))
	assert.Equal(t, value.F64, mapDriverType("DOUBLE"))
	assert.Equal(t, value.String, mapDriverType("SOME_EXOTIC_TYPE"))
}
