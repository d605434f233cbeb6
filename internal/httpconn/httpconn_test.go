package httpconn

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wireBody = `{
	"columns": ["c1", "c2", "c3"],
	"types": ["I32", "String", "F32"],
	"data": [[1, "A", 2.1], [2, "B", 1.3], [3, null, 3.2]]
}`

func TestGetDecodesWireFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rows", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(wireBody))
	}))
	defer srv.Close()

	client := New(srv.URL)
	d, err := client.Get(context.Background(), "/rows")
	require.NoError(t, err)
	require.Equal(t, []string{"c1", "c2", "c3"}, d.Columns())
	require.Equal(t, 3, d.Height())

	r2, _ := d.RowAt(2)
	assert.True(t, r2[1].IsNull())
}

func TestPostSendsBodyAndDecodesResponse(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(wireBody))
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.Post(context.Background(), "/rows", []byte(`{"q":1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"q":1}`, string(gotBody))
}

func TestDefaultHeadersAreMergedWithPerRequestHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token", r.Header.Get("Authorization"))
		w.Write([]byte(wireBody))
	}))
	defer srv.Close()

	client := New(srv.URL)
	client.Headers["Authorization"] = "token"
	_, err := client.Get(context.Background(), "/rows")
	require.NoError(t, err)
}

func TestStatusErrorSurfacesAsBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.Get(context.Background(), "/rows")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestPutAndDeleteRoundtrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(wireBody))
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.Put(context.Background(), "/rows", []byte(`{}`))
	require.NoError(t, err)
	_, err = client.Delete(context.Background(), "/rows")
	require.NoError(t, err)
}
