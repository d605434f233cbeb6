// Package httpconn implements the HTTP adapter: a thin JSON REST client
// trimmed from the teacher's webclient.WebClientModule, keeping its
// HTTPClient/HTTPRequest/HTTPResponse shapes and http.Client construction
// but dropping every vulnerability-scanning method in favour of
// get/post/put/delete returning a Data decoded from a {columns, types,
// data} response body.
package httpconn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fastqx/internal/errors"
	"fastqx/internal/fastqx"
	"fastqx/internal/row"
	"fastqx/internal/value"
)

// HTTPClient is a thin wrapper around *http.Client carrying a base URL
// and default headers, mirroring the teacher's HTTPClient shape with its
// security-scanning fields removed.
type HTTPClient struct {
	Client  *http.Client
	BaseURL string
	Headers map[string]string
}

// New builds an HTTPClient with the given base URL and a 30s default
// timeout, matching the teacher's default client construction.
func New(baseURL string) *HTTPClient {
	return &HTTPClient{
		Client:  &http.Client{Timeout: 30 * time.Second},
		BaseURL: baseURL,
		Headers: make(map[string]string),
	}
}

// HTTPRequest describes an outgoing request.
type HTTPRequest struct {
	Method  string
	Path    string
	Headers map[string]string
	Body    []byte
}

// HTTPResponse captures the parts of a response the decode step needs.
type HTTPResponse struct {
	StatusCode int
	Body       []byte
}

// wireData mirrors the JSON shape {columns, types, data} described by
// the external-interfaces contract.
type wireData struct {
	Columns []string        `json:"columns"`
	Types   []string        `json:"types"`
	Data    [][]interface{} `json:"data"`
}

func (c *HTTPClient) do(ctx context.Context, req HTTPRequest) (*HTTPResponse, error) {
	url := c.BaseURL + req.Path
	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, bodyReader)
	if err != nil {
		return nil, errors.NewBackendError(err)
	}
	for k, v := range c.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if req.Body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.Client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewCancelled("request cancelled: %v", ctx.Err())
		}
		return nil, errors.NewBackendError(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewBackendError(err)
	}
	if resp.StatusCode >= 400 {
		return nil, errors.NewBackendError(fmt.Errorf("%s %s: status %d: %s", req.Method, url, resp.StatusCode, body))
	}
	return &HTTPResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

func decodeData(body []byte) (*fastqx.Data, error) {
	var wd wireData
	if err := json.Unmarshal(body, &wd); err != nil {
		return nil, errors.NewParseError("decoding response body: %v", err)
	}
	types := make([]value.ValueType, len(wd.Types))
	for i, t := range wd.Types {
		types[i] = parseTypeName(t)
	}
	rows := make([]row.Row, len(wd.Data))
	for i, record := range wd.Data {
		if len(record) != len(wd.Columns) {
			return nil, errors.NewShapeMismatch("response row %d has %d fields, header has %d", i, len(record), len(wd.Columns))
		}
		r := make(row.Row, len(record))
		for j, cell := range record {
			v, err := decodeCell(cell, types[j])
			if err != nil {
				return nil, err
			}
			r[j] = v
		}
		rows[i] = r
	}
	return fastqx.New(wd.Columns, types, rows)
}

func decodeCell(cell interface{}, target value.ValueType) (value.Value, error) {
	if cell == nil {
		return value.NewNull(), nil
	}
	switch v := cell.(type) {
	case string:
		return value.Parse(v, target)
	case bool:
		return value.NewBool(v), nil
	case float64:
		return value.NewF64(v).TryCast(target), nil
	default:
		return value.Value{}, errors.NewParseError("unsupported JSON cell type %T", cell)
	}
}

func parseTypeName(name string) value.ValueType {
	switch name {
	case "Bool":
		return value.Bool
	case "U8":
		return value.U8
	case "U16":
		return value.U16
	case "U32":
		return value.U32
	case "U64":
		return value.U64
	case "I8":
		return value.I8
	case "I16":
		return value.I16
	case "I32":
		return value.I32
	case "I64":
		return value.I64
	case "F32":
		return value.F32
	case "F64":
		return value.F64
	case "Blob":
		return value.Blob
	case "Timestamp":
		return value.Timestamp
	case "DateTime":
		return value.DateTime
	case "Date":
		return value.Date
	case "Time":
		return value.Time
	default:
		return value.String
	}
}

// Get issues a GET request to path and decodes the response as Data.
func (c *HTTPClient) Get(ctx context.Context, path string) (*fastqx.Data, error) {
	resp, err := c.do(ctx, HTTPRequest{Method: http.MethodGet, Path: path})
	if err != nil {
		return nil, err
	}
	return decodeData(resp.Body)
}

// Post issues a POST request with body and decodes the response as Data.
func (c *HTTPClient) Post(ctx context.Context, path string, body []byte) (*fastqx.Data, error) {
	resp, err := c.do(ctx, HTTPRequest{Method: http.MethodPost, Path: path, Body: body})
	if err != nil {
		return nil, err
	}
	return decodeData(resp.Body)
}

// Put issues a PUT request with body and decodes the response as Data.
func (c *HTTPClient) Put(ctx context.Context, path string, body []byte) (*fastqx.Data, error) {
	resp, err := c.do(ctx, HTTPRequest{Method: http.MethodPut, Path: path, Body: body})
	if err != nil {
		return nil, err
	}
	return decodeData(resp.Body)
}

// Delete issues a DELETE request and decodes the response as Data.
func (c *HTTPClient) Delete(ctx context.Context, path string) (*fastqx.Data, error) {
	resp, err := c.do(ctx, HTTPRequest{Method: http.MethodDelete, Path: path})
	if err != nil {
		return nil, err
	}
	return decodeData(resp.Body)
}
