// Package csvio implements the RFC 4180 CSV adapter: a typed reader and
// writer built directly on encoding/csv, grounded on the teacher's
// dataframe.ReadCSV/DataFrame.ToCSV but driven by explicit type_hints
// instead of inferring an untyped column.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"fastqx/internal/errors"
	"fastqx/internal/fastqx"
	"fastqx/internal/row"
	"fastqx/internal/value"
)

// Read parses an RFC 4180 CSV stream into a Data container. The header
// row supplies column names; hints gives the per-column target type.
// Where hints is shorter than the header, trailing columns default to
// String. An empty field always parses to Null.
func Read(r io.Reader, hints []value.ValueType) (*fastqx.Data, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.NewEmptyInput("csv stream has no header row")
		}
		return nil, errors.NewParseError("reading csv header: %v", err)
	}
	types := make([]value.ValueType, len(header))
	for i := range header {
		if i < len(hints) {
			types[i] = hints[i]
		} else {
			types[i] = value.String
		}
	}

	var rows []row.Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParseError("reading csv record: %v", err)
		}
		if len(record) != len(header) {
			return nil, errors.NewShapeMismatch("csv record has %d fields, header has %d", len(record), len(header))
		}
		out := make(row.Row, len(record))
		for i, field := range record {
			v, perr := value.Parse(field, types[i])
			if perr != nil {
				return nil, perr
			}
			out[i] = v
		}
		rows = append(rows, out)
	}
	return fastqx.New(header, types, rows)
}

// ReadFile opens path and reads it as CSV, per Read.
func ReadFile(path string, hints []value.ValueType) (*fastqx.Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewBackendError(fmt.Errorf("opening %s: %w", path, err))
	}
	defer f.Close()
	return Read(f, hints)
}

// Write emits d as RFC 4180 CSV: the header row from d.Columns(), then
// one record per row with every cell stringified by value.Value.String
// (Null maps to the empty field).
func Write(w io.Writer, d fastqx.Reader) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Columns()); err != nil {
		return errors.NewBackendError(fmt.Errorf("writing csv header: %w", err))
	}
	for i := 0; i < d.Height(); i++ {
		r, err := d.RowAt(i)
		if err != nil {
			return err
		}
		record := make([]string, r.Len())
		for j, cell := range r {
			record[j] = cell.String()
		}
		if err := cw.Write(record); err != nil {
			return errors.NewBackendError(fmt.Errorf("writing csv record: %w", err))
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.NewBackendError(fmt.Errorf("flushing csv writer: %w", err))
	}
	return nil
}

// WriteFile creates (or truncates) path and writes d as CSV, per Write.
func WriteFile(path string, d fastqx.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewBackendError(fmt.Errorf("creating %s: %w", path, err))
	}
	defer f.Close()
	return Write(f, d)
}
