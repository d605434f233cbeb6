// Package sqlconn implements the driver-agnostic SQL adapter: a
// Connector recognising mysql/postgres/sqlite/mssql URL schemes,
// dispatching to database/sql with the matching driver registered via
// blank import, grounded on the teacher's database.DatabaseModule.Connect
// dialect switch but rebuilt around fetch/save instead of credential
// testing.
package sqlconn

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"fastqx/internal/errors"
	"fastqx/internal/fastqx"
	"fastqx/internal/row"
	"fastqx/internal/value"
)

// schemeDrivers is the process-wide, read-only URL-scheme → database/sql
// driver name registry. It is populated once in init() and never mutated
// afterward, per the core's "no shared mutable singletons" rule.
var schemeDrivers map[string]string

func init() {
	schemeDrivers = map[string]string{
		"mysql":      "mysql",
		"postgres":   "postgres",
		"postgresql": "postgres",
		"sqlite":     "sqlite3",
		"sqlite3":    "sqlite3",
		"mssql":      "sqlserver",
		"sqlserver":  "sqlserver",
	}
}

// connState tracks the connector's lifecycle: Uninitialised → PoolCreated
// → Closed, exposed via IsConnected.
type connState int

const (
	stateUninitialised connState = iota
	statePoolCreated
	stateClosed
)

// Connector is a lazily-pooled handle to one SQL backend.
type Connector struct {
	scheme string
	driver string
	dsn    string
	db     *sql.DB
	state  connState
}

// New constructs a Connector for url, recognising its scheme; the pool
// itself is created lazily on the first Connect.
func New(url string) (*Connector, error) {
	scheme, dsn, ok := splitScheme(url)
	if !ok {
		return nil, errors.NewBackendError(fmt.Errorf("no URL scheme in %q", url))
	}
	driver, ok := schemeDrivers[strings.ToLower(scheme)]
	if !ok {
		return nil, errors.NewBackendError(fmt.Errorf("unsupported scheme %q", scheme))
	}
	return &Connector{scheme: scheme, driver: driver, dsn: dsn}, nil
}

func splitScheme(url string) (scheme, rest string, ok bool) {
	i := strings.Index(url, "://")
	if i < 0 {
		return "", "", false
	}
	return url[:i], url[i+3:], true
}

// IsConnected reports whether the pool has been created and not closed.
func (c *Connector) IsConnected() bool { return c.state == statePoolCreated }

// Connect opens the pool (idempotent) and pings it.
func (c *Connector) Connect(ctx context.Context) error {
	if c.state == statePoolCreated {
		return nil
	}
	db, err := sql.Open(c.driver, c.dsn)
	if err != nil {
		return errors.NewBackendError(err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return errors.NewBackendError(err)
	}
	c.db = db
	c.state = statePoolCreated
	return nil
}

// Disconnect closes the pool.
func (c *Connector) Disconnect() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.state = stateClosed
	if err != nil {
		return errors.NewBackendError(err)
	}
	return nil
}

// Fetch runs query and materialises every row into a Data, introspecting
// column names and types from the driver's row metadata and mapping them
// to the nearest ValueType. Context cancellation surfaces as a Cancelled
// error with no partial Data returned.
func (c *Connector) Fetch(ctx context.Context, query string) (*fastqx.Data, error) {
	if err := c.Connect(ctx); err != nil {
		return nil, err
	}
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewCancelled("fetch cancelled: %v", ctx.Err())
		}
		return nil, errors.NewBackendError(err)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, errors.NewBackendError(err)
	}
	columns := make([]string, len(colTypes))
	types := make([]value.ValueType, len(colTypes))
	for i, ct := range colTypes {
		columns[i] = ct.Name()
		types[i] = mapDriverType(ct.DatabaseTypeName())
	}

	var out []row.Row
	scanDest := make([]interface{}, len(colTypes))
	scanBuf := make([]sql.NullString, len(colTypes))
	for i := range scanBuf {
		scanDest[i] = &scanBuf[i]
	}
	for rows.Next() {
		if ctx.Err() != nil {
			return nil, errors.NewCancelled("fetch cancelled mid-scan: %v", ctx.Err())
		}
		if err := rows.Scan(scanDest...); err != nil {
			return nil, errors.NewBackendError(err)
		}
		r := make(row.Row, len(colTypes))
		for i, cell := range scanBuf {
			if !cell.Valid {
				r[i] = value.NewNull()
				continue
			}
			v, perr := value.Parse(cell.String, types[i])
			if perr != nil {
				return nil, perr
			}
			r[i] = v
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewCancelled("fetch cancelled mid-scan: %v", ctx.Err())
		}
		return nil, errors.NewBackendError(err)
	}
	return fastqx.New(columns, types, out)
}

// FetchAs runs query via Fetch and converts every row with conv, in
// order; the first conversion error is returned and no slice is built.
func FetchAs[T any](ctx context.Context, c *Connector, query string, conv func(row.Row) (T, error)) ([]T, error) {
	d, err := c.Fetch(ctx, query)
	if err != nil {
		return nil, err
	}
	return fastqx.Apply(d, conv)
}

// mapDriverType maps a database/sql driver type name to the nearest
// ValueType; unrecognised names fall back to String, matching the
// spec's "nearest ValueType" contract rather than failing the fetch.
func mapDriverType(name string) value.ValueType {
	switch strings.ToUpper(name) {
	case "TINYINT":
		return value.I8
	case "SMALLINT", "INT2":
		return value.I16
	case "INT", "INTEGER", "INT4", "MEDIUMINT":
		return value.I32
	case "BIGINT", "INT8":
		return value.I64
	case "FLOAT", "FLOAT4", "REAL":
		return value.F32
	case "DOUBLE", "FLOAT8", "DOUBLE PRECISION", "DECIMAL", "NUMERIC":
		return value.F64
	case "BOOL", "BOOLEAN", "BIT":
		return value.Bool
	case "BLOB", "BINARY", "VARBINARY", "BYTEA", "IMAGE":
		return value.Blob
	case "DATE":
		return value.Date
	case "TIME":
		return value.Time
	case "DATETIME":
		return value.DateTime
	case "TIMESTAMP", "TIMESTAMPTZ":
		return value.Timestamp
	default:
		return value.String
	}
}

// SaveMode selects how Save reconciles d against an existing table.
type SaveMode int

const (
	Override SaveMode = iota
	Append
	Upsert
	Ignore
)

// Save writes d to table under mode. keys names the conflict columns for
// Upsert; ignored otherwise. ignoreSchema skips the CREATE TABLE step
// and assumes the table already matches d's header.
func (c *Connector) Save(ctx context.Context, d fastqx.Reader, table string, mode SaveMode, keys []string, ignoreSchema bool) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}
	switch mode {
	case Override:
		if _, err := c.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+c.dialect().quoteIdent(table)); err != nil {
			return errors.NewBackendError(err)
		}
		if !ignoreSchema {
			if err := c.createTable(ctx, d, table); err != nil {
				return err
			}
		}
		return c.insertAll(ctx, d, table)
	case Append:
		if !ignoreSchema {
			if _, err := c.db.ExecContext(ctx, c.createTableSQL(d, table, true)); err != nil {
				return errors.NewBackendError(err)
			}
		}
		return c.insertAll(ctx, d, table)
	case Upsert:
		if len(keys) == 0 {
			return errors.NewShapeMismatch("upsert requires at least one conflict key")
		}
		if !ignoreSchema {
			if _, err := c.db.ExecContext(ctx, c.createTableSQL(d, table, true)); err != nil {
				return errors.NewBackendError(err)
			}
		}
		return c.upsertAll(ctx, d, table, keys)
	case Ignore:
		if !ignoreSchema {
			if _, err := c.db.ExecContext(ctx, c.createTableSQL(d, table, true)); err != nil {
				return errors.NewBackendError(err)
			}
		}
		return c.insertIgnoringErrors(ctx, d, table)
	default:
		return errors.NewShapeMismatch("unknown save mode %d", mode)
	}
}

// dialect isolates the three ways the four recognised schemes disagree on
// wire syntax: bound-parameter placeholders, identifier quoting, and the
// upsert statement shape. mapDriverType already branches read-side type
// names the same per-driver way; dialect is the write-side counterpart.
type dialect struct {
	driver string
}

func (c *Connector) dialect() dialect { return dialect{driver: c.driver} }

// placeholder returns the i-th (0-based) bound-parameter marker for the
// dialect's driver: "?" for MySQL, "@pN" for MSSQL, "$N" for Postgres and
// SQLite (both accept the same ordinal marker SQLite itself calls "$AAAA").
func (d dialect) placeholder(i int) string {
	switch d.driver {
	case "mysql":
		return "?"
	case "sqlserver":
		return fmt.Sprintf("@p%d", i+1)
	default:
		return fmt.Sprintf("$%d", i+1)
	}
}

// quoteIdent quotes name the way the dialect's driver expects: backticks
// for MySQL, brackets for MSSQL, ANSI double-quotes for Postgres/SQLite.
func (d dialect) quoteIdent(name string) string {
	switch d.driver {
	case "mysql":
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	case "sqlserver":
		return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
	default:
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
}

func (c *Connector) createTable(ctx context.Context, d fastqx.Reader, table string) error {
	_, err := c.db.ExecContext(ctx, c.createTableSQL(d, table, false))
	if err != nil {
		return errors.NewBackendError(err)
	}
	return nil
}

func (c *Connector) createTableSQL(d fastqx.Reader, table string, ifNotExists bool) string {
	dl := c.dialect()
	cols := d.Columns()
	types := d.Types()
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = dl.quoteIdent(c) + " " + sqlTypeName(types[i])
	}
	ine := ""
	if ifNotExists {
		ine = "IF NOT EXISTS "
	}
	return fmt.Sprintf("CREATE TABLE %s%s (%s)", ine, dl.quoteIdent(table), strings.Join(defs, ", "))
}

func sqlTypeName(t value.ValueType) string {
	switch t {
	case value.Bool:
		return "BOOLEAN"
	case value.U8, value.I8, value.U16, value.I16, value.U32, value.I32:
		return "INTEGER"
	case value.U64, value.I64:
		return "BIGINT"
	case value.F32, value.F64:
		return "DOUBLE PRECISION"
	case value.Blob:
		return "BLOB"
	case value.Timestamp:
		return "TIMESTAMP"
	case value.DateTime:
		return "DATETIME"
	case value.Date:
		return "DATE"
	case value.Time:
		return "TIME"
	default:
		return "TEXT"
	}
}

func (c *Connector) insertAll(ctx context.Context, d fastqx.Reader, table string) error {
	stmt := c.insertStatement(d, table)
	for i := 0; i < d.Height(); i++ {
		r, err := d.RowAt(i)
		if err != nil {
			return err
		}
		if _, err := c.db.ExecContext(ctx, stmt, rowArgs(r)...); err != nil {
			return errors.NewBackendError(err)
		}
	}
	return nil
}

func (c *Connector) insertIgnoringErrors(ctx context.Context, d fastqx.Reader, table string) error {
	stmt := c.insertStatement(d, table)
	for i := 0; i < d.Height(); i++ {
		r, err := d.RowAt(i)
		if err != nil {
			return err
		}
		c.db.ExecContext(ctx, stmt, rowArgs(r)...) // constraint violations are silently skipped, per Ignore mode
	}
	return nil
}

// upsertAll reconciles d against table on the conflict columns in keys.
// The statement shape is dialect-specific: Postgres/SQLite use
// INSERT ... ON CONFLICT ... DO UPDATE, MySQL uses
// INSERT ... ON DUPLICATE KEY UPDATE, and MSSQL has neither, so it issues
// a MERGE statement instead.
func (c *Connector) upsertAll(ctx context.Context, d fastqx.Reader, table string, keys []string) error {
	dl := c.dialect()
	cols := d.Columns()
	keySet := make(map[string]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}

	var buildStmt func() string
	switch dl.driver {
	case "mysql":
		buildStmt = func() string { return c.upsertStatementMySQL(cols, keySet, table) }
	case "sqlserver":
		buildStmt = func() string { return c.upsertStatementMSSQL(cols, keys, keySet, table) }
	default:
		buildStmt = func() string { return c.upsertStatementStandard(cols, keys, keySet, table) }
	}
	stmt := buildStmt()

	for i := 0; i < d.Height(); i++ {
		r, err := d.RowAt(i)
		if err != nil {
			return err
		}
		if _, err := c.db.ExecContext(ctx, stmt, rowArgs(r)...); err != nil {
			return errors.NewBackendError(err)
		}
	}
	return nil
}

// upsertStatementStandard builds the Postgres/SQLite
// INSERT ... ON CONFLICT (...) DO UPDATE SET ... = excluded.... form.
func (c *Connector) upsertStatementStandard(cols []string, keys []string, keySet map[string]bool, table string) string {
	dl := c.dialect()
	placeholders := make([]string, len(cols))
	updates := make([]string, 0, len(cols))
	quotedCols := make([]string, len(cols))
	for i, col := range cols {
		placeholders[i] = dl.placeholder(i)
		quotedCols[i] = dl.quoteIdent(col)
		if !keySet[col] {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", dl.quoteIdent(col), dl.quoteIdent(col)))
		}
	}
	quotedKeys := make([]string, len(keys))
	for i, k := range keys {
		quotedKeys[i] = dl.quoteIdent(k)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		dl.quoteIdent(table), strings.Join(quotedCols, ", "), strings.Join(placeholders, ", "),
		strings.Join(quotedKeys, ", "), strings.Join(updates, ", "))
}

// upsertStatementMySQL builds the
// INSERT ... ON DUPLICATE KEY UPDATE col = VALUES(col) form; MySQL
// determines the conflicting row from the table's own unique/primary key
// constraints rather than an explicit conflict-column list.
func (c *Connector) upsertStatementMySQL(cols []string, keySet map[string]bool, table string) string {
	dl := c.dialect()
	placeholders := make([]string, len(cols))
	updates := make([]string, 0, len(cols))
	quotedCols := make([]string, len(cols))
	for i, col := range cols {
		placeholders[i] = dl.placeholder(i)
		quotedCols[i] = dl.quoteIdent(col)
		if !keySet[col] {
			updates = append(updates, fmt.Sprintf("%s = VALUES(%s)", dl.quoteIdent(col), dl.quoteIdent(col)))
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON DUPLICATE KEY UPDATE %s",
		dl.quoteIdent(table), strings.Join(quotedCols, ", "), strings.Join(placeholders, ", "),
		strings.Join(updates, ", "))
}

// upsertStatementMSSQL builds a MERGE statement: MSSQL supports neither
// ON CONFLICT nor ON DUPLICATE KEY, so matched rows are updated and
// unmatched rows inserted explicitly.
func (c *Connector) upsertStatementMSSQL(cols []string, keys []string, keySet map[string]bool, table string) string {
	dl := c.dialect()
	placeholders := make([]string, len(cols))
	sourceCols := make([]string, len(cols))
	quotedCols := make([]string, len(cols))
	for i, col := range cols {
		placeholders[i] = dl.placeholder(i)
		quotedCols[i] = dl.quoteIdent(col)
		sourceCols[i] = "source." + dl.quoteIdent(col)
	}
	onClauses := make([]string, len(keys))
	for i, k := range keys {
		onClauses[i] = fmt.Sprintf("target.%s = source.%s", dl.quoteIdent(k), dl.quoteIdent(k))
	}
	updates := make([]string, 0, len(cols))
	for _, col := range cols {
		if !keySet[col] {
			updates = append(updates, fmt.Sprintf("target.%s = source.%s", dl.quoteIdent(col), dl.quoteIdent(col)))
		}
	}
	return fmt.Sprintf(
		"MERGE INTO %s AS target USING (VALUES (%s)) AS source (%s) ON %s "+
			"WHEN MATCHED THEN UPDATE SET %s "+
			"WHEN NOT MATCHED THEN INSERT (%s) VALUES (%s);",
		dl.quoteIdent(table), strings.Join(placeholders, ", "), strings.Join(quotedCols, ", "),
		strings.Join(onClauses, " AND "), strings.Join(updates, ", "),
		strings.Join(quotedCols, ", "), strings.Join(sourceCols, ", "),
	)
}

func (c *Connector) insertStatement(d fastqx.Reader, table string) string {
	dl := c.dialect()
	cols := d.Columns()
	quotedCols := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, col := range cols {
		quotedCols[i] = dl.quoteIdent(col)
		placeholders[i] = dl.placeholder(i)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", dl.quoteIdent(table), strings.Join(quotedCols, ", "), strings.Join(placeholders, ", "))
}

func rowArgs(r row.Row) []interface{} {
	args := make([]interface{}, len(r))
	for i, cell := range r {
		if cell.IsNull() {
			args[i] = nil
			continue
		}
		args[i] = cell.String()
	}
	return args
}
