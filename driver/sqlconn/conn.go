// Package sqlconn implements the dbc driver contract over a database/sql
// driver.  It pins a single native connection so that connection scoped
// state, such as the affected row count, belongs to one handle.
package sqlconn

import (
	"context"
	"database/sql"
	sqldriver "database/sql/driver"
	"errors"

	u "github.com/araddon/gou"
	"github.com/jmoiron/sqlx"

	"github.com/araddon/dbc"
	"github.com/araddon/dbc/driver"
	"github.com/araddon/dbc/driver/rowvals"
)

var (
	// ensure we implement the driver contract
	_ driver.Conn   = (*Conn)(nil)
	_ driver.Cursor = (*Cursor)(nil)
)

// Options describe how to reach and interpret a database/sql driver.
type Options struct {
	// Scheme is the dbc scheme, used in errors and logs.
	Scheme string
	// DriverName is the database/sql driver name, eg "sqlite3".
	DriverName string
	// DSN is handed to sql.Open.
	DSN string
	// Translate extracts the native diagnostic code and message from a
	// driver error.  Defaults to code 0 and err.Error().
	Translate func(err error) (code int, msg string)
	// Broken reports driver specific errors meaning the handle is unusable,
	// on top of driver.ErrBadConn and sql.ErrConnDone.
	Broken func(err error) bool
	// RowsAffected reads the changed row count from the native handle.  If
	// nil, the count reported by the last Exec is used.
	RowsAffected func(ctx context.Context, conn *sqlx.Conn) (int64, error)
	// RowsAffectedSQL names the statement RowsAffected runs, for errors.
	RowsAffectedSQL string
}

// Conn is a single native database/sql connection.
type Conn struct {
	opts     Options
	params   string
	db       *sqlx.DB
	conn     *sqlx.Conn
	affected int64
	broken   bool
}

// Open opens the database and pins one native connection.  On failure
// everything acquired so far is released and a *dbc.ConnectionOpenError is
// returned.
func Open(params string, opts Options) (*Conn, error) {
	if opts.Translate == nil {
		opts.Translate = defaultTranslate
	}

	db, err := sqlx.Open(opts.DriverName, opts.DSN)
	if err != nil {
		return nil, openError(params, opts, err)
	}
	// the pool must never hand out a second native handle
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	conn, err := db.Connx(ctx)
	if err != nil {
		closeQuietly(opts.Scheme, db)
		return nil, openError(params, opts, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		closeQuietly(opts.Scheme, conn)
		closeQuietly(opts.Scheme, db)
		return nil, openError(params, opts, err)
	}
	u.Debugf("%s: opened %s", opts.Scheme, params)
	return &Conn{opts: opts, params: params, db: db, conn: conn}, nil
}

func openError(params string, opts Options, err error) error {
	code, msg := opts.Translate(err)
	return &dbc.ConnectionOpenError{Driver: opts.Scheme, Params: params, Code: code, Message: msg}
}

func closeQuietly(scheme string, c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		u.Warnf("%s: release after failed open: %v", scheme, err)
	}
}

func defaultTranslate(err error) (int, string) {
	return 0, err.Error()
}

// Exec runs a statement that returns no rows.
func (m *Conn) Exec(query string) error {
	res, err := m.conn.ExecContext(context.Background(), query)
	if err != nil {
		return m.sqlError(query, err)
	}
	if n, err := res.RowsAffected(); err == nil {
		m.affected = n
	}
	return nil
}

// Query runs a statement and returns a cursor before its first row.
func (m *Conn) Query(query string) (driver.Cursor, error) {
	rows, err := m.conn.QueryxContext(context.Background(), query)
	if err != nil {
		return nil, m.sqlError(query, err)
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, m.sqlError(query, err)
	}
	return &Cursor{Row: rowvals.Row{SQL: query, Cols: cols}, conn: m, rows: rows}, nil
}

// RowsAffected returns the rows changed by the most recent Exec.
func (m *Conn) RowsAffected() (int64, error) {
	if m.opts.RowsAffected == nil {
		return m.affected, nil
	}
	n, err := m.opts.RowsAffected(context.Background(), m.conn)
	if err != nil {
		return 0, m.sqlError(m.opts.RowsAffectedSQL, err)
	}
	return n, nil
}

// Broken reports whether the native connection was reported unusable.
func (m *Conn) Broken() bool { return m.broken }

// Close releases the pinned connection and the database handle, returning
// the first error.
func (m *Conn) Close() error {
	var firstErr error
	if m.conn != nil {
		firstErr = m.conn.Close()
		m.conn = nil
	}
	if m.db != nil {
		if err := m.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.db = nil
	}
	return firstErr
}

func (m *Conn) sqlError(query string, err error) error {
	if errors.Is(err, sqldriver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		(m.opts.Broken != nil && m.opts.Broken(err)) {
		m.broken = true
	}
	code, msg := m.opts.Translate(err)
	return &dbc.SqlExecutionError{SQL: query, Code: code, Message: msg, Fatal: m.broken}
}
