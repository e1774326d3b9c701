// Package driver defines the contract a database backend implements to be
// usable through the portable dbc Connection, ResultSet and CountProxy.
//
// A backend supplies an OpenFunc which is registered against a connection
// string scheme:
//
//	func init() {
//		dbc.Register("sqlite", Open)
//	}
//
// Drivers translate every native failure into a dbc error type
// (dbc.ConnectionOpenError, dbc.SqlExecutionError) before returning it; no
// native error values may be returned through these interfaces.
package driver

// OpenFunc opens a native connection.  It receives the full parameter string,
// scheme included, and owns the grammar of everything after the scheme.
//
// If the open fails, anything allocated so far must be released before the
// error is returned.
type OpenFunc func(params string) (Conn, error)

// Conn is an exclusively owned native connection handle.  It is only used
// by one goroutine at a time.
type Conn interface {
	// Exec runs a statement that returns no rows.
	Exec(sql string) error

	// Query runs a statement and returns a cursor positioned before the
	// first row.
	Query(sql string) (Cursor, error)

	// RowsAffected reports the rows changed by the most recent Exec on this
	// connection, read from the native handle at call time.
	RowsAffected() (int64, error)

	// Broken reports whether the native handle is unusable, after which no
	// further statements will succeed.
	Broken() bool

	// Close releases the native handle.
	Close() error
}

// Cursor is the fixed set of typed primitives a driver exposes over one
// executed query.  Column indexes are zero-based and have already been
// range checked by the caller; primitives are only called while the cursor
// is on a row.
//
// Primitives return the type's zero value for NULL.
type Cursor interface {
	// Columns returns the result column names.
	Columns() []string

	// Next advances to the next row, returning false when exhausted.
	Next() (bool, error)

	IsNull(col int) bool
	String(col int) (string, error)
	Int(col int) (int64, error)
	Float(col int) (float64, error)
	Bool(col int) (bool, error)

	// Close finalizes the native statement.
	Close() error
}
