package dbc

import (
	"fmt"
	"math"
	"time"

	"github.com/araddon/dateparse"
	u "github.com/araddon/gou"

	"github.com/araddon/dbc/driver"
)

// CursorState is the position of a ResultSet cursor.
type CursorState int

const (
	// BeforeFirst is the initial state, no row is current yet.
	BeforeFirst CursorState = iota
	// OnRow means a row is current and its columns may be read.
	OnRow
	// AfterLast is terminal; reached when the rows are exhausted, the
	// cursor failed, or the ResultSet was closed.
	AfterLast
)

func (s CursorState) String() string {
	switch s {
	case BeforeFirst:
		return "before-first-row"
	case OnRow:
		return "on-row"
	case AfterLast:
		return "after-last-row"
	}
	return fmt.Sprintf("CursorState(%d)", int(s))
}

// Value is the set of Go types readable from a column with Get and GetInto.
type Value interface {
	string | []byte | int | int32 | int64 | uint | uint32 | uint64 | float32 | float64 | bool | time.Time
}

// ResultSet is a forward-only cursor over the rows of one executed query.
// It resembles a JDBC ResultSet but does not support updates.
//
// A ResultSet borrows the native cursor of the Connection that created it.
// It is finalized when closed, when its Connection executes another
// statement, or when its Connection is closed; after that it behaves as
// if it were positioned after the last row.
type ResultSet struct {
	conn  *Connection
	cur   driver.Cursor
	sql   string
	cols  []string
	state CursorState
}

func newResultSet(conn *Connection, sql string, cur driver.Cursor) *ResultSet {
	return &ResultSet{conn: conn, cur: cur, sql: sql, cols: cur.Columns()}
}

// SQL returns the query text this ResultSet was produced by.
func (m *ResultSet) SQL() string { return m.sql }

// State returns the current cursor position.
func (m *ResultSet) State() CursorState {
	m.conn.mu.Lock()
	defer m.conn.mu.Unlock()
	return m.state
}

// Columns returns the result column names.
func (m *ResultSet) Columns() []string { return m.cols }

// Next moves the cursor forward one row.  The first call makes the first
// row current.  When it returns false the cursor is after the last row, and
// stays there: further calls return false, nil.  Once the connection's
// native handle is broken Next returns the connection's sticky error.
func (m *ResultSet) Next() (bool, error) {
	m.conn.mu.Lock()
	defer m.conn.mu.Unlock()

	if m.conn.broken != nil {
		return false, m.conn.broken
	}
	if m.state == AfterLast {
		return false, nil
	}
	ok, err := m.cur.Next()
	if err != nil {
		m.finalizeLocked()
		return false, m.conn.failLocked(m.sql, err)
	}
	if !ok {
		m.finalizeLocked()
		return false, nil
	}
	m.state = OnRow
	return true, nil
}

// IsNull reports whether the column of the current row is NULL.  Check it
// before reading the column, typed reads return zero values for NULL.
func (m *ResultSet) IsNull(col int) (bool, error) {
	m.conn.mu.Lock()
	defer m.conn.mu.Unlock()
	if err := m.checkAccess("IsNull", col); err != nil {
		return false, err
	}
	return m.cur.IsNull(col), nil
}

// Close finalizes the native cursor.  It is safe to call more than once.
func (m *ResultSet) Close() error {
	m.conn.mu.Lock()
	defer m.conn.mu.Unlock()
	m.finalizeLocked()
	return nil
}

// finalizeLocked moves to AfterLast and releases the native cursor; the
// connection lock must be held.  Release failures are logged, not returned.
func (m *ResultSet) finalizeLocked() {
	if m.state == AfterLast && m.cur == nil {
		return
	}
	m.state = AfterLast
	if m.cur != nil {
		if err := m.cur.Close(); err != nil {
			u.Warnf("dbc: could not finalize cursor for %q: %v", m.sql, err)
		}
		m.cur = nil
	}
	if m.conn.live == m {
		m.conn.live = nil
	}
}

func (m *ResultSet) checkAccess(op string, col int) error {
	if m.conn.broken != nil {
		return m.conn.broken
	}
	if m.state != OnRow {
		return &CursorStateError{State: m.state, Op: op}
	}
	if col < 0 || col >= len(m.cols) {
		return &ColumnIndexError{Index: col, Count: len(m.cols)}
	}
	return nil
}

// Get reads a column of the current row as T.  NULL yields the zero value
// of T; use IsNull to tell NULL apart.
//
//	name, err := dbc.Get[string](rs, 0)
func Get[T Value](rs *ResultSet, col int) (T, error) {
	var out T
	err := GetInto(rs, col, &out)
	return out, err
}

// GetInto reads a column of the current row into out.
func GetInto[T Value](rs *ResultSet, col int, out *T) error {
	rs.conn.mu.Lock()
	defer rs.conn.mu.Unlock()

	if err := rs.checkAccess("Get", col); err != nil {
		return err
	}

	var err error
	switch p := any(out).(type) {
	case *string:
		*p, err = rs.cur.String(col)
	case *[]byte:
		*p, err = rs.getBytes(col)
	case *int:
		var i int64
		if i, err = rs.getInt(col, math.MinInt, math.MaxInt, "int"); err == nil {
			*p = int(i)
		}
	case *int32:
		var i int64
		if i, err = rs.getInt(col, math.MinInt32, math.MaxInt32, "int32"); err == nil {
			*p = int32(i)
		}
	case *int64:
		*p, err = rs.cur.Int(col)
	case *uint:
		var i int64
		if i, err = rs.getInt(col, 0, math.MaxInt64, "uint"); err == nil {
			if uint64(i) > math.MaxUint {
				err = rs.overflowError(col, i, "uint")
			} else {
				*p = uint(i)
			}
		}
	case *uint32:
		var i int64
		if i, err = rs.getInt(col, 0, math.MaxUint32, "uint32"); err == nil {
			*p = uint32(i)
		}
	case *uint64:
		var i int64
		if i, err = rs.getInt(col, 0, math.MaxInt64, "uint64"); err == nil {
			*p = uint64(i)
		}
	case *float32:
		var f float64
		if f, err = rs.cur.Float(col); err == nil {
			if math.Abs(f) > math.MaxFloat32 && !math.IsInf(f, 0) {
				err = rs.overflowError(col, f, "float32")
			} else {
				*p = float32(f)
			}
		}
	case *float64:
		*p, err = rs.cur.Float(col)
	case *bool:
		*p, err = rs.cur.Bool(col)
	case *time.Time:
		*p, err = rs.getTime(col)
	}
	if err != nil {
		return rs.conn.failLocked(rs.sql, err)
	}
	return nil
}

// getInt reads the integer primitive and rejects values outside [lo,hi].
func (m *ResultSet) getInt(col int, lo, hi int64, to string) (int64, error) {
	i, err := m.cur.Int(col)
	if err != nil {
		return 0, err
	}
	if i < lo || i > hi {
		return 0, m.overflowError(col, i, to)
	}
	return i, nil
}

func (m *ResultSet) overflowError(col int, v interface{}, to string) error {
	return &SqlExecutionError{
		SQL:     m.sql,
		Message: fmt.Sprintf("column %d: cannot convert %v to %s, overflows", col, v, to),
	}
}

func (m *ResultSet) getBytes(col int) ([]byte, error) {
	if m.cur.IsNull(col) {
		return nil, nil
	}
	s, err := m.cur.String(col)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func (m *ResultSet) getTime(col int) (time.Time, error) {
	if m.cur.IsNull(col) {
		return time.Time{}, nil
	}
	s, err := m.cur.String(col)
	if err != nil {
		return time.Time{}, err
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, &SqlExecutionError{
			SQL:     m.sql,
			Message: fmt.Sprintf("column %d: cannot convert %q to time", col, s),
		}
	}
	return t, nil
}
