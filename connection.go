package dbc

import (
	"errors"
	"sync"

	u "github.com/araddon/gou"

	"github.com/araddon/dbc/driver"
	"github.com/araddon/dbc/metrics"
)

// Connection is a portable connection owning exactly one native driver
// handle.  Connections are created by a Registry (see Open) and must be
// closed by the caller to release the handle.
//
// A Connection serializes its own operations but callers must not share
// one across goroutines without their own synchronization: the row count
// read through CountProxy is only meaningful relative to the caller's own
// sequence of statements.
type Connection struct {
	mu     sync.Mutex
	scheme string
	params string
	native driver.Conn
	live   *ResultSet  // open cursor borrowing the native handle
	count  *CountProxy // lazily created on first update
	broken error       // sticky once the native handle is unusable
	closed bool
}

func newConnection(scheme, params string, native driver.Conn) *Connection {
	return &Connection{scheme: scheme, params: params, native: native}
}

// Scheme returns the scheme of the driver that opened this connection.
func (m *Connection) Scheme() string { return m.scheme }

// Params returns the parameter string the connection was opened with.
func (m *Connection) Params() string { return m.params }

// ExecuteUpdate executes a statement returning no rows.  It returns this
// connection's CountProxy, the same instance on every call, so read the
// count before issuing another update if this statement's count matters.
func (m *Connection) ExecuteUpdate(sql string) (*CountProxy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.usableLocked(); err != nil {
		return nil, err
	}
	m.finalizeLiveLocked()

	if err := m.native.Exec(sql); err != nil {
		metrics.Statement(m.scheme, metrics.KindUpdate, err)
		return nil, m.failLocked(sql, err)
	}
	metrics.Statement(m.scheme, metrics.KindUpdate, nil)

	if m.count == nil {
		m.count = &CountProxy{conn: m}
	}
	return m.count, nil
}

// ExecuteQuery executes a query and returns a ResultSet positioned before
// the first row.  Any ResultSet still open on this connection is finalized
// first.
func (m *Connection) ExecuteQuery(sql string) (*ResultSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.usableLocked(); err != nil {
		return nil, err
	}
	m.finalizeLiveLocked()

	cur, err := m.native.Query(sql)
	if err != nil {
		metrics.Statement(m.scheme, metrics.KindQuery, err)
		return nil, m.failLocked(sql, err)
	}
	metrics.Statement(m.scheme, metrics.KindQuery, nil)

	rs := newResultSet(m, sql, cur)
	m.live = rs
	return rs, nil
}

// Close releases the native handle.  It never fails: release errors are
// logged and counted, then dropped.  Calling Close again is a no-op.
func (m *Connection) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked()
	return nil
}

func (m *Connection) closeLocked() {
	if m.closed {
		return
	}
	m.finalizeLiveLocked()
	m.closed = true
	if err := m.native.Close(); err != nil {
		u.Warnf("dbc: %s close failed: %v", m.scheme, err)
		metrics.CloseError(m.scheme)
	}
}

func (m *Connection) finalizeLiveLocked() {
	if m.live != nil {
		u.Debugf("dbc: finalizing open cursor for %q", m.live.sql)
		m.live.finalizeLocked()
		m.live = nil
	}
}

func (m *Connection) usableLocked() error {
	if m.closed {
		return ErrConnClosed
	}
	if m.broken != nil {
		return m.broken
	}
	return nil
}

// failLocked makes sure err belongs to the dbc taxonomy and records it as
// sticky if the driver now reports the native handle broken.
func (m *Connection) failLocked(sql string, err error) error {
	if !errors.Is(err, ErrDb) {
		err = &SqlExecutionError{SQL: sql, Message: err.Error()}
	}
	if m.broken == nil && m.native.Broken() {
		var se *SqlExecutionError
		if errors.As(err, &se) {
			se.Fatal = true
		}
		u.Errorf("dbc: %s native handle is unusable: %v", m.scheme, err)
		m.broken = err
		m.finalizeLiveLocked()
	}
	return err
}
