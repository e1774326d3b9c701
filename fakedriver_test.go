package dbc_test

import (
	"errors"
	"strings"

	"github.com/araddon/dbc/driver"
	"github.com/araddon/dbc/value"
)

var (
	_ driver.Conn   = (*fakeConn)(nil)
	_ driver.Cursor = (*fakeCursor)(nil)
)

// fakeConn is a scripted native connection.
type fakeConn struct {
	params   string
	cols     []string
	rows     [][]interface{}
	affected int64

	execErr      error
	breakOn      string // statement text that breaks the handle
	breakOnCount bool   // reading the row count breaks the handle
	broken       bool
	closeErr     error

	closes  int
	cursors []*fakeCursor
	execs   []string
}

func (m *fakeConn) Exec(sql string) error {
	if m.broken {
		return errors.New("native handle is gone")
	}
	if sql == m.breakOn {
		m.broken = true
		return errors.New("lost connection during query")
	}
	if m.execErr != nil && strings.HasPrefix(sql, "SELEKT") {
		return m.execErr
	}
	m.execs = append(m.execs, sql)
	return nil
}

func (m *fakeConn) Query(sql string) (driver.Cursor, error) {
	if m.broken {
		return nil, errors.New("native handle is gone")
	}
	if strings.HasPrefix(sql, "SELEKT") {
		if m.execErr != nil {
			return nil, m.execErr
		}
		return nil, errors.New("syntax error")
	}
	c := &fakeCursor{cols: m.cols, rows: m.rows, pos: -1}
	m.cursors = append(m.cursors, c)
	return c, nil
}

func (m *fakeConn) RowsAffected() (int64, error) {
	if m.breakOnCount {
		m.broken = true
		return 0, errors.New("server closed the connection unexpectedly")
	}
	return m.affected, nil
}
func (m *fakeConn) Broken() bool { return m.broken }
func (m *fakeConn) Close() error {
	m.closes++
	return m.closeErr
}

type fakeCursor struct {
	cols   []string
	rows   [][]interface{}
	pos    int
	closed bool
}

func (m *fakeCursor) Columns() []string { return m.cols }
func (m *fakeCursor) Next() (bool, error) {
	m.pos++
	return m.pos < len(m.rows), nil
}
func (m *fakeCursor) IsNull(col int) bool { return value.IsNull(m.rows[m.pos][col]) }
func (m *fakeCursor) String(col int) (string, error) {
	s, _ := value.ToString(m.rows[m.pos][col])
	return s, nil
}
func (m *fakeCursor) Int(col int) (int64, error) {
	i, ok := value.ToInt64(m.rows[m.pos][col])
	if !ok {
		return 0, errors.New("cannot convert to integer")
	}
	return i, nil
}
func (m *fakeCursor) Float(col int) (float64, error) {
	f, ok := value.ToFloat64(m.rows[m.pos][col])
	if !ok {
		return 0, errors.New("cannot convert to double")
	}
	return f, nil
}
func (m *fakeCursor) Bool(col int) (bool, error) {
	b, ok := value.ToBool(m.rows[m.pos][col])
	if !ok {
		return false, errors.New("cannot convert to boolean")
	}
	return b, nil
}
func (m *fakeCursor) Close() error {
	m.closed = true
	return nil
}
