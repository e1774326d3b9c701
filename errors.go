package dbc

import (
	"errors"
	"fmt"
)

var (
	// ErrDb is the root of every error returned by this package and its
	// drivers.  Use errors.Is(err, dbc.ErrDb) to catch all of them, and
	// errors.As for the typed errors below.
	ErrDb = errors.New("dbc")

	// ErrConnClosed is returned by any operation on a closed Connection.
	ErrConnClosed = fmt.Errorf("%w: connection is closed", ErrDb)
)

// ConnectionOpenError means the native handle could not be opened.  Code and
// Message are the native diagnostics captured at the moment of failure.
type ConnectionOpenError struct {
	Driver  string
	Params  string
	Code    int
	Message string
}

func (e *ConnectionOpenError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("dbc: %s open(%s) failed: %s (code %d)", e.Driver, e.Params, e.Message, e.Code)
	}
	return fmt.Sprintf("dbc: %s open(%s) failed: %s", e.Driver, e.Params, e.Message)
}
func (e *ConnectionOpenError) Is(target error) bool { return target == ErrDb }

// SqlExecutionError means a statement failed to prepare or execute.
//
// Fatal is set when the native handle was reported unusable; the same error
// is then returned by every later operation on the connection.
type SqlExecutionError struct {
	SQL     string
	Code    int
	Message string
	Fatal   bool
}

func (e *SqlExecutionError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("dbc: %s (code %d) during query: %s", e.Message, e.Code, e.SQL)
	}
	return fmt.Sprintf("dbc: %s during query: %s", e.Message, e.SQL)
}
func (e *SqlExecutionError) Is(target error) bool { return target == ErrDb }

// CursorStateError means a column was accessed while the ResultSet was not
// positioned on a row.
type CursorStateError struct {
	State CursorState
	Op    string
}

func (e *CursorStateError) Error() string {
	return fmt.Sprintf("dbc: %s: no current row (cursor %s)", e.Op, e.State)
}
func (e *CursorStateError) Is(target error) bool { return target == ErrDb }

// ColumnIndexError means a column index outside the result's columns.
type ColumnIndexError struct {
	Index int
	Count int
}

func (e *ColumnIndexError) Error() string {
	return fmt.Sprintf("dbc: column index %d out of range [0,%d)", e.Index, e.Count)
}
func (e *ColumnIndexError) Is(target error) bool { return target == ErrDb }

// NoSuchDriverError means no driver is registered for the parameter
// string's scheme.
type NoSuchDriverError struct {
	Scheme string
	Params string
}

func (e *NoSuchDriverError) Error() string {
	if e.Scheme == "" {
		return fmt.Sprintf("dbc: no scheme in parameter string %q", e.Params)
	}
	return fmt.Sprintf("dbc: no such driver %q (forgotten import?)", e.Scheme)
}
func (e *NoSuchDriverError) Is(target error) bool { return target == ErrDb }

// DriverExistsError is returned when registering a scheme twice.
type DriverExistsError struct {
	Scheme string
}

func (e *DriverExistsError) Error() string {
	return fmt.Sprintf("dbc: driver already registered for scheme %q", e.Scheme)
}
func (e *DriverExistsError) Is(target error) bool { return target == ErrDb }
