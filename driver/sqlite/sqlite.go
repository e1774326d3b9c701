// Package sqlite is the dbc driver for the embedded sqlite engine, through
// github.com/mattn/go-sqlite3.
//
// The parameter string is "sqlite:" followed by a go-sqlite3 DSN:
//
//	sqlite:/var/data/users.db
//	sqlite:file:users.db?_busy_timeout=10000
//	sqlite::memory:
package sqlite

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/araddon/dbc"
	"github.com/araddon/dbc/driver"
	"github.com/araddon/dbc/driver/sqlconn"
)

const (
	// Scheme "sqlite" is the registered scheme in the dbc driver registry
	Scheme = "sqlite"

	changesSQL = "SELECT changes()"
)

func init() {
	dbc.Register(Scheme, Open)
}

// Open opens the sqlite database named by the parameter string body.
func Open(params string) (driver.Conn, error) {
	return OpenDSN(Scheme, params, dbc.Body(params))
}

// OpenDSN opens a sqlite database from a go-sqlite3 DSN, reporting errors
// under @scheme.  Other drivers built on sqlite use it.
func OpenDSN(scheme, params, dsn string) (driver.Conn, error) {
	if dsn == "" {
		return nil, &dbc.ConnectionOpenError{Driver: scheme, Params: params, Message: "missing database file name"}
	}
	c, err := sqlconn.Open(params, sqlconn.Options{
		Scheme:          scheme,
		DriverName:      "sqlite3",
		DSN:             dsn,
		Translate:       translate,
		Broken:          broken,
		RowsAffected:    changes,
		RowsAffectedSQL: changesSQL,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// changes reads sqlite's per connection changed row count, which always
// describes the most recent INSERT, UPDATE or DELETE on the handle.
func changes(ctx context.Context, conn *sqlx.Conn) (int64, error) {
	var n int64
	if err := conn.QueryRowxContext(ctx, changesSQL).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func translate(err error) (int, string) {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return int(se.Code), se.Error()
	}
	return 0, err.Error()
}

func broken(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.Code {
		case sqlite3.ErrCorrupt, sqlite3.ErrNotADB, sqlite3.ErrIoErr:
			return true
		}
	}
	return false
}
