// Package memdb is a dbc driver for named, process local, in-memory sql
// databases, backed by the embedded sqlite engine.
//
//	memdb:users   // database "users", shared by connections opened while it exists
//	memdb:        // a fresh, uniquely named database
//
// A database lives as long as at least one connection to it is open.
package memdb

import (
	"fmt"
	"strings"

	"github.com/pborman/uuid"

	"github.com/araddon/dbc"
	"github.com/araddon/dbc/driver"
	"github.com/araddon/dbc/driver/sqlite"
)

const (
	// Scheme "memdb" is the registered scheme in the dbc driver registry
	Scheme = "memdb"
)

func init() {
	dbc.Register(Scheme, Open)
}

// Open opens (creating if needed) the in-memory database named by the
// parameter string body.
func Open(params string) (driver.Conn, error) {
	name := strings.TrimSpace(dbc.Body(params))
	if name == "" {
		name = uuid.New()
	}
	if strings.ContainsAny(name, "/?#&=") {
		return nil, &dbc.ConnectionOpenError{
			Driver:  Scheme,
			Params:  params,
			Message: fmt.Sprintf("invalid database name %q", name),
		}
	}
	return sqlite.OpenDSN(Scheme, params, DSN(name))
}

// DSN returns the go-sqlite3 DSN of the in-memory database @name.
func DSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}
