// Package dbc is a portable database access layer.  One API (Connection,
// ResultSet, CountProxy) is implemented by interchangeable drivers chosen by
// the scheme of a connection parameter string, and every native failure is
// translated into the errors of this package.
//
//	import (
//		"github.com/araddon/dbc"
//		_ "github.com/araddon/dbc/driver/sqlite"
//	)
//
//	conn, err := dbc.Open("sqlite:/tmp/users.db")
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
//	rs, err := conn.ExecuteQuery("SELECT name, age FROM users")
//	if err != nil {
//		return err
//	}
//	defer rs.Close()
//	for {
//		ok, err := rs.Next()
//		if err != nil || !ok {
//			break
//		}
//		name, _ := dbc.Get[string](rs, 0)
//		age, _ := dbc.Get[int](rs, 1)
//	}
//
// Every error satisfies errors.Is(err, dbc.ErrDb); use errors.As to inspect
// ConnectionOpenError, SqlExecutionError, CursorStateError or
// NoSuchDriverError.
package dbc
