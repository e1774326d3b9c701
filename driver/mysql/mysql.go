// Package mysql is the dbc driver for MySQL, through
// github.com/go-sql-driver/mysql.
//
// The parameter string is "mysql:" followed by a go-sql-driver DSN:
//
//	mysql:user:password@tcp(localhost:3306)/dbname?parseTime=true
package mysql

import (
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/araddon/dbc"
	"github.com/araddon/dbc/driver"
	"github.com/araddon/dbc/driver/sqlconn"
)

const (
	// Scheme "mysql" is the registered scheme in the dbc driver registry
	Scheme = "mysql"
)

func init() {
	dbc.Register(Scheme, Open)
}

// Open validates the DSN and opens a single MySQL connection.  The affected
// row count is the one MySQL reports in the OK packet of the last update.
func Open(params string) (driver.Conn, error) {
	cfg, err := mysql.ParseDSN(dbc.Body(params))
	if err != nil {
		return nil, &dbc.ConnectionOpenError{Driver: Scheme, Params: params, Message: err.Error()}
	}
	// report changed rows, not matched rows
	cfg.ClientFoundRows = false

	c, err := sqlconn.Open(params, sqlconn.Options{
		Scheme:     Scheme,
		DriverName: "mysql",
		DSN:        cfg.FormatDSN(),
		Translate:  translate,
		Broken:     broken,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func translate(err error) (int, string) {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return int(me.Number), me.Message
	}
	return 0, err.Error()
}

func broken(err error) bool {
	return errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, mysql.ErrPktSync)
}
