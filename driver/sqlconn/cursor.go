package sqlconn

import (
	"github.com/jmoiron/sqlx"

	"github.com/araddon/dbc/driver/rowvals"
)

// Cursor reads the rows of one query, one row of native values at a time.
type Cursor struct {
	rowvals.Row
	conn *Conn
	rows *sqlx.Rows
}

func (m *Cursor) Next() (bool, error) {
	if !m.rows.Next() {
		m.Vals = nil
		if err := m.rows.Err(); err != nil {
			return false, m.conn.sqlError(m.SQL, err)
		}
		return false, nil
	}
	vals, err := m.rows.SliceScan()
	if err != nil {
		return false, m.conn.sqlError(m.SQL, err)
	}
	m.Vals = vals
	return true, nil
}

func (m *Cursor) Close() error {
	m.Vals = nil
	return m.rows.Close()
}
