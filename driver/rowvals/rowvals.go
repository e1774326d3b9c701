// Package rowvals implements the typed column primitives of a driver cursor
// over one row of native Go values, as handed back by database/sql scans or
// pgx.  A cursor embeds Row and only supplies Next and Close.
package rowvals

import (
	"fmt"

	"github.com/araddon/dbc"
	"github.com/araddon/dbc/value"
)

// Row is the current row of a cursor.
type Row struct {
	SQL  string
	Cols []string
	Vals []interface{} // nil when no row is current
}

func (m *Row) Columns() []string { return m.Cols }

func (m *Row) IsNull(col int) bool { return value.IsNull(m.Vals[col]) }

func (m *Row) String(col int) (string, error) {
	s, _ := value.ToString(m.Vals[col])
	return s, nil
}

func (m *Row) Int(col int) (int64, error) {
	i, ok := value.ToInt64(m.Vals[col])
	if !ok {
		return 0, m.convertError(col, "integer")
	}
	return i, nil
}

func (m *Row) Float(col int) (float64, error) {
	f, ok := value.ToFloat64(m.Vals[col])
	if !ok {
		return 0, m.convertError(col, "double")
	}
	return f, nil
}

func (m *Row) Bool(col int) (bool, error) {
	b, ok := value.ToBool(m.Vals[col])
	if !ok {
		return false, m.convertError(col, "boolean")
	}
	return b, nil
}

func (m *Row) convertError(col int, to string) error {
	return &dbc.SqlExecutionError{
		SQL:     m.SQL,
		Message: fmt.Sprintf("column %d (%s): cannot convert %v (%T) to %s", col, m.Cols[col], m.Vals[col], m.Vals[col], to),
	}
}
