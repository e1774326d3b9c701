package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/araddon/dbc"
)

// SuiteTable is created, filled and dropped by RunDriverSuite.
const SuiteTable = "dbc_suite"

// RunDriverSuite runs the behavior every driver must share against an open
// connection: cursor discipline, NULL defaults, the live row count and
// statement error isolation.  The SQL is portable across sqlite, MySQL and
// PostgreSQL.
func RunDriverSuite(t *testing.T, conn *dbc.Connection) {
	Setup()

	TestExec(t, conn, "DROP TABLE IF EXISTS "+SuiteTable, -1)
	TestExec(t, conn, "CREATE TABLE "+SuiteTable+
		" (id INTEGER, name VARCHAR(64), score DOUBLE PRECISION, active BOOLEAN, x INTEGER)", -1)
	TestExec(t, conn, "INSERT INTO "+SuiteTable+" (id, name, score, active, x) VALUES "+
		"(1, 'aaron', 1.5, TRUE, 0), (2, 'bob', 2.25, FALSE, 0), (3, NULL, NULL, NULL, 0)", 3)
	defer TestExec(t, conn, "DROP TABLE "+SuiteTable, -1)

	t.Run("select", func(t *testing.T) {
		TestSelect(t, conn, "SELECT id, name, score, active FROM "+SuiteTable+" ORDER BY id",
			[][]interface{}{
				{int64(1), "aaron", 1.5, true},
				{int64(2), "bob", 2.25, false},
				{int64(3), nil, nil, nil},
			},
		)
	})

	t.Run("cursor discipline", func(t *testing.T) {
		rs, err := conn.ExecuteQuery("SELECT id FROM " + SuiteTable)
		require.NoError(t, err)
		defer rs.Close()

		assert.Equal(t, dbc.BeforeFirst, rs.State())
		_, err = dbc.Get[int](rs, 0)
		assertCursorState(t, err, dbc.BeforeFirst)
		_, err = rs.IsNull(0)
		assertCursorState(t, err, dbc.BeforeFirst)

		for i := 0; i < 3; i++ {
			ok, err := rs.Next()
			require.NoError(t, err)
			require.True(t, ok, "row %d", i)
			assert.Equal(t, dbc.OnRow, rs.State())
		}
		for i := 0; i < 2; i++ {
			ok, err := rs.Next()
			require.NoError(t, err)
			assert.False(t, ok)
		}
		assert.Equal(t, dbc.AfterLast, rs.State())
		_, err = dbc.Get[string](rs, 0)
		assertCursorState(t, err, dbc.AfterLast)
	})

	t.Run("null defaults", func(t *testing.T) {
		rs, err := conn.ExecuteQuery("SELECT name, score, active, id FROM " + SuiteTable + " WHERE id = 3")
		require.NoError(t, err)
		defer rs.Close()
		ok, err := rs.Next()
		require.NoError(t, err)
		require.True(t, ok)

		for col := 0; col < 3; col++ {
			isNull, err := rs.IsNull(col)
			require.NoError(t, err)
			assert.True(t, isNull)
		}
		s, err := dbc.Get[string](rs, 0)
		assert.NoError(t, err)
		assert.Equal(t, "", s)
		f, err := dbc.Get[float64](rs, 1)
		assert.NoError(t, err)
		assert.Equal(t, float64(0), f)
		b, err := dbc.Get[bool](rs, 2)
		assert.NoError(t, err)
		assert.False(t, b)
		i, err := dbc.Get[int](rs, 1)
		assert.NoError(t, err)
		assert.Equal(t, 0, i)

		_, err = dbc.Get[int](rs, 4)
		var cie *dbc.ColumnIndexError
		assert.True(t, errors.As(err, &cie), "got %v", err)
	})

	t.Run("count proxy aliasing", func(t *testing.T) {
		count, err := conn.ExecuteUpdate("UPDATE " + SuiteTable + " SET x = 1")
		require.NoError(t, err)
		n, err := count.Count()
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		count2, err := conn.ExecuteUpdate("UPDATE " + SuiteTable + " SET x = 2 WHERE id < 0")
		require.NoError(t, err)
		assert.True(t, count == count2, "same proxy instance")
		n, err = count.Count()
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})

	t.Run("error isolation", func(t *testing.T) {
		bad := "SELEKT * FROM " + SuiteTable
		_, err := conn.ExecuteQuery(bad)
		require.Error(t, err)
		assert.True(t, errors.Is(err, dbc.ErrDb))
		var se *dbc.SqlExecutionError
		require.True(t, errors.As(err, &se), "got %T %v", err, err)
		assert.Equal(t, bad, se.SQL)
		assert.NotEmpty(t, se.Message)
		assert.False(t, se.Fatal)

		_, err = conn.ExecuteUpdate(bad)
		require.True(t, errors.As(err, &se))
		assert.Equal(t, bad, se.SQL)

		TestSelect(t, conn, "SELECT COUNT(*) FROM "+SuiteTable, [][]interface{}{{int64(3)}})
	})
}

func assertCursorState(t *testing.T, err error, state dbc.CursorState) {
	t.Helper()
	var cse *dbc.CursorStateError
	if assert.True(t, errors.As(err, &cse), "expected CursorStateError got %v", err) {
		assert.Equal(t, state, cse.State)
		assert.Contains(t, cse.Error(), "no current row")
	}
	assert.True(t, errors.Is(err, dbc.ErrDb))
}
