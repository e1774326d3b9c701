package sqlconn_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/araddon/dbc"
	"github.com/araddon/dbc/driver/sqlconn"
	"github.com/araddon/dbc/testutil"
)

func TestMain(m *testing.M) {
	testutil.Setup() // will call flag.Parse()
	os.Exit(m.Run())
}

func openConn(t *testing.T, opts sqlconn.Options) *sqlconn.Conn {
	t.Helper()
	opts.Scheme = "sqlconntest"
	opts.DriverName = "sqlite3"
	opts.DSN = filepath.Join(t.TempDir(), "conn.db")
	c, err := sqlconn.Open("sqlconntest:"+opts.DSN, opts)
	require.NoError(t, err)
	return c
}

func TestLastExecRowsAffected(t *testing.T) {
	c := openConn(t, sqlconn.Options{})
	defer c.Close()

	require.NoError(t, c.Exec("CREATE TABLE t (x INTEGER)"))
	require.NoError(t, c.Exec("INSERT INTO t VALUES (1), (2), (3)"))
	n, err := c.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// queries leave the count alone
	cur, err := c.Query("SELECT x FROM t ORDER BY x")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, cur.Columns())
	var got []int64
	for {
		ok, err := cur.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		assert.False(t, cur.IsNull(0))
		i, err := cur.Int(0)
		require.NoError(t, err)
		got = append(got, i)
	}
	assert.Equal(t, []int64{1, 2, 3}, got)
	require.NoError(t, cur.Close())
	n, err = c.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.NoError(t, c.Exec("DELETE FROM t WHERE x = 2"))
	n, err = c.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.False(t, c.Broken())
}

func TestDefaultTranslate(t *testing.T) {
	c := openConn(t, sqlconn.Options{})
	defer c.Close()

	err := c.Exec("SELEKT 1")
	var se *dbc.SqlExecutionError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, 0, se.Code)
	assert.Contains(t, se.Message, "SELEKT")
	assert.Equal(t, "SELEKT 1", se.SQL)
}

func TestBrokenClassifier(t *testing.T) {
	c := openConn(t, sqlconn.Options{
		Broken: func(err error) bool { return strings.Contains(err.Error(), "no such table") },
	})
	defer c.Close()

	_, err := c.Query("SELECT * FROM missing")
	var se *dbc.SqlExecutionError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.True(t, se.Fatal)
	assert.True(t, c.Broken())
}

func TestConversionErrors(t *testing.T) {
	c := openConn(t, sqlconn.Options{})
	defer c.Close()

	cur, err := c.Query("SELECT 'bob', 2.5, 'yes', NULL")
	require.NoError(t, err)
	defer cur.Close()
	ok, err := cur.Next()
	require.NoError(t, err)
	require.True(t, ok)

	_, err = cur.Int(0)
	var se *dbc.SqlExecutionError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, "SELECT 'bob', 2.5, 'yes', NULL", se.SQL)
	_, err = cur.Float(0)
	assert.True(t, errors.As(err, &se))
	_, err = cur.Bool(2)
	assert.True(t, errors.As(err, &se))

	f, err := cur.Float(1)
	assert.NoError(t, err)
	assert.Equal(t, 2.5, f)
	i, err := cur.Int(1)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), i)

	assert.True(t, cur.IsNull(3))
	s, err := cur.String(3)
	assert.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestOpenFailure(t *testing.T) {
	_, err := sqlconn.Open("sqlconntest:bad", sqlconn.Options{
		Scheme:     "sqlconntest",
		DriverName: "no-such-sql-driver",
		DSN:        "x",
	})
	var coe *dbc.ConnectionOpenError
	require.True(t, errors.As(err, &coe), "got %v", err)
	assert.Equal(t, "sqlconntest", coe.Driver)
	assert.Contains(t, coe.Message, "no-such-sql-driver")
}
