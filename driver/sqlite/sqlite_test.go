package sqlite_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/araddon/dbc"
	"github.com/araddon/dbc/driver/sqlite"
	"github.com/araddon/dbc/testutil"
)

func TestMain(m *testing.M) {
	testutil.Setup() // will call flag.Parse()
	os.Exit(m.Run())
}

func openTestDb(t *testing.T) *dbc.Connection {
	t.Helper()
	conn, err := dbc.Open("sqlite:" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return conn
}

func TestSuite(t *testing.T) {
	conn := openTestDb(t)
	defer conn.Close()
	testutil.RunDriverSuite(t, conn)
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, dbc.DefaultRegistry().Drivers(), sqlite.Scheme)
}

func TestOpenFailureReleasesHandle(t *testing.T) {
	bad := "sqlite:" + filepath.Join(t.TempDir(), "missing", "dir", "x.db")

	// repeated failures must not exhaust anything process wide
	for i := 0; i < 50; i++ {
		conn, err := dbc.Open(bad)
		require.Nil(t, conn)
		var coe *dbc.ConnectionOpenError
		require.True(t, errors.As(err, &coe), "got %T %v", err, err)
		assert.Equal(t, sqlite.Scheme, coe.Driver)
		assert.Equal(t, bad, coe.Params)
		assert.Equal(t, int(sqlite3.ErrCantOpen), coe.Code)
		assert.NotEmpty(t, coe.Message)
	}

	conn := openTestDb(t)
	defer conn.Close()
	testutil.TestSelect(t, conn, "SELECT 1", [][]interface{}{{int64(1)}})
}

func TestOpenMissingName(t *testing.T) {
	_, err := dbc.Open("sqlite:")
	var coe *dbc.ConnectionOpenError
	require.True(t, errors.As(err, &coe), "got %v", err)
}

func TestMemoryDsn(t *testing.T) {
	conn, err := dbc.Open("sqlite::memory:")
	require.NoError(t, err)
	defer conn.Close()
	testutil.TestExec(t, conn, "CREATE TABLE kv (k TEXT, v TEXT)", -1)
	testutil.TestExec(t, conn, "INSERT INTO kv VALUES ('a', '1'), ('b', '2')", 2)
	testutil.TestSelect(t, conn, "SELECT k, v FROM kv ORDER BY k", [][]interface{}{
		{"a", int64(1)},
		{"b", int64(2)},
	})
}

func TestChangesIsConnectionScoped(t *testing.T) {
	conn := openTestDb(t)
	defer conn.Close()

	testutil.TestExec(t, conn, "CREATE TABLE t (x INTEGER)", -1)
	count, err := conn.ExecuteUpdate("INSERT INTO t VALUES (1), (2), (3), (4)")
	require.NoError(t, err)

	// a query does not change the live count of the last update
	testutil.TestSelect(t, conn, "SELECT COUNT(*) FROM t", [][]interface{}{{int64(4)}})
	n, err := count.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	_, err = conn.ExecuteUpdate("DELETE FROM t WHERE x > 2")
	require.NoError(t, err)
	n, err = count.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestTimeColumns(t *testing.T) {
	conn := openTestDb(t)
	defer conn.Close()

	testutil.TestExec(t, conn, "CREATE TABLE events (name TEXT, created DATETIME, note TEXT)", -1)
	testutil.TestExec(t, conn, "INSERT INTO events VALUES ('launch', '2015-07-04 12:30:00', '2015/07/05'), ('none', NULL, NULL)", 2)

	rs, err := conn.ExecuteQuery("SELECT created, note FROM events ORDER BY name")
	require.NoError(t, err)
	defer rs.Close()

	ok, err := rs.Next()
	require.NoError(t, err)
	require.True(t, ok)
	created, err := dbc.Get[time.Time](rs, 0)
	require.NoError(t, err)
	assert.True(t, time.Date(2015, 7, 4, 12, 30, 0, 0, time.UTC).Equal(created), "got %v", created)
	note, err := dbc.Get[time.Time](rs, 1)
	require.NoError(t, err)
	assert.Equal(t, 2015, note.Year())
	assert.Equal(t, time.July, note.Month())
	assert.Equal(t, 5, note.Day())

	ok, err = rs.Next()
	require.NoError(t, err)
	require.True(t, ok)
	isNull, err := rs.IsNull(0)
	require.NoError(t, err)
	assert.True(t, isNull)
	created, err = dbc.Get[time.Time](rs, 0)
	assert.NoError(t, err)
	assert.True(t, created.IsZero())
}

func TestUnreadCursorFinalizedByNextStatement(t *testing.T) {
	conn := openTestDb(t)
	defer conn.Close()

	testutil.TestExec(t, conn, "CREATE TABLE t (x INTEGER)", -1)
	testutil.TestExec(t, conn, "INSERT INTO t VALUES (1), (2), (3)", 3)

	rs, err := conn.ExecuteQuery("SELECT x FROM t")
	require.NoError(t, err)
	ok, err := rs.Next()
	require.NoError(t, err)
	require.True(t, ok)

	testutil.TestExec(t, conn, "UPDATE t SET x = x + 1", 3)
	assert.Equal(t, dbc.AfterLast, rs.State())
	ok, err = rs.Next()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestConstraintViolation(t *testing.T) {
	conn := openTestDb(t)
	defer conn.Close()

	testutil.TestExec(t, conn, "CREATE TABLE u (id INTEGER PRIMARY KEY)", -1)
	testutil.TestExec(t, conn, "INSERT INTO u VALUES (1)", 1)

	stmt := "INSERT INTO u VALUES (1)"
	_, err := conn.ExecuteUpdate(stmt)
	var se *dbc.SqlExecutionError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, int(sqlite3.ErrConstraint), se.Code)
	assert.Equal(t, stmt, se.SQL)
	assert.False(t, se.Fatal)

	testutil.TestExec(t, conn, "INSERT INTO u VALUES (2)", 1)
}

func TestOutOfRangeReads(t *testing.T) {
	conn := openTestDb(t)
	defer conn.Close()

	rs, err := conn.ExecuteQuery("SELECT 3000000000, -1, 1e300")
	require.NoError(t, err)
	defer rs.Close()
	ok, err := rs.Next()
	require.NoError(t, err)
	require.True(t, ok)

	var se *dbc.SqlExecutionError
	_, err = dbc.Get[int32](rs, 0)
	assert.True(t, errors.As(err, &se), "got %v", err)
	_, err = dbc.Get[uint64](rs, 1)
	assert.True(t, errors.As(err, &se), "got %v", err)
	_, err = dbc.Get[int64](rs, 2)
	assert.True(t, errors.As(err, &se), "got %v", err)

	n, err := dbc.Get[int64](rs, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(3000000000), n)
	f, err := dbc.Get[float64](rs, 2)
	assert.NoError(t, err)
	assert.Equal(t, 1e300, f)
}
