// Test only package for harness to load, implement SQL tests
package testutil

import (
	"flag"
	"log"
	"os"
	"sync"
	"testing"

	u "github.com/araddon/gou"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/araddon/dbc"
)

var (
	verbose   *bool
	setupOnce = sync.Once{}
)

// Setup enables -vv verbose logging or sends logs to /dev/null
// env var VERBOSELOGS=true was added to support verbose logging with alltests
//
// Call it from TestMain or a test, never from init: the testing flags are
// not registered yet during package init.
func Setup() {
	setupOnce.Do(func() {

		if flag.CommandLine.Lookup("vv") == nil {
			verbose = flag.Bool("vv", false, "Verbose Logging?")
		}

		if !flag.Parsed() {
			flag.Parse()
		}
		logger := u.GetLogger()
		if logger != nil {
			// don't re-setup
		} else {
			if (verbose != nil && *verbose) || os.Getenv("VERBOSELOGS") != "" {
				u.SetupLogging("debug")
				u.SetColorOutput()
			} else {
				// make sure logging is always non-nil
				dn, _ := os.Open(os.DevNull)
				u.SetLogger(log.New(dn, "", 0), "error")
			}
		}
	})
}

// QuerySpec describes a statement and what running it should produce.
//
// Expect holds one slice per row; a nil cell means the column must be NULL,
// otherwise the cell's type picks the typed getter used to compare (string,
// int, int64, float64, bool).
type QuerySpec struct {
	Sql         string
	Exec        string
	HasErr      bool
	Cols        []string
	ExpectRowCt int
	Expect      [][]interface{}
}

// ExecSpec runs @q on @conn and asserts its results.
func ExecSpec(t *testing.T, conn *dbc.Connection, q *QuerySpec) {
	t.Helper()
	switch {
	case len(q.Exec) > 0:
		count, err := conn.ExecuteUpdate(q.Exec)
		if q.HasErr {
			assert.Error(t, err, "expected error for %s", q.Exec)
			return
		}
		require.NoError(t, err, "exec %s", q.Exec)
		if q.ExpectRowCt > -1 {
			affected, err := count.Count()
			assert.NoError(t, err)
			assert.Equal(t, int64(q.ExpectRowCt), affected, "affected rows for %s", q.Exec)
		}

	case len(q.Sql) > 0:
		rs, err := conn.ExecuteQuery(q.Sql)
		if q.HasErr {
			assert.Error(t, err, "expected error for %s", q.Sql)
			return
		}
		require.NoError(t, err, "query %s", q.Sql)
		defer rs.Close()

		if len(q.Cols) > 0 {
			assert.Equal(t, q.Cols, rs.Columns())
		}
		rowCt := 0
		for {
			ok, err := rs.Next()
			require.NoError(t, err, "next for %s", q.Sql)
			if !ok {
				break
			}
			if rowCt < len(q.Expect) {
				AssertRow(t, rs, q.Expect[rowCt])
			}
			rowCt++
		}
		if q.ExpectRowCt > -1 {
			assert.Equal(t, q.ExpectRowCt, rowCt, "rows for %s", q.Sql)
		}
	}
}

// AssertRow compares the current row of @rs with @expect.
func AssertRow(t *testing.T, rs *dbc.ResultSet, expect []interface{}) {
	t.Helper()
	for col, want := range expect {
		isNull, err := rs.IsNull(col)
		require.NoError(t, err)
		if want == nil {
			assert.True(t, isNull, "col %d should be NULL for %s", col, rs.SQL())
			continue
		}
		assert.False(t, isNull, "col %d should not be NULL for %s", col, rs.SQL())
		switch wv := want.(type) {
		case string:
			got, err := dbc.Get[string](rs, col)
			assert.NoError(t, err)
			assert.Equal(t, wv, got, "col %d for %s", col, rs.SQL())
		case int:
			got, err := dbc.Get[int](rs, col)
			assert.NoError(t, err)
			assert.Equal(t, wv, got, "col %d for %s", col, rs.SQL())
		case int64:
			got, err := dbc.Get[int64](rs, col)
			assert.NoError(t, err)
			assert.Equal(t, wv, got, "col %d for %s", col, rs.SQL())
		case float64:
			got, err := dbc.Get[float64](rs, col)
			assert.NoError(t, err)
			assert.InDelta(t, wv, got, 1e-9, "col %d for %s", col, rs.SQL())
		case bool:
			got, err := dbc.Get[bool](rs, col)
			assert.NoError(t, err)
			assert.Equal(t, wv, got, "col %d for %s", col, rs.SQL())
		default:
			t.Fatalf("unsupported expectation type %T", want)
		}
	}
}

// TestExec runs an update expecting @affected rows, -1 to skip the check.
func TestExec(t *testing.T, conn *dbc.Connection, sql string, affected int) {
	t.Helper()
	ExecSpec(t, conn, &QuerySpec{Exec: sql, ExpectRowCt: affected})
}

// TestSelect runs a query expecting exactly @expects rows.
func TestSelect(t *testing.T, conn *dbc.Connection, sql string, expects [][]interface{}) {
	t.Helper()
	ExecSpec(t, conn, &QuerySpec{Sql: sql, ExpectRowCt: len(expects), Expect: expects})
}

// TestSelectErr runs a query expecting it to fail.
func TestSelectErr(t *testing.T, conn *dbc.Connection, sql string) {
	t.Helper()
	ExecSpec(t, conn, &QuerySpec{Sql: sql, HasErr: true})
}
