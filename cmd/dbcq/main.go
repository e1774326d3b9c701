// dbcq runs SQL against any registered dbc driver.
//
//	dbcq --url sqlite:/tmp/users.db query "SELECT * FROM users"
//	DBC_URL=memdb:scratch dbcq exec "CREATE TABLE t (x INTEGER)" "INSERT INTO t VALUES (1)"
package main

import (
	"fmt"
	"io"
	"os"

	u "github.com/araddon/gou"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/araddon/dbc"
	_ "github.com/araddon/dbc/driver/memdb"
	_ "github.com/araddon/dbc/driver/mysql"
	_ "github.com/araddon/dbc/driver/postgres"
	_ "github.com/araddon/dbc/driver/sqlite"
)

var (
	connURL  string
	logLevel string
)

func main() {
	// a missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dbcq",
		Short:         "dbcq - run SQL through the dbc portable driver layer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			u.SetupLogging(logLevel)
			u.SetColorIfTerminal()
		},
	}
	cmd.PersistentFlags().StringVar(&connURL, "url", os.Getenv("DBC_URL"), "connection parameter string, eg sqlite:/tmp/x.db [$DBC_URL]")
	cmd.PersistentFlags().StringVar(&logLevel, "logging", envOr("DBC_LOG_LEVEL", "warn"), "logging [debug,info,warn,error] [$DBC_LOG_LEVEL]")

	cmd.AddCommand(queryCmd(), execCmd(), driversCmd())
	return cmd
}

func queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query SQL",
		Short: "Run a query and print its rows as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := open()
			if err != nil {
				return err
			}
			defer conn.Close()

			rs, err := conn.ExecuteQuery(args[0])
			if err != nil {
				return err
			}
			defer rs.Close()
			ct, err := renderRows(cmd.OutOrStdout(), rs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows\n", ct)
			return nil
		},
	}
}

func execCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec SQL [SQL...]",
		Short: "Run statements returning no rows, printing the rows affected by each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := open()
			if err != nil {
				return err
			}
			defer conn.Close()
			return execAll(cmd.OutOrStdout(), conn, args)
		},
	}
}

func driversCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drivers",
		Short: "List registered driver schemes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, scheme := range dbc.DefaultRegistry().Drivers() {
				fmt.Fprintln(cmd.OutOrStdout(), scheme)
			}
			return nil
		},
	}
}

func open() (*dbc.Connection, error) {
	if connURL == "" {
		return nil, fmt.Errorf("no connection string, use --url or DBC_URL")
	}
	return dbc.Open(connURL)
}

func execAll(w io.Writer, conn *dbc.Connection, stmts []string) error {
	for _, sql := range stmts {
		count, err := conn.ExecuteUpdate(sql)
		if err != nil {
			return err
		}
		n, err := count.Count()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d rows affected\n", n)
	}
	return nil
}

// renderRows writes every remaining row of rs as a table, NULLs shown as
// NULL, and returns the row count.
func renderRows(w io.Writer, rs *dbc.ResultSet) (int, error) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(rs.Columns())
	table.SetAutoFormatHeaders(false)

	ct := 0
	for {
		ok, err := rs.Next()
		if err != nil {
			return ct, err
		}
		if !ok {
			break
		}
		row := make([]string, len(rs.Columns()))
		for i := range row {
			isNull, err := rs.IsNull(i)
			if err != nil {
				return ct, err
			}
			if isNull {
				row[i] = "NULL"
				continue
			}
			if row[i], err = dbc.Get[string](rs, i); err != nil {
				return ct, err
			}
		}
		table.Append(row)
		ct++
	}
	table.Render()
	return ct, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
