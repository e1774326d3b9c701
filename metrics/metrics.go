// Package metrics holds the prometheus collectors dbc reports into.  Errors
// that cannot be returned to a caller, such as failures releasing a native
// handle, are surfaced here.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Statement kinds.
const (
	KindQuery  = "query"
	KindUpdate = "update"
)

const namespace = "dbc"

var (
	registry = prometheus.NewRegistry()

	statementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statements_total",
			Help:      "Statements executed, by driver, kind and status",
		},
		[]string{"driver", "kind", "status"},
	)

	openErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "open_errors_total",
			Help:      "Connections that failed to open",
		},
		[]string{"driver"},
	)

	closeErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "close_errors_total",
			Help:      "Native handles whose release reported an error",
		},
		[]string{"driver"},
	)
)

func init() {
	registry.MustRegister(statementsTotal, openErrorsTotal, closeErrorsTotal)
}

// Registry returns the registry holding dbc's collectors, for exposing
// through promhttp or gathering into another registry.
func Registry() *prometheus.Registry {
	return registry
}

// Statement counts one executed statement.
func Statement(driver, kind string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	statementsTotal.WithLabelValues(driver, kind, status).Inc()
}

// OpenError counts a failed connection open.
func OpenError(driver string) {
	openErrorsTotal.WithLabelValues(driver).Inc()
}

// CloseError counts a native handle release failure.
func CloseError(driver string) {
	closeErrorsTotal.WithLabelValues(driver).Inc()
}

// StatementCount returns the statements_total counter for the labels.
func StatementCount(driver, kind, status string) prometheus.Counter {
	return statementsTotal.WithLabelValues(driver, kind, status)
}

// CloseErrorCount returns the close_errors_total counter for a driver.
func CloseErrorCount(driver string) prometheus.Counter {
	return closeErrorsTotal.WithLabelValues(driver)
}

// OpenErrorCount returns the open_errors_total counter for a driver.
func OpenErrorCount(driver string) prometheus.Counter {
	return openErrorsTotal.WithLabelValues(driver)
}
