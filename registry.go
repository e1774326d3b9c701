package dbc

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	u "github.com/araddon/gou"

	"github.com/araddon/dbc/driver"
	"github.com/araddon/dbc/metrics"
)

var (
	// default registry used by Register and Open
	registry = NewRegistry()
)

// Registry maps a connection string scheme to the driver that opens it.
// It is the only way to obtain a Connection.
type Registry struct {
	mu      sync.RWMutex
	drivers map[string]driver.OpenFunc
}

// NewRegistry creates an empty Registry.  Most programs use the default
// registry through Register and Open instead.
func NewRegistry() *Registry {
	return &Registry{drivers: make(map[string]driver.OpenFunc)}
}

// DefaultRegistry returns the process-wide registry drivers register
// themselves into.
func DefaultRegistry() *Registry {
	return registry
}

// Register makes a driver available in the default registry under @scheme.
// If Register is called twice with the same scheme or if open is nil, it
// panics.  Drivers call it from init.
func Register(scheme string, open driver.OpenFunc) {
	if err := registry.Register(scheme, open); err != nil {
		panic(err.Error())
	}
}

// Open opens a Connection through the default registry.
//
//	conn, err := dbc.Open("sqlite:/tmp/users.db")
func Open(params string) (*Connection, error) {
	return registry.Open(params)
}

// Register adds a driver for @scheme.  Schemes are case insensitive.  A
// scheme already registered is rejected with a DriverExistsError, the first
// registration stays in effect.
func (m *Registry) Register(scheme string, open driver.OpenFunc) error {
	scheme = strings.ToLower(strings.TrimSpace(scheme))
	if scheme == "" || strings.Contains(scheme, ":") {
		return fmt.Errorf("%w: invalid driver scheme %q", ErrDb, scheme)
	}
	if open == nil {
		return fmt.Errorf("%w: driver for scheme %q is nil", ErrDb, scheme)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dupe := m.drivers[scheme]; dupe {
		return &DriverExistsError{Scheme: scheme}
	}
	m.drivers[scheme] = open
	u.Debugf("dbc: registered driver %q", scheme)
	return nil
}

// Drivers returns the sorted list of registered schemes.
func (m *Registry) Drivers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	schemes := make([]string, 0, len(m.drivers))
	for scheme := range m.drivers {
		schemes = append(schemes, scheme)
	}
	sort.Strings(schemes)
	return schemes
}

// Open dispatches @params on its scheme, the text before the first colon,
// and calls the matching driver with the full parameter string.  Errors
// from the driver are returned unchanged.
func (m *Registry) Open(params string) (*Connection, error) {
	scheme := Scheme(params)
	if scheme == "" {
		return nil, &NoSuchDriverError{Params: params}
	}

	m.mu.RLock()
	open, ok := m.drivers[scheme]
	m.mu.RUnlock()
	if !ok {
		return nil, &NoSuchDriverError{Scheme: scheme, Params: params}
	}

	native, err := open(params)
	if err != nil {
		metrics.OpenError(scheme)
		if !errors.Is(err, ErrDb) {
			err = &ConnectionOpenError{Driver: scheme, Params: params, Message: err.Error()}
		}
		return nil, err
	}
	if native == nil {
		metrics.OpenError(scheme)
		return nil, &ConnectionOpenError{Driver: scheme, Params: params, Message: "driver returned no connection"}
	}
	return newConnection(scheme, params, native), nil
}

// Scheme returns the lower cased scheme of a parameter string, or "" if it
// has none.
func Scheme(params string) string {
	idx := strings.IndexByte(params, ':')
	if idx <= 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(params[:idx]))
}

// Body returns the parameter string with its scheme and colon removed.
func Body(params string) string {
	idx := strings.IndexByte(params, ':')
	if idx < 0 {
		return params
	}
	return params[idx+1:]
}
