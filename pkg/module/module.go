// Package module mounts self-contained HTTP sub-applications under single-level
// path prefixes, each with its own middleware chain.
package module

import (
	"fmt"
	"net/http"
	"strings"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Module strips its prefix and delegates to an inner router wrapped in the
// module's middleware chain. The first middleware added is the outermost.
type Module struct {
	prefix  string
	router  http.Handler
	stack   []Middleware
	handler http.Handler
}

// New creates a Module with the given single-level prefix (e.g. "/api").
// Panics if the prefix is empty, missing a leading slash, or multi-level.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:  prefix,
		router:  router,
		handler: router,
	}
}

// Prefix returns the path prefix the module is mounted at.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends mw to the chain. Call during setup, before the module serves.
func (m *Module) Use(mw Middleware) {
	m.stack = append(m.stack, mw)

	h := m.router
	for i := len(m.stack) - 1; i >= 0; i-- {
		h = m.stack[i](h)
	}
	m.handler = h
}

// Handler returns the inner router wrapped with the middleware chain. Paths it
// receives must already be relative to the prefix.
func (m *Module) Handler() http.Handler {
	return m.handler
}

// ServeHTTP strips the prefix from the request path and dispatches through the chain.
func (m *Module) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, m.prefix)
	if path == "" {
		path = "/"
	}

	inner := req.Clone(req.Context())
	inner.URL.Path = path
	inner.URL.RawPath = ""

	m.handler.ServeHTTP(w, inner)
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("module prefix cannot be empty")
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	case strings.Count(prefix, "/") != 1:
		return fmt.Errorf("module prefix must be single-level sub-path: %s", prefix)
	}
	return nil
}
