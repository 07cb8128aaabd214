package shttp

import (
	"net/http"
	"sync"
)

// ServeMux is an HTTP multiplexer with typed path patterns, prioritized routes and chaining
// between routes. Routes are registered up front; the first request seals the route table.
type ServeMux struct {
	opts    Options
	builder *Builder

	seal     sync.Once
	router   *Router
	reverser *Reverser
}

// NewServeMux creates a new ServeMux.
func NewServeMux(opts ...Option) *ServeMux {
	b := NewBuilder(opts...)
	return &ServeMux{opts: b.opts, builder: b}
}

// Options returns the resolved global options.
func (m *ServeMux) Options() Options { return m.opts }

// Register adds a route. It fails once the mux started serving.
func (m *ServeMux) Register(pattern string, h Handler, opts ...RouteOption) error {
	return m.builder.Register(pattern, h, opts...)
}

// Handle registers a route for any method. It panics when registration fails.
func (m *ServeMux) Handle(pattern string, h Handler, opts ...RouteOption) {
	if err := m.Register(pattern, h, opts...); err != nil {
		panic("shttp: " + err.Error())
	}
}

// HandleFunc registers a handler function for any method.
func (m *ServeMux) HandleFunc(pattern string, f HandlerFunc, opts ...RouteOption) {
	m.Handle(pattern, f, opts...)
}

// Get registers a route for GET requests.
func (m *ServeMux) Get(pattern string, f HandlerFunc, opts ...RouteOption) {
	m.Handle(pattern, f, append(opts, OnMethod(http.MethodGet))...)
}

// Post registers a route for POST requests.
func (m *ServeMux) Post(pattern string, f HandlerFunc, opts ...RouteOption) {
	m.Handle(pattern, f, append(opts, OnMethod(http.MethodPost))...)
}

// GetJSON registers a GET route that responds with JSON by default.
func (m *ServeMux) GetJSON(pattern string, f HandlerFunc, opts ...RouteOption) {
	m.Get(pattern, f, append([]RouteOption{Header("Content-Type", ContentTypeJSON)}, opts...)...)
}

// PostJSON registers a POST route that responds with JSON by default.
func (m *ServeMux) PostJSON(pattern string, f HandlerFunc, opts ...RouteOption) {
	m.Post(pattern, f, append([]RouteOption{Header("Content-Type", ContentTypeJSON)}, opts...)...)
}

// Router seals the route table and returns it.
func (m *ServeMux) Router() *Router {
	m.seal.Do(func() {
		m.router = m.builder.Seal()
		m.reverser = NewReverser(m.router)
	})
	return m.router
}

// NewRequest wraps r for dispatch with the mux's path and body options.
func (m *ServeMux) NewRequest(r *http.Request) *Request { return newRequest(r, m.opts) }

// ServeHTTP makes the server mux implement the http.Handler interface.
func (m *ServeMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn := NewStdConn(w)
	m.Dispatch(r.Context(), conn, m.NewRequest(r))

	if conn.Destroyed() {
		panic(http.ErrAbortHandler)
	}
}

// Reverse builds the path of the named route from its variable values.
func (m *ServeMux) Reverse(name string, vals ...string) (string, error) {
	m.Router()
	return m.reverser.Reverse(name, vals...)
}

