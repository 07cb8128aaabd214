package shttp

import (
	"net/http"
	"time"
)

const (
	// DefaultFailureCode is used when no failure code was configured.
	DefaultFailureCode = http.StatusNotFound

	// NoCacheValue is the cache-control value set by the no-cache options.
	NoCacheValue = "no-store, no-cache, max-age=0"
)

// Next controls what the dispatcher does when a handler returns without writing anything.
type Next struct {
	pass bool
	name string
}

var (
	// NextStop ends dispatch with the failure response.
	NextStop = Next{}
	// NextAny passes the request to the next matching route.
	NextAny = Next{pass: true}
)

// NextRoute passes the request to the next matching route with the given name. An empty name
// is the same as NextAny.
func NextRoute(name string) Next { return Next{pass: true, name: name} }

// Enabled reports whether the request may be passed on.
func (n Next) Enabled() bool { return n.pass }

// Name returns the required route name, empty when any route may follow.
func (n Next) Name() string { return n.name }

func (n Next) String() string {
	switch {
	case !n.pass:
		return "false"
	case n.name == "":
		return "true"
	default:
		return n.name
	}
}

// Options configure a ServeMux. Route options inherit headers, failure and next behaviour from
// here.
type Options struct {
	// Lower folds request paths and route literals to lower case before matching.
	Lower          bool
	Headers        http.Header
	NoCache        bool
	FailureCode    int
	FailureText    string
	Next           Next
	HandlerTimeout time.Duration
	// MaxBodyBytes limits Request.ReadBody, unlimited when zero or negative.
	MaxBodyBytes int64
	Logger       Logger
	Metrics      *Metrics
}

// Option configures Options.
type Option func(*Options)

// WithLower enables case-insensitive path matching.
func WithLower() Option { return func(o *Options) { o.Lower = true } }

// WithHeader adds a default header to every response.
func WithHeader(name, value string) Option {
	return func(o *Options) { o.Headers.Set(name, value) }
}

// WithNoCache adds the no-cache header to every response unless cache-control was set
// explicitly.
func WithNoCache() Option { return func(o *Options) { o.NoCache = true } }

// WithFailure sets the default failure status and text. An empty text is derived from the code.
func WithFailure(code int, text string) Option {
	return func(o *Options) { o.FailureCode, o.FailureText = normalizeFailure(code, text) }
}

// WithNext sets the default chaining behaviour of routes.
func WithNext(n Next) Option { return func(o *Options) { o.Next = n } }

// WithHandlerTimeout bounds every handler invocation.
func WithHandlerTimeout(d time.Duration) Option { return func(o *Options) { o.HandlerTimeout = d } }

// WithMaxBodyBytes limits how much of a request body handlers may read.
func WithMaxBodyBytes(n int64) Option { return func(o *Options) { o.MaxBodyBytes = n } }

// WithLogger sets the logger.
func WithLogger(l Logger) Option { return func(o *Options) { o.Logger = l } }

// WithMetrics enables dispatch metrics.
func WithMetrics(m *Metrics) Option { return func(o *Options) { o.Metrics = m } }

func newOptions(opts ...Option) Options {
	o := Options{Headers: http.Header{}}
	o.FailureCode, o.FailureText = normalizeFailure(0, "")
	for _, opt := range opts {
		opt(&o)
	}
	if o.NoCache && o.Headers.Get("Cache-Control") == "" {
		o.Headers.Set("Cache-Control", NoCacheValue)
	}
	if o.Logger == nil {
		o.Logger = NewStdLogger(nil)
	}
	return o
}

func normalizeFailure(code int, text string) (int, string) {
	if code <= 0 {
		code = DefaultFailureCode
	}
	if text == "" {
		if text = http.StatusText(code); text == "" {
			text = "Unknown"
		}
	}
	return code, text
}

// RouteOptions are the resolved, read-only options of a registered route.
type RouteOptions struct {
	// Method is GET, POST or empty for any method.
	Method      string
	Name        string
	Next        Next
	Headers     http.Header
	FailureCode int
	FailureText string
}

// ContentJSON reports whether the route's default content-type is JSON.
func (o RouteOptions) ContentJSON() bool { return isJSONContentType(o.Headers.Get("Content-Type")) }

// RouteOption configures a single route.
type RouteOption func(*routeConfig)

type routeConfig struct {
	RouteOptions
	noCache bool
}

// OnMethod restricts the route to GET or POST requests.
func OnMethod(method string) RouteOption { return func(c *routeConfig) { c.Method = method } }

// Named gives the route a unique name for chaining and URL building.
func Named(name string) RouteOption { return func(c *routeConfig) { c.Name = name } }

// Chain overrides the default next behaviour for the route.
func Chain(n Next) RouteOption { return func(c *routeConfig) { c.Next = n } }

// Header sets a default response header for the route.
func Header(name, value string) RouteOption {
	return func(c *routeConfig) { c.Headers.Set(name, value) }
}

// NoCache sets the no-cache header for the route unless cache-control was set explicitly.
func NoCache() RouteOption { return func(c *routeConfig) { c.noCache = true } }

// Failure sets the route's failure status and text. An empty text is derived from the code.
func Failure(code int, text string) RouteOption {
	return func(c *routeConfig) { c.FailureCode, c.FailureText = normalizeFailure(code, text) }
}

func resolveRouteOptions(defaults Options, opts ...RouteOption) RouteOptions {
	c := routeConfig{RouteOptions: RouteOptions{
		Next:        defaults.Next,
		Headers:     defaults.Headers.Clone(),
		FailureCode: defaults.FailureCode,
		FailureText: defaults.FailureText,
	}}
	if c.Headers == nil {
		c.Headers = http.Header{}
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.noCache && c.Headers.Get("Cache-Control") == "" {
		c.Headers.Set("Cache-Control", NoCacheValue)
	}
	return c.RouteOptions
}
