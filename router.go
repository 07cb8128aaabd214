package shttp

import (
	"net/http"
	"slices"

	"github.com/advdv/shttp/internal/pathpattern"
	"github.com/cockroachdb/errors"
)

// Route is an entry of the route table.
type Route struct {
	index   int
	pattern *pathpattern.Pattern
	handler Handler
	opts    RouteOptions
}

// Index returns the position of the route in the table.
func (rt *Route) Index() int { return rt.index }

// Pattern returns the raw pattern the route was registered with.
func (rt *Route) Pattern() string { return rt.pattern.String() }

// Name returns the route name, empty when unnamed.
func (rt *Route) Name() string { return rt.opts.Name }

// Method returns the required request method, empty for any.
func (rt *Route) Method() string { return rt.opts.Method }

// Next returns the chaining behaviour of the route.
func (rt *Route) Next() Next { return rt.opts.Next }

// Len returns the number of pattern segments.
func (rt *Route) Len() int { return rt.pattern.Len() }

// TrailingSlash reports whether the pattern ends with a separator.
func (rt *Route) TrailingSlash() bool { return rt.pattern.TrailingSlash() }

// Handler returns the route handler.
func (rt *Route) Handler() Handler { return rt.handler }

// Options returns a copy of the resolved route options.
func (rt *Route) Options() RouteOptions {
	o := rt.opts
	o.Headers = o.Headers.Clone()
	return o
}

// sortsBefore reports whether rt belongs ahead of other: more segments first, and among equal
// segment counts a trailing slash first.
func (rt *Route) sortsBefore(other *Route) bool {
	if rt.Len() != other.Len() {
		return rt.Len() > other.Len()
	}
	return !other.TrailingSlash() || rt.TrailingSlash()
}

// Builder collects routes in priority order. It is not safe for concurrent use; Seal turns it
// into a Router for serving.
type Builder struct {
	opts   Options
	routes []*Route
	sealed bool
}

// NewBuilder inits a builder whose routes inherit the given options.
func NewBuilder(opts ...Option) *Builder {
	return &Builder{opts: newOptions(opts...)}
}

// Register compiles the pattern and inserts the route at its priority position.
func (b *Builder) Register(raw string, h Handler, opts ...RouteOption) error {
	if b.sealed {
		return errors.Wrapf(ErrRouterSealed, "register %q", raw)
	}
	if h == nil {
		return errors.Newf("nil handler for %q", raw)
	}

	pat, err := pathpattern.Compile(raw, b.opts.Lower)
	if err != nil {
		return err
	}

	ro := resolveRouteOptions(b.opts, opts...)
	switch ro.Method {
	case "", http.MethodGet, http.MethodPost:
	default:
		return errors.Wrapf(ErrUnsupportedMethod, "%q for %q", ro.Method, raw)
	}

	nr := &Route{pattern: pat, handler: h, opts: ro}
	name, next := nr.Name(), nr.Next().Name()

	// walk back from the tail while the new route is more specific than the current one
	i := len(b.routes) - 1
	for ; i >= 0; i-- {
		item := b.routes[i]
		if name != "" && item.Name() == name {
			return errors.Wrapf(ErrDuplicateRouteName, "%q", name)
		}
		if !nr.sortsBefore(item) {
			break
		}
		if name != "" && item.Next().Name() == name {
			return errors.Wrapf(ErrInvalidChainReference,
				"route %q would chain back to %q", item.Pattern(), name)
		}
	}

	pos := i + 1
	for _, item := range b.routes[:pos] {
		if name != "" && item.Name() == name {
			return errors.Wrapf(ErrDuplicateRouteName, "%q", name)
		}
		if next != "" && item.Name() == next {
			return errors.Wrapf(ErrInvalidChainReference,
				"route %q would chain back to %q", raw, next)
		}
	}

	b.routes = slices.Insert(b.routes, pos, nr)
	for idx, rt := range b.routes {
		rt.index = idx
	}

	return nil
}

// Seal freezes the builder. Later registrations fail with ErrRouterSealed.
func (b *Builder) Seal() *Router {
	b.sealed = true
	return &Router{routes: slices.Clone(b.routes)}
}

// Router is the sealed route table. It is immutable and safe for concurrent lookups.
type Router struct {
	routes []*Route
}

// Routes returns the table in priority order.
func (r *Router) Routes() []*Route { return slices.Clone(r.routes) }

// Len returns the number of routes.
func (r *Router) Len() int { return len(r.routes) }

// FindRoute returns the first route from index start on that accepts the request method,
// carries the required name (when not empty) and matches the path. The match is committed onto
// req. It returns nil when no route is left.
func (r *Router) FindRoute(req *Request, start int, name string) *Route {
	for _, rt := range r.routes[min(max(start, 0), len(r.routes)):] {
		if rt.Method() != "" && rt.Method() != req.Method() {
			continue
		}
		if name != "" && rt.Name() != name {
			continue
		}

		vars, ok := rt.pattern.Match(req.path)
		if !ok {
			continue
		}

		req.bind(rt.Len(), vars)
		return rt
	}

	return nil
}
