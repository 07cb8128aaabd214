package srv

import (
	"net/http"

	"github.com/carlmjohnson/requests"
)

// Runtime provides access to app-scoped dependencies.
// Inject this into handler constructors via fx instead of pulling from context.
//
//	func NewHandlers(rt *srv.Runtime[Env]) *Handlers {
//	    return &Handlers{rt: rt}
//	}
//
//	func (h *Handlers) Show(ctx context.Context, res *shttp.Response, req *shttp.Request) error {
//	    url, _ := h.rt.Reverse("show-item", req.Str("id"))
//	    // ...
//	}
type Runtime[E Environment] struct {
	env       E
	mux       *Mux
	transport http.RoundTripper
}

// NewRuntime creates a new Runtime with the given dependencies.
func NewRuntime[E Environment](env E, mux *Mux, transport http.RoundTripper) *Runtime[E] {
	return &Runtime[E]{env: env, mux: mux, transport: transport}
}

// Env returns the environment configuration.
func (r *Runtime[E]) Env() E {
	return r.env
}

// Reverse returns the path of a named route for the given variable values.
func (r *Runtime[E]) Reverse(name string, vals ...string) (string, error) {
	return r.mux.Reverse(name, vals...)
}

// NewRequest starts an outbound request whose spans are children of the calling handler's span.
//
//	err := h.rt.NewRequest().BaseURL("https://api.example.com").Path("/items").ToJSON(&out).Fetch(ctx)
func (r *Runtime[E]) NewRequest() *requests.Builder {
	return newRequestBuilder(r.transport, r.env.serviceName())
}
