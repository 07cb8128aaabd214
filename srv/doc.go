// Package srv runs a shttp.ServeMux as a complete service: configuration from the environment,
// structured logging, tracing, Prometheus metrics and AWS clients, all wired with fx.
//
// Define an environment by embedding BaseEnvironment, then hand a routing function to NewApp:
//
//	type Env struct {
//	    srv.BaseEnvironment
//	    Greeting string `env:"GREETING" envDefault:"hello"`
//	}
//
//	func main() {
//	    srv.NewApp[Env](func(m *srv.Mux, rt *srv.Runtime[Env]) {
//	        m.Get("/hello/{name:str}", func(ctx context.Context, res *shttp.Response, req *shttp.Request) error {
//	            srv.Log(ctx).Info("greeting", zap.String("name", req.Str("name")))
//	            return res.End([]byte(rt.Env().Greeting + " " + req.Str("name"))).Err()
//	        })
//	    }).Run()
//	}
//
// The server listens on SHTTP_HOSTNAME:SHTTP_PORT. Prometheus metrics are served on
// SHTTP_METRICS_PATH, which is excluded from tracing. Router defaults such as SHTTP_LOWER,
// SHTTP_FAILURE_CODE and SHTTP_HEADERS are read into MuxConfig.
package srv
