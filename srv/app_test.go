package srv_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/advdv/shttp"
	"github.com/advdv/shttp/srv"
	"github.com/advdv/shttp/srv/srvtest"
	"github.com/carlmjohnson/requests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type TestEnv struct {
	srv.BaseEnvironment
	Greeting string `env:"GREETING" envDefault:"hello"`
}

type Handlers struct {
	rt *srv.Runtime[TestEnv]
}

func NewHandlers(rt *srv.Runtime[TestEnv]) *Handlers {
	return &Handlers{rt: rt}
}

func (h *Handlers) Greet(ctx context.Context, res *shttp.Response, req *shttp.Request) error {
	srv.Log(ctx).Info("greeting", zap.String("name", req.Str("name")))

	self, err := h.rt.Reverse("greet", req.Str("name"))
	if err != nil {
		return err
	}

	return res.JSON(map[string]any{
		"greeting": h.rt.Env().Greeting + " " + req.Str("name"),
		"self":     self,
		"traced":   srv.Span(ctx).SpanContext().IsValid(),
	})
}

func TestApp(t *testing.T) {
	srvtest.SetBaseEnv(t, 18181).RoutesService("test").Set("GREETING", "hi")

	app := srvtest.New[TestEnv](t,
		func(m *srv.Mux, h *Handlers) {
			m.GetJSON("/greet/{name:str}", h.Greet, shttp.Named("greet"))
		},
		srv.WithFx(fx.Provide(NewHandlers)),
		srv.WithS3Static("/assets/"),
	)

	app.RequireStart()
	t.Cleanup(app.RequireStop)

	ctx := context.Background()
	base := requests.URL("http://localhost:18181")

	t.Run("should serve routes", func(t *testing.T) {
		var out struct {
			Greeting string `json:"greeting"`
			Self     string `json:"self"`
		}
		require.NoError(t, base.Clone().Path("/greet/ann").ToJSON(&out).Fetch(ctx))
		assert.Equal(t, "hi ann", out.Greeting)
		assert.Equal(t, "/greet/ann", out.Self)
	})

	t.Run("should serve the route list", func(t *testing.T) {
		var routes []shttp.RouteInfo
		require.NoError(t, base.Clone().Path("/test/routelist").Post().ToJSON(&routes).Fetch(ctx))
		require.Len(t, routes, 2)
		assert.Equal(t, "greet", routes[0].Name)
		assert.Equal(t, "POST", routes[1].Method)
	})

	t.Run("should skip static without a bucket", func(t *testing.T) {
		err := base.Clone().Path("/assets/app.js").CheckStatus(http.StatusNotFound).Fetch(ctx)
		require.NoError(t, err)
	})

	t.Run("should expose metrics", func(t *testing.T) {
		var body string
		require.NoError(t, base.Clone().Path("/metrics").ToString(&body).Fetch(ctx))
		assert.True(t, strings.Contains(body, "shttp_requests_total"))
		assert.Contains(t, body, `outcome="exhausted"`)
	})
}
