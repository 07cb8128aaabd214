package main

import (
	"context"
	"net/http"
	"strconv"

	"github.com/advdv/shttp"
	"github.com/advdv/shttp/srv"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
)

// Env configures the demo on top of the base server environment.
type Env struct {
	srv.BaseEnvironment
	StaticPattern string `env:"SHTTPD_STATIC_PATTERN" envDefault:"/static/"`
	// CalcUpstream is the base URL of another calculator that relayed calculations are sent to.
	CalcUpstream string `env:"SHTTPD_CALC_UPSTREAM"`
}

// routing registers the demo routes.
func routing(m *srv.Mux) {
	m.GetJSON("/calc/", usage, shttp.Named("usage"))
	m.GetJSON("/calc/{op:str:[add,subtract,multiply,divide]}/{a:int}/{b:int}", calculate,
		shttp.Named("calculate"), shttp.Chain(shttp.NextRoute("usage")))
	m.PostJSON("/calc/sum", sum, shttp.Named("sum"))
}

// usage answers every calculator request no other route responded to.
func usage(_ context.Context, res *shttp.Response, _ *shttp.Request) error {
	reason, _ := res.UserValue().(string)
	if reason == "" {
		reason = "supported: add, subtract, multiply, divide"
	}
	return res.JSONFail(http.StatusBadRequest, reason)
}

// calculate declines division by zero and leaves it to the usage route.
func calculate(ctx context.Context, res *shttp.Response, req *shttp.Request) error {
	a, _ := req.Int("a")
	b, _ := req.Int("b")

	var out int64
	switch req.Str("op") {
	case "add":
		out = a + b
	case "subtract":
		out = a - b
	case "multiply":
		out = a * b
	case "divide":
		if b == 0 {
			res.SetUserValue("division by zero")
			return nil
		}
		out = a / b
	}

	srv.Span(ctx).SetAttributes(attribute.Int64("calc.result", out))
	return res.SimpleJSON(out)
}

// sum adds up the "values" array of the posted document.
func sum(_ context.Context, res *shttp.Response, req *shttp.Request) error {
	values, err := req.JSONPath("values")
	if err != nil {
		return err
	}
	if !values.IsArray() {
		return shttp.NewError(shttp.CodeBadRequest, errors.New("values must be an array"))
	}

	var total float64
	for _, v := range values.Array() {
		total += v.Float()
	}

	return res.SimpleJSON(total)
}

// relay hands calculations to the calculator at the upstream URL.
type relay struct{ rt *srv.Runtime[Env] }

// registerRelay adds the relay route when an upstream is configured.
func registerRelay(m *srv.Mux, rt *srv.Runtime[Env]) {
	if rt.Env().CalcUpstream == "" {
		return
	}
	m.GetJSON("/calc/relay/{op:str:[add,subtract,multiply,divide]}/{a:int}/{b:int}",
		relay{rt}.calculate, shttp.Named("relay"))
}

func (h relay) calculate(ctx context.Context, res *shttp.Response, req *shttp.Request) error {
	a, _ := req.Int("a")
	b, _ := req.Int("b")

	loc, err := h.rt.Reverse("calculate", req.Str("op"), strconv.FormatInt(a, 10), strconv.FormatInt(b, 10))
	if err != nil {
		return err
	}

	var out struct {
		Ok    bool    `json:"ok"`
		Data  int64   `json:"data"`
		Error *string `json:"error"`
	}
	if err := h.rt.NewRequest().
		BaseURL(h.rt.Env().CalcUpstream).
		Path(loc).
		Accept("application/json").
		CheckStatus(http.StatusOK, http.StatusBadRequest).
		ToJSON(&out).
		Fetch(ctx); err != nil {
		return shttp.NewError(shttp.CodeBadGateway, errors.Wrap(err, "relay"))
	}

	if !out.Ok && out.Error != nil {
		return res.JSONFail(http.StatusBadRequest, *out.Error)
	}
	return res.SimpleJSON(out.Data)
}
