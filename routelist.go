package shttp

import (
	"context"
	"net/http"

	"github.com/samber/lo"
)

// RouteInfo describes a route in the route list.
type RouteInfo struct {
	Index  int    `json:"index"`
	Method string `json:"method"`
	Name   string `json:"name"`
	Next   string `json:"next"`
	Path   string `json:"path"`
}

// RouteList returns a description of every route in priority order.
func (r *Router) RouteList() []RouteInfo {
	return lo.Map(r.routes, func(rt *Route, _ int) RouteInfo {
		return RouteInfo{
			Index:  rt.Index(),
			Method: lo.Ternary(rt.Method() == "", "*", rt.Method()),
			Name:   rt.Name(),
			Next:   rt.Next().String(),
			Path:   rt.Pattern(),
		}
	})
}

// RegisterRouteList registers the service route POST /{service}/routelist which responds with
// the route table as JSON.
func (m *ServeMux) RegisterRouteList(service string) error {
	return m.Register("/"+service+"/{command:str:[routelist]}", HandlerFunc(m.serveRouteList),
		OnMethod(http.MethodPost),
		Header("Content-Type", ContentTypeJSON),
		NoCache(),
		Chain(NextStop))
}

func (m *ServeMux) serveRouteList(_ context.Context, res *Response, req *Request) error {
	if req.Str("command") != "routelist" {
		return nil
	}

	return res.JSON(m.Router().RouteList())
}
