package shttp

import (
	"context"
)

// Handler serves a matched route. Returning without writing anything to the response lets the
// dispatcher pass the request on when the route allows chaining.
type Handler interface {
	ServeRoute(ctx context.Context, res *Response, req *Request) error
}

// HandlerFunc allow casting a function to implement [Handler].
type HandlerFunc func(ctx context.Context, res *Response, req *Request) error

// ServeRoute implements the [Handler] interface.
func (f HandlerFunc) ServeRoute(ctx context.Context, res *Response, req *Request) error {
	return f(ctx, res, req)
}
