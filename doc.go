// Package shttp provides an HTTP router with typed path patterns, deterministic route priority
// and chaining between routes, on top of a response engine that delivers asynchronously
// written body chunks in call order.
//
// # Overview
//
// A minimal example:
//
//	mux := shttp.NewServeMux()
//	mux.GetJSON("/calculator/{op:str:[add,subtract]}/{a:int}/{b:int}", func(ctx context.Context, res *shttp.Response, req *shttp.Request) error {
//	    a, _ := req.Int("a")
//	    b, _ := req.Int("b")
//	    if req.Str("op") == "add" {
//	        return res.SimpleJSON(a + b)
//	    }
//	    return res.SimpleJSON(a - b)
//	})
//
// # Patterns
//
// A pattern is a list of segments separated by "/" (or "\"). A segment is either a literal or
// a typed variable in braces:
//
//	{name:str}                any segment
//	{name:str:[a,b,c]}        one of the listed literals
//	{name:int}                any non-negative integer
//	{name:int:[5,10-20,100]}  exact values or inclusive ranges
//
// Malformed patterns fail registration with [ErrPatternSyntax]. A pattern matches any request
// path that starts with its segments; the remaining segments are available through
// [Request.RelativePath]. A pattern with a trailing slash requires one when the request has
// exactly as many segments.
//
// # Route Priority
//
// Routes are ordered by descending segment count. Among routes with equal segment counts those
// with a trailing slash come first, and a route registered later is placed ahead of an
// equivalent earlier one. The catch-all "/" is always tried last.
//
// # Chaining
//
// A handler that returns without writing to the response lets the dispatcher continue with the
// next matching route, when the route's [Next] option allows it:
//
//	mux.Get("/page/{id:int}", loadPage, shttp.Chain(shttp.NextRoute("render")))
//	mux.Get("/page", renderPage, shttp.Named("render"))
//
// [Response.SetUserValue] carries a value to the next route. Chaining only ever moves towards
// more general routes; registering a reference that points back fails with
// [ErrInvalidChainReference]. When no route responds the default failure is written with the
// global failure code and text, as JSON when the client accepts it.
//
// # Responses
//
// A [Response] moves through the states of [State] and never back. Status and headers may be
// changed until they are sent. [Response.Body] queues a chunk and returns a [Pending]; chunks
// reach the [Conn] strictly in call order even when the connection completes writes out of
// order. [Response.End] finishes the response and [Response.Fail] replies with a failure, or
// destroys the connection when headers were already sent.
//
// # Error Handling
//
// Handler errors never escape dispatch. When nothing was written yet an [*Error] (created with
// [NewError]) is rendered with its code and message; any other error is logged and rendered
// with the route's failure code and text. Panics are treated the same way. Once output was
// committed the connection is destroyed instead.
package shttp
