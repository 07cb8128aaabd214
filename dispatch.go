package shttp

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Dispatch serves req on conn. Routes are tried in table order; a route whose handler returns
// without writing and allows chaining passes the request on to the next matching route. When no
// route responds the default failure is written. Errors never escape Dispatch.
func (m *ServeMux) Dispatch(ctx context.Context, conn Conn, req *Request) {
	router := m.Router()
	span := trace.SpanFromContext(ctx)

	var (
		index int
		name  string
		carry any
	)

	for {
		rt := router.FindRoute(req, index, name)
		if rt == nil {
			m.exhausted(ctx, conn, req, carry)
			return
		}

		span.AddEvent("shttp.route", trace.WithAttributes(
			attribute.String("shttp.route.pattern", rt.Pattern()),
			attribute.Int("shttp.route.index", rt.Index()),
		))

		res := NewResponse(conn, m.opts.Logger, rt.opts.Headers)
		res.SetUserValue(carry)

		start := time.Now()
		err := m.invoke(ctx, rt, res, req)
		m.opts.Metrics.observeHandler(rt.Pattern(), time.Since(start))

		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			m.opts.Metrics.countHandlerError(rt.Pattern())
			m.handlerFailed(ctx, rt, res, req, err)
			return
		case res.Committed():
			m.finish(ctx, res, OutcomeResponded)
			return
		case !rt.Next().Enabled():
			m.exhausted(ctx, conn, req, res.UserValue())
			return
		}

		m.opts.Metrics.countHop()
		index, name, carry = rt.Index()+1, rt.Next().Name(), res.UserValue()
	}
}

// invoke runs the handler, turning panics and timeouts into errors.
func (m *ServeMux) invoke(ctx context.Context, rt *Route, res *Response, req *Request) (err error) {
	if m.opts.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.opts.HandlerTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			if r == http.ErrAbortHandler { //nolint:errorlint
				panic(r)
			}
			err = errors.Newf("panic in handler for %q: %v", rt.Pattern(), r)
		}
	}()

	if err = rt.handler.ServeRoute(ctx, res, req); err != nil {
		return err
	}
	if ctxErr := ctx.Err(); ctxErr != nil && !res.Committed() {
		return errors.Wrap(ctxErr, "handler")
	}

	return nil
}

// handlerFailed renders the failure of a route's handler. Once output is committed no clean
// failure is possible and the connection is destroyed.
func (m *ServeMux) handlerFailed(ctx context.Context, rt *Route, res *Response, req *Request, err error) {
	m.opts.Logger.LogUnhandledServeError(err)

	if res.Committed() {
		res.Fail(rt.opts.FailureCode, rt.opts.FailureText)
		m.opts.Metrics.countRequest(OutcomeFailed, res.Status())
		return
	}

	code, text := rt.opts.FailureCode, rt.opts.FailureText
	if herr, ok := asError(err); ok && herr.Code() != CodeUnknown {
		code, text = int(herr.Code()), herr.Message()
	}

	_ = res.Header().Reset()
	_ = res.SetStatus(code)
	if req.AcceptJSON() || rt.opts.ContentJSON() {
		m.respondJSONError(res, text)
	} else {
		res.Fail(code, text)
	}

	m.finish(ctx, res, OutcomeFailed)
}

// exhausted writes the default failure with the global failure code and text.
func (m *ServeMux) exhausted(ctx context.Context, conn Conn, req *Request, carry any) {
	res := NewResponse(conn, m.opts.Logger, m.opts.Headers)
	res.SetUserValue(carry)
	_ = res.SetStatus(m.opts.FailureCode)

	if req.AcceptJSON() || res.ContentJSON() {
		m.respondJSONError(res, m.opts.FailureText)
	} else {
		res.Fail(m.opts.FailureCode, m.opts.FailureText)
	}

	m.finish(ctx, res, OutcomeExhausted)
}

func (m *ServeMux) respondJSONError(res *Response, text string) {
	_ = res.Header().Set("Content-Type", ContentTypeJSON)
	if err := res.JSON(map[string]string{"error": text}); err != nil {
		m.opts.Logger.LogUnhandledServeError(err)
	}
}

// finish ends the response and waits for it to be delivered. A response that is still being
// written when ctx is done is aborted, so nothing is written after Dispatch returns.
func (m *ServeMux) finish(ctx context.Context, res *Response, outcome string) {
	if err := res.deliver(ctx); err != nil {
		m.opts.Metrics.countWriteError()
		outcome = OutcomeFailed
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("shttp.outcome", outcome),
		attribute.Int("shttp.status", res.Status()),
	)
	m.opts.Metrics.countRequest(outcome, res.Status())
}
