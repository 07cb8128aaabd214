package shttp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/advdv/shttp/internal/pathpattern"
	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

// Binding is the value a request segment bound to a typed route variable.
type Binding = pathpattern.Binding

// Request is the handler's view of an inbound request.
type Request struct {
	std     *http.Request
	path    *pathpattern.RequestPath
	maxBody int64
	vars    []Binding

	bodyOnce sync.Once
	body     []byte
	bodyErr  error
}

func newRequest(r *http.Request, o Options) *Request {
	return &Request{
		std:     r,
		path:    pathpattern.NewRequestPath(r.URL.EscapedPath(), o.Lower),
		maxBody: o.MaxBodyBytes,
	}
}

// bind records the result of a successful match.
func (r *Request) bind(consumed int, vars []Binding) {
	r.path.Commit(consumed)
	r.vars = vars
}

// Std returns the underlying standard library request.
func (r *Request) Std() *http.Request { return r.std }

// Context returns the request's context.
func (r *Request) Context() context.Context { return r.std.Context() }

// Method returns the request method.
func (r *Request) Method() string { return r.std.Method }

// Path returns the escaped request path.
func (r *Request) Path() string { return r.path.String() }

// Segments returns the decoded path segments.
func (r *Request) Segments() []string { return r.path.Segments() }

// RelativePath returns the segments beyond those consumed by the matched route joined by "/".
func (r *Request) RelativePath() string { return r.path.Relative() }

// Vars returns the bound variables of the matched route by name.
func (r *Request) Vars() map[string]Binding {
	m := make(map[string]Binding, len(r.vars))
	for _, b := range r.vars {
		m[b.Name] = b
	}
	return m
}

// Var returns the binding of a route variable.
func (r *Request) Var(name string) (Binding, bool) {
	for _, b := range r.vars {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

// Int returns the value of an int variable.
func (r *Request) Int(name string) (int64, bool) {
	b, ok := r.Var(name)
	if !ok || b.Kind != pathpattern.KindInt {
		return 0, false
	}
	return b.Int, true
}

// Str returns the segment a variable was bound to, empty when it is not bound.
func (r *Request) Str(name string) string {
	b, _ := r.Var(name)
	return b.Str
}

// AcceptJSON reports whether the client declared it accepts JSON.
func (r *Request) AcceptJSON() bool {
	return strings.Contains(strings.ToLower(r.std.Header.Get("Accept")), "json")
}

// ContentJSON reports whether the request body is declared as JSON.
func (r *Request) ContentJSON() bool { return isJSONContentType(r.std.Header.Get("Content-Type")) }

// ReadBody reads the complete request body once. Later calls return the same result.
func (r *Request) ReadBody() ([]byte, error) {
	r.bodyOnce.Do(func() {
		if r.std.Body == nil {
			return
		}
		defer r.std.Body.Close()

		var rd io.Reader = r.std.Body
		if r.maxBody > 0 {
			rd = io.LimitReader(rd, r.maxBody+1)
		}

		r.body, r.bodyErr = io.ReadAll(rd)
		if r.bodyErr != nil {
			r.bodyErr = errors.Wrap(r.bodyErr, "read body")
			return
		}

		if r.maxBody > 0 && int64(len(r.body)) > r.maxBody {
			r.body = nil
			r.bodyErr = NewError(CodeRequestEntityTooLarge, errors.Newf("body exceeds %d bytes", r.maxBody))
		}
	})

	return r.body, r.bodyErr
}

// ReadText reads the body as a string.
func (r *Request) ReadText() (string, error) {
	body, err := r.ReadBody()
	return string(body), err
}

// ReadJSON decodes the JSON body into v. Bodies not declared as JSON are rejected.
func (r *Request) ReadJSON(v any) error {
	if !r.ContentJSON() {
		return NewError(CodeUnsupportedMediaType, errors.New("content-type is not json"))
	}

	body, err := r.ReadBody()
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return NewError(CodeBadRequest, errors.Wrap(err, "decode json"))
	}

	return nil
}

// JSONPath looks up a gjson path in the JSON body.
func (r *Request) JSONPath(path string) (gjson.Result, error) {
	body, err := r.ReadBody()
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, NewError(CodeBadRequest, errors.New("body is not valid json"))
	}

	return gjson.GetBytes(body, path), nil
}
