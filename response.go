package shttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"
)

var (
	// ErrHeadersSent is returned when the status or a header is changed after the headers were
	// written to the connection.
	ErrHeadersSent = errors.New("headers already sent")
	// ErrResponseEnding is reported for body writes after the response started ending.
	ErrResponseEnding = errors.New("response is ending")
	// ErrResponseFailed is reported for writes on a response that failed.
	ErrResponseFailed = errors.New("response failed")
)

// State is the lifecycle state of a Response. States only ever advance.
type State int

const (
	StateIdle State = iota
	StateHeadersSent
	StateBodyStarted
	StateEnding
	StateEnded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHeadersSent:
		return "headers-sent"
	case StateBodyStarted:
		return "body-started"
	case StateEnding:
		return "ending"
	case StateEnded:
		return "ended"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Response writes one reply to a Conn. Body writes are queued and delivered in call order; they
// may be issued from multiple goroutines without waiting for each other.
type Response struct {
	mu     sync.Mutex
	conn   Conn
	logs   Logger
	status int
	state  State
	hdr    *Headers
	queue  *writeQueue
	end    *Pending
	failed bool

	userValue any
}

// NewResponse inits a response on conn with the default headers of a route.
func NewResponse(conn Conn, logs Logger, defaults http.Header) *Response {
	if logs == nil {
		logs = NewStdLogger(nil)
	}
	if defaults == nil {
		defaults = http.Header{}
	}

	res := &Response{
		conn:   conn,
		logs:   logs,
		status: http.StatusOK,
		hdr:    newHeaders(defaults),
	}
	res.queue = newWriteQueue(conn, res.ended, res.writeFailed)

	return res
}

// advance moves the state forward. Backward transitions and transitions out of a terminal state
// are rejected.
func (r *Response) advance(to State) bool {
	if r.state == StateEnded || r.state == StateFailed {
		return false
	}
	if to != StateFailed && to <= r.state {
		return false
	}
	r.state = to
	return true
}

// State returns the current lifecycle state.
func (r *Response) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Committed reports whether anything was written to the connection.
func (r *Response) Committed() bool { return r.State() != StateIdle }

// Header returns the header set. It is locked once headers are sent.
func (r *Response) Header() *Headers { return r.hdr }

// ContentJSON reports whether the content-type header is JSON.
func (r *Response) ContentJSON() bool { return isJSONContentType(r.hdr.Get("Content-Type")) }

// Status returns the response status.
func (r *Response) Status() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// SetStatus sets the response status. It fails once headers are sent.
func (r *Response) SetStatus(code int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateIdle {
		return ErrHeadersSent
	}
	r.status = code
	return nil
}

// UserValue returns the value passed along the chain of routes.
func (r *Response) UserValue() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.userValue
}

// SetUserValue stores a value that is carried to the next route when this one passes.
func (r *Response) SetUserValue(v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userValue = v
}

// SendHeaders writes the status and headers. Calling it again only logs a warning.
func (r *Response) SendHeaders() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateIdle {
		r.logs.LogResponseWarning("headers were already sent")
		return nil
	}

	return r.sendHeaders()
}

func (r *Response) sendHeaders() error {
	if err := r.conn.WriteHeader(r.status, r.hdr.lock()); err != nil {
		r.advance(StateFailed)
		r.logs.LogWriteError(err)
		return errors.Wrap(err, "send headers")
	}

	r.advance(StateHeadersSent)
	return nil
}

// Body queues p for writing, sending the headers first if needed. The returned Pending settles
// once p reached the connection.
func (r *Response) Body(p []byte) *Pending {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateEnding, StateEnded:
		r.logs.LogResponseWarning("body written after the response started ending")
		return settled(ErrResponseEnding)
	case StateFailed:
		return settled(ErrResponseFailed)
	case StateIdle:
		if err := r.sendHeaders(); err != nil {
			return settled(err)
		}
	}

	r.advance(StateBodyStarted)
	return r.queue.push(writeChunk, append([]byte(nil), p...))
}

// Write implements io.Writer by queueing p. It does not wait for the write to complete.
func (r *Response) Write(p []byte) (int, error) {
	if err := r.Body(p).Err(); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString queues s.
func (r *Response) WriteString(s string) (int, error) { return r.Write([]byte(s)) }

// End finishes the response with optional final bytes. When headers were not sent yet the
// content-length is set from p. Repeated calls return the first call's Pending.
func (r *Response) End(p []byte) *Pending {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.endLocked(p)
}

func (r *Response) endLocked(p []byte) *Pending {
	if r.end != nil {
		return r.end
	}
	if r.state == StateFailed {
		r.end = settled(ErrResponseFailed)
		return r.end
	}

	if r.state == StateIdle {
		if p != nil {
			if err := r.hdr.ContentLength(len(p), false); err != nil {
				r.logs.LogResponseWarning(err.Error())
			}
		}
		if err := r.sendHeaders(); err != nil {
			r.end = settled(err)
			return r.end
		}
	}

	r.advance(StateEnding)
	if len(p) > 0 {
		r.queue.push(writeChunk, append([]byte(nil), p...))
	}
	r.end = r.queue.push(writeEnd, nil)

	return r.end
}

// Fail replies with code and a plain text body. An empty text is derived from the code. Once
// headers are sent a well-formed failure is impossible and the connection is destroyed instead.
func (r *Response) Fail(code int, text string) *Pending {
	if text == "" {
		text = StatusText(code)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateIdle {
		return r.destroy()
	}

	r.status = code
	_ = r.hdr.Set("Content-Type", ContentTypeText)
	return r.endLocked([]byte(text))
}

func (r *Response) destroy() *Pending {
	if r.end != nil && (r.state == StateEnded || r.state == StateFailed) {
		return r.end
	}

	r.conn.Destroy()
	r.advance(StateFailed)
	r.queue.abort(ErrConnDestroyed)
	if r.end == nil {
		r.end = settled(ErrConnDestroyed)
	}

	return r.end
}

// abort destroys the connection and blocks until the write in flight, if any, has settled.
// Nothing reaches the connection after abort returns.
func (r *Response) abort() {
	r.mu.Lock()
	r.destroy()
	r.mu.Unlock()

	r.queue.wait()
}

// deliver ends the response and waits for the end to reach the connection. When ctx is done
// first the response is aborted instead.
func (r *Response) deliver(ctx context.Context) error {
	p := r.End(nil)
	select {
	case <-p.Done():
		return p.Err()
	case <-ctx.Done():
	}

	r.abort()
	if err := p.Err(); err != nil {
		return errors.CombineErrors(errors.Wrap(ctx.Err(), "deliver"), err)
	}
	return nil
}

// JSON encodes v and ends the response with it. The content-type defaults to JSON.
func (r *Response) JSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encode json")
	}

	if !r.hdr.Locked() {
		if err := r.hdr.SetIfNot("Content-Type", ContentTypeJSON); err != nil {
			return err
		}
	}

	return r.End(data).Err()
}

type simpleJSON struct {
	Ok    bool    `json:"ok"`
	Data  any     `json:"data"`
	Error *string `json:"error"`
}

// SimpleJSON ends the response with the {"ok":true,"data":v,"error":null} envelope.
func (r *Response) SimpleJSON(v any) error {
	return r.JSON(simpleJSON{Ok: true, Data: v})
}

// JSONFail replies with code and the {"ok":false,"data":null,"error":text} envelope. After the
// headers were sent it behaves like Fail.
func (r *Response) JSONFail(code int, text string) error {
	if text == "" {
		text = StatusText(code)
	}

	if err := r.SetStatus(code); err != nil {
		return r.Fail(code, text).Err()
	}
	if err := r.hdr.Set("Content-Type", ContentTypeJSON); err != nil {
		return err
	}

	return r.JSON(simpleJSON{Ok: false, Error: &text})
}

func (r *Response) ended() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advance(StateEnded)
}

func (r *Response) writeFailed(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failed {
		return
	}
	r.failed = true
	r.advance(StateFailed)
	r.logs.LogWriteError(err)
}
