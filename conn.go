package shttp

import (
	"net/http"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// ErrConnDestroyed is reported for writes on a connection that was destroyed.
var ErrConnDestroyed = errors.New("connection destroyed")

// Conn is the raw connection a Response writes to. Chunk and end completions may be reported
// asynchronously and from any goroutine. Each done callback must be invoked exactly once.
type Conn interface {
	WriteHeader(status int, h http.Header) error
	WriteChunk(p []byte, done func(error))
	End(done func(error))
	Destroy()
}

// StdConn adapts a http.ResponseWriter to the Conn interface. Its writes complete synchronously.
type StdConn struct {
	w         http.ResponseWriter
	rc        *http.ResponseController
	destroyed atomic.Bool
}

// NewStdConn wraps w.
func NewStdConn(w http.ResponseWriter) *StdConn {
	return &StdConn{w: w, rc: http.NewResponseController(w)}
}

func (c *StdConn) WriteHeader(status int, h http.Header) error {
	if c.destroyed.Load() {
		return ErrConnDestroyed
	}

	dst := c.w.Header()
	for k, v := range h {
		dst[k] = v
	}

	c.w.WriteHeader(status)
	return nil
}

func (c *StdConn) WriteChunk(p []byte, done func(error)) {
	if c.destroyed.Load() {
		done(ErrConnDestroyed)
		return
	}

	if _, err := c.w.Write(p); err != nil {
		done(errors.Wrap(err, "write chunk"))
		return
	}

	done(nil)
}

func (c *StdConn) End(done func(error)) {
	if c.destroyed.Load() {
		done(ErrConnDestroyed)
		return
	}

	if err := c.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		done(errors.Wrap(err, "flush"))
		return
	}

	done(nil)
}

// Destroy marks the connection as broken. The serving handler aborts the underlying
// connection once dispatch returns.
func (c *StdConn) Destroy() { c.destroyed.Store(true) }

// Destroyed reports whether Destroy was called.
func (c *StdConn) Destroyed() bool { return c.destroyed.Load() }

var _ Conn = &StdConn{}
