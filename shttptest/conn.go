// Package shttptest provides test collaborators for shttp: a scriptable connection whose write
// completions can be delayed, reordered or failed, and helpers to dispatch requests onto it.
package shttptest

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrDestroyed is reported by writes that complete after the connection was destroyed.
var ErrDestroyed = errors.New("shttptest: connection destroyed")

// Conn records what a Response writes. Chunk bytes are appended to the body only when the write
// completes, so issuing writes concurrently with reordered completions would scramble the body.
type Conn struct {
	delay     func(n int) time.Duration
	failChunk map[int]error
	failHead  error

	mu        sync.Mutex
	status    int
	header    http.Header
	headers   int
	body      bytes.Buffer
	chunks    [][]byte
	issued    int
	inFlight  int
	maxFlight int
	ended     bool
	destroyed bool
	done      chan struct{}
	doneOnce  sync.Once
}

// NewConn inits a connection that completes every write synchronously.
func NewConn() *Conn {
	return &Conn{failChunk: map[int]error{}, done: make(chan struct{})}
}

// WithDelay makes the n-th chunk write (counting from zero) complete asynchronously after the
// returned duration.
func (c *Conn) WithDelay(fn func(n int) time.Duration) *Conn {
	c.delay = fn
	return c
}

// FailChunk makes the n-th chunk write fail with err.
func (c *Conn) FailChunk(n int, err error) *Conn {
	c.failChunk[n] = err
	return c
}

// FailHeader makes writing the headers fail with err.
func (c *Conn) FailHeader(err error) *Conn {
	c.failHead = err
	return c
}

func (c *Conn) WriteHeader(status int, h http.Header) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failHead != nil {
		return c.failHead
	}

	c.headers++
	c.status, c.header = status, h.Clone()
	return nil
}

func (c *Conn) WriteChunk(p []byte, done func(error)) {
	c.mu.Lock()
	n := c.issued
	c.issued++
	c.inFlight++
	c.maxFlight = max(c.maxFlight, c.inFlight)
	c.mu.Unlock()

	complete := func() {
		c.mu.Lock()
		c.inFlight--
		err := c.failChunk[n]
		if err == nil && c.destroyed {
			err = ErrDestroyed
		}
		if err == nil {
			c.body.Write(p)
			c.chunks = append(c.chunks, append([]byte(nil), p...))
		}
		c.mu.Unlock()
		done(err)
	}

	if c.delay == nil {
		complete()
		return
	}

	time.AfterFunc(c.delay(n), complete)
}

func (c *Conn) End(done func(error)) {
	c.mu.Lock()
	c.ended = true
	c.mu.Unlock()

	c.doneOnce.Do(func() { close(c.done) })
	done(nil)
}

func (c *Conn) Destroy() {
	c.mu.Lock()
	c.destroyed = true
	c.mu.Unlock()

	c.doneOnce.Do(func() { close(c.done) })
}

// Done is closed once the connection was ended or destroyed.
func (c *Conn) Done() <-chan struct{} { return c.done }

// Status returns the written status, zero when no headers were written.
func (c *Conn) Status() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Header returns the written headers.
func (c *Conn) Header() http.Header {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.header.Clone()
}

// HeaderWrites returns how often headers were written.
func (c *Conn) HeaderWrites() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.headers
}

// Body returns the bytes of all completed chunk writes.
func (c *Conn) Body() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.body.String()
}

// Chunks returns the completed chunk writes in completion order.
func (c *Conn) Chunks() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.chunks))
	for i, p := range c.chunks {
		out[i] = string(p)
	}
	return out
}

// MaxInFlight returns the largest number of chunk writes that were pending at the same time.
func (c *Conn) MaxInFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxFlight
}

// Ended reports whether End was called.
func (c *Conn) Ended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ended
}

// Destroyed reports whether Destroy was called.
func (c *Conn) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}
