package shttp

import (
	"mime"
	"net/http"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/net/http/httpguts"
)

// Content types used by the response helpers.
const (
	ContentTypeText       = "text/plain; charset=utf-8"
	ContentTypeHTML       = "text/html; charset=utf-8"
	ContentTypeCSS        = "text/css; charset=utf-8"
	ContentTypeJavaScript = "text/javascript; charset=utf-8"
	ContentTypeJSON       = "application/json; charset=utf-8"
	ContentTypeBinary     = "application/octet-stream"
)

// ErrInvalidHeader is returned when a header name or value is not valid on the wire.
var ErrInvalidHeader = errors.New("invalid header")

// Headers is the mutable header set of a Response. Keys are case-insensitive. Once the
// response sends its headers every mutation fails with ErrHeadersSent.
type Headers struct {
	mu       sync.RWMutex
	h        http.Header
	defaults http.Header
	locked   bool
}

func newHeaders(defaults http.Header) *Headers {
	return &Headers{h: defaults.Clone(), defaults: defaults.Clone()}
}

// Get returns the value of the header, empty when unset.
func (h *Headers) Get(name string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.h.Get(name)
}

// Has reports whether the header is set.
func (h *Headers) Has(name string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.h[http.CanonicalHeaderKey(name)]
	return ok
}

// Locked reports whether the headers were already sent.
func (h *Headers) Locked() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.locked
}

// Clone returns a copy of the current header set.
func (h *Headers) Clone() http.Header {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.h.Clone()
}

// Set sets or replaces a header.
func (h *Headers) Set(name, value string) error {
	return h.mutate(func(hdr http.Header) error { return setValid(hdr, name, value) })
}

// SetIfNot sets the header only if it is not set yet.
func (h *Headers) SetIfNot(name, value string) error {
	return h.mutate(func(hdr http.Header) error {
		if _, ok := hdr[http.CanonicalHeaderKey(name)]; ok {
			return nil
		}
		return setValid(hdr, name, value)
	})
}

// SetAll sets every header of m.
func (h *Headers) SetAll(m map[string]string) error {
	return h.mutate(func(hdr http.Header) error {
		for name, value := range m {
			if err := setValid(hdr, name, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Del removes a header.
func (h *Headers) Del(name string) error {
	return h.mutate(func(hdr http.Header) error {
		hdr.Del(name)
		return nil
	})
}

// Reset restores the route's default headers.
func (h *Headers) Reset() error {
	return h.mutate(func(hdr http.Header) error {
		clear(hdr)
		for k, v := range h.defaults {
			hdr[k] = append([]string(nil), v...)
		}
		return nil
	})
}

// Clear removes every header including the defaults.
func (h *Headers) Clear() error {
	return h.mutate(func(hdr http.Header) error {
		clear(hdr)
		return nil
	})
}

// NoCache sets cache-control to NoCacheValue.
func (h *Headers) NoCache() error { return h.Set("Cache-Control", NoCacheValue) }

// Type sets the content-type.
func (h *Headers) Type(contentType string) error { return h.Set("Content-Type", contentType) }

// ContentType sets the content-type. With ifNot an existing value is kept.
func (h *Headers) ContentType(value string, ifNot bool) error {
	if ifNot {
		return h.SetIfNot("Content-Type", value)
	}
	return h.Set("Content-Type", value)
}

// ContentLength sets the content-length. With ifNot an existing value is kept.
func (h *Headers) ContentLength(n int, ifNot bool) error {
	if ifNot {
		return h.SetIfNot("Content-Length", strconv.Itoa(n))
	}
	return h.Set("Content-Length", strconv.Itoa(n))
}

func (h *Headers) mutate(fn func(http.Header) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.locked {
		return ErrHeadersSent
	}
	return fn(h.h)
}

// lock freezes the header set and returns a copy for the wire.
func (h *Headers) lock() http.Header {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.locked = true
	return h.h.Clone()
}

func setValid(hdr http.Header, name, value string) error {
	if !httpguts.ValidHeaderFieldName(name) {
		return errors.Wrapf(ErrInvalidHeader, "name %q", name)
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return errors.Wrapf(ErrInvalidHeader, "value for %q", name)
	}
	hdr.Set(name, value)
	return nil
}

func isJSONContentType(v string) bool {
	if v == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(v)
	return err == nil && mt == "application/json"
}
