package pathpattern

import (
	"net/url"
	"strings"
)

type requestSegment struct {
	value   string
	numeric bool
	asInt   int64
}

// RequestPath is the decoded form of an incoming request path. It is created once per request
// and tested against every candidate pattern.
type RequestPath struct {
	raw           string
	segments      []string
	parsed        []requestSegment
	trailingSlash bool
	relative      string
}

// NewRequestPath splits the escaped path into segments, percent-decodes each of them and
// optionally lower-cases them. Segments that fail to decode are kept as-is.
func NewRequestPath(escaped string, caseFold bool) *RequestPath {
	rp := &RequestPath{raw: escaped, trailingSlash: hasTrailingSlash(escaped)}

	for _, item := range splitSegments(escaped) {
		if dec, err := url.PathUnescape(item); err == nil {
			item = dec
		}
		if caseFold {
			item = strings.ToLower(item)
		}

		v, ok := ParseNonNegative(item)
		rp.segments = append(rp.segments, item)
		rp.parsed = append(rp.parsed, requestSegment{value: item, numeric: ok, asInt: v})
	}

	return rp
}

// String returns the raw escaped path.
func (rp *RequestPath) String() string { return rp.raw }

// Len returns the number of segments.
func (rp *RequestPath) Len() int { return len(rp.segments) }

// TrailingSlash reports whether the raw path ends with a separator.
func (rp *RequestPath) TrailingSlash() bool { return rp.trailingSlash }

// Segments returns a copy of the decoded segments.
func (rp *RequestPath) Segments() []string {
	out := make([]string, len(rp.segments))
	copy(out, rp.segments)
	return out
}

// Commit records how many leading segments a matched pattern consumed. The remaining segments
// become the relative path.
func (rp *RequestPath) Commit(consumed int) {
	if consumed >= len(rp.segments) {
		rp.relative = ""
		return
	}
	rp.relative = strings.Join(rp.segments[consumed:], "/")
}

// Relative returns the segments beyond the last committed match, joined with "/" and without
// leading or trailing separators. Example: "/static" matched against "/static/js/app.js"
// yields "js/app.js".
func (rp *RequestPath) Relative() string { return rp.relative }
