package pathpattern

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Binding is a value bound to a variable segment by a successful match.
type Binding struct {
	Name string
	Kind Kind
	Str  string
	Int  int64
}

// Value returns the bound value as an int64 for int variables and a string otherwise.
func (b Binding) Value() any {
	if b.Kind == KindInt {
		return b.Int
	}
	return b.Str
}

// Match binds the pattern against the request path. Request segments beyond the pattern's
// length are not examined.
func (p *Pattern) Match(rp *RequestPath) ([]Binding, bool) {
	if p.Len() > rp.Len() || (p.Len() == rp.Len() && p.trailingSlash && !rp.trailingSlash) {
		return nil, false
	}

	var out []Binding
	for i, seg := range p.segments {
		other := rp.parsed[i]

		switch seg.Kind {
		case KindInt:
			if !other.numeric || !seg.accepts(other.asInt) {
				return nil, false
			}
			out = append(out, Binding{Name: seg.Name, Kind: KindInt, Str: other.value, Int: other.asInt})
		case KindStr:
			if seg.Strs != nil && !slices.Contains(seg.Strs, other.value) {
				return nil, false
			}
			out = append(out, Binding{Name: seg.Name, Kind: KindStr, Str: other.value})
		default:
			if seg.Name != other.value {
				return nil, false
			}
		}
	}

	return out, true
}

// ErrNotEnoughValues is returned by Build when fewer values than variables were provided.
var ErrNotEnoughValues = errors.New("not enough values")

// Build substitutes vals for the pattern's variables in order, validating each value against
// the variable's type and constraints.
func Build(p *Pattern, vals ...string) (string, error) {
	var sb strings.Builder
	next := 0

	for _, seg := range p.segments {
		sb.WriteByte('/')
		if seg.Kind == KindLiteral {
			sb.WriteString(seg.Name)
			continue
		}

		if next >= len(vals) {
			return "", errors.Wrapf(ErrNotEnoughValues, "pattern %q requires a value for %q", p.raw, seg.Name)
		}
		val := vals[next]
		next++

		switch seg.Kind {
		case KindInt:
			v, ok := ParseNonNegative(val)
			if !ok || !seg.accepts(v) {
				return "", errors.Newf("value %q is not accepted by int variable %q", val, seg.Name)
			}
			val = strconv.FormatInt(v, 10)
		case KindStr:
			if seg.Strs != nil && !slices.Contains(seg.Strs, val) {
				return "", errors.Newf("value %q is not accepted by str variable %q", val, seg.Name)
			}
		}
		sb.WriteString(url.PathEscape(val))
	}

	if next < len(vals) {
		return "", errors.Newf("pattern %q takes %d values, got %d", p.raw, next, len(vals))
	}
	if sb.Len() == 0 || p.trailingSlash {
		sb.WriteByte('/')
	}

	return sb.String(), nil
}
