// Package pathpattern compiles route patterns with typed variables and matches them against
// request paths segment by segment.
package pathpattern

import (
	"fmt"
	"strconv"
	"strings"

	intervals "github.com/MawKKe/integer-interval-expressions-go"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Kind is the kind of a pattern segment or binding.
type Kind int

const (
	KindLiteral Kind = iota
	KindStr
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "path"
	case KindStr:
		return "str"
	case KindInt:
		return "int"
	default:
		return "unknown"
	}
}

// ErrSyntax marks all pattern compilation errors.
var ErrSyntax = errors.New("invalid path pattern")

// SyntaxError describes why a raw pattern failed to compile.
type SyntaxError struct {
	Pattern string
	Segment string
	Reason  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid path pattern %q at segment %q: %s", e.Pattern, e.Segment, e.Reason)
}

// Is makes every SyntaxError match ErrSyntax.
func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// Segment is one compiled segment of a pattern.
type Segment struct {
	Kind Kind
	// Name is the literal text for KindLiteral and the variable name otherwise.
	Name string
	Strs []string
	// Ints holds the exact values and inclusive ranges an int variable accepts.
	Ints *intervals.Expression
}

// Constrained reports whether the variable segment restricts its values.
func (s Segment) Constrained() bool { return s.Strs != nil || s.Ints != nil }

func (s Segment) accepts(v int64) bool {
	return s.Ints == nil || (v >= 0 && s.Ints.Matches(int(v)))
}

// Pattern is a compiled route pattern. It is never modified after Compile returns.
type Pattern struct {
	raw           string
	segments      []Segment
	trailingSlash bool
}

// Compile parses raw into a Pattern. When caseFold is set literal segments and str constraint
// values are lower-cased, request paths must then be folded as well.
func Compile(raw string, caseFold bool) (*Pattern, error) {
	raw = strings.TrimSpace(raw)
	pat := &Pattern{raw: raw, trailingSlash: hasTrailingSlash(raw)}

	for _, item := range splitSegments(raw) {
		seg, err := compileSegment(item, caseFold)
		if err != nil {
			return nil, &SyntaxError{Pattern: raw, Segment: item, Reason: err.Error()}
		}
		pat.segments = append(pat.segments, seg)
	}

	return pat, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(raw string, caseFold bool) *Pattern {
	return lo.Must(Compile(raw, caseFold))
}

// String returns the trimmed raw pattern.
func (p *Pattern) String() string { return p.raw }

// Len returns the number of segments.
func (p *Pattern) Len() int { return len(p.segments) }

// TrailingSlash reports whether the raw pattern ends with a separator.
func (p *Pattern) TrailingSlash() bool { return p.trailingSlash }

// Segments returns a copy of the compiled segments.
func (p *Pattern) Segments() []Segment {
	out := make([]Segment, len(p.segments))
	copy(out, p.segments)
	return out
}

// reserved characters may not appear in a variable name or constraint token.
const reserved = " \t:\\/,[]{}"

func compileSegment(item string, caseFold bool) (Segment, error) {
	opens, closes := strings.HasPrefix(item, "{"), strings.HasSuffix(item, "}")
	if !opens && !closes {
		if strings.ContainsAny(item, "{}") {
			return Segment{}, errors.New("unbalanced braces")
		}
		if caseFold {
			item = strings.ToLower(item)
		}
		return Segment{Kind: KindLiteral, Name: item}, nil
	}
	if !opens || !closes || len(item) < 2 {
		return Segment{}, errors.New("unbalanced braces")
	}

	inner := item[1 : len(item)-1]
	if strings.ContainsAny(inner, "{}") {
		return Segment{}, errors.New("nested braces")
	}

	parts := lo.Map(strings.Split(inner, ":"), func(s string, _ int) string { return strings.TrimSpace(s) })
	if len(parts) < 2 || len(parts) > 3 {
		return Segment{}, errors.New("expected name:type or name:type:[constraints]")
	}

	name := parts[0]
	if name == "" || strings.ContainsAny(name, reserved) {
		return Segment{}, errors.Newf("invalid variable name %q", name)
	}

	seg := Segment{Name: name}
	switch parts[1] {
	case "str":
		seg.Kind = KindStr
	case "int":
		seg.Kind = KindInt
	default:
		return Segment{}, errors.Newf("unknown variable type %q", parts[1])
	}

	if len(parts) == 2 {
		return seg, nil
	}

	tokens, err := splitConstraints(parts[2])
	if err != nil {
		return Segment{}, err
	}

	if seg.Kind == KindStr {
		seg.Strs = lo.Map(tokens, func(s string, _ int) string {
			if caseFold {
				return strings.ToLower(s)
			}
			return s
		})
		return seg, nil
	}

	for _, tok := range tokens {
		if tok == "*" || strings.HasSuffix(tok, "-") {
			return Segment{}, errors.Newf("invalid int constraint %q", tok)
		}
	}

	expr, err := intervals.ParseExpressionWithOptions(strings.Join(tokens, ","), intervals.ParseOptions{
		Delimiter: ",",
	})
	if err != nil {
		return Segment{}, errors.Wrap(err, "invalid int constraint")
	}
	seg.Ints = &expr

	return seg, nil
}

func splitConstraints(list string) ([]string, error) {
	list = strings.TrimSpace(list)
	if strings.HasPrefix(list, "[") != strings.HasSuffix(list, "]") {
		return nil, errors.New("unbalanced constraint brackets")
	}
	list = strings.TrimSuffix(strings.TrimPrefix(list, "["), "]")

	var tokens []string
	for _, tok := range strings.Split(list, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if strings.ContainsAny(tok, reserved) {
			return nil, errors.Newf("reserved character in constraint %q", tok)
		}
		tokens = append(tokens, tok)
	}
	if len(tokens) == 0 {
		return nil, errors.New("empty constraint list")
	}

	return tokens, nil
}

// ParseNonNegative parses s when it consists only of ASCII digits. Leading zeros are allowed,
// signs are not.
func ParseNonNegative(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func hasTrailingSlash(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasSuffix(s, "/") || strings.HasSuffix(s, `\`)
}

// splitSegments splits on forward and backward slashes, trims whitespace around each segment
// and drops empty ones.
func splitSegments(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '\\' })
	return lo.FilterMap(fields, func(f string, _ int) (string, bool) {
		f = strings.TrimSpace(f)
		return f, f != ""
	})
}
