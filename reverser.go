package shttp

import (
	"slices"

	"github.com/advdv/shttp/internal/pathpattern"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Reverser keeps track of named route patterns and allows building URLs.
type Reverser struct {
	pats map[string]*pathpattern.Pattern
}

// NewReverser inits the reverser with the named routes of r.
func NewReverser(r *Router) *Reverser {
	rev := &Reverser{make(map[string]*pathpattern.Pattern)}
	for _, rt := range r.routes {
		if rt.Name() != "" {
			rev.pats[rt.Name()] = rt.pattern
		}
	}

	return rev
}

// Reverse reverses the named pattern into a url.
func (r Reverser) Reverse(name string, vals ...string) (string, error) {
	pat, ok := r.pats[name]
	if !ok {
		names := lo.Keys(r.pats)
		slices.Sort(names)
		return "", errors.Newf("no route named: %q, got: %v", name, names)
	}

	res, err := pathpattern.Build(pat, vals...)
	if err != nil {
		return "", errors.Wrap(err, "failed to build")
	}

	return res, nil
}
