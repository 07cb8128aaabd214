package pathpattern_test

import (
	"testing"

	"github.com/advdv/shttp/internal/pathpattern"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	t.Run("literal and variables", func(t *testing.T) {
		pat, err := pathpattern.Compile(" /calculator/{op:str:[add, subtract]}/{a:int}/{b:int:[0-100,1000]}/ ", false)
		require.NoError(t, err)

		assert.Equal(t, "/calculator/{op:str:[add, subtract]}/{a:int}/{b:int:[0-100,1000]}/", pat.String())
		assert.Equal(t, 4, pat.Len())
		assert.True(t, pat.TrailingSlash())

		segs := pat.Segments()
		assert.Equal(t, []pathpattern.Segment{
			{Kind: pathpattern.KindLiteral, Name: "calculator"},
			{Kind: pathpattern.KindStr, Name: "op", Strs: []string{"add", "subtract"}},
			{Kind: pathpattern.KindInt, Name: "a"},
		}, segs[:3])

		assert.Equal(t, pathpattern.KindInt, segs[3].Kind)
		require.NotNil(t, segs[3].Ints)
		assert.Equal(t, "0-100,1000", segs[3].Ints.String())
		assert.True(t, segs[3].Constrained())
		assert.False(t, segs[2].Constrained())
	})

	t.Run("constraint without brackets", func(t *testing.T) {
		pat, err := pathpattern.Compile("{operation:str:add}", false)
		require.NoError(t, err)
		assert.Equal(t, []string{"add"}, pat.Segments()[0].Strs)
	})

	t.Run("case folding", func(t *testing.T) {
		pat, err := pathpattern.Compile("/Foo/{x:str:[Bar]}", true)
		require.NoError(t, err)
		assert.Equal(t, "foo", pat.Segments()[0].Name)
		assert.Equal(t, []string{"bar"}, pat.Segments()[1].Strs)
	})

	t.Run("empty segments and backslashes", func(t *testing.T) {
		pat, err := pathpattern.Compile(`//foo\\ bar /`, false)
		require.NoError(t, err)
		assert.Equal(t, 2, pat.Len())
		assert.True(t, pat.TrailingSlash())
	})

	t.Run("root", func(t *testing.T) {
		pat, err := pathpattern.Compile("/", false)
		require.NoError(t, err)
		assert.Equal(t, 0, pat.Len())
	})
}

func TestCompileSyntaxErrors(t *testing.T) {
	for _, raw := range []string{
		"/{id:int",
		"/id:int}",
		"/a{b}c",
		"/{id}",
		"/{id:float}",
		"/{:int}",
		"/{id:int:[a]}",
		"/{id:int:[1-]}",
		"/{id:int:[*]}",
		"/{id:int:[1,*]}",
		"/{id:int:[20-10]}",
		"/{id:int:[-5]}",
		"/{id:int:[1,2}",
		"/{id:str:[a b]}",
		"/{id:str:[a]b]}",
		"/{id:str:[]}",
		"/{id:str:a:b}",
		"/{{id:str}}",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := pathpattern.Compile(raw, false)
			require.Error(t, err)
			require.ErrorIs(t, err, pathpattern.ErrSyntax)

			var serr *pathpattern.SyntaxError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, raw, serr.Pattern)
		})
	}
}

func TestParseNonNegative(t *testing.T) {
	v, ok := pathpattern.ParseNonNegative("00123")
	require.True(t, ok)
	assert.Equal(t, int64(123), v)

	for _, s := range []string{"", "-1", "+1", "1.5", "12a", "99999999999999999999"} {
		_, ok := pathpattern.ParseNonNegative(s)
		assert.False(t, ok, s)
	}
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() { pathpattern.MustCompile("/{x:bogus}", false) })
}
