package shttp_test

import (
	"testing"

	"github.com/advdv/shttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverser(t *testing.T) {
	b := shttp.NewBuilder()
	require.NoError(t, b.Register("/", noop, shttp.Named("homepage")))
	require.NoError(t, b.Register("/blog/{id:int}/", noop, shttp.Named("blog_post")))
	require.NoError(t, b.Register("/unnamed", noop))
	rev := shttp.NewReverser(b.Seal())

	t.Run("should reverse named patterns", func(t *testing.T) {
		res, err := rev.Reverse("homepage")
		require.NoError(t, err)
		assert.Equal(t, "/", res)

		res, err = rev.Reverse("blog_post", "12")
		require.NoError(t, err)
		assert.Equal(t, "/blog/12/", res)
	})

	t.Run("should error if reversing unknown name", func(t *testing.T) {
		_, err := rev.Reverse("bogus")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `no route named: "bogus", got: [blog_post homepage]`)
	})

	t.Run("should error if url building fails", func(t *testing.T) {
		_, err := rev.Reverse("blog_post")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not enough values")

		_, err = rev.Reverse("blog_post", "abc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not accepted")
	})
}
