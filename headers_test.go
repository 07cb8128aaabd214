package shttp_test

import (
	"net/http"
	"testing"

	"github.com/advdv/shttp"
	"github.com/advdv/shttp/shttptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaders(t *testing.T) {
	res := shttp.NewResponse(shttptest.NewConn(), shttp.NewTestLogger(t), http.Header{"X-Default": {"d"}})
	h := res.Header()

	t.Run("should be case insensitive", func(t *testing.T) {
		require.NoError(t, h.Set("x-custom", "1"))
		assert.Equal(t, "1", h.Get("X-CUSTOM"))
		assert.True(t, h.Has("X-Custom"))
	})

	t.Run("should only set missing values", func(t *testing.T) {
		require.NoError(t, h.SetIfNot("X-Custom", "2"))
		assert.Equal(t, "1", h.Get("X-Custom"))
		require.NoError(t, h.ContentType(shttp.ContentTypeHTML, true))
		require.NoError(t, h.ContentType(shttp.ContentTypeText, true))
		assert.Equal(t, shttp.ContentTypeHTML, h.Get("Content-Type"))
	})

	t.Run("should validate names and values", func(t *testing.T) {
		require.ErrorIs(t, h.Set("bad name", "1"), shttp.ErrInvalidHeader)
		require.ErrorIs(t, h.Set("X-Ok", "a\nb"), shttp.ErrInvalidHeader)
		require.ErrorIs(t, h.SetAll(map[string]string{"X-Fine": "1", "Bad:Name": "2"}), shttp.ErrInvalidHeader)
	})

	t.Run("should reset to the defaults", func(t *testing.T) {
		require.NoError(t, h.NoCache())
		require.NoError(t, h.ContentLength(10, false))
		require.NoError(t, h.Reset())
		assert.Equal(t, http.Header{"X-Default": {"d"}}, h.Clone())

		require.NoError(t, h.Clear())
		assert.Empty(t, h.Clone())

		require.NoError(t, h.Type(shttp.ContentTypeJSON))
		assert.True(t, res.ContentJSON())
		require.NoError(t, h.Del("Content-Type"))
		assert.False(t, res.ContentJSON())
	})
}
