package shttp_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/advdv/shttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(t *testing.T, mux *shttp.ServeMux, method, target, body string, header ...string) *shttp.Request {
	t.Helper()
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		r.Header.Set(header[i], header[i+1])
	}
	return mux.NewRequest(r)
}

func TestRequestBody(t *testing.T) {
	mux := shttp.NewServeMux(shttp.WithMaxBodyBytes(64))

	t.Run("should read json", func(t *testing.T) {
		req := newRequest(t, mux, http.MethodPost, "/", `{"user":{"name":"ann","age":7}}`,
			"Content-Type", "application/json")
		assert.True(t, req.ContentJSON())

		var v struct {
			User struct {
				Name string `json:"name"`
			} `json:"user"`
		}
		require.NoError(t, req.ReadJSON(&v))
		assert.Equal(t, "ann", v.User.Name)

		age, err := req.JSONPath("user.age")
		require.NoError(t, err)
		assert.Equal(t, int64(7), age.Int())

		text, err := req.ReadText()
		require.NoError(t, err)
		assert.Contains(t, text, "ann")
	})

	t.Run("should reject non json bodies", func(t *testing.T) {
		req := newRequest(t, mux, http.MethodPost, "/", `{}`, "Content-Type", "text/plain")
		err := req.ReadJSON(&struct{}{})
		assert.Equal(t, shttp.CodeUnsupportedMediaType, shttp.CodeOf(err))

		req = newRequest(t, mux, http.MethodPost, "/", `{`, "Content-Type", "application/json")
		assert.Equal(t, shttp.CodeBadRequest, shttp.CodeOf(req.ReadJSON(&struct{}{})))

		_, err = req.JSONPath("a")
		assert.Equal(t, shttp.CodeBadRequest, shttp.CodeOf(err))
	})

	t.Run("should limit the body size", func(t *testing.T) {
		req := newRequest(t, mux, http.MethodPost, "/", strings.Repeat("x", 65))
		_, err := req.ReadBody()
		assert.Equal(t, shttp.CodeRequestEntityTooLarge, shttp.CodeOf(err))

		req = newRequest(t, mux, http.MethodPost, "/", strings.Repeat("x", 64))
		body, err := req.ReadBody()
		require.NoError(t, err)
		assert.Len(t, body, 64)
	})
}

func TestRequestView(t *testing.T) {
	mux := shttp.NewServeMux()
	req := newRequest(t, mux, http.MethodGet, "/a%20b/C/", "", "Accept", "text/html, Application/JSON")

	assert.Equal(t, http.MethodGet, req.Method())
	assert.Equal(t, []string{"a b", "C"}, req.Segments())
	assert.Equal(t, "/a%20b/C/", req.Path())
	assert.True(t, req.AcceptJSON())
	assert.False(t, req.ContentJSON())
	assert.Empty(t, req.Vars())

	_, ok := req.Int("missing")
	assert.False(t, ok)
	assert.Empty(t, req.Str("missing"))
	assert.NotNil(t, req.Std())
}
