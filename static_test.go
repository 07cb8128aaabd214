package shttp_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/advdv/shttp"
	"github.com/advdv/shttp/shttptest"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	fsys := fstest.MapFS{
		"js/app.js":  {Data: []byte("console.log(1)")},
		"index.html": {Data: []byte("<h1>hi</h1>")},
		"big.bin":    {Data: []byte(strings.Repeat("b", 100_000))},
	}

	mux := shttp.NewServeMux(shttp.WithLogger(shttp.NewTestLogger(t)), shttp.WithNext(shttp.NextAny))
	mux.Static("/static", shttp.DirSource(fsys))
	mux.Get("/", func(_ context.Context, res *shttp.Response, req *shttp.Request) error {
		return res.End([]byte("fallback:" + req.RelativePath())).Err()
	})

	t.Run("should serve files below the pattern", func(t *testing.T) {
		conn := shttptest.Dispatch(mux, http.MethodGet, "/static/js/app.js", nil)
		assert.Equal(t, http.StatusOK, conn.Status())
		assert.Equal(t, "console.log(1)", conn.Body())
		assert.Contains(t, conn.Header().Get("Content-Type"), "javascript")
		assert.Equal(t, "14", conn.Header().Get("Content-Length"))
	})

	t.Run("should stream large files in chunks", func(t *testing.T) {
		conn := shttptest.Dispatch(mux, http.MethodGet, "/static/big.bin", nil)
		assert.Len(t, conn.Body(), 100_000)
		assert.Greater(t, len(conn.Chunks()), 1)
	})

	t.Run("should pass on missing files", func(t *testing.T) {
		conn := shttptest.Dispatch(mux, http.MethodGet, "/static/nope.css", nil)
		assert.Equal(t, "fallback:static/nope.css", conn.Body())

		conn = shttptest.Dispatch(mux, http.MethodGet, "/static/js", nil)
		assert.Equal(t, "fallback:static/js", conn.Body())

		conn = shttptest.Dispatch(mux, http.MethodGet, "/static/../index.html", nil)
		assert.NotContains(t, conn.Body(), "<h1>")
	})

	t.Run("should stop reading once a chunk failed", func(t *testing.T) {
		src := &countingSource{FileSource: shttp.DirSource(fsys)}
		mux := shttp.NewServeMux(shttp.WithLogger(shttp.NewTestLogger(t)))
		mux.Static("/static", src)

		conn := shttptest.NewConn().FailChunk(1, errors.New("broken pipe"))
		req := httptest.NewRequest(http.MethodGet, "/static/big.bin", nil)
		mux.Dispatch(req.Context(), conn, mux.NewRequest(req))

		assert.True(t, conn.Destroyed())
		assert.False(t, conn.Ended())
		assert.Len(t, conn.Body(), 32*1024)
		assert.Equal(t, 3, src.reads)
	})
}

type countingSource struct {
	shttp.FileSource
	reads int
}

func (s *countingSource) Open(ctx context.Context, name string) (*shttp.File, error) {
	f, err := s.FileSource.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	f.Body = countingReader{f.Body, &s.reads}
	return f, nil
}

type countingReader struct {
	io.ReadCloser
	n *int
}

func (r countingReader) Read(p []byte) (int, error) {
	*r.n++
	return r.ReadCloser.Read(p)
}

type fakeS3 struct {
	objects map[string]string
	keys    []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Key)
	f.keys = append(f.keys, aws.ToString(in.Bucket)+"/"+key)

	data, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("no such key")}
	}

	return &s3.GetObjectOutput{
		Body:          io.NopCloser(strings.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("text/x-custom"),
	}, nil
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{objects: map[string]string{"site/docs/a.txt": "from s3"}}
	mux := shttp.NewServeMux(shttp.WithLogger(shttp.NewTestLogger(t)))
	mux.Static("/docs", shttp.NewS3Source(client, "bucket", "site/docs"))

	conn := shttptest.Dispatch(mux, http.MethodGet, "/docs/a.txt", nil)
	require.Equal(t, http.StatusOK, conn.Status())
	assert.Equal(t, "from s3", conn.Body())
	assert.Equal(t, "text/x-custom", conn.Header().Get("Content-Type"))
	assert.Equal(t, "7", conn.Header().Get("Content-Length"))

	conn = shttptest.Dispatch(mux, http.MethodGet, "/docs/b.txt", nil)
	assert.Equal(t, http.StatusNotFound, conn.Status())
	assert.Equal(t, []string{"bucket/site/docs/a.txt", "bucket/site/docs/b.txt"}, client.keys)
}
