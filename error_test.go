package shttp_test

import (
	"testing"

	"github.com/advdv/shttp"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	err1 := shttp.NewError(shttp.CodeBadRequest, errors.New("foo"))
	require.Equal(t, shttp.Code(400), err1.Code())
	require.Equal(t, shttp.CodeBadRequest, shttp.CodeOf(err1))
	require.Equal(t, "Bad Request: foo", err1.Error())
	require.Equal(t, "foo", err1.Message())

	require.Equal(t, shttp.CodeUnknown, shttp.CodeOf(errors.New("bar")))
	require.Equal(t, "Unknown: rab", shttp.NewError(900, errors.New("rab")).Error())

	wrapped := errors.Wrap(err1, "while handling")
	require.Equal(t, shttp.CodeBadRequest, shttp.CodeOf(wrapped))
}

func TestStatusText(t *testing.T) {
	require.Equal(t, "Not Found", shttp.StatusText(404))
	require.Equal(t, "Ok", shttp.StatusText(200))
	require.Equal(t, "Unknown Error", shttp.StatusText(520))
	require.Equal(t, "Request Error", shttp.StatusText(418))
	require.Equal(t, "Server Error", shttp.StatusText(599))
	require.Equal(t, "Unknown", shttp.StatusText(302))
}
