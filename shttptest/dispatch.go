package shttptest

import (
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/advdv/shttp"
)

// Dispatch serves a request built from method, target and body on a fresh Conn and returns the
// connection once dispatch finished.
func Dispatch(mux *shttp.ServeMux, method, target string, body io.Reader, header ...string) *Conn {
	req := httptest.NewRequest(method, target, body)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	return DispatchRequest(mux, req)
}

// DispatchRequest serves req on a fresh Conn.
func DispatchRequest(mux *shttp.ServeMux, req *http.Request) *Conn {
	conn := NewConn()
	mux.Dispatch(req.Context(), conn, mux.NewRequest(req))
	return conn
}
