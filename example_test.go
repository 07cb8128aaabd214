package shttp_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/advdv/shttp"
	"github.com/cockroachdb/errors"
)

func Example() {
	mux := shttp.NewServeMux()

	mux.GetJSON("/items/{id:int}", func(_ context.Context, res *shttp.Response, req *shttp.Request) error {
		id, _ := req.Int("id")
		if id == 0 {
			return shttp.NewError(shttp.CodeBadRequest, errors.New("missing id"))
		}

		return res.JSON(map[string]any{"id": id, "name": "Example Item"})
	}, shttp.Named("get-item"))

	// Generate URL by route name
	url, _ := mux.Reverse("get-item", "123")
	fmt.Println("URL:", url)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/items/42", nil)
	mux.ServeHTTP(rec, req)

	fmt.Println("Status:", rec.Code)
	fmt.Println("Body:", rec.Body.String())
	// Output:
	// URL: /items/123
	// Status: 200
	// Body: {"id":42,"name":"Example Item"}
}

func ExampleNewError() {
	mux := shttp.NewServeMux()

	mux.Get("/protected", func(_ context.Context, res *shttp.Response, req *shttp.Request) error {
		if req.Std().Header.Get("Authorization") == "" {
			return shttp.NewError(shttp.CodeUnauthorized, errors.New("missing token"))
		}

		return res.End([]byte("welcome")).Err()
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

	fmt.Println("Status:", rec.Code)
	fmt.Println("Body:", rec.Body.String())
	// Output:
	// Status: 401
	// Body: missing token
}

func ExampleNextRoute() {
	mux := shttp.NewServeMux()

	mux.Get("/greet/{name:str}", func(_ context.Context, res *shttp.Response, req *shttp.Request) error {
		res.SetUserValue("hello " + req.Str("name"))
		return nil
	}, shttp.Chain(shttp.NextRoute("render")))

	mux.Get("/greet", func(_ context.Context, res *shttp.Response, _ *shttp.Request) error {
		return res.End([]byte(fmt.Sprint(res.UserValue()))).Err()
	}, shttp.Named("render"))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/greet/gopher", nil))

	fmt.Println(rec.Body.String())
	// Output:
	// hello gopher
}
