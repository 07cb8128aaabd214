// Package srvtest provides test helpers for srv applications.
//
// It constructs the identical DI graph as [srv.NewApp] but uses
// [fxtest.App] which fails the test immediately on DI errors.
//
//	srvtest.SetBaseEnv(t, 18081)
//	app := srvtest.New[TestEnv](t, routing)
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package srvtest

import (
	"testing"

	"github.com/advdv/shttp/srv"
	"go.uber.org/fx/fxtest"
)

// App embeds *fxtest.App for testing srv applications.
type App struct {
	*fxtest.App
}

// New creates a test app with the same DI graph as [srv.NewApp].
func New[E srv.Environment](t testing.TB, routing any, opts ...srv.Option) *App {
	return &App{App: fxtest.New(t, srv.FxOptions[E](routing, opts...)...)}
}
