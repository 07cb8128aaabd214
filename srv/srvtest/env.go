package srvtest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [srv.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets all [srv.BaseEnvironment] env vars to sensible test defaults.
// Port is required because each test must use a unique port to avoid collisions.
//
// Defaults:
//   - SHTTP_HOSTNAME: "localhost"
//   - SHTTP_SERVICE_NAME: "test"
//   - SHTTP_OTEL_EXPORTER: "none"
//   - AWS_REGION: "us-east-1"
//   - AWS_ACCESS_KEY_ID: "test"
//   - AWS_SECRET_ACCESS_KEY: "test"
//
// Use the returned [Env] to override individual values:
//
//	srvtest.SetBaseEnv(t, 18085).ServiceName("calc").RoutesService("calc")
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("SHTTP_PORT", strconv.Itoa(port))
	t.Setenv("SHTTP_HOSTNAME", "localhost")
	t.Setenv("SHTTP_SERVICE_NAME", "test")
	t.Setenv("SHTTP_OTEL_EXPORTER", "none")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	return &Env{t: t}
}

// ServiceName overrides SHTTP_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("SHTTP_SERVICE_NAME", name)
	return e
}

// RoutesService sets SHTTP_ROUTES_SERVICE to expose the route list.
func (e *Env) RoutesService(svc string) *Env {
	e.t.Helper()
	e.t.Setenv("SHTTP_ROUTES_SERVICE", svc)
	return e
}

// StaticBucket sets SHTTP_STATIC_BUCKET and SHTTP_STATIC_PREFIX.
func (e *Env) StaticBucket(bucket, prefix string) *Env {
	e.t.Helper()
	e.t.Setenv("SHTTP_STATIC_BUCKET", bucket)
	e.t.Setenv("SHTTP_STATIC_PREFIX", prefix)
	return e
}

// Set overrides any other variable, such as the SHTTP_ router defaults.
func (e *Env) Set(key, value string) *Env {
	e.t.Helper()
	e.t.Setenv(key, value)
	return e
}
