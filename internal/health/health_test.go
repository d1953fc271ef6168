// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ngsim/botindex/internal/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChecker struct {
	name   string
	status Status
}

func (m *mockChecker) Name() string { return m.name }

func (m *mockChecker) Check(_ context.Context) CheckResult {
	return CheckResult{Status: m.status}
}

type fakeSource struct {
	current *site.Result
	status  site.Status
}

func (f *fakeSource) Current() *site.Result { return f.current }
func (f *fakeSource) Status() site.Status   { return f.status }

func TestNewManager(t *testing.T) {
	m := NewManager("v1.2.3")
	assert.Equal(t, "v1.2.3", m.version)
	assert.Empty(t, m.checkers)
}

func TestManager_Health(t *testing.T) {
	m := NewManager("v1.0.0")
	m.RegisterChecker(&mockChecker{name: "healthy", status: StatusHealthy})
	m.RegisterChecker(&mockChecker{name: "degraded", status: StatusDegraded})

	resp := m.Health(context.Background(), false)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Nil(t, resp.Checks)
	assert.GreaterOrEqual(t, resp.Uptime, int64(0))

	resp = m.Health(context.Background(), true)
	assert.Equal(t, StatusDegraded, resp.Status)
	require.Len(t, resp.Checks, 2)
	assert.Equal(t, StatusDegraded, resp.Checks["degraded"].Status)
}

func TestManager_Ready(t *testing.T) {
	t.Run("no checkers", func(t *testing.T) {
		resp := NewManager("v1").Ready(context.Background())
		assert.True(t, resp.Ready)
		assert.Equal(t, StatusHealthy, resp.Status)
	})

	t.Run("degraded is still ready", func(t *testing.T) {
		m := NewManager("v1")
		m.RegisterChecker(&mockChecker{name: "page", status: StatusDegraded})
		resp := m.Ready(context.Background())
		assert.True(t, resp.Ready)
		assert.Equal(t, StatusDegraded, resp.Status)
	})

	t.Run("unhealthy is not ready", func(t *testing.T) {
		m := NewManager("v1")
		m.RegisterChecker(&mockChecker{name: "a", status: StatusDegraded})
		m.RegisterChecker(&mockChecker{name: "b", status: StatusUnhealthy})
		resp := m.Ready(context.Background())
		assert.False(t, resp.Ready)
		assert.Equal(t, StatusUnhealthy, resp.Status)
	})
}

func TestServeHealth(t *testing.T) {
	m := NewManager("v1")
	m.RegisterChecker(&mockChecker{name: "page", status: StatusUnhealthy})

	rec := httptest.NewRecorder()
	m.ServeHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz?verbose=true", nil))

	assert.Equal(t, http.StatusOK, rec.Code, "liveness stays 200")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Contains(t, resp.Checks, "page")
}

func TestServeReady(t *testing.T) {
	m := NewManager("v1")
	src := &fakeSource{}
	m.RegisterChecker(NewPageChecker(src))

	rec := httptest.NewRecorder()
	m.ServeReady(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	src.current = &site.Result{}
	rec = httptest.NewRecorder()
	m.ServeReady(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Ready)
}

func TestPageChecker(t *testing.T) {
	tests := []struct {
		name   string
		src    *fakeSource
		status Status
	}{
		{"never built", &fakeSource{}, StatusUnhealthy},
		{"first build failed", &fakeSource{status: site.Status{Error: "boom"}}, StatusUnhealthy},
		{"published", &fakeSource{current: &site.Result{}}, StatusHealthy},
		{"rebuild failed", &fakeSource{current: &site.Result{}, status: site.Status{Error: "boom"}}, StatusDegraded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewPageChecker(tt.src).Check(context.Background())
			assert.Equal(t, tt.status, res.Status)
		})
	}
}

func TestFileChecker(t *testing.T) {
	dir := t.TempDir()

	full := filepath.Join(dir, "vercel.json")
	require.NoError(t, os.WriteFile(full, []byte(`{"rewrites":[],"redirects":[]}`), 0o600))
	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))

	assert.Equal(t, StatusHealthy, NewFileChecker("routes", full).Check(context.Background()).Status)
	assert.Equal(t, StatusDegraded, NewFileChecker("routes", empty).Check(context.Background()).Status)
	assert.Equal(t, StatusUnhealthy, NewFileChecker("routes", dir).Check(context.Background()).Status)

	res := NewFileChecker("routes", filepath.Join(dir, "missing.json")).Check(context.Background())
	assert.Equal(t, StatusUnhealthy, res.Status)
	assert.Equal(t, "file not found", res.Error)
}

func TestPerformStartupChecks(t *testing.T) {
	dir := t.TempDir()
	routesPath := filepath.Join(dir, "vercel.json")
	require.NoError(t, os.WriteFile(routesPath, []byte(`{"rewrites":[{"source":"/echo","destination":"https://echo.example"}],"redirects":[]}`), 0o600))

	cfg := configFor(routesPath, filepath.Join(dir, "public"))
	require.NoError(t, PerformStartupChecks(context.Background(), cfg, StartupOptions{RequireOutDir: true}))
	assert.DirExists(t, filepath.Join(dir, "public"))

	entries, err := os.ReadDir(filepath.Join(dir, "public"))
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file must be removed")
}

func TestPerformStartupChecks_BadRoutes(t *testing.T) {
	dir := t.TempDir()
	routesPath := filepath.Join(dir, "vercel.json")
	require.NoError(t, os.WriteFile(routesPath, []byte(`{"rewrites":[]}`), 0o600))

	err := PerformStartupChecks(context.Background(), configFor(routesPath, dir), StartupOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "routing config check failed")
}

func TestPerformStartupChecks_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := PerformStartupChecks(ctx, configFor("unused", t.TempDir()), StartupOptions{})
	assert.True(t, errors.Is(err, context.Canceled))
}
