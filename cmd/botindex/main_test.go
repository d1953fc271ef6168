// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ngsim/botindex/internal/api"
	"github.com/ngsim/botindex/internal/config"
	"github.com/ngsim/botindex/internal/listing"
	"github.com/ngsim/botindex/internal/routes"
	"github.com/ngsim/botindex/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routesJSON = `{
  "rewrites": [
    { "source": "/", "destination": "/index.html" },
    { "source": "/weather", "destination": "https://weather.example.com/:match*" },
    { "source": "/weather/:match*", "destination": "https://weather.example.com/:match*" },
    { "source": "/echo", "destination": "https://echo.example.com" }
  ],
  "redirects": [
    { "source": "/echo", "destination": "https://old-echo.example.com" }
  ]
}`

// setupWorkspace writes a config and routing file into a temp dir and
// returns the config path.
func setupWorkspace(t *testing.T, routes string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vercel.json"), []byte(routes), 0o600))
	cfgPath := filepath.Join(dir, "botindex.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("routes: vercel.json\noutDir: public\n"), 0o600))
	return cfgPath
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version.String()+"\n", out)
}

func TestBuildCommand(t *testing.T) {
	cfgPath := setupWorkspace(t, routesJSON)

	out, _, err := run(t, "--config", cfgPath, "build")
	require.NoError(t, err)

	indexPath := filepath.Join(filepath.Dir(cfgPath), "public", "index.html")
	assert.Equal(t, fmt.Sprintf("wrote %s (2 bots)\n", indexPath), out)

	html, err := os.ReadFile(indexPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), `<a href="https://bot.ngsim.net/echo">Echo</a>`)
	assert.Contains(t, string(html), `<a href="https://bot.ngsim.net/weather">Weather</a>`)
	assert.Contains(t, string(html), "© NGSIM")
}

func TestBuildCommand_OutFlag(t *testing.T) {
	cfgPath := setupWorkspace(t, routesJSON)
	outDir := filepath.Join(t.TempDir(), "dist")

	_, _, err := run(t, "--config", cfgPath, "build", "--out", outDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, "index.html"))
}

func TestBuildCommand_MissingRuleList(t *testing.T) {
	cfgPath := setupWorkspace(t, `{"rewrites": []}`)

	_, _, err := run(t, "--config", cfgPath, "build")
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(cfgPath), "public", "index.html"))
}

func TestListCommand(t *testing.T) {
	cfgPath := setupWorkspace(t, routesJSON)

	out, _, err := run(t, "--config", cfgPath, "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.True(t, strings.HasPrefix(lines[1], "Echo"))
	assert.True(t, strings.HasPrefix(lines[2], "Weather"))

	out, _, err = run(t, "--config", cfgPath, "list", "--json")
	require.NoError(t, err)
	var bots []listing.Bot
	require.NoError(t, json.Unmarshal([]byte(out), &bots))
	assert.Equal(t, []listing.Bot{
		{Path: "/echo", URL: "https://echo.example.com", Name: "Echo"},
		{Path: "/weather", URL: "https://weather.example.com", Name: "Weather"},
	}, bots)
}

func TestValidateCommand(t *testing.T) {
	cfgPath := setupWorkspace(t, routesJSON)
	routesPath := filepath.Join(filepath.Dir(cfgPath), "vercel.json")

	out, _, err := run(t, "--config", cfgPath, "validate")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("✓ %s is valid\n✓ %s is valid\n", cfgPath, routesPath), out)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"redirects": []}`), 0o600))
	_, _, err = run(t, "--config", cfgPath, "validate", bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, routes.ErrMissingRuleList)
	assert.Contains(t, err.Error(), "routing error in "+bad)
}

func TestRootCommand_BadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "botindex.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("routes: vercel.json\nbogus: 1\n"), 0o600))

	_, _, err := run(t, "--config", cfgPath, "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrUnknownConfigField)
	assert.Contains(t, err.Error(), "configuration error")
}

func TestRunServe(t *testing.T) {
	cfgPath := setupWorkspace(t, routesJSON)
	cfg, err := config.NewLoader(cfgPath, "test").Load()
	require.NoError(t, err)
	cfg.Server.ListenAddr = "127.0.0.1:0"
	cfg.Server.Watch = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srvCh := make(chan *api.Server, 1)
	done := make(chan error, 1)
	go func() {
		done <- runServe(ctx, cfg, func(s *api.Server) { srvCh <- s })
	}()

	var srv *api.Server
	select {
	case srv = <-srvCh:
	case <-time.After(5 * time.Second):
		t.Fatal("server was not created")
	}
	require.Eventually(t, func() bool { return srv.Addr() != nil }, 2*time.Second, 10*time.Millisecond)

	get := func(path string) (int, string) {
		resp, err := http.Get(fmt.Sprintf("http://%s%s", srv.Addr(), path))
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	code, body := get("/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, ">Weather</a>")

	code, _ = get("/readyz")
	assert.Equal(t, http.StatusOK, code)

	// Editing the routing file republishes the page.
	routesPath := filepath.Join(filepath.Dir(cfgPath), "vercel.json")
	updated := strings.Replace(routesJSON, `"redirects": [`, `"redirects": [
    { "source": "/quotes", "destination": "https://quotes.example.com" },`, 1)
	require.NoError(t, os.WriteFile(routesPath, []byte(updated), 0o600))

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://%s/api/bots", srv.Addr()))
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		return err == nil && strings.Contains(string(body), `"/quotes"`)
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}
