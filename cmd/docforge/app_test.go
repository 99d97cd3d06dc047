package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docforge/studio/internal/testutil"
	"docforge/studio/pkg/config"
	"docforge/studio/pkg/graph/storage"
)

func testConfig(t *testing.T, mock *testutil.MockServer) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.OpenAI.APIKey = "sk-test-1234567890"
	cfg.OpenAI.BaseURL = mock.URL()
	cfg.Graph.Backend = storage.BackendMemory
	cfg.Server.Debug = false
	return cfg
}

func startApp(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()
	app, err := newApp(cfg, io.Discard)
	if err != nil {
		t.Fatalf("newApp failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := app.Start(ctx); err != nil {
		cancel()
		t.Fatalf("Start failed: %v", err)
	}

	srv := httptest.NewServer(app.Handler)
	t.Cleanup(func() {
		srv.Close()
		cancel()
		if err := app.Close(context.Background()); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestApp_ServesEditorAndAPI(t *testing.T) {
	mock := testutil.NewMockServer()
	defer mock.Close()
	mock.SetResponse(testutil.ChatCompletionsPath, testutil.MockCompletion("CONTRACT"))

	srv := startApp(t, testConfig(t, mock))

	t.Run("index", func(t *testing.T) {
		resp, body := get(t, srv.URL+"/")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		if !strings.Contains(body, config.DefaultWebTitle) {
			t.Errorf("Expected page title in body")
		}
		if resp.Header.Get("X-Request-ID") == "" {
			t.Error("Expected X-Request-ID header from the middleware chain")
		}
	})

	t.Run("generate", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/generate-template", "application/json",
			strings.NewReader(`{"fields":{"x":1}}`))
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		defer resp.Body.Close()

		var payload map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("Failed to decode: %v", err)
		}
		if resp.StatusCode != http.StatusOK || payload["template"] != "CONTRACT" {
			t.Errorf("Unexpected response %d %v", resp.StatusCode, payload)
		}
	})

	t.Run("graph", func(t *testing.T) {
		resp, body := get(t, srv.URL+"/api/graph")
		if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"nodes"`) {
			t.Errorf("Unexpected graph response %d %s", resp.StatusCode, body)
		}
	})

	t.Run("no revisions on memory backend", func(t *testing.T) {
		resp, _ := get(t, srv.URL+"/api/graph/revisions")
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("health", func(t *testing.T) {
		resp, _ := get(t, srv.URL+"/health")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("metrics", func(t *testing.T) {
		resp, body := get(t, srv.URL+config.DefaultMetricsPath)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		for _, name := range []string{"docforge_build_info", "docforge_http_requests_total", "docforge_completion_requests_total"} {
			if !strings.Contains(body, name) {
				t.Errorf("Expected %s in scrape", name)
			}
		}
	})
}

func TestApp_SQLiteReadiness(t *testing.T) {
	mock := testutil.NewMockServer()
	defer mock.Close()

	cfg := testConfig(t, mock)
	cfg.Graph.Backend = storage.BackendSQLite
	cfg.Graph.SQLite.Path = filepath.Join(t.TempDir(), "graph.db")
	cfg.Graph.Retention.Schedule = "0 3 * * *"

	srv := startApp(t, cfg)

	resp, body := get(t, srv.URL+"/ready")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, storageCheck) {
		t.Errorf("Expected %s check in readiness body, got %s", storageCheck, body)
	}

	resp, body = get(t, srv.URL+"/api/graph/revisions")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 for revisions, got %d: %s", resp.StatusCode, body)
	}
}

func TestApp_DiskAssetsWithWatcher(t *testing.T) {
	mock := testutil.NewMockServer()
	defer mock.Close()

	dir := t.TempDir()
	for path, content := range map[string]string{
		"templates/index.html": "<title>{{.Title}}</title>",
		"static/js/app.js":     "console.log('ok')",
	} {
		full := filepath.Join(dir, path)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := testConfig(t, mock)
	cfg.Web.Dir = dir
	cfg.Web.Title = "Disk Editor"
	cfg.Server.Debug = true

	srv := startApp(t, cfg)

	if _, body := get(t, srv.URL+"/"); body != "<title>Disk Editor</title>" {
		t.Errorf("Unexpected index body %q", body)
	}
	if resp, body := get(t, srv.URL+"/static/js/app.js"); resp.StatusCode != http.StatusOK || body != "console.log('ok')" {
		t.Errorf("Unexpected static response %d %q", resp.StatusCode, body)
	}
}

func TestNewApp_Errors(t *testing.T) {
	mock := testutil.NewMockServer()
	defer mock.Close()

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"unknown backend", func(c *config.Config) { c.Graph.Backend = "bogus" }},
		{"missing api key", func(c *config.Config) { c.OpenAI.APIKey = "" }},
		{"missing web dir", func(c *config.Config) { c.Web.Dir = filepath.Join(t.TempDir(), "absent") }},
		{"bad log level", func(c *config.Config) { c.Telemetry.Logging.Level = "loud" }},
		{"unopenable sqlite path", func(c *config.Config) {
			file := filepath.Join(t.TempDir(), "not-a-dir")
			if err := os.WriteFile(file, nil, 0o644); err != nil {
				t.Fatal(err)
			}
			c.Graph.Backend = storage.BackendSQLite
			c.Graph.SQLite.Path = filepath.Join(file, "sub", "graph.db")
		}},
		{"failure after backend opened", func(c *config.Config) {
			c.Graph.Backend = storage.BackendSQLite
			c.Graph.SQLite.Path = filepath.Join(t.TempDir(), "graph.db")
			c.Web.Dir = filepath.Join(t.TempDir(), "absent")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t, mock)
			tt.mutate(cfg)
			app, err := newApp(cfg, io.Discard)
			if err == nil {
				t.Fatal("Expected error")
			}
			if app != nil {
				t.Error("Expected nil app on error")
			}
		})
	}
}

func TestApp_CloseNil(t *testing.T) {
	var app *App
	if err := app.Close(context.Background()); err != nil {
		t.Errorf("Expected nil error closing a nil app, got %v", err)
	}
}
