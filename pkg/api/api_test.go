package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"docforge/studio/internal/testutil"
	"docforge/studio/pkg/completion"
	"docforge/studio/pkg/graph"
	"docforge/studio/pkg/graph/storage"
	"docforge/studio/pkg/prompt"
	"docforge/studio/pkg/providers"
	"docforge/studio/pkg/providers/openai"
	"docforge/studio/pkg/web"
)

type testEnv struct {
	server *httptest.Server
	mock   *testutil.MockServer
	logs   *testutil.LogRecorder
	memory *storage.MemoryBackend
}

type envOptions struct {
	backend   graph.Backend
	revisions RevisionLister
	prompt    PromptBuilder
	maxBytes  int64
}

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	mock := testutil.NewMockServer()
	t.Cleanup(mock.Close)
	logs := testutil.NewLogRecorder()
	logger := logs.Logger()

	provider, err := openai.NewProvider(providers.ProviderConfig{
		Name:    "openai",
		BaseURL: mock.URL(),
		APIKey:  "sk-test",
		Timeout: 2 * time.Second,
	}, logger)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Close() })

	client, err := completion.New(provider, completion.Options{
		Model:   "gpt-3.5-turbo",
		Timeout: 2 * time.Second,
		Logger:  logger,
	})
	if err != nil {
		t.Fatalf("Failed to create completion client: %v", err)
	}

	profile, _ := prompt.Builtin("es")
	builder, err := prompt.NewBuilder(profile)
	if err != nil {
		t.Fatalf("Failed to create builder: %v", err)
	}

	var pb PromptBuilder = builder
	if opts.prompt != nil {
		pb = opts.prompt
	}

	env := &testEnv{mock: mock, logs: logs}
	backend := opts.backend
	if backend == nil {
		env.memory = storage.NewMemoryBackend()
		backend = env.memory
	}

	fsys := fstest.MapFS{
		"templates/index.html": {Data: []byte("<title>{{.Title}}</title>")},
		"static/js/app.js":     {Data: []byte("app")},
	}
	renderer, err := web.NewRenderer(fsys, web.PageData{Title: "DocForge"})
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}
	static, _ := web.StaticHandler(fsys)

	router, err := NewRouter(Dependencies{
		Completion:   client,
		Prompt:       pb,
		Graph:        graph.NewService(backend, logger),
		Revisions:    opts.revisions,
		Page:         renderer,
		Static:       static,
		MaxBodyBytes: opts.maxBytes,
		Logger:       logger,
	})
	if err != nil {
		t.Fatalf("Failed to create router: %v", err)
	}

	env.server = httptest.NewServer(router)
	t.Cleanup(env.server.Close)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, e.server.URL+path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]interface{}
	_ = json.Unmarshal(raw, &decoded)
	return resp.StatusCode, decoded
}

func countLevel(logs *testutil.LogRecorder, level string) int {
	n := 0
	for _, e := range logs.Entries() {
		if e["level"] == level {
			n++
		}
	}
	return n
}

func TestGenerateTemplate_MissingFields(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"empty body", ``},
		{"null body", `null`},
		{"null fields", `{"fields": null}`},
		{"other keys", `{"field": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, "/api/generate-template", tt.body)

			if status != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", status)
			}
			if body["status"] != "error" || body["message"] != "Missing required fields parameter" {
				t.Errorf("Unexpected body %v", body)
			}
		})
	}

	if env.mock.RequestCount() != 0 {
		t.Errorf("Expected no upstream calls, got %d", env.mock.RequestCount())
	}
}

func TestGenerateTemplate_MalformedBody(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	for _, body := range []string{`{`, `[1,2]`, `"fields"`} {
		status, resp := env.do(t, http.MethodPost, "/api/generate-template", body)
		if status != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, status)
		}
		if resp["status"] != "error" || resp["message"] != "Invalid JSON body" {
			t.Errorf("body %q: unexpected response %v", body, resp)
		}
	}
}

func TestGenerateTemplate_BodyTooLarge(t *testing.T) {
	env := newTestEnv(t, envOptions{maxBytes: 64})

	body := `{"fields": {"pad": "` + strings.Repeat("x", 200) + `"}}`
	status, resp := env.do(t, http.MethodPost, "/api/generate-template", body)

	if status != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected 413, got %d", status)
	}
	if resp["status"] != "error" {
		t.Errorf("Unexpected body %v", resp)
	}
}

func TestGenerateTemplate_Success(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	content := "CONTRATO\n{{#each vendedor}}{{this.name}}{{/each}}"
	env.mock.SetResponse(testutil.ChatCompletionsPath, testutil.MockCompletion(content))

	status, body := env.do(t, http.MethodPost, "/api/generate-template", `{"fields": {}}`)

	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%v)", status, body)
	}
	if body["status"] != "success" || body["template"] != content {
		t.Errorf("Unexpected body %v", body)
	}

	upstream := env.mock.LastRequest().JSON()
	messages := upstream["messages"].([]interface{})
	if len(messages) != 2 {
		t.Fatalf("Expected 2 upstream messages, got %d", len(messages))
	}
	system := messages[0].(map[string]interface{})
	user := messages[1].(map[string]interface{})
	if system["role"] != "system" || system["content"] != prompt.DefaultSystemInstruction {
		t.Errorf("Unexpected system message %v", system)
	}

	userPrompt := user["content"].(string)
	for _, want := range []string{
		"{{#each vendedor}}",
		"{{#each comprador}}",
		"- DNI: {{this.dni}}",
		"{{/each}}",
		"Spanish",
	} {
		if !strings.Contains(userPrompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}

func TestGenerateTemplate_FieldValuesIgnored(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	env.mock.SetResponse(testutil.ChatCompletionsPath, testutil.MockCompletion("ok"))

	var prompts []string
	for _, body := range []string{
		`{"fields": {}}`,
		`{"fields": {"vendedor": [{"name": "Ana"}]}}`,
		`{"fields": "anything"}`,
	} {
		status, _ := env.do(t, http.MethodPost, "/api/generate-template", body)
		if status != http.StatusOK {
			t.Fatalf("body %s: expected 200, got %d", body, status)
		}
		msgs := env.mock.LastRequest().JSON()["messages"].([]interface{})
		prompts = append(prompts, msgs[1].(map[string]interface{})["content"].(string))
	}

	for i := 1; i < len(prompts); i++ {
		if prompts[i] != prompts[0] {
			t.Errorf("Expected identical prompts regardless of field values")
		}
	}
}

type recordingPrompt struct {
	got []any
}

func (p *recordingPrompt) Build(fields any) string {
	p.got = append(p.got, fields)
	return "prompt"
}

func (p *recordingPrompt) SystemInstruction() string { return "system" }

func TestGenerateTemplate_ForwardsRawFields(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"object", `{"fields": {"vendedor": []}}`, `{"vendedor": []}`},
		{"array", `{"fields": []}`, `[]`},
		{"string", `{"fields": "x"}`, `"x"`},
		{"number", `{"fields": 42}`, `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingPrompt{}
			env := newTestEnv(t, envOptions{prompt: rec})
			env.mock.SetResponse(testutil.ChatCompletionsPath, testutil.MockCompletion("ok"))

			status, _ := env.do(t, http.MethodPost, "/api/generate-template", tt.body)
			if status != http.StatusOK {
				t.Fatalf("Expected 200, got %d", status)
			}
			if len(rec.got) != 1 {
				t.Fatalf("Expected one Build call, got %d", len(rec.got))
			}
			raw, ok := rec.got[0].(json.RawMessage)
			if !ok {
				t.Fatalf("Expected json.RawMessage, got %T", rec.got[0])
			}
			if string(raw) != tt.want {
				t.Errorf("Expected fields %s, got %s", tt.want, raw)
			}
		})
	}
}

func TestGenerateTemplate_CompletionFailure(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	env.mock.SetResponse(testutil.ChatCompletionsPath, testutil.MockErrorResponse(500, "upstream exploded"))

	status, body := env.do(t, http.MethodPost, "/api/generate-template", `{"fields": {}}`)

	if status != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", status)
	}
	message, _ := body["message"].(string)
	if body["status"] != "error" || !strings.HasPrefix(message, "Failed to generate template: ") {
		t.Errorf("Unexpected body %v", body)
	}
	if env.mock.RequestCount() != 1 {
		t.Errorf("Expected a single upstream attempt, got %d", env.mock.RequestCount())
	}
	if n := countLevel(env.logs, "ERROR"); n != 1 {
		t.Errorf("Expected the failure logged once at error level, got %d:\n%s", n, env.logs.String())
	}
}

func TestTestCompletion(t *testing.T) {
	for _, path := range []string{"/api/test-completion", "/api/test-openai"} {
		t.Run(path, func(t *testing.T) {
			env := newTestEnv(t, envOptions{})
			env.mock.SetResponse(testutil.ChatCompletionsPath, testutil.MockCompletion("OpenAI is working!"))

			status, body := env.do(t, http.MethodGet, path, "")

			if status != http.StatusOK {
				t.Fatalf("Expected 200, got %d", status)
			}
			if body["status"] != "success" || body["message"] != "OpenAI is working!" {
				t.Errorf("Unexpected body %v", body)
			}

			msgs := env.mock.LastRequest().JSON()["messages"].([]interface{})
			if msgs[0].(map[string]interface{})["content"] != completion.PingPrompt {
				t.Errorf("Unexpected ping prompt %v", msgs[0])
			}
		})
	}
}

func TestTestCompletion_Failure(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	env.mock.SetResponse(testutil.ChatCompletionsPath, testutil.MockAuthError())

	status, body := env.do(t, http.MethodGet, "/api/test-completion", "")

	if status != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", status)
	}
	if message, _ := body["message"].(string); body["status"] != "error" || message == "" {
		t.Errorf("Unexpected body %v", body)
	}
	if n := env.logs.Count("completion failed"); n != 1 {
		t.Errorf("Expected failure logged once, got %d", n)
	}
	if n := countLevel(env.logs, "ERROR"); n != 1 {
		t.Errorf("Expected a single error-level record, got %d", n)
	}
}

func TestGetGraph(t *testing.T) {
	for _, path := range []string{"/api/graph", "/api/nodes"} {
		t.Run(path, func(t *testing.T) {
			env := newTestEnv(t, envOptions{backend: storage.NewLogBackend(nil)})

			resp, err := http.Get(env.server.URL + path)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("Expected 200, got %d", resp.StatusCode)
			}

			raw, _ := io.ReadAll(resp.Body)
			var g graph.Graph
			if err := json.Unmarshal(raw, &g); err != nil {
				t.Fatalf("Invalid graph JSON: %v", err)
			}
			if len(g.Nodes) != 2 {
				t.Fatalf("Expected 2 nodes, got %d", len(g.Nodes))
			}
			if g.Nodes[0].ID != 1 || g.Nodes[0].Type != "dni" {
				t.Errorf("Unexpected first node %+v", g.Nodes[0])
			}
			if g.Nodes[1].ID != 2 || g.Nodes[1].Type != "DocBuilder" {
				t.Errorf("Unexpected second node %+v", g.Nodes[1])
			}
			if !strings.Contains(string(raw), `"connections":[]`) {
				t.Errorf("Expected connections to be an empty array, got %s", raw)
			}
		})
	}
}

func TestSaveGraph(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	body := `{"nodes": [{"id": 5, "x": 1, "y": 2, "type": "dni", "title": "T", "inputs": [], "outputs": []}],
	          "connections": [{"from": "out_5", "to": "in_2_vendedor"}]}`
	status, resp := env.do(t, http.MethodPost, "/api/nodes", body)

	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d (%v)", status, resp)
	}
	if resp["status"] != "success" || resp["message"] != MessageNodesSaved {
		t.Errorf("Unexpected body %v", resp)
	}
	if n := env.logs.Count("Saving 1 nodes and 1 connections"); n != 1 {
		t.Errorf("Expected one save log line, got %d", n)
	}

	g, _ := env.memory.Load(context.Background())
	if len(g.Nodes) != 1 || g.Nodes[0].ID != 5 {
		t.Errorf("Expected saved graph to be stored, got %+v", g)
	}
	if len(g.Connections) != 1 || string(g.Connections[0]) != `{"from": "out_5", "to": "in_2_vendedor"}` {
		t.Errorf("Expected connection preserved verbatim, got %s", g.Connections)
	}
}

func TestSaveGraph_ConnectionsOptional(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	status, _ := env.do(t, http.MethodPost, "/api/graph", `{"nodes": []}`)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if env.logs.Count("Saving 0 nodes and 0 connections") != 1 {
		t.Error("Expected save log with zero counts")
	}
}

func TestSaveGraph_MissingNodes(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	for _, body := range []string{`{}`, `{"connections": []}`, `{"nodes": null}`, ``} {
		status, resp := env.do(t, http.MethodPost, "/api/graph", body)
		if status != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, status)
		}
		if resp["message"] != "Missing required nodes parameter" {
			t.Errorf("body %q: unexpected message %v", body, resp["message"])
		}
	}
	if env.memory.Saves() != 0 {
		t.Error("Expected nothing stored")
	}
}

func TestSaveGraph_MalformedNodes(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	tests := []struct {
		name string
		body string
	}{
		{"nodes object", `{"nodes": {"id": 1}}`},
		{"nodes string", `{"nodes": "x"}`},
		{"string id", `{"nodes": [{"id": "5"}]}`},
		{"fractional id", `{"nodes": [{"id": 1.5}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := env.do(t, http.MethodPost, "/api/graph", tt.body)
			if status != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", status)
			}
			if resp["status"] != "error" || resp["message"] != "Invalid JSON body" {
				t.Errorf("Unexpected body %v", resp)
			}
		})
	}
	if env.memory.Saves() != 0 {
		t.Error("Expected nothing stored")
	}
}

type failingBackend struct{}

func (failingBackend) Load(context.Context) (graph.Graph, error) { return graph.Default(), nil }
func (failingBackend) Store(context.Context, graph.Graph) error  { return errors.New("disk full") }
func (failingBackend) Name() string                              { return "failing" }
func (failingBackend) Close() error                              { return nil }

func TestSaveGraph_PersistenceFailure(t *testing.T) {
	env := newTestEnv(t, envOptions{backend: failingBackend{}})

	status, resp := env.do(t, http.MethodPost, "/api/graph", `{"nodes": []}`)

	if status != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", status)
	}
	if resp["status"] != "error" || resp["message"] != MessageSaveFailed {
		t.Errorf("Unexpected body %v", resp)
	}
	if n := countLevel(env.logs, "ERROR"); n != 1 {
		t.Errorf("Expected failure logged once, got %d", n)
	}
}

type fakeRevisions struct {
	limit int
}

func (f *fakeRevisions) Revisions(_ context.Context, limit int) ([]storage.Revision, error) {
	f.limit = limit
	return []storage.Revision{{ID: "r1", NodeCount: 2, ConnectionCount: 1}}, nil
}

func TestListRevisions(t *testing.T) {
	t.Run("unsupported backend", func(t *testing.T) {
		env := newTestEnv(t, envOptions{})
		status, resp := env.do(t, http.MethodGet, "/api/graph/revisions", "")
		if status != http.StatusNotFound || resp["status"] != "error" {
			t.Errorf("Expected 404 error envelope, got %d %v", status, resp)
		}
	})

	t.Run("listed", func(t *testing.T) {
		lister := &fakeRevisions{}
		env := newTestEnv(t, envOptions{revisions: lister})

		status, resp := env.do(t, http.MethodGet, "/api/graph/revisions?limit=5", "")
		if status != http.StatusOK {
			t.Fatalf("Expected 200, got %d", status)
		}
		if lister.limit != 5 {
			t.Errorf("Expected limit 5, got %d", lister.limit)
		}
		revisions, _ := resp["revisions"].([]interface{})
		if len(revisions) != 1 {
			t.Fatalf("Expected 1 revision, got %v", resp)
		}
		rev, _ := revisions[0].(map[string]interface{})
		for key, want := range map[string]interface{}{"id": "r1", "nodes": float64(2), "connections": float64(1)} {
			if rev[key] != want {
				t.Errorf("Expected %s=%v, got %v", key, want, rev[key])
			}
		}
		if _, ok := rev["saved_at"]; !ok {
			t.Errorf("Expected saved_at in %v", rev)
		}
	})

	t.Run("bad limit", func(t *testing.T) {
		env := newTestEnv(t, envOptions{revisions: &fakeRevisions{}})
		status, _ := env.do(t, http.MethodGet, "/api/graph/revisions?limit=x", "")
		if status != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", status)
		}
	})
}

func TestIndexAndStatic(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	resp, err := http.Get(env.server.URL + "/")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "<title>DocForge</title>" {
		t.Errorf("Unexpected index response %d %q", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Unexpected content type %q", ct)
	}

	resp, err = http.Get(env.server.URL + "/static/js/app.js")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "app" {
		t.Errorf("Unexpected static response %d %q", resp.StatusCode, body)
	}
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name    string
		fn      HandlerFunc
		status  int
		message string
		level   string
	}{
		{
			name:    "validation",
			fn:      func(http.ResponseWriter, *http.Request) error { return missingParameter("fields") },
			status:  http.StatusBadRequest,
			message: "Missing required fields parameter",
			level:   "WARN",
		},
		{
			name: "persistence",
			fn: func(http.ResponseWriter, *http.Request) error {
				return &graph.PersistenceError{Op: "store", Cause: errors.New("x")}
			},
			status:  http.StatusInternalServerError,
			message: MessageSaveFailed,
		},
		{
			name:    "unexpected",
			fn:      func(http.ResponseWriter, *http.Request) error { return errors.New("secret internals") },
			status:  http.StatusInternalServerError,
			message: MessageUnexpected,
			level:   "ERROR",
		},
		{
			name:    "panic",
			fn:      func(http.ResponseWriter, *http.Request) error { panic("boom") },
			status:  http.StatusInternalServerError,
			message: MessageUnexpected,
			level:   "ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := testutil.NewLogRecorder()
			rec := httptest.NewRecorder()

			Handle(logs.Logger(), tt.fn).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if rec.Code != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, rec.Code)
			}
			var body MessageResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("Invalid envelope: %v", err)
			}
			if body.Status != StatusError || body.Message != tt.message {
				t.Errorf("Unexpected envelope %+v", body)
			}
			if tt.level != "" && countLevel(logs, tt.level) != 1 {
				t.Errorf("Expected one %s record, got:\n%s", tt.level, logs.String())
			}
			if tt.level == "ERROR" {
				if entry := logs.Entries()[0]; entry["stack"] == nil {
					t.Error("Expected stack trace on unexpected errors")
				}
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	status, body := env.do(t, http.MethodGet, "/api/unknown", "")
	if status != http.StatusNotFound || body["status"] != "error" {
		t.Errorf("Expected 404 envelope, got %d %v", status, body)
	}

	status, _ = env.do(t, http.MethodDelete, "/api/graph", "")
	if status != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", status)
	}
}
