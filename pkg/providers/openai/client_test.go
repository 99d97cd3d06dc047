package openai

import (
	"context"
	"errors"
	"testing"
	"time"

	"docforge/studio/internal/testutil"
	"docforge/studio/pkg/providers"
)

func newTestProvider(t *testing.T, baseURL string, timeout time.Duration) *Provider {
	t.Helper()
	p, err := NewProvider(providers.ProviderConfig{
		Name:    "openai",
		BaseURL: baseURL,
		APIKey:  "sk-test",
		Timeout: timeout,
	}, nil)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestNewProvider_Validation(t *testing.T) {
	tests := []struct {
		name   string
		config providers.ProviderConfig
		field  string
	}{
		{"missing name", providers.ProviderConfig{APIKey: "sk"}, "name"},
		{"missing key", providers.ProviderConfig{Name: "openai"}, "api_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.config, nil)
			var cerr *providers.ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected ConfigError, got %T", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, cerr.Field)
			}
		})
	}

	t.Run("default base url", func(t *testing.T) {
		p, err := NewProvider(providers.ProviderConfig{Name: "openai", APIKey: "sk"}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.GetConfig().BaseURL != DefaultBaseURL {
			t.Errorf("expected default base url, got %q", p.GetConfig().BaseURL)
		}
	})
}

func TestSendCompletion_Success(t *testing.T) {
	mock := testutil.NewMockServer()
	defer mock.Close()
	mock.SetResponse(testutil.ChatCompletionsPath, testutil.MockCompletion("CONTRACT"))

	p := newTestProvider(t, mock.URL()+"/", 5*time.Second)

	resp, err := p.SendCompletion(context.Background(), &providers.CompletionRequest{
		Model: "gpt-3.5-turbo",
		Messages: []providers.Message{
			{Role: providers.RoleSystem, Content: "sys"},
			{Role: providers.RoleUser, Content: "usr"},
		},
		Temperature: providers.Float64(0.7),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "CONTRACT" {
		t.Errorf("expected content CONTRACT, got %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 30 {
		t.Errorf("expected 30 tokens, got %d", resp.Usage.TotalTokens)
	}

	req := mock.LastRequest()
	if req.Path != testutil.ChatCompletionsPath {
		t.Errorf("expected path %s, got %s", testutil.ChatCompletionsPath, req.Path)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer sk-test" {
		t.Errorf("unexpected Authorization header %q", got)
	}

	body := req.JSON()
	if body["temperature"] != 0.7 {
		t.Errorf("expected temperature 0.7, got %v", body["temperature"])
	}
	messages, _ := body["messages"].([]interface{})
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if first, _ := messages[0].(map[string]interface{}); first["role"] != "system" {
		t.Errorf("expected first message to be system, got %v", first["role"])
	}
}

func TestSendCompletion_OmitsUnsetTemperature(t *testing.T) {
	mock := testutil.NewMockServer()
	defer mock.Close()
	mock.SetResponse(testutil.ChatCompletionsPath, testutil.MockCompletion("ok"))

	p := newTestProvider(t, mock.URL(), 5*time.Second)

	_, err := p.SendCompletion(context.Background(), &providers.CompletionRequest{
		Model:    "gpt-3.5-turbo",
		Messages: []providers.Message{{Role: providers.RoleUser, Content: "ping"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, present := mock.LastRequest().JSON()["temperature"]; present {
		t.Error("expected temperature to be omitted")
	}
}

func TestSendCompletion_Errors(t *testing.T) {
	tests := []struct {
		name     string
		response testutil.MockResponse
		check    func(t *testing.T, err error)
	}{
		{
			name:     "auth",
			response: testutil.MockAuthError(),
			check: func(t *testing.T, err error) {
				if !errors.Is(err, providers.ErrAuth) {
					t.Errorf("expected ErrAuth, got %v", err)
				}
			},
		},
		{
			name:     "rate limit",
			response: testutil.MockRateLimitError(3),
			check: func(t *testing.T, err error) {
				if !errors.Is(err, providers.ErrRateLimit) {
					t.Errorf("expected ErrRateLimit, got %v", err)
				}
			},
		},
		{
			name:     "no choices",
			response: testutil.MockNoChoices(),
			check: func(t *testing.T, err error) {
				if !errors.Is(err, providers.ErrMalformed) {
					t.Errorf("expected ErrMalformed, got %v", err)
				}
			},
		},
		{
			name:     "malformed",
			response: testutil.MockResponse{StatusCode: 200, Body: "{"},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, providers.ErrMalformed) {
					t.Errorf("expected ErrMalformed, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockServer()
			defer mock.Close()
			mock.SetResponse(testutil.ChatCompletionsPath, tt.response)

			p := newTestProvider(t, mock.URL(), 5*time.Second)
			_, err := p.SendCompletion(context.Background(), &providers.CompletionRequest{
				Model:    "gpt-3.5-turbo",
				Messages: []providers.Message{{Role: providers.RoleUser, Content: "x"}},
			})
			if err == nil {
				t.Fatal("expected error")
			}
			tt.check(t, err)

			if mock.RequestCount() != 1 {
				t.Errorf("expected exactly one upstream request, got %d", mock.RequestCount())
			}
		})
	}
}

func TestSendCompletion_InvalidRequest(t *testing.T) {
	p := newTestProvider(t, "http://127.0.0.1:1", time.Second)

	tests := []struct {
		name string
		req  *providers.CompletionRequest
	}{
		{"nil", nil},
		{"no model", &providers.CompletionRequest{Messages: []providers.Message{{Role: "user"}}}},
		{"no messages", &providers.CompletionRequest{Model: "m"}},
		{"no role", &providers.CompletionRequest{Model: "m", Messages: []providers.Message{{Content: "x"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.SendCompletion(context.Background(), tt.req)
			var target *providers.ValidationError
			if !errors.As(err, &target) {
				t.Errorf("expected ValidationError, got %T", err)
			}
		})
	}
}
