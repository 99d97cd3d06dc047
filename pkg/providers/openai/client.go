package openai

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"docforge/studio/pkg/providers"
)

// DefaultBaseURL is the public OpenAI API root.
const DefaultBaseURL = "https://api.openai.com/v1"

const (
	chatCompletionsPath = "/chat/completions"

	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
)

// Provider is the OpenAI chat-completions adapter.
type Provider struct {
	*providers.HTTPProvider
	endpoint string
	logger   *slog.Logger
}

// NewProvider creates an OpenAI adapter. Name and APIKey are required; the
// base URL defaults to DefaultBaseURL.
func NewProvider(cfg providers.ProviderConfig, logger *slog.Logger) (*Provider, error) {
	switch {
	case cfg.Name == "":
		return nil, &providers.ConfigError{Provider: "openai", Field: "name", Message: "provider name is required"}
	case cfg.APIKey == "":
		return nil, &providers.ConfigError{Provider: cfg.Name, Field: "api_key", Message: "API key is required for OpenAI"}
	}

	cfg.BaseURL = strings.TrimRight(cmp.Or(cfg.BaseURL, DefaultBaseURL), "/")
	cfg.Type = cmp.Or(cfg.Type, "openai")
	cfg.MaxIdleConns = cmp.Or(cfg.MaxIdleConns, defaultMaxIdleConns)
	cfg.MaxIdleConnsPerHost = cmp.Or(cfg.MaxIdleConnsPerHost, defaultMaxIdleConnsPerHost)

	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("provider", cfg.Name)
	logger.Info("OpenAI provider initialized", "base_url", cfg.BaseURL, "timeout", cfg.Timeout.String())

	return &Provider{
		HTTPProvider: providers.NewHTTPProvider(cfg, logger),
		endpoint:     cfg.BaseURL + chatCompletionsPath,
		logger:       logger,
	}, nil
}

// SendCompletion posts req to the chat-completions endpoint and returns
// the first choice.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	headers := map[string]string{"Authorization": "Bearer " + p.GetConfig().APIKey}

	var body chatResponse
	if err := p.DoJSONRequest(ctx, http.MethodPost, p.endpoint, newChatRequest(req), &body, headers); err != nil {
		return nil, err
	}

	resp, err := body.completion()
	if err != nil {
		return nil, &providers.UpstreamError{Provider: p.GetName(), Kind: providers.KindMalformed, Cause: err}
	}

	p.logger.DebugContext(ctx, "completion received",
		"model", resp.Model,
		"tokens", resp.Usage.TotalTokens,
		"finish_reason", resp.FinishReason,
	)
	return resp, nil
}

func checkRequest(req *providers.CompletionRequest) error {
	invalid := func(field, msg string) error {
		return &providers.ValidationError{Field: field, Message: msg}
	}

	switch {
	case req == nil:
		return invalid("request", "request cannot be nil")
	case req.Model == "":
		return invalid("model", "model is required")
	case len(req.Messages) == 0:
		return invalid("messages", "at least one message is required")
	}
	for i, msg := range req.Messages {
		if msg.Role == "" {
			return invalid("messages", fmt.Sprintf("message %d has no role", i))
		}
	}
	return nil
}
