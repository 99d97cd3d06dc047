package completion

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"docforge/studio/pkg/providers"
	"docforge/studio/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// Operation names, used in errors, metrics and span names.
const (
	OpGenerate = "generate"
	OpPing     = "ping"
)

const (
	// PingPrompt is the fixed connectivity-check prompt.
	PingPrompt = "Say 'OpenAI is working!'"

	// DefaultTemperature is used on the generate path when none is set.
	DefaultTemperature = 0.7

	// DefaultTimeout bounds a call when Options.Timeout is zero.
	DefaultTimeout = 60 * time.Second
)

// Metrics receives one observation per completion call.
type Metrics interface {
	RecordCompletion(op, status string, duration time.Duration, tokens int)
}

// Options configures a Client.
type Options struct {
	// Model is the chat model identifier. Required.
	Model string

	// Timeout bounds each call, including reading the response.
	Timeout time.Duration

	// Temperature is sent on the generate path. Zero means DefaultTemperature.
	Temperature float64

	Logger  *slog.Logger
	Metrics Metrics
	Tracer  *tracing.Tracer
}

// Client wraps a single chat-completion call per operation. It never
// retries and never caches: identical inputs produce identical upstream
// requests.
type Client struct {
	provider    providers.Provider
	model       string
	timeout     time.Duration
	temperature float64

	logger  *slog.Logger
	metrics Metrics
	tracer  *tracing.Tracer
}

// New creates a Client on top of provider.
func New(provider providers.Provider, opts Options) (*Client, error) {
	if provider == nil {
		return nil, errors.New("completion: provider is required")
	}
	if opts.Model == "" {
		return nil, errors.New("completion: model is required")
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Temperature == 0 {
		opts.Temperature = DefaultTemperature
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Tracer == nil {
		opts.Tracer = tracing.Noop()
	}

	return &Client{
		provider:    provider,
		model:       opts.Model,
		timeout:     opts.Timeout,
		temperature: opts.Temperature,
		logger:      opts.Logger.With("component", "completion", "model", opts.Model),
		metrics:     opts.Metrics,
		tracer:      opts.Tracer,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Complete sends systemInstruction then userPrompt and returns the first
// choice's content verbatim.
func (c *Client) Complete(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	if systemInstruction == "" || userPrompt == "" {
		return "", c.fail(ctx, OpGenerate, errors.New("system instruction and prompt must not be empty"))
	}

	temperature := c.temperature
	return c.call(ctx, OpGenerate, &providers.CompletionRequest{
		Model: c.model,
		Messages: []providers.Message{
			{Role: providers.RoleSystem, Content: systemInstruction},
			{Role: providers.RoleUser, Content: userPrompt},
		},
		Temperature: &temperature,
	})
}

// Ping sends PingPrompt with the provider's default temperature.
func (c *Client) Ping(ctx context.Context) (string, error) {
	return c.call(ctx, OpPing, &providers.CompletionRequest{
		Model: c.model,
		Messages: []providers.Message{
			{Role: providers.RoleUser, Content: PingPrompt},
		},
	})
}

func (c *Client) call(ctx context.Context, op string, req *providers.CompletionRequest) (string, error) {
	ctx, span := c.tracer.Start(ctx, "completion."+op)
	defer span.End()
	span.SetAttributes(tracing.CompletionAttributes(op, c.model)...)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.provider.SendCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		c.record(op, "error", duration, 0)
		tracing.SetError(span, err)
		return "", c.fail(ctx, op, err)
	}

	c.record(op, "success", duration, resp.Usage.TotalTokens)
	span.SetAttributes(attribute.Int(tracing.AttrTokensTotal, resp.Usage.TotalTokens))
	tracing.SetError(span, nil)

	c.logger.DebugContext(ctx, "completion succeeded",
		"op", op,
		"duration_ms", duration.Milliseconds(),
		"tokens", resp.Usage.TotalTokens,
	)

	return resp.Content, nil
}

// fail logs the failure once and wraps it.
func (c *Client) fail(ctx context.Context, op string, cause error) error {
	cerr := newCompletionError(op, cause)
	c.logger.ErrorContext(ctx, "completion failed",
		"op", op,
		"error", cause,
	)
	return cerr
}

func (c *Client) record(op, status string, duration time.Duration, tokens int) {
	if c.metrics != nil {
		c.metrics.RecordCompletion(op, status, duration, tokens)
	}
}
