package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError is a rule violation on one configuration field. Field is the
// dotted YAML path, e.g. "server.port".
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationError carries every violation found by Validate.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "configuration validation failed"
	case 1:
		return "configuration validation failed: " + e.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, fe := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", fe.Error())
	}
	return sb.String()
}

// Has reports whether a field error exists for the given dotted path.
func (e ValidationError) Has(field string) bool {
	return slices.ContainsFunc(e.Errors, func(fe FieldError) bool { return fe.Field == field })
}

// problems accumulates field errors while the validators walk the tree.
type problems []FieldError

func (p *problems) addf(field, format string, args ...any) {
	*p = append(*p, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (p *problems) check(ok bool, field, format string, args ...any) {
	if !ok {
		p.addf(field, format, args...)
	}
}

var (
	knownLanguages = []string{"es", "pt"}
	logLevels      = []string{"debug", "info", "warn", "error"}
	logFormats     = []string{"json", "text"}
	sqliteDrivers  = []string{"sqlite", "sqlite3"}
)

// Validate checks cfg and returns a ValidationError listing every failed
// rule, or nil.
func Validate(cfg *Config) error {
	var p problems
	p.server(&cfg.Server)
	p.openAI(&cfg.OpenAI)
	p.prompt(&cfg.Prompt)
	p.graph(&cfg.Graph)
	p.telemetry(&cfg.Telemetry)

	if len(p) > 0 {
		return ValidationError{Errors: p}
	}
	return nil
}

func (p *problems) server(s *ServerConfig) {
	p.check(s.Port >= 1 && s.Port <= 65535, "server.port", "must be between 1 and 65535, got %d", s.Port)
	p.check(s.MaxContentLength > 0, "server.max_content_length", "must be positive")
	p.check(s.ShutdownTimeout >= 0, "server.shutdown_timeout", "must not be negative")
	for i, origin := range s.CORSOrigins {
		p.check(strings.TrimSpace(origin) != "", fmt.Sprintf("server.cors_origins[%d]", i), "must not be empty")
	}
}

func (p *problems) openAI(o *OpenAIConfig) {
	p.check(strings.TrimSpace(o.APIKey) != "", "openai.api_key", "is required (set OPENAI_API_KEY)")
	p.check(o.Model != "", "openai.model", "is required")
	u, err := url.Parse(o.BaseURL)
	p.check(err == nil && u.Scheme != "" && u.Host != "", "openai.base_url", "must be an absolute URL, got %q", o.BaseURL)
	p.check(o.Timeout > 0, "openai.timeout", "must be positive")
	p.check(o.Temperature >= 0 && o.Temperature <= 2, "openai.temperature", "must be between 0 and 2")
}

func (p *problems) prompt(pc *PromptConfig) {
	p.check(slices.Contains(knownLanguages, pc.Language) || pc.LanguageName != "",
		"prompt.language", "unknown language %q (use es, pt, or set language_name)", pc.Language)
	for i, c := range pc.Collections {
		p.check(c.Key != "", fmt.Sprintf("prompt.collections[%d].key", i), "is required")
	}
	for i, f := range pc.Fields {
		p.check(f.Key != "" && f.Label != "", fmt.Sprintf("prompt.fields[%d]", i), "key and label are required")
	}
}

func (p *problems) graph(g *GraphConfig) {
	switch g.Backend {
	case "log", "memory":
	case "sqlite":
		p.check(g.SQLite.Path != "", "graph.sqlite.path", "is required for the sqlite backend")
		p.check(slices.Contains(sqliteDrivers, g.SQLite.Driver), "graph.sqlite.driver", "must be sqlite or sqlite3, got %q", g.SQLite.Driver)
	default:
		p.addf("graph.backend", "must be log, memory or sqlite, got %q", g.Backend)
	}

	if g.Retention.Schedule != "" {
		if _, err := cron.ParseStandard(g.Retention.Schedule); err != nil {
			p.addf("graph.retention.schedule", "invalid cron expression: %v", err)
		}
	}
	p.check(g.Retention.Keep >= 1, "graph.retention.keep", "must be at least 1")
}

func (p *problems) telemetry(t *TelemetryConfig) {
	p.check(slices.Contains(logLevels, t.Logging.Level), "telemetry.logging.level", "must be debug, info, warn or error, got %q", t.Logging.Level)
	p.check(slices.Contains(logFormats, t.Logging.Format), "telemetry.logging.format", "must be json or text, got %q", t.Logging.Format)
	p.check(!t.Metrics.Enabled || strings.HasPrefix(t.Metrics.Path, "/"), "telemetry.metrics.path", "must start with /")
	p.check(t.Tracing.SampleRatio >= 0 && t.Tracing.SampleRatio <= 1, "telemetry.tracing.sample_ratio", "must be between 0 and 1")
}
