package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := Default()
	cfg.OpenAI.APIKey = "sk-test"
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("expected valid config to pass validation, got error: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := validConfig()
	cfg.OpenAI.APIKey = ""
	cfg.Server.Port = 0

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	validationErr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(validationErr.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d: %v", len(validationErr.Errors), validationErr.Errors)
	}
	if !strings.Contains(validationErr.Error(), "validation failed with 2 errors") {
		t.Errorf("error message should mention multiple errors: %s", validationErr.Error())
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"zero body limit", func(c *Config) { c.Server.MaxContentLength = 0 }, "server.max_content_length"},
		{"blank origin", func(c *Config) { c.Server.CORSOrigins = []string{" "} }, "server.cors_origins[0]"},
		{"relative base url", func(c *Config) { c.OpenAI.BaseURL = "api.openai.com" }, "openai.base_url"},
		{"zero timeout", func(c *Config) { c.OpenAI.Timeout = 0 }, "openai.timeout"},
		{"temperature range", func(c *Config) { c.OpenAI.Temperature = 3 }, "openai.temperature"},
		{"unknown language", func(c *Config) { c.Prompt.Language = "fr" }, "prompt.language"},
		{"field without label", func(c *Config) { c.Prompt.Fields = []FieldConfig{{Key: "dni"}} }, "prompt.fields[0]"},
		{"unknown backend", func(c *Config) { c.Graph.Backend = "postgres" }, "graph.backend"},
		{"unknown driver", func(c *Config) { c.Graph.Backend = "sqlite"; c.Graph.SQLite.Driver = "pgx" }, "graph.sqlite.driver"},
		{"bad cron", func(c *Config) { c.Graph.Retention.Schedule = "every day" }, "graph.retention.schedule"},
		{"keep zero", func(c *Config) { c.Graph.Retention.Keep = 0 }, "graph.retention.keep"},
		{"log level", func(c *Config) { c.Telemetry.Logging.Level = "trace" }, "telemetry.logging.level"},
		{"log format", func(c *Config) { c.Telemetry.Logging.Format = "xml" }, "telemetry.logging.format"},
		{"metrics path", func(c *Config) { c.Telemetry.Metrics.Path = "metrics" }, "telemetry.metrics.path"},
		{"sample ratio", func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 }, "telemetry.tracing.sample_ratio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			verr, ok := err.(ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if !verr.Has(tt.field) {
				t.Errorf("expected error for %s, got %v", tt.field, verr.Errors)
			}
		})
	}
}

func TestValidate_CustomLanguageName(t *testing.T) {
	cfg := validConfig()
	cfg.Prompt.Language = "ca"
	cfg.Prompt.LanguageName = "Catalan"

	if err := Validate(cfg); err != nil {
		t.Errorf("expected custom language with name to validate, got %v", err)
	}
}
