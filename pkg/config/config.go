package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration structure for docforge.
// It is built once at startup by Load and passed by pointer to every
// component that needs it. Nothing in this package keeps a global copy.
type Config struct {
	// Server contains HTTP listener configuration.
	Server ServerConfig `yaml:"server"`

	// OpenAI contains the completion provider settings.
	OpenAI OpenAIConfig `yaml:"openai"`

	// Prompt selects the target language and placeholder schema used when
	// building contract-generation prompts.
	Prompt PromptConfig `yaml:"prompt"`

	// Graph contains storage configuration for the editor graph.
	Graph GraphConfig `yaml:"graph"`

	// Web configures how the front end is served.
	Web WebConfig `yaml:"web"`

	// Telemetry contains logging, metrics and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// Host is the bind host.
	// Default: "0.0.0.0"
	Host string `yaml:"host"`

	// Port is the bind port.
	// Default: 5001
	Port int `yaml:"port"`

	// Debug enables template hot reload and debug-level request logging.
	// Default: true
	Debug bool `yaml:"debug"`

	// MaxContentLength is the maximum accepted request body size in bytes.
	// Default: 16 MiB
	MaxContentLength int64 `yaml:"max_content_length"`

	// CORSOrigins lists allowed origins. "*" allows any origin.
	// Default: ["*"]
	CORSOrigins []string `yaml:"cors_origins"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response writes.
	// It should exceed OpenAI.Timeout so completion failures can be reported.
	// Default: 90s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// OpenAIConfig contains configuration for the chat-completion provider.
type OpenAIConfig struct {
	// APIKey authenticates against the provider. Required.
	APIKey string `yaml:"api_key"`

	// Model is the chat model identifier.
	// Default: "gpt-3.5-turbo"
	Model string `yaml:"model"`

	// BaseURL is the API root; "/chat/completions" is appended.
	// Default: "https://api.openai.com/v1"
	BaseURL string `yaml:"base_url"`

	// Timeout bounds a single completion call. Expiry is reported as a
	// completion failure.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// Temperature is the sampling temperature for contract generation.
	// Default: 0.7
	Temperature float64 `yaml:"temperature"`
}

// PromptConfig selects the prompt profile.
type PromptConfig struct {
	// Language is a built-in profile code ("es" or "pt").
	// Default: "es"
	Language string `yaml:"language"`

	// LanguageName overrides the language name written into the prompt,
	// e.g. "Catalan". Required when Language is not a built-in code.
	LanguageName string `yaml:"language_name"`

	// Collections overrides the repeated party blocks (vendedor, comprador).
	Collections []CollectionConfig `yaml:"collections"`

	// Fields overrides the per-party placeholder fields.
	Fields []FieldConfig `yaml:"fields"`

	// SystemInstruction overrides the system message sent with every
	// contract-generation request.
	SystemInstruction string `yaml:"system_instruction"`
}

// CollectionConfig describes one repeated placeholder block.
type CollectionConfig struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
}

// FieldConfig describes one placeholder inside a block.
type FieldConfig struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
}

// GraphConfig configures graph persistence.
type GraphConfig struct {
	// Backend is "log", "memory" or "sqlite".
	// Default: "log"
	Backend string `yaml:"backend"`

	// SQLite configures the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Retention configures scheduled pruning of stored revisions.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig configures the SQLite graph backend.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/graph.db"
	Path string `yaml:"path"`

	// Driver is "sqlite" (modernc, pure Go) or "sqlite3" (mattn, cgo).
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig configures revision pruning.
type RetentionConfig struct {
	// Schedule is a standard cron expression. Empty disables pruning.
	Schedule string `yaml:"schedule"`

	// Keep is the number of newest revisions to keep.
	// Default: 50
	Keep int `yaml:"keep"`
}

// WebConfig configures front-end serving.
type WebConfig struct {
	// Dir serves templates/ and static/ from disk instead of the embedded
	// copies. Empty uses the embedded assets.
	Dir string `yaml:"dir"`

	// Title is rendered into the index document.
	// Default: "DocForge"
	Title string `yaml:"title"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig configures the slog logger.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records.
	AddSource bool `yaml:"add_source"`

	// RedactSecrets masks API keys and credential attributes.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled exposes metrics on Path.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the scrape path.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "docforge"
	Namespace string `yaml:"namespace"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	// Enabled turns on span export.
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// SampleRatio is the fraction of traces sampled (0..1).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName is the resource service.name.
	// Default: "docforge"
	ServiceName string `yaml:"service_name"`
}
