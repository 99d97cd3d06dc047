package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultHost             = "0.0.0.0"
	DefaultPort             = 5001
	DefaultDebug            = true
	DefaultMaxContentLength = int64(16 * 1024 * 1024) // 16 MiB
	DefaultCORSOrigin       = "*"
	DefaultReadTimeout      = 30 * time.Second
	DefaultWriteTimeout     = 90 * time.Second
	DefaultIdleTimeout      = 120 * time.Second
	DefaultShutdownTimeout  = 15 * time.Second

	// OpenAI defaults
	DefaultOpenAIModel       = "gpt-3.5-turbo"
	DefaultOpenAIBaseURL     = "https://api.openai.com/v1"
	DefaultOpenAITimeout     = 60 * time.Second
	DefaultOpenAITemperature = 0.7

	// Prompt defaults
	DefaultPromptLanguage = "es"

	// Graph defaults
	DefaultGraphBackend      = "log"
	DefaultSQLitePath        = "data/graph.db"
	DefaultSQLiteDriver      = "sqlite"
	DefaultSQLiteWALMode     = true
	DefaultSQLiteBusyTimeout = 5 * time.Second
	DefaultRetentionKeep     = 50

	// Web defaults
	DefaultWebTitle = "DocForge"

	// Telemetry defaults
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "json"
	DefaultRedactSecrets      = true
	DefaultMetricsEnabled     = true
	DefaultMetricsPath        = "/metrics"
	DefaultMetricsNamespace   = "docforge"
	DefaultTracingEndpoint    = "localhost:4317"
	DefaultTracingInsecure    = true
	DefaultTracingSampleRatio = 1.0
	DefaultTracingService     = "docforge"
)

// Default returns a configuration populated with every default value,
// including the boolean defaults that ApplyDefaults cannot infer from a
// zero value. Load decodes YAML on top of it.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Debug: DefaultDebug,
		},
		Graph: GraphConfig{
			SQLite: SQLiteConfig{
				WALMode: DefaultSQLiteWALMode,
			},
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				RedactSecrets: DefaultRedactSecrets,
			},
			Metrics: MetricsConfig{
				Enabled: DefaultMetricsEnabled,
			},
			Tracing: TracingConfig{
				Insecure: DefaultTracingInsecure,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults. Fields that
// were explicitly set are left untouched.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyOpenAIDefaults(&cfg.OpenAI)

	if cfg.Prompt.Language == "" {
		cfg.Prompt.Language = DefaultPromptLanguage
	}

	applyGraphDefaults(&cfg.Graph)

	if cfg.Web.Title == "" {
		cfg.Web.Title = DefaultWebTitle
	}

	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = DefaultHost
	}
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	if s.MaxContentLength == 0 {
		s.MaxContentLength = DefaultMaxContentLength
	}
	if len(s.CORSOrigins) == 0 {
		s.CORSOrigins = []string{DefaultCORSOrigin}
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = DefaultReadTimeout
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = DefaultWriteTimeout
	}
	if s.IdleTimeout == 0 {
		s.IdleTimeout = DefaultIdleTimeout
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = DefaultShutdownTimeout
	}
}

func applyOpenAIDefaults(o *OpenAIConfig) {
	if o.Model == "" {
		o.Model = DefaultOpenAIModel
	}
	if o.BaseURL == "" {
		o.BaseURL = DefaultOpenAIBaseURL
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultOpenAITimeout
	}
	if o.Temperature == 0 {
		o.Temperature = DefaultOpenAITemperature
	}
}

func applyGraphDefaults(g *GraphConfig) {
	if g.Backend == "" {
		g.Backend = DefaultGraphBackend
	}
	if g.SQLite.Path == "" {
		g.SQLite.Path = DefaultSQLitePath
	}
	if g.SQLite.Driver == "" {
		g.SQLite.Driver = DefaultSQLiteDriver
	}
	if g.SQLite.BusyTimeout == 0 {
		g.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if g.Retention.Keep == 0 {
		g.Retention.Keep = DefaultRetentionKeep
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.Logging.Level == "" {
		t.Logging.Level = DefaultLogLevel
	}
	if t.Logging.Format == "" {
		t.Logging.Format = DefaultLogFormat
	}
	if t.Metrics.Path == "" {
		t.Metrics.Path = DefaultMetricsPath
	}
	if t.Metrics.Namespace == "" {
		t.Metrics.Namespace = DefaultMetricsNamespace
	}
	if t.Tracing.Endpoint == "" {
		t.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if t.Tracing.SampleRatio == 0 {
		t.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if t.Tracing.ServiceName == "" {
		t.Tracing.ServiceName = DefaultTracingService
	}
}
