package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultEnvFile is the dotenv file read from the working directory.
const DefaultEnvFile = ".env"

// Load builds the configuration from an optional YAML file, the optional
// .env file in the working directory, and the process environment.
//
// The loading sequence is:
//  1. Load DefaultEnvFile into the environment (existing variables win)
//  2. Start from Default() and decode the YAML file over it, if present
//  3. Apply default values to anything still empty
//  4. Apply environment variable overrides
//  5. Validate the final configuration
//
// An empty or missing path is not an error: docforge is commonly
// configured through environment variables alone.
func Load(path string) (*Config, error) {
	return LoadFiles(path, DefaultEnvFile)
}

// LoadFiles is Load with an explicit dotenv path. An empty envFile skips
// dotenv loading.
func LoadFiles(path, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %q: %w", envFile, err)
		}
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// env-only configuration
		case err != nil:
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
			}
		}
	}

	ApplyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Unparseable numeric, boolean and duration values are ignored.
func applyEnvOverrides(cfg *Config) {
	// OpenAI
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		cfg.OpenAI.APIKey = val
	}
	if val := os.Getenv("OPENAI_MODEL"); val != "" {
		cfg.OpenAI.Model = val
	}
	if val := os.Getenv("OPENAI_BASE_URL"); val != "" {
		cfg.OpenAI.BaseURL = val
	}
	if val := os.Getenv("OPENAI_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.OpenAI.Timeout = d
		}
	}

	// Server
	if val := os.Getenv("DEBUG"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Server.Debug = b
		}
	}
	if val := os.Getenv("HOST"); val != "" {
		cfg.Server.Host = val
	}
	if val := os.Getenv("PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Server.Port = i
		}
	}
	if val := os.Getenv("MAX_CONTENT_LENGTH"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Server.MaxContentLength = i
		}
	}
	if val := os.Getenv("CORS_ORIGINS"); val != "" {
		cfg.Server.CORSOrigins = splitList(val)
	}

	// Prompt
	if val := os.Getenv("DOCFORGE_PROMPT_LANGUAGE"); val != "" {
		cfg.Prompt.Language = val
	}
	if val := os.Getenv("DOCFORGE_PROMPT_LANGUAGE_NAME"); val != "" {
		cfg.Prompt.LanguageName = val
	}

	// Graph
	if val := os.Getenv("DOCFORGE_GRAPH_BACKEND"); val != "" {
		cfg.Graph.Backend = val
	}
	if val := os.Getenv("DOCFORGE_GRAPH_SQLITE_PATH"); val != "" {
		cfg.Graph.SQLite.Path = val
	}
	if val := os.Getenv("DOCFORGE_GRAPH_SQLITE_DRIVER"); val != "" {
		cfg.Graph.SQLite.Driver = val
	}
	if val := os.Getenv("DOCFORGE_GRAPH_RETENTION_SCHEDULE"); val != "" {
		cfg.Graph.Retention.Schedule = val
	}
	if val := os.Getenv("DOCFORGE_GRAPH_RETENTION_KEEP"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Graph.Retention.Keep = i
		}
	}

	// Web
	if val := os.Getenv("DOCFORGE_WEB_DIR"); val != "" {
		cfg.Web.Dir = val
	}

	// Telemetry
	if val := os.Getenv("DOCFORGE_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("DOCFORGE_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("DOCFORGE_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("DOCFORGE_TRACING_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Tracing.Enabled = b
		}
	}
	if val := os.Getenv("DOCFORGE_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := os.Getenv("DOCFORGE_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}

// splitList splits a comma-separated value, trimming blanks.
func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
