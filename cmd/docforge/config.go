package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"docforge/studio/pkg/cli"
	"docforge/studio/pkg/config"
	"docforge/studio/pkg/graph/storage"
)

var configFlags struct {
	format string
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate and print the resolved configuration",
	Long: `Load the configuration the same way "docforge run" does, validate it,
and print the resolved values. The OpenAI API key is masked.

Examples:
  docforge config check
  docforge config check --config prod.yaml --format json`,
	RunE: checkConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configCheckCmd)

	configCheckCmd.Flags().StringVar(&configFlags.format, "format", "text", "output format: text, json, csv")
}

func checkConfig(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(configFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), summarize(cfg))
}

// configSummary is the printable view of a Config.
type configSummary struct {
	Settings []setting `json:"settings"`
}

type setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s configSummary) Header() []string { return []string{"KEY", "VALUE"} }

func (s configSummary) Rows() [][]string {
	rows := make([][]string, 0, len(s.Settings))
	for _, kv := range s.Settings {
		rows = append(rows, []string{kv.Key, kv.Value})
	}
	return rows
}

func summarize(cfg *config.Config) configSummary {
	add := func(s *configSummary, key string, value any) {
		s.Settings = append(s.Settings, setting{Key: key, Value: fmt.Sprint(value)})
	}

	var s configSummary
	add(&s, "server.address", cfg.Server.Addr())
	add(&s, "server.debug", cfg.Server.Debug)
	add(&s, "server.max_content_length", cfg.Server.MaxContentLength)
	add(&s, "server.cors_origins", strings.Join(cfg.Server.CORSOrigins, ","))
	add(&s, "openai.api_key", maskKey(cfg.OpenAI.APIKey))
	add(&s, "openai.model", cfg.OpenAI.Model)
	add(&s, "openai.base_url", cfg.OpenAI.BaseURL)
	add(&s, "openai.timeout", cfg.OpenAI.Timeout)
	add(&s, "openai.temperature", strconv.FormatFloat(cfg.OpenAI.Temperature, 'f', -1, 64))
	add(&s, "prompt.language", cfg.Prompt.Language)
	add(&s, "graph.backend", cfg.Graph.Backend)
	if cfg.Graph.Backend == storage.BackendSQLite {
		add(&s, "graph.sqlite.path", cfg.Graph.SQLite.Path)
		add(&s, "graph.sqlite.driver", cfg.Graph.SQLite.Driver)
		add(&s, "graph.retention.schedule", cfg.Graph.Retention.Schedule)
		add(&s, "graph.retention.keep", cfg.Graph.Retention.Keep)
	}
	add(&s, "web.dir", cfg.Web.Dir)
	add(&s, "web.title", cfg.Web.Title)
	add(&s, "telemetry.logging.level", cfg.Telemetry.Logging.Level)
	add(&s, "telemetry.metrics.enabled", cfg.Telemetry.Metrics.Enabled)
	add(&s, "telemetry.tracing.enabled", cfg.Telemetry.Tracing.Enabled)
	return s
}

// maskKey keeps the last four characters of keys long enough to identify.
func maskKey(key string) string {
	switch {
	case key == "":
		return "(unset)"
	case len(key) <= 8:
		return "****"
	default:
		return "****" + key[len(key)-4:]
	}
}
