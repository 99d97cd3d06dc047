package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"docforge/studio/pkg/cli"
	"docforge/studio/pkg/config"
	"docforge/studio/pkg/graph/storage"
	"docforge/studio/pkg/telemetry/logging"
)

var revisionsFlags struct {
	limit  int
	keep   int
	format string
}

var revisionsCmd = &cobra.Command{
	Use:   "revisions",
	Short: "Inspect stored graph revisions",
	Long: `Inspect and prune the graph revisions kept by the sqlite backend.

Subcommands:
  list   - List the newest revisions
  prune  - Delete all but the newest revisions

Examples:
  docforge revisions list --limit 10
  docforge revisions list --format csv > revisions.csv
  docforge revisions prune --keep 20`,
}

var revisionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored revisions, newest first",
	RunE:  listRevisions,
}

var revisionsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest revisions",
	RunE:  pruneRevisions,
}

func init() {
	rootCmd.AddCommand(revisionsCmd)
	revisionsCmd.AddCommand(revisionsListCmd, revisionsPruneCmd)

	revisionsListCmd.Flags().IntVar(&revisionsFlags.limit, "limit", 20, "max revisions to list")
	revisionsListCmd.Flags().StringVar(&revisionsFlags.format, "format", "text", "output format: text, json, csv")

	revisionsPruneCmd.Flags().IntVar(&revisionsFlags.keep, "keep", 0, "revisions to keep (default: graph.retention.keep)")
}

// revisionTable renders revisions for the cli formatters.
type revisionTable []storage.Revision

func (t revisionTable) Header() []string {
	return []string{"ID", "SAVED_AT", "NODES", "CONNECTIONS"}
}

func (t revisionTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, []string{
			r.ID,
			r.SavedAt.Format(time.RFC3339),
			strconv.Itoa(r.NodeCount),
			strconv.Itoa(r.ConnectionCount),
		})
	}
	return rows
}

// openRevisionStore opens the configured sqlite database directly. It
// fails for the other backends, which keep no history.
func openRevisionStore(cmd *cobra.Command) (*storage.SQLiteBackend, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Graph.Backend != storage.BackendSQLite {
		return nil, nil, cli.NewConfigError("graph.backend",
			fmt.Sprintf("backend %q keeps no revisions (want %q)", cfg.Graph.Backend, storage.BackendSQLite))
	}

	logger, err := logging.New(logging.Config{
		Level:         cfg.Telemetry.Logging.Level,
		Format:        "text",
		RedactSecrets: cfg.Telemetry.Logging.RedactSecrets,
		Writer:        cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, err
	}

	backend, err := storage.NewSQLiteBackend(cfg.Graph.SQLite, logger)
	if err != nil {
		return nil, nil, cli.NewCommandError("revisions", err)
	}
	return backend, cfg, nil
}

func listRevisions(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(revisionsFlags.format)
	if err != nil {
		return err
	}
	if revisionsFlags.limit < 1 {
		return cli.NewConfigError("limit", "must be at least 1")
	}

	backend, _, err := openRevisionStore(cmd)
	if err != nil {
		return err
	}
	defer backend.Close()

	revs, err := backend.Revisions(cmdContext(cmd), revisionsFlags.limit)
	if err != nil {
		return cli.NewCommandError("revisions", fmt.Errorf("query failed: %w", err))
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), revisionTable(revs))
}

func pruneRevisions(cmd *cobra.Command, args []string) error {
	backend, cfg, err := openRevisionStore(cmd)
	if err != nil {
		return err
	}
	defer backend.Close()

	keep := revisionsFlags.keep
	if keep == 0 {
		keep = cfg.Graph.Retention.Keep
	}

	deleted, err := backend.Prune(cmdContext(cmd), keep)
	if err != nil {
		return cli.NewCommandError("revisions", fmt.Errorf("prune failed: %w", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %d revisions (kept newest %d)\n", deleted, keep)
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
