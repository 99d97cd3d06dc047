package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"docforge/studio/pkg/config"
	"docforge/studio/pkg/graph"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // registers "sqlite3" (cgo)
	_ "modernc.org/sqlite"          // registers "sqlite" (pure Go)
)

// SQLiteBackend stores every save as a revision row. Load returns the
// newest revision, or the default graph when none exist.
type SQLiteBackend struct {
	db     *sql.DB
	path   string
	driver string
	logger *slog.Logger
}

// NewSQLiteBackend opens (creating if needed) the database at cfg.Path.
func NewSQLiteBackend(cfg config.SQLiteConfig, logger *slog.Logger) (*SQLiteBackend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Path == "" {
		return nil, newStorageError(BackendSQLite, "open", errors.New("path is required"))
	}
	driver := cfg.Driver
	if driver == "" {
		driver = config.DefaultSQLiteDriver
	}
	busyTimeout := cfg.BusyTimeout
	if busyTimeout == 0 {
		busyTimeout = config.DefaultSQLiteBusyTimeout
	}

	if cfg.Path != ":memory:" {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, newStorageError(BackendSQLite, "open", err)
			}
		}
	}

	db, err := sql.Open(driver, cfg.Path)
	if err != nil {
		return nil, newStorageError(BackendSQLite, "open", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if cfg.WALMode {
		if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			db.Close()
			return nil, newStorageError(BackendSQLite, "configure", fmt.Errorf("enable WAL: %w", err))
		}
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeout.Milliseconds())); err != nil {
		db.Close()
		return nil, newStorageError(BackendSQLite, "configure", fmt.Errorf("set busy timeout: %w", err))
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, newStorageError(BackendSQLite, "migrate", err)
	}

	b := &SQLiteBackend{
		db:     db,
		path:   cfg.Path,
		driver: driver,
		logger: logger.With("backend", BackendSQLite),
	}

	if err := b.verifySchema(); err != nil {
		db.Close()
		return nil, err
	}

	b.logger.Info("SQLite storage initialized",
		"path", cfg.Path,
		"driver", driver,
		"wal_mode", cfg.WALMode,
		"busy_timeout", busyTimeout,
	)

	return b, nil
}

func (b *SQLiteBackend) verifySchema() error {
	var version int
	if err := b.db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		return newStorageError(BackendSQLite, "migrate", err)
	}
	if version != SchemaVersion {
		return newStorageError(BackendSQLite, "migrate",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// Load returns the newest stored revision.
func (b *SQLiteBackend) Load(ctx context.Context) (graph.Graph, error) {
	var body string
	err := b.db.QueryRowContext(ctx,
		"SELECT body FROM graph_revisions ORDER BY id DESC LIMIT 1").Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return graph.Default(), nil
	}
	if err != nil {
		return graph.Graph{}, newStorageError(BackendSQLite, "load", err)
	}

	var g graph.Graph
	if err := json.Unmarshal([]byte(body), &g); err != nil {
		return graph.Graph{}, newStorageError(BackendSQLite, "decode", err)
	}
	return g, nil
}

// Store appends g as a new revision.
func (b *SQLiteBackend) Store(ctx context.Context, g graph.Graph) error {
	body, err := json.Marshal(g)
	if err != nil {
		return newStorageError(BackendSQLite, "encode", err)
	}

	revision := uuid.NewString()
	_, err = b.db.ExecContext(ctx,
		`INSERT INTO graph_revisions (revision, saved_at, node_count, connection_count, body)
		 VALUES (?, ?, ?, ?, ?)`,
		revision,
		time.Now().UTC().Format(time.RFC3339Nano),
		len(g.Nodes),
		len(g.Connections),
		string(body),
	)
	if err != nil {
		return newStorageError(BackendSQLite, "store", err)
	}

	b.logger.DebugContext(ctx, "graph revision stored", "revision", revision)
	return nil
}

// Revisions lists up to limit stored revisions, newest first. limit <= 0
// lists all of them.
func (b *SQLiteBackend) Revisions(ctx context.Context, limit int) ([]Revision, error) {
	query := "SELECT revision, saved_at, node_count, connection_count FROM graph_revisions ORDER BY id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		return nil, newStorageError(BackendSQLite, "query", err)
	}
	defer rows.Close()

	revisions := []Revision{}
	for rows.Next() {
		var (
			r       Revision
			savedAt string
		)
		if err := rows.Scan(&r.ID, &savedAt, &r.NodeCount, &r.ConnectionCount); err != nil {
			return nil, newStorageError(BackendSQLite, "scan", err)
		}
		if r.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
			return nil, newStorageError(BackendSQLite, "scan", err)
		}
		revisions = append(revisions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError(BackendSQLite, "scan", err)
	}
	return revisions, nil
}

// Prune deletes all but the newest keep revisions.
func (b *SQLiteBackend) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 1 {
		return 0, newStorageError(BackendSQLite, "prune", fmt.Errorf("keep must be at least 1, got %d", keep))
	}

	result, err := b.db.ExecContext(ctx,
		`DELETE FROM graph_revisions
		 WHERE id NOT IN (SELECT id FROM graph_revisions ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, newStorageError(BackendSQLite, "prune", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, newStorageError(BackendSQLite, "prune", err)
	}
	return deleted, nil
}

// Ping checks the database connection.
func (b *SQLiteBackend) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return newStorageError(BackendSQLite, "ping", err)
	}
	return nil
}

func (b *SQLiteBackend) Name() string { return BackendSQLite }

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	if err := b.db.Close(); err != nil {
		return newStorageError(BackendSQLite, "close", err)
	}
	b.logger.Info("SQLite storage closed", "path", b.path)
	return nil
}
