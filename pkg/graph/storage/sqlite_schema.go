package storage

// SchemaVersion is the current graph database schema version.
const SchemaVersion = 1

// Schema creates the revision table. Every save appends a row; the newest
// row is the current graph.
const Schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS graph_revisions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    revision TEXT NOT NULL UNIQUE,
    saved_at TEXT NOT NULL,
    node_count INTEGER NOT NULL,
    connection_count INTEGER NOT NULL,
    body TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_graph_revisions_saved_at ON graph_revisions(saved_at DESC);

INSERT OR IGNORE INTO schema_version (version) VALUES (1);
`
