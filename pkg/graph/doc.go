// Package graph holds the node-graph data model and the service that
// loads and saves it.
//
// The default graph is a fixed two-node layout. Where a saved graph goes
// is decided by the Backend: see package storage for the log, memory and
// SQLite implementations.
package graph
