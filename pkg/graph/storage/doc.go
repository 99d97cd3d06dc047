// Package storage provides the graph persistence backends.
//
// Three backends are available, selected by graph.backend:
//
//   - log: keeps nothing; loads always return the default graph
//   - memory: keeps the last save in process memory
//   - sqlite: appends each save as a revision row
//
// The sqlite backend works with either the pure-Go modernc driver
// ("sqlite") or the cgo mattn driver ("sqlite3"). It also implements
// Pruner and Pinger so retention and readiness checks can use it.
package storage
