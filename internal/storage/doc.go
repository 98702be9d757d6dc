// Package storage provides the durable string key-value storage that
// palabra keeps its word list, language preference and last saved entry in.
// The SQLite backend is used by the command line program; the in-memory
// backend serves tests and ephemeral sessions.
package storage
