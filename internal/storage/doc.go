// Package storage provides JSON-based persistence for production records.
//
// The store is a single JSON document mapping each record key to its record.
// The whole document is read once by Load and rewritten by Save, which writes
// a temporary file beside the target and renames it into place. The default
// location is ~/.local/share/ctx-theatre/productions.json.
package storage
