// Package cli implements the command-line interface for ctx-theatre.
//
// The cli package provides the Cobra-based CLI and the interactive menu. It
// loads configuration, opens the record store and coordinates the ingest,
// filter, manual and calendar packages. Output is a table or JSON, chosen
// with --format. Running the binary without a subcommand starts the menu.
package cli
