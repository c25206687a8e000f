// Package migrations carries the schema for tours, travelers, containers,
// assignments and night settings as goose SQL files.
package migrations

import "embed"

// FS is handed to goose.NewProvider by the migrate command and by the
// integration test suites.
//
//go:embed *.sql
var FS embed.FS
