// Package migrations embeds the versioned postgres schema so the migrate
// binary and integration tests run the same files.
package migrations

import "embed"

// FS holds every NNNNNN_name.{up,down}.sql file in this directory
//
//go:embed *.sql
var FS embed.FS
