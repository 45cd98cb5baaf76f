// Package migrations embeds the goose SQL migrations for the capacity-table
// Postgres store (spec §6's "Postgres-backed capacity table loader as an
// alternative to the CSV capacity table"), following
// pkg/database/migrations.go's embed.FS + goose.SetBaseFS convention.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// Dir is the directory goose.UpContext/DownContext/StatusContext expect,
// relative to FS's root.
const Dir = "."
