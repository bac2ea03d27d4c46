// Package migrations embeds the versioned PostgreSQL schema.
package migrations

import "embed"

// FS holds the up/down SQL files under sql/.
//
//go:embed sql/*.sql
var FS embed.FS

// Dir is the directory inside FS that holds the migration files.
const Dir = "sql"
