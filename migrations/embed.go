// Package migrations holds the Postgres schema as versioned SQL files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
