// Package migrations holds the postgres schema migrations applied by golang-migrate.
package migrations

import "embed"

// FS contains every *.sql migration in this directory
//
//go:embed *.sql
var FS embed.FS
