// Package migrations embeds the PostgreSQL schema migrations so that the
// migrate command and integration tests apply the same SQL.
package migrations

import "embed"

// FS holds every *.sql migration, named for golang-migrate.
//
//go:embed *.sql
var FS embed.FS
