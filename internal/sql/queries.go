// Package sql embeds the schema migrations applied by db.ApplyMigrations.
package sql

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
