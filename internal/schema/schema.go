// Package schema embeds the versioned Postgres migrations for the service.
package schema

import "embed"

// Dir is the directory inside Migrations holding the SQL files.
const Dir = "migrations"

// Migrations holds the golang-migrate up/down SQL files.
//
//go:embed migrations/*.sql
var Migrations embed.FS
