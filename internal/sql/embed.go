// Package sql embeds the schema migrations for the report warehouse.
package sql

import "embed"

//go:embed migrations
var Migrations embed.FS
