// Package db embeds the SQL files used by the development record store.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed seed/*.sql
var SeedFiles embed.FS
