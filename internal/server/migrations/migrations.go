// Package migrations embeds the goose SQL migrations for the tables this
// service owns. The claims schema itself is external and never migrated
// from here.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
