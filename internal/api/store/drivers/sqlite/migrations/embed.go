// Package migrations holds the embedded SQL schema migrations applied at
// startup via golang-migrate's iofs source.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
