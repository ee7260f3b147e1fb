// Package migrations embeds the SQL schema migrations so binaries do not need them on disk.
package migrations

import "embed"

// FS holds every *.sql migration
//
//go:embed *.sql
var FS embed.FS
