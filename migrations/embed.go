// Package migrations embeds the versioned SQL schema of the catalog.
package migrations

import "embed"

// FS holds the *.up.sql / *.down.sql files at its root.
//
//go:embed *.sql
var FS embed.FS
