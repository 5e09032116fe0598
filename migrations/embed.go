// Package migrations embeds the SQL schema migrations so the binaries can
// apply them without the source tree.
package migrations

import "embed"

// FS holds the numbered up and down migrations
//
//go:embed *.sql
var FS embed.FS
