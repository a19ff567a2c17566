// Package migrations embeds the schema applied at server startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
