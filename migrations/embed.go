// Package migrations embeds the SQL schema files so the binary can migrate
// the database without shipping a migrations directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
