// Package migrations embeds the marketplace schema migrations: the listing
// tables (cars and their child tables) and the appointments table.
package migrations

import "embed"

// FS carries every *.sql file in this directory. Server bootstrap and the
// integration-test TestMain both feed it to the goose provider, so the schema
// never depends on a migrations path existing at runtime.
//
//go:embed *.sql
var FS embed.FS
