package schema

import "embed"

// FS holds the goose migrations applied at startup.
//
//go:embed *.sql
var FS embed.FS
