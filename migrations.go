// Package scout exposes build-time assets embedded at the repository root.
package scout

import "embed"

// Migrations contains the goose SQL migrations applied by the migrate command.
//
//go:embed migrations/*.sql
var Migrations embed.FS
