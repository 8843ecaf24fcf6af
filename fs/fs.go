// Package appfs embeds the static assets shipped with the portal binaries.
package appfs

import "embed"

//go:embed migrations all:templates
var FS embed.FS

const (
	MigrationsDir     = "migrations"
	EmailTemplatesDir = "templates/email"
	PageTemplatesDir  = "templates/portal"
)
