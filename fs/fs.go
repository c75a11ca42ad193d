package appfs

import "embed"

// FS holds the files shipped inside the binary: the seed data and the email templates.
//
//go:embed seed.toml templates
var FS embed.FS
