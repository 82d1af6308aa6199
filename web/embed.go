package web

import "embed"

// Static embeds the admin UI shell and its assets.
//
//go:embed static
var Static embed.FS
