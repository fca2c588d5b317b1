// Package appfs embeds files needed at runtime (DB migrations).
package appfs

import "embed"

//go:embed migrations
var FS embed.FS
