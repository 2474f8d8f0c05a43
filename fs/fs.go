// Package appfs embeds the static files shipped with the binaries: email templates,
// the common passwords list and SQL migrations.
package appfs

import "embed"

//go:embed all:assets migrations
var FS embed.FS
