// Package static embeds the admin stylesheet.
package static

import "embed"

// FS holds the static assets served under /static/.
//
//go:embed *.css
var FS embed.FS
