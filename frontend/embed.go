// Package frontend embeds the page templates and static assets served by the web router.
package frontend

import "embed"

// Files holds templates/ (Inertia page components rendered server side) and static/.
//
//go:embed templates static
var Files embed.FS
