// Package assets embeds the stock campaigns and factions so binaries run
// without an assets directory on disk.
package assets

import "embed"

// FS holds campaigns/ and factions/.
//
//go:embed campaigns factions
var FS embed.FS
