// Package assets embeds the device catalog, the device illustrations and the
// key icons shipped with the editor.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed catalog.yaml controllers keys
var files embed.FS

// CatalogFile is the catalog's path inside FS.
const CatalogFile = "catalog.yaml"

// FS returns the embedded asset tree.
func FS() fs.FS {
	return files
}
