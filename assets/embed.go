// assets/embed.go
//
// Embedded default content for the server. The level pack ships inside the
// binary so the server runs without any content files configured.

package assets

import (
	"embed"
	"io"
)

//go:embed levels.yaml
var FS embed.FS

// LevelsFile is the name of the embedded level pack.
const LevelsFile = "levels.yaml"

// OpenLevels opens the embedded level pack for reading.
func OpenLevels() (io.ReadCloser, error) {
	return FS.Open(LevelsFile)
}
