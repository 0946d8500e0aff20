package assets

import (
	"embed"
	"fmt"
)

//go:embed static
var staticFS embed.FS

// Static file names.
const (
	StyleCSS            = "style.css"
	Container           = "container.xml"
	IBooksDisplayOption = "com.apple.ibooks.display-options.xml"
	DefaultCover        = "default_cover.jpg"
)

// Static returns the content of an embedded static file.
func Static(name string) ([]byte, error) {
	b, err := staticFS.ReadFile("static/" + name)
	if err != nil {
		return nil, fmt.Errorf("read static asset %s: %w", name, err)
	}
	return b, nil
}
