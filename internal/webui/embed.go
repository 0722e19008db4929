// Package webui holds the dashboard's static bundle.
package webui

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
)

//go:embed public
var public embed.FS

// FS returns the UI bundle. When dir is set it is served from disk instead
// of the embedded copy.
func FS(dir string) (fs.FS, error) {
	if dir == "" {
		return fs.Sub(public, "public")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("ui dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("ui dir %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}
