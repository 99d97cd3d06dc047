package web

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed templates static
var embedded embed.FS

// Embedded returns the front end compiled into the binary.
func Embedded() fs.FS {
	return embedded
}

// Assets returns the embedded assets, or dir on disk when dir is set. dir
// must contain templates/ and static/.
func Assets(dir string) (fs.FS, error) {
	if dir == "" {
		return embedded, nil
	}

	for _, sub := range []string{"templates", "static"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		if err != nil {
			return nil, fmt.Errorf("web dir %q: %w", dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("web dir %q: %s is not a directory", dir, sub)
		}
	}
	return os.DirFS(dir), nil
}
