package hike

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// resolvePath maps a decoded request path to a file below root. A path
// ending in "/" always gets indexFile appended; a path naming an existing
// directory resolves to indexFile inside it. The request path is cleaned
// rooted at "/" before joining, so ".." segments cannot escape root.
//
// ErrNotFound is returned when the final candidate is missing or is itself
// a directory. The stat here races against the later read; a file that
// vanishes in between still ends up as a 404 at read time.
func resolvePath(root, indexFile, urlPath string) (string, error) {
	fsPath := filepath.Join(root, path.Clean("/"+urlPath))
	if strings.HasSuffix(urlPath, "/") {
		fsPath = filepath.Join(fsPath, indexFile)
	} else if fi, err := os.Stat(fsPath); err == nil && fi.IsDir() {
		fsPath = filepath.Join(fsPath, indexFile)
	}
	fi, err := os.Stat(fsPath)
	if err != nil || fi.IsDir() {
		return "", ErrNotFound
	}
	return fsPath, nil
}
