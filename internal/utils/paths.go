package utils

import (
	"os"
	"path/filepath"
)

// CanonicalizePath converts a path to an absolute, symlink-resolved form.
// Used everywhere a project root crosses a process or log boundary so that
// stage-one and stage-two agree on the same directory identity.
func CanonicalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// Path may not exist yet (e.g. create target) - keep the absolute form
		return abs
	}

	return resolved
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
