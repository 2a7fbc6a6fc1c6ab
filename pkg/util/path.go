package util

import (
	"os"
	"path/filepath"
)

// ResolvePath anchors a relative artifact path at the running executable's directory.
// When nothing exists there, a file relative to the working directory is used instead
// (go run builds into a temporary directory). With neither present the executable-relative
// path is returned so errors name the expected location.
func ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	exe, err := os.Executable()
	if err != nil {
		return p
	}
	return resolveFrom(filepath.Dir(exe), p)
}

func resolveFrom(base, p string) string {
	anchored := filepath.Join(base, p)
	if _, err := os.Stat(anchored); err == nil {
		return anchored
	}
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return anchored
}
