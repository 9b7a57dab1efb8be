package io

import (
	"os"
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
)

// WriteArtifact writes rendered bytes to path, creating parent directories.
func WriteArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

// OutputPath returns the scene path with its extension replaced by format.
func OutputPath(scenePath, format string) string {
	base := strings.TrimSuffix(scenePath, filepath.Ext(scenePath))
	return base + "." + format
}
