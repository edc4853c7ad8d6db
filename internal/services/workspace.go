package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BerylCAtieno/label-ocr-api/internal/utils"
)

// workspace holds the temporary files of one request. Names are prefixed
// with a fresh id so concurrent requests never collide.
type workspace struct {
	sourcePath    string
	generatedPath string
}

func newWorkspace(dir, filename string) (*workspace, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	id := utils.GenerateID()
	return &workspace{
		sourcePath:    filepath.Join(dir, fmt.Sprintf("%s-%s.pdf", id, safeBaseName(filename))),
		generatedPath: filepath.Join(dir, id+"_gen.pdf"),
	}, nil
}

func (w *workspace) writeSource(data []byte) error {
	return os.WriteFile(w.sourcePath, data, 0600)
}

func (w *workspace) writeGenerated(data []byte) error {
	return os.WriteFile(w.generatedPath, data, 0600)
}

// cleanup removes every file the workspace may have created. Failures are
// logged only.
func (w *workspace) cleanup(logger *utils.Logger) {
	for _, p := range []string{w.sourcePath, w.generatedPath} {
		err := os.Remove(p)
		switch {
		case err == nil:
			logger.Debug("Removed temporary file", "file", filepath.Base(p))
		case errors.Is(err, os.ErrNotExist):
		default:
			logger.Warn("Failed to remove temporary file", "file", p, "error", err)
		}
	}
}

// safeBaseName strips directories and the extension from an uploaded file
// name and keeps it usable as part of a local file name.
func safeBaseName(filename string) string {
	base := stem(filename)
	base = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == 0:
			return '_'
		case r < 0x20:
			return -1
		}
		return r
	}, base)
	if base == "" || base == "." || base == ".." {
		return "upload"
	}
	return base
}

// stem returns the base name of filename without its extension.
func stem(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
