package source

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// FallbackPattern matches exports when the configured file is missing.
const FallbackPattern = "Todo*.csv"

var ErrNoInput = errors.New("no input CSV found")

// Resolve returns path when it exists, otherwise the most recently modified
// file matching FallbackPattern in the same directory.
func Resolve(path string) (string, error) {
	if path != "" {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	dir := "."
	if path != "" {
		dir = filepath.Dir(path)
	}

	pattern := filepath.Join(dir, FallbackPattern)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("failed to find CSV files: %w", err)
	}

	type candidate struct {
		path    string
		modTime time.Time
	}

	candidates := make([]candidate, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		candidates = append(candidates, candidate{path: match, modTime: info.ModTime()})
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: '%s' does not exist and nothing matches %s", ErrNoInput, path, pattern)
	}

	newest := slices.MaxFunc(candidates, func(a, b candidate) int {
		return a.modTime.Compare(b.modTime)
	})

	slog.Info("Configured CSV not found, using most recent export", "configured", path, "path", newest.path)
	return newest.path, nil
}
