package imaging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// MaxBatchSize is the largest number of photos the print service accepts in
// a single order.
const MaxBatchSize = 100

var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsSupported reports whether ext (lowercase, including the dot) is a
// printable image format.
func IsSupported(ext string) bool {
	return supportedExtensions[ext]
}

// Resolve expands the input path into an ordered list of print candidates.
// A file path yields exactly one candidate regardless of its extension; the
// validator decides whether it is printable. A directory is scanned without
// recursion and filtered to supported extensions (case-insensitive).
//
// Resolve reads nothing but directory entries and never modifies the
// filesystem.
func Resolve(path string) ([]Candidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &PathError{Path: path}
		}
		return nil, fmt.Errorf("failed to access '%s': %w", path, err)
	}

	if !info.IsDir() {
		log.Debug().Str("path", path).Msg("Resolved single image file")
		return []Candidate{newCandidate(path, info.Size())}, nil
	}

	log.Info().Str("path", path).Msg("Scanning directory for images")

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	// os.ReadDir returns entries sorted by filename, which fixes the
	// submission order.
	var candidates []Candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !IsSupported(strings.ToLower(filepath.Ext(entry.Name()))) {
			continue
		}

		var size int64
		if fi, err := entry.Info(); err == nil {
			size = fi.Size()
		}
		candidates = append(candidates, newCandidate(filepath.Join(path, entry.Name()), size))
	}

	if len(candidates) > MaxBatchSize {
		return nil, &LimitError{Count: len(candidates), Limit: MaxBatchSize}
	}
	if len(candidates) == 0 {
		return nil, &NoImagesError{Dir: path}
	}

	log.Info().
		Int("count", len(candidates)).
		Str("directory", path).
		Msg("Directory scan complete")

	return candidates, nil
}
