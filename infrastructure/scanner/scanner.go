// Package scanner discovers the build files a conversion run operates on.
package scanner

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/persn/CentralisedPackageConverter/domain"
)

// Directories that never contain hand-written build files.
var skippedDirs = map[string]bool{
	"bin": true,
	"obj": true,
	domain.PaketToolDir:      true,
	domain.PaketCacheDir:     true,
	domain.PaketGeneratedDir: true,
}

// Scanner walks a target tree and collects candidate project files.
type Scanner struct{}

// NewScanner creates a Scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Discover returns every file under root carrying one of the given
// extensions, excluding the central manifest by name, sorted ascending for
// deterministic processing order. Hidden directories and build output
// directories are skipped.
func (s *Scanner) Discover(root string, extensions []string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			name := entry.Name()
			if path != root && (skippedDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(entry.Name(), domain.ManifestFileName) {
			return nil
		}
		if hasExtension(path, extensions) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %q: %w", root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range extensions {
		if ext == strings.ToLower(candidate) {
			return true
		}
	}
	return false
}

// IsProject reports whether the path is an actual project file, the kind
// Paket keeps a per-project reference file next to.
func IsProject(path string) bool {
	return hasExtension(path, domain.ProjectOnlyExtensions)
}
