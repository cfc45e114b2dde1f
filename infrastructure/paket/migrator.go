// Package paket migrates artifacts left behind by the Paket dependency
// manager: the dependency/lock files at the root, per-project reference
// files, and the binding redirects Paket generated into runtime configs.
package paket

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/persn/CentralisedPackageConverter/domain"
)

// nugetKeyword starts a dependency declaration line in paket.dependencies.
const nugetKeyword = "nuget"

// rootIndent marks dependency-root entries in paket.lock. Deeper indentation
// is a transitive dependency and carries no pinned intent.
const rootIndent = "    "

// Migrator seeds the version registry from the Paket dependency and lock
// files and removes the Paket artifacts afterwards.
type Migrator struct{}

// NewMigrator creates a Migrator.
func NewMigrator() *Migrator {
	return &Migrator{}
}

// Detect reports whether the root directory carries a Paket dependency file.
func (m *Migrator) Detect(root string) bool {
	_, err := os.Stat(filepath.Join(root, domain.PaketDependenciesFile))
	return err == nil
}

// Migrate reads the declaration and lock files (both must exist and parse),
// inserts every resolved pair into the registry on an insert-if-absent basis,
// and deletes the Paket artifacts unless running in dry-run mode. A declared
// dependency missing from the lock file is fatal.
func (m *Migrator) Migrate(root string, registry *domain.VersionRegistry, dryRun bool) error {
	depPath := filepath.Join(root, domain.PaketDependenciesFile)
	lockPath := filepath.Join(root, domain.PaketLockFile)

	declared, err := readDependencies(depPath)
	if err != nil {
		return err
	}

	locked, index, err := readLock(lockPath)
	if err != nil {
		return err
	}

	for _, name := range declared {
		entry, ok := index[strings.ToLower(name)]
		if !ok {
			return fmt.Errorf("package %q declared in %s has no entry in %s",
				name, depPath, lockPath)
		}
		if registry.AddIfAbsent(name, entry.Version) {
			logger.Infof("Found new reference %s %s", name, entry.Version)
		}
	}

	for _, entry := range locked {
		if registry.AddIfAbsent(entry.Name, entry.Version) {
			logger.Infof("Found new reference %s %s", entry.Name, entry.Version)
		}
	}

	return m.removeArtifacts(root, dryRun)
}

// readDependencies extracts the declared package names: lines starting with
// the nuget keyword, second whitespace-separated token. The file not existing
// is fatal; migration cannot proceed without it.
func readDependencies(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == nugetKeyword {
			names = append(names, fields[1])
		}
	}
	return names, nil
}

// readLock parses dependency-root entries: lines indented by exactly four
// spaces, name then a parenthesized version token. Returns the entries in
// file order plus a case-folded index.
func readLock(path string) ([]domain.Entry, map[string]domain.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	var entries []domain.Entry
	index := make(map[string]domain.Entry)

	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, rootIndent) || strings.HasPrefix(line, rootIndent+" ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		entry := domain.Entry{
			Name:    fields[0],
			Version: strings.Trim(fields[1], "()"),
		}
		entries = append(entries, entry)
		index[strings.ToLower(entry.Name)] = entry
	}

	return entries, index, nil
}

// removeArtifacts deletes the Paket cache, tool and generated-file
// directories plus the two input files. The cache directory being absent is
// reported; the other items are silently skipped when missing.
func (m *Migrator) removeArtifacts(root string, dryRun bool) error {
	cache := filepath.Join(root, domain.PaketCacheDir)
	if _, err := os.Stat(cache); os.IsNotExist(err) {
		logger.Warnf("Package cache directory %s not found", cache)
	} else if !dryRun {
		if err := os.RemoveAll(cache); err != nil {
			return fmt.Errorf("failed to remove %q: %w", cache, err)
		}
	}

	if dryRun {
		return nil
	}

	for _, dir := range []string{domain.PaketToolDir, domain.PaketGeneratedDir} {
		path := filepath.Join(root, dir)
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %q: %w", path, err)
		}
	}

	for _, name := range []string{domain.PaketDependenciesFile, domain.PaketLockFile} {
		path := filepath.Join(root, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %q: %w", path, err)
		}
	}

	return nil
}
