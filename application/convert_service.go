// Package application orchestrates the conversion and revert runs over a
// build tree. All state lives in the version registry and the in-memory
// document trees until explicit write-back.
package application

import (
	logger "github.com/sirupsen/logrus"

	"github.com/persn/CentralisedPackageConverter/domain"
	"github.com/persn/CentralisedPackageConverter/infrastructure/manifest"
	"github.com/persn/CentralisedPackageConverter/infrastructure/paket"
	"github.com/persn/CentralisedPackageConverter/infrastructure/project"
	"github.com/persn/CentralisedPackageConverter/infrastructure/scanner"
)

// ConvertOptions holds runtime options for a single convert run.
type ConvertOptions struct {
	RootDir string
	DryRun  bool
	Verbose bool
	// Semver switches conflict resolution to the semantic strategy
	// (highest version wins). The default is the ordinal string rule.
	Semver bool
	// Extensions overrides the recognized project-file extensions.
	Extensions []string
	// ExcludePackages are pinned out of the manifest in addition to the
	// built-in implicit references.
	ExcludePackages []string
}

// ConvertService runs the full migration: Paket artifacts first, then every
// project in name-sorted order, then the single manifest write. Processing is
// fully sequential; the registry must be complete before the manifest is
// written.
type ConvertService struct {
	scanner   *scanner.Scanner
	migrator  *paket.Migrator
	injector  *paket.Injector
	extractor *project.Extractor
	writer    *manifest.Writer
}

// NewConvertService creates the service with its collaborators.
func NewConvertService(
	fileScanner *scanner.Scanner,
	migrator *paket.Migrator,
	injector *paket.Injector,
	extractor *project.Extractor,
	writer *manifest.Writer,
) *ConvertService {
	return &ConvertService{
		scanner:   fileScanner,
		migrator:  migrator,
		injector:  injector,
		extractor: extractor,
		writer:    writer,
	}
}

// Execute performs one convert run. Any fatal error aborts the whole run;
// files already rewritten stay rewritten (one-shot batch semantics, rerun
// after fixing the cause).
func (s *ConvertService) Execute(opts ConvertOptions) error {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	registry := domain.NewVersionRegistry()
	if opts.Semver {
		logger.Info("Resolving version conflicts semantically (highest wins)")
		registry = domain.NewVersionRegistryWithStrategy(domain.SemverHighest)
	}

	if s.migrator.Detect(opts.RootDir) {
		logger.Infof("Migrating Paket artifacts in %s", opts.RootDir)
		if err := s.migrator.Migrate(opts.RootDir, registry, opts.DryRun); err != nil {
			return err
		}
	}

	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = domain.DefaultExtensions
	}

	paths, err := s.scanner.Discover(opts.RootDir, extensions)
	if err != nil {
		return err
	}
	logger.Infof("Found %d project files in %s", len(paths), opts.RootDir)

	for _, path := range paths {
		if err := s.convertOne(path, registry, opts.DryRun); err != nil {
			return err
		}
	}

	if registry.Len() == 0 {
		logger.Info("No versioned package references found, nothing to convert")
		return nil
	}

	return s.writer.Write(opts.RootDir, registry, opts.ExcludePackages, opts.DryRun)
}

func (s *ConvertService) convertOne(path string, registry *domain.VersionRegistry, dryRun bool) error {
	file, err := project.LoadPackageFile(path)
	if err != nil {
		return err
	}

	removed := s.extractor.Extract(file, registry)
	logger.Debugf("Removed %d version attribute(s) from %s", removed, path)

	if scanner.IsProject(path) && s.injector.Detect(file.Dir()) {
		if err := s.injector.Inject(file, dryRun); err != nil {
			return err
		}
	}

	return file.Save(dryRun)
}
