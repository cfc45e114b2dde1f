package application

import (
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/persn/CentralisedPackageConverter/domain"
	"github.com/persn/CentralisedPackageConverter/infrastructure/manifest"
	"github.com/persn/CentralisedPackageConverter/infrastructure/project"
	"github.com/persn/CentralisedPackageConverter/infrastructure/scanner"
)

// RevertOptions holds runtime options for a single revert run.
type RevertOptions struct {
	RootDir    string
	DryRun     bool
	Verbose    bool
	Extensions []string
}

// RevertService undoes a conversion: versions flow from the manifest back
// into every project's package references, then the manifest is deleted.
type RevertService struct {
	scanner  *scanner.Scanner
	reader   *manifest.Reader
	reverter *project.Reverter
}

// NewRevertService creates the service with its collaborators.
func NewRevertService(
	fileScanner *scanner.Scanner,
	reader *manifest.Reader,
	reverter *project.Reverter,
) *RevertService {
	return &RevertService{
		scanner:  fileScanner,
		reader:   reader,
		reverter: reverter,
	}
}

// Execute performs one revert run. A missing manifest is fatal; a package
// reference without a manifest entry is reported and left unversioned.
func (s *RevertService) Execute(opts RevertOptions) error {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	registry := domain.NewVersionRegistry()
	if err := s.reader.Read(opts.RootDir, registry); err != nil {
		return err
	}

	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = domain.DefaultExtensions
	}

	paths, err := s.scanner.Discover(opts.RootDir, extensions)
	if err != nil {
		return err
	}

	for _, path := range paths {
		file, loadErr := project.LoadPackageFile(path)
		if loadErr != nil {
			return loadErr
		}

		applied := s.reverter.Apply(file, registry)
		logger.Debugf("Re-applied %d version(s) in %s", applied, path)

		if saveErr := file.Save(opts.DryRun); saveErr != nil {
			return saveErr
		}
	}

	manifestPath := filepath.Join(opts.RootDir, domain.ManifestFileName)
	if opts.DryRun {
		logger.Infof("[DRY RUN] Deleting %s", manifestPath)
		return nil
	}
	logger.Infof("Deleting %s", manifestPath)
	if err := os.Remove(manifestPath); err != nil {
		return fmt.Errorf("failed to remove %q: %w", manifestPath, err)
	}

	return nil
}
