// Package manifest serializes the version registry to the central
// Directory.Packages.props file and parses it back during a revert.
package manifest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	logger "github.com/sirupsen/logrus"

	"github.com/persn/CentralisedPackageConverter/domain"
	"github.com/persn/CentralisedPackageConverter/infrastructure/xmldoc"
)

const (
	versionEntryTag = "PackageVersion"
	includeAttr     = "Include"
	versionAttr     = "Version"
)

// Writer renders the registry into the central manifest. There is no merge
// with a pre-existing manifest: the file is regenerated in full.
type Writer struct {
	report io.Writer
}

// NewWriter creates a Writer reporting to stdout in dry-run mode.
func NewWriter() *Writer {
	return &Writer{report: os.Stdout}
}

// NewWriterWithReport creates a Writer with a custom dry-run report stream.
func NewWriterWithReport(report io.Writer) *Writer {
	return &Writer{report: report}
}

// Write emits one PackageVersion entry per registry pair, sorted by name,
// wrapped in the central-management boilerplate. Names in the exclusion set
// (implicit framework references plus configured extras) are filtered out
// even when a project carried them with an explicit version. In dry-run mode
// the identical content goes to the report stream instead of the filesystem.
func (w *Writer) Write(root string, registry *domain.VersionRegistry, extraExclusions []string, dryRun bool) error {
	excluded := exclusionSet(extraExclusions)

	doc := etree.NewDocument()
	projectEl := doc.CreateElement("Project")

	properties := projectEl.CreateElement("PropertyGroup")
	properties.CreateElement(domain.ManagedCentrallyProperty).SetText("true")

	group := projectEl.CreateElement("ItemGroup")
	written := 0
	for _, entry := range registry.Entries() {
		if excluded[strings.ToLower(entry.Name)] {
			logger.Debugf("Excluding implicit reference %s from the manifest", entry.Name)
			continue
		}
		versionEl := group.CreateElement(versionEntryTag)
		versionEl.CreateAttr(includeAttr, entry.Name)
		versionEl.CreateAttr(versionAttr, entry.Version)
		written++
	}

	path := filepath.Join(root, domain.ManifestFileName)
	if dryRun {
		logger.Infof("[DRY RUN] Writing %d package versions to %s", written, path)
	} else {
		logger.Infof("Writing %d package versions to %s", written, path)
	}

	doc.Indent(2)
	if dryRun {
		content, err := doc.WriteToString()
		if err != nil {
			return fmt.Errorf("failed to render manifest: %w", err)
		}
		_, err = io.WriteString(w.report, content)
		return err
	}

	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}

func exclusionSet(extra []string) map[string]bool {
	excluded := make(map[string]bool, len(domain.ImplicitPackages)+len(extra))
	for _, name := range domain.ImplicitPackages {
		excluded[strings.ToLower(name)] = true
	}
	for _, name := range extra {
		excluded[strings.ToLower(name)] = true
	}
	return excluded
}

// Reader rehydrates the registry from an existing manifest.
type Reader struct{}

// NewReader creates a Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read parses the manifest under root and stores every (Include, Version)
// pair with overwrite semantics. A missing or malformed manifest is fatal:
// without it there is nothing to revert from.
func (r *Reader) Read(root string, registry *domain.VersionRegistry) error {
	path := filepath.Join(root, domain.ManifestFileName)
	doc, err := xmldoc.Load(path)
	if err != nil {
		return err
	}

	for _, entry := range xmldoc.FindDescendants(doc.Root(), versionEntryTag) {
		name, ok := xmldoc.Attr(entry, includeAttr)
		if !ok || name == "" {
			continue
		}
		version, _ := xmldoc.Attr(entry, versionAttr)
		registry.Set(name, version)
	}

	logger.Infof("Read %d package versions from %s", registry.Len(), path)
	return nil
}
