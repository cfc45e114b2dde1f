package paket

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	logger "github.com/sirupsen/logrus"

	"github.com/persn/CentralisedPackageConverter/domain"
	"github.com/persn/CentralisedPackageConverter/infrastructure/project"
	"github.com/persn/CentralisedPackageConverter/infrastructure/xmldoc"
)

const (
	commentDelimiter = "//"
	paketMarker      = ".paket"

	referenceTag = "PackageReference"
	includeAttr  = "Include"
)

// referenceLine is one parsed line of a paket.references file.
type referenceLine struct {
	Package string
	Comment string
}

// Injector converts a project's paket.references file into unversioned
// PackageReference declarations inside the project document, removes the
// Paket restore import, and cleans generated binding redirects out of the
// project's runtime config files.
type Injector struct{}

// NewInjector creates an Injector.
func NewInjector() *Injector {
	return &Injector{}
}

// Detect reports whether the directory carries a per-project reference file.
func (i *Injector) Detect(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, domain.PaketReferencesFile))
	return err == nil
}

// Inject runs the full per-project migration. The reference file is deleted
// at the end unless running in dry-run mode; the deletion is reported either
// way.
func (i *Injector) Inject(file *project.PackageFile, dryRun bool) error {
	refPath := filepath.Join(file.Dir(), domain.PaketReferencesFile)

	data, err := os.ReadFile(refPath)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", refPath, err)
	}

	lines := parseReferences(string(data))
	if len(lines) > 0 {
		group := findOrCreateReferenceGroup(file.Doc.Root())
		for _, line := range lines {
			if line.Comment != "" {
				group.CreateComment(" " + line.Comment + " ")
			}
			if line.Package != "" {
				logger.Infof("Migrating Paket reference %s in %s", line.Package, file.Path)
				ref := group.CreateElement(referenceTag)
				ref.CreateAttr(includeAttr, line.Package)
			}
		}
		file.MarkDirty()
		file.MarkReformat()
	}

	i.removeRestoreImport(file, dryRun)

	if err := i.cleanRuntimeConfigs(file.Dir()); err != nil {
		return err
	}

	if dryRun {
		logger.Infof("[DRY RUN] Deleting %s", refPath)
		return nil
	}
	logger.Infof("Deleting %s", refPath)
	if err := os.Remove(refPath); err != nil {
		return fmt.Errorf("failed to remove %q: %w", refPath, err)
	}

	return nil
}

// parseReferences splits non-empty lines into a declaration part and an
// optional trailing comment. Only the first whitespace-separated token of the
// declaration part names a package; trailing metadata tokens are ignored.
func parseReferences(content string) []referenceLine {
	var lines []referenceLine

	for _, raw := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}

		var line referenceLine
		decl := trimmed
		if idx := strings.Index(trimmed, commentDelimiter); idx >= 0 {
			decl = strings.TrimSpace(trimmed[:idx])
			line.Comment = strings.TrimSpace(trimmed[idx+len(commentDelimiter):])
		}
		if fields := strings.Fields(decl); len(fields) > 0 {
			line.Package = fields[0]
		}
		lines = append(lines, line)
	}

	return lines
}

// findOrCreateReferenceGroup returns the parent of an existing package
// reference, or synthesizes a new ItemGroup. A new group lands immediately
// before the project-reference group when one exists, otherwise after the
// last top-level PropertyGroup, otherwise as the final child of the root.
func findOrCreateReferenceGroup(root *etree.Element) *etree.Element {
	if ref := xmldoc.FindFirst(root, referenceTag); ref != nil {
		return ref.Parent()
	}

	group := etree.NewElement("ItemGroup")

	if projRef := xmldoc.FindFirst(root, "ProjectReference"); projRef != nil {
		xmldoc.InsertBefore(projRef.Parent(), group)
		return group
	}

	var lastProperties *etree.Element
	for _, child := range root.ChildElements() {
		if child.Tag == "PropertyGroup" {
			lastProperties = child
		}
	}
	if lastProperties != nil {
		xmldoc.InsertAfter(lastProperties, group)
		return group
	}

	root.AddChild(group)
	return group
}

// removeRestoreImport drops the Import node referencing the Paket restore
// targets. The lookup happens in every mode; the removal itself only when
// not in dry-run.
func (i *Injector) removeRestoreImport(file *project.PackageFile, dryRun bool) {
	for _, imp := range xmldoc.FindDescendants(file.Doc.Root(), "Import") {
		target := imp.SelectAttrValue("Project", "")
		if !strings.Contains(strings.ToLower(target), paketMarker) {
			continue
		}
		if dryRun {
			logger.Infof("[DRY RUN] Removing Paket restore import from %s", file.Path)
			continue
		}
		logger.Infof("Removing Paket restore import from %s", file.Path)
		xmldoc.Remove(imp)
		file.MarkDirty()
	}
}
