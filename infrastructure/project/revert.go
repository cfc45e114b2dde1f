package project

import (
	logger "github.com/sirupsen/logrus"

	"github.com/persn/CentralisedPackageConverter/domain"
	"github.com/persn/CentralisedPackageConverter/infrastructure/xmldoc"
)

// Reverter re-injects centrally managed versions back into a project file's
// package references, undoing a conversion.
type Reverter struct{}

// NewReverter creates a Reverter.
func NewReverter() *Reverter {
	return &Reverter{}
}

// Apply sets the version attribute on every package reference that has an
// entry in the registry. A missing entry is a reported skip, never fatal: the
// declaration is left unversioned and processing continues. Returns the
// number of versions set.
func (r *Reverter) Apply(file *PackageFile, registry *domain.VersionRegistry) int {
	applied := 0

	for _, node := range xmldoc.FindDescendants(file.Doc.Root(), referenceTag) {
		decl, ok := classify(node)
		if !ok {
			continue
		}

		version, found := registry.Lookup(decl.Name)
		if !found {
			logger.Warnf("No centrally managed version for %s in %s, leaving unversioned",
				decl.Name, file.Path)
			continue
		}

		node.CreateAttr(versionAttr, version)
		applied++
		file.MarkDirty()
	}

	return applied
}
