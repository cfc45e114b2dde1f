package project

import (
	"github.com/beevik/etree"
	logger "github.com/sirupsen/logrus"

	"github.com/persn/CentralisedPackageConverter/domain"
	"github.com/persn/CentralisedPackageConverter/infrastructure/xmldoc"
)

const (
	referenceTag = "PackageReference"
	includeAttr  = "Include"
	updateAttr   = "Update"
	versionAttr  = "Version"
)

// Extractor harvests versioned package references out of a project file into
// the registry and strips the version information from the tree.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// classify resolves a reference node to a declaration: the introducing
// attribute wins, the modifying attribute is the fallback.
func classify(node *etree.Element) (domain.Declaration, bool) {
	if name, ok := xmldoc.Attr(node, includeAttr); ok && name != "" {
		return domain.Declaration{Name: name, Kind: domain.KindIntroducing}, true
	}
	if name, ok := xmldoc.Attr(node, updateAttr); ok && name != "" {
		return domain.Declaration{Name: name, Kind: domain.KindModifying}, true
	}
	return domain.Declaration{}, false
}

// Extract processes every package reference in document order, removing
// version attributes and feeding the captured pairs through the registry's
// conflict rule. Modifying declarations left with only their Update attribute
// and no child elements are vestigial and pruned after the pass. The number
// of versions removed is returned.
func (e *Extractor) Extract(file *PackageFile, registry *domain.VersionRegistry) int {
	removed := 0
	var vestigial []*etree.Element

	for _, node := range xmldoc.FindDescendants(file.Doc.Root(), referenceTag) {
		decl, ok := classify(node)
		if !ok {
			continue
		}

		version, ok := xmldoc.RemoveAttr(node, versionAttr)
		if !ok {
			continue
		}
		removed++
		file.MarkDirty()

		if decl.DeletionEligible() && len(node.Attr) == 1 && len(node.ChildElements()) == 0 {
			vestigial = append(vestigial, node)
		}

		switch registry.Add(decl.Name, version) {
		case domain.ResultAdded:
			logger.Infof("Found new reference %s %s", decl.Name, version)
		case domain.ResultReplaced:
			logger.Infof("Resolved conflict for %s: now %s", decl.Name, version)
		case domain.ResultKept:
			current, _ := registry.Lookup(decl.Name)
			logger.Debugf("Resolved conflict for %s: keeping %s, dropping %s",
				decl.Name, current, version)
		}
	}

	for _, node := range vestigial {
		xmldoc.Remove(node)
	}

	return removed
}
