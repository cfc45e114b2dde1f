package paket

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	logger "github.com/sirupsen/logrus"

	"github.com/persn/CentralisedPackageConverter/infrastructure/xmldoc"
)

const (
	configExtension = ".config"
	bindingTag      = "assemblyBinding"
	assemblyTag     = "dependentAssembly"
	generatedMarker = "Paket"
	generatedValue  = "true"
)

// cleanRuntimeConfigs removes Paket-generated binding-redirect blocks from
// every app/web config file in the project directory. A block is generated
// when every one of its dependent-assembly entries carries the Paket marker
// element set to true; mixed blocks are left alone. An emptied parent group
// is removed along with the block.
//
// Historical quirk kept on purpose: the rewritten config is persisted
// unconditionally, even in dry-run mode.
func (i *Injector) cleanRuntimeConfigs(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %q: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !isRuntimeConfig(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		doc, loadErr := xmldoc.Load(path)
		if loadErr != nil {
			return loadErr
		}

		if removed := removeGeneratedBindings(doc.Root()); removed > 0 {
			logger.Infof("Removed %d Paket binding redirect block(s) from %s", removed, path)
		}

		if saveErr := xmldoc.SaveIndented(doc, path); saveErr != nil {
			return saveErr
		}
	}

	return nil
}

func isRuntimeConfig(name string) bool {
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, configExtension) {
		return false
	}
	return strings.Contains(lower, "app.config") || strings.Contains(lower, "web.config")
}

func removeGeneratedBindings(root *etree.Element) int {
	var doomed []*etree.Element
	for _, binding := range xmldoc.FindDescendants(root, bindingTag) {
		if isPaketGenerated(binding) {
			doomed = append(doomed, binding)
		}
	}

	for _, binding := range doomed {
		parent := binding.Parent()
		xmldoc.Remove(binding)
		if parent != nil && parent != root && len(parent.ChildElements()) == 0 {
			xmldoc.Remove(parent)
		}
	}

	return len(doomed)
}

func isPaketGenerated(binding *etree.Element) bool {
	assemblies := childrenByTag(binding, assemblyTag)
	if len(assemblies) == 0 {
		return false
	}
	for _, assembly := range assemblies {
		marker := xmldoc.FindFirst(assembly, generatedMarker)
		if marker == nil || !strings.EqualFold(strings.TrimSpace(marker.Text()), generatedValue) {
			return false
		}
	}
	return true
}

func childrenByTag(el *etree.Element, tag string) []*etree.Element {
	var matches []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			matches = append(matches, child)
		}
	}
	return matches
}
