// Package xmldoc is the document model used by every XML-rewriting component:
// a mutable tree with namespace-agnostic lookup by local tag name, attribute
// removal, sibling insertion, and serialization that round-trips the original
// insignificant whitespace unless the caller asks for re-indentation.
package xmldoc

import (
	"fmt"

	"github.com/beevik/etree"
)

// Load parses the file at path into a mutable tree. Malformed input is a
// fatal parse error; there is no recovery path.
func Load(path string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("failed to parse %q: no root element", path)
	}
	return doc, nil
}

// Parse parses raw bytes into a mutable tree, with the same failure contract
// as Load.
func Parse(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("failed to parse document: no root element")
	}
	return doc, nil
}

// Save serializes the tree back to path exactly as held in memory. Documents
// loaded with Load keep their original whitespace, so this is the
// whitespace-preserving write used for project rewriting.
func Save(doc *etree.Document, path string) error {
	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}

// SaveIndented re-indents the tree and writes it to path. Used where layout
// fidelity does not matter: the manifest and documents whose content was
// synthesized rather than edited in place.
func SaveIndented(doc *etree.Document, path string) error {
	doc.Indent(2)
	return Save(doc, path)
}

// FindDescendants returns every descendant of el (excluding el itself) whose
// local tag name matches name, in document order. The match ignores any
// namespace prefix bound to the tag; build-file dialects differ in declared
// namespaces, so lookups key on the unqualified name only.
func FindDescendants(el *etree.Element, name string) []*etree.Element {
	var found []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == name {
			found = append(found, child)
		}
		found = append(found, FindDescendants(child, name)...)
	}
	return found
}

// FindFirst returns the first descendant with the given local tag name, or
// nil when none exists.
func FindFirst(el *etree.Element, name string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == name {
			return child
		}
		if match := FindFirst(child, name); match != nil {
			return match
		}
	}
	return nil
}

// Attr returns the value of the named attribute and whether it is present.
func Attr(el *etree.Element, key string) (string, bool) {
	attr := el.SelectAttr(key)
	if attr == nil {
		return "", false
	}
	return attr.Value, true
}

// RemoveAttr removes the named attribute, returning its value and whether it
// was present.
func RemoveAttr(el *etree.Element, key string) (string, bool) {
	attr := el.RemoveAttr(key)
	if attr == nil {
		return "", false
	}
	return attr.Value, true
}

// InsertBefore attaches el as a sibling immediately preceding ref.
func InsertBefore(ref, el *etree.Element) {
	ref.Parent().InsertChildAt(ref.Index(), el)
}

// InsertAfter attaches el as a sibling immediately following ref.
func InsertAfter(ref, el *etree.Element) {
	ref.Parent().InsertChildAt(ref.Index()+1, el)
}

// Remove detaches el from its parent. Detaching the root is not supported.
func Remove(el *etree.Element) {
	if parent := el.Parent(); parent != nil {
		parent.RemoveChild(el)
	}
}
