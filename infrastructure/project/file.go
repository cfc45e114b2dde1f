// Package project implements the per-file rewrite engines: harvesting and
// stripping versioned package references on convert, and re-injecting
// versions on revert.
package project

import (
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	logger "github.com/sirupsen/logrus"

	"github.com/persn/CentralisedPackageConverter/infrastructure/xmldoc"
)

// PackageFile is one build file loaded into a mutable tree. Instances are
// never shared: loaded at scan time, mutated in place, persisted on demand.
type PackageFile struct {
	Path string
	Doc  *etree.Document

	dirty    bool
	reformat bool
}

// LoadPackageFile parses the build file at path with whitespace preservation,
// so an in-place rewrite keeps the author's layout. Malformed XML is fatal.
func LoadPackageFile(path string) (*PackageFile, error) {
	doc, err := xmldoc.Load(path)
	if err != nil {
		return nil, err
	}
	return &PackageFile{Path: path, Doc: doc}, nil
}

// Ext returns the lower-cased file extension.
func (f *PackageFile) Ext() string {
	return strings.ToLower(filepath.Ext(f.Path))
}

// Dir returns the directory containing the file.
func (f *PackageFile) Dir() string {
	return filepath.Dir(f.Path)
}

// MarkDirty records that the tree differs from the file on disk.
func (f *PackageFile) MarkDirty() {
	f.dirty = true
}

// MarkReformat records that synthesized content was added, so the next save
// re-indents the document instead of preserving the original layout.
func (f *PackageFile) MarkReformat() {
	f.reformat = true
}

// Dirty reports whether the tree holds unsaved changes.
func (f *PackageFile) Dirty() bool {
	return f.dirty
}

// Save persists the tree when it is dirty. Saving is idempotent: a clean file
// is never rewritten, and a successful save clears the dirty flag. In dry-run
// mode the write is suppressed while everything else behaves identically.
func (f *PackageFile) Save(dryRun bool) error {
	if !f.dirty {
		return nil
	}

	if dryRun {
		logger.Infof("[DRY RUN] Updating %s", f.Path)
		return nil
	}
	logger.Infof("Updating %s", f.Path)

	var err error
	if f.reformat {
		err = xmldoc.SaveIndented(f.Doc, f.Path)
	} else {
		err = xmldoc.Save(f.Doc, f.Path)
	}
	if err != nil {
		return err
	}

	f.dirty = false
	return nil
}
