package domain

import (
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// ConflictStrategy decides whether a newly found version should replace the
// version already held for the same package name. It is only consulted when
// both values exist and differ.
type ConflictStrategy func(existing, candidate string) bool

// OrdinalLowest is the historical conflict rule: the candidate wins only when
// it sorts strictly lower than the existing value under ordinal (byte-wise)
// string comparison. Equal strings keep the first-seen value. This is a
// literal string-ordering policy, not semantic versioning; "1.0.0" beats
// "2.0.0" because it sorts lower.
func OrdinalLowest(existing, candidate string) bool {
	return candidate < existing
}

// SemverHighest is the opt-in semantic strategy: the candidate wins when it
// is a strictly higher semantic version. Values that do not parse as semver
// on either side fall back to the ordinal rule.
func SemverHighest(existing, candidate string) bool {
	ex, cand := normalizeVersion(existing), normalizeVersion(candidate)
	if semver.IsValid(ex) && semver.IsValid(cand) {
		return semver.Compare(cand, ex) > 0
	}
	return OrdinalLowest(existing, candidate)
}

func normalizeVersion(version string) string {
	version = strings.TrimSpace(version)
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// AddResult describes the outcome of offering a (name, version) pair to the
// registry, so callers can report newly discovered pairs and resolved
// conflicts without inspecting registry internals.
type AddResult int

const (
	// ResultAdded means the name was not present and the pair was inserted.
	ResultAdded AddResult = iota
	// ResultKept means the name was present and the existing version won.
	ResultKept
	// ResultReplaced means the name was present and the candidate won.
	ResultReplaced
)

// Entry is a single (name, version) pair held by the registry. Name carries
// the first-seen casing.
type Entry struct {
	Name    string
	Version string
}

// VersionRegistry maps package names to a single version string each.
// Keys are case-insensitive: NuGet package ids are conventionally mixed-case
// and must collapse to one entry regardless of how a project spells them.
// The registry is passed explicitly between components; there is no ambient
// global state.
type VersionRegistry struct {
	strategy ConflictStrategy
	entries  map[string]Entry
}

// NewVersionRegistry creates an empty registry using the faithful ordinal
// conflict rule.
func NewVersionRegistry() *VersionRegistry {
	return NewVersionRegistryWithStrategy(OrdinalLowest)
}

// NewVersionRegistryWithStrategy creates an empty registry using the given
// conflict strategy.
func NewVersionRegistryWithStrategy(strategy ConflictStrategy) *VersionRegistry {
	return &VersionRegistry{
		strategy: strategy,
		entries:  make(map[string]Entry),
	}
}

func fold(name string) string {
	return strings.ToLower(name)
}

// Add offers a pair under the conflict rule: new names are inserted, known
// names keep or replace their version according to the strategy.
func (r *VersionRegistry) Add(name, version string) AddResult {
	key := fold(name)
	existing, ok := r.entries[key]
	if !ok {
		r.entries[key] = Entry{Name: name, Version: version}
		return ResultAdded
	}
	if existing.Version != version && r.strategy(existing.Version, version) {
		r.entries[key] = Entry{Name: existing.Name, Version: version}
		return ResultReplaced
	}
	return ResultKept
}

// AddIfAbsent inserts the pair only when the name is unknown (first writer
// wins). The legacy migrator seeds the registry this way.
func (r *VersionRegistry) AddIfAbsent(name, version string) bool {
	key := fold(name)
	if _, ok := r.entries[key]; ok {
		return false
	}
	r.entries[key] = Entry{Name: name, Version: version}
	return true
}

// Set unconditionally stores the pair (overwrite semantics). The manifest
// reader rehydrates the registry with Set; manifest entries are unique by
// construction, so later duplicates simply win.
func (r *VersionRegistry) Set(name, version string) {
	r.entries[fold(name)] = Entry{Name: name, Version: version}
}

// Lookup returns the version held for a name, matched case-insensitively.
func (r *VersionRegistry) Lookup(name string) (string, bool) {
	e, ok := r.entries[fold(name)]
	if !ok {
		return "", false
	}
	return e.Version, true
}

// Len returns the number of entries.
func (r *VersionRegistry) Len() int {
	return len(r.entries)
}

// Entries returns all pairs sorted by name ascending (case-insensitive).
func (r *VersionRegistry) Entries() []Entry {
	result := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := fold(result[i].Name), fold(result[j].Name)
		if a != b {
			return a < b
		}
		return result[i].Name < result[j].Name
	})
	return result
}
