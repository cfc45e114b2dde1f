package domain

// ManifestFileName is the central version manifest written to the root of the
// converted tree. It is excluded from project discovery by name.
const ManifestFileName = "Directory.Packages.props"

// ManagedCentrallyProperty is the boilerplate element written into the
// manifest to switch the build over to central version management.
const ManagedCentrallyProperty = "ManagePackageVersionsCentrally"

// Paket artifact names and directories.
const (
	PaketDependenciesFile = "paket.dependencies"
	PaketLockFile         = "paket.lock"
	PaketReferencesFile   = "paket.references"

	PaketToolDir      = ".paket"
	PaketCacheDir     = "packages"
	PaketGeneratedDir = "paket-files"
)

// DefaultExtensions is the recognized set of MSBuild file extensions scanned
// for package references.
var DefaultExtensions = []string{".csproj", ".vbproj", ".fsproj", ".props", ".targets"}

// ProjectOnlyExtensions identify an actual project, as opposed to shared
// property/target files. Paket keeps its per-project reference file next to
// these, so legacy reference injection applies to them only.
var ProjectOnlyExtensions = []string{".csproj", ".vbproj", ".fsproj"}

// ImplicitPackages are framework references resolved by the SDK itself.
// They are never pinned in the central manifest, even when a project carried
// an explicit version for one of them.
var ImplicitPackages = []string{
	"Microsoft.AspNetCore.App",
	"Microsoft.NETCore.App",
	"NETStandard.Library",
}

// DeclarationKind distinguishes how a PackageReference names its package.
type DeclarationKind int

const (
	// KindIntroducing creates a new reference entry (Include attribute).
	KindIntroducing DeclarationKind = iota
	// KindModifying amends a reference declared elsewhere (Update attribute).
	KindModifying
)

// Declaration is a classified dependency declaration found in a project file.
type Declaration struct {
	Name string
	Kind DeclarationKind
}

// DeletionEligible reports whether the declaration's node may be pruned when
// it becomes vestigial after version removal. Only modifying declarations
// qualify; an introducing declaration is meaningful even when emptied.
func (d Declaration) DeletionEligible() bool {
	return d.Kind == KindModifying
}
