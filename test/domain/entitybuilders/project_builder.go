package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"fmt"
	"strings"

	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// ProjectBuilder renders MSBuild project file content for tests with a
// fluent interface.
type ProjectBuilder struct {
	*testkit.BaseBuilder
	sdk               string
	packageItems      []string
	projectReferences []string
}

// NewProjectBuilder creates a new project builder with sensible defaults.
func NewProjectBuilder() *ProjectBuilder {
	return &ProjectBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		sdk:         "Microsoft.NET.Sdk",
	}
}

// WithReference adds a versioned PackageReference (introducing form).
func (b *ProjectBuilder) WithReference(name, version string) *ProjectBuilder {
	b.packageItems = append(b.packageItems, fmt.Sprintf(
		`<PackageReference Include=%q Version=%q />`, name, version))
	return b
}

// WithUnversionedReference adds a PackageReference without a version.
func (b *ProjectBuilder) WithUnversionedReference(name string) *ProjectBuilder {
	b.packageItems = append(b.packageItems, fmt.Sprintf(
		`<PackageReference Include=%q />`, name))
	return b
}

// WithUpdateReference adds a versioned PackageReference in the modifying
// (Update) form.
func (b *ProjectBuilder) WithUpdateReference(name, version string) *ProjectBuilder {
	b.packageItems = append(b.packageItems, fmt.Sprintf(
		`<PackageReference Update=%q Version=%q />`, name, version))
	return b
}

// WithRawItem adds arbitrary item markup to the package item group.
func (b *ProjectBuilder) WithRawItem(markup string) *ProjectBuilder {
	b.packageItems = append(b.packageItems, markup)
	return b
}

// WithProjectReference adds a ProjectReference item group entry.
func (b *ProjectBuilder) WithProjectReference(path string) *ProjectBuilder {
	b.projectReferences = append(b.projectReferences, fmt.Sprintf(
		`<ProjectReference Include=%q />`, path))
	return b
}

// Build creates the project content (satisfies testkit.Builder interface).
func (b *ProjectBuilder) Build() interface{} {
	return b.BuildProject()
}

// BuildProject creates the project content with a concrete return type.
func (b *ProjectBuilder) BuildProject() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<Project Sdk=%q>\n", b.sdk))
	sb.WriteString("  <PropertyGroup>\n")
	sb.WriteString("    <TargetFramework>net8.0</TargetFramework>\n")
	sb.WriteString("  </PropertyGroup>\n")

	if len(b.packageItems) > 0 {
		sb.WriteString("  <ItemGroup>\n")
		for _, item := range b.packageItems {
			sb.WriteString("    " + item + "\n")
		}
		sb.WriteString("  </ItemGroup>\n")
	}

	if len(b.projectReferences) > 0 {
		sb.WriteString("  <ItemGroup>\n")
		for _, item := range b.projectReferences {
			sb.WriteString("    " + item + "\n")
		}
		sb.WriteString("  </ItemGroup>\n")
	}

	sb.WriteString("</Project>\n")
	return sb.String()
}

// Reset clears the builder state, allowing it to be reused.
func (b *ProjectBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.sdk = "Microsoft.NET.Sdk"
	b.packageItems = nil
	b.projectReferences = nil
	return b
}

// Clone creates a deep copy of the ProjectBuilder.
func (b *ProjectBuilder) Clone() testkit.Builder {
	return &ProjectBuilder{
		BaseBuilder:       b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		sdk:               b.sdk,
		packageItems:      append([]string(nil), b.packageItems...),
		projectReferences: append([]string(nil), b.projectReferences...),
	}
}
