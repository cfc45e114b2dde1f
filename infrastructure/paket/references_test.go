package paket_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/persn/CentralisedPackageConverter/domain"
	"github.com/persn/CentralisedPackageConverter/infrastructure/paket"
	"github.com/persn/CentralisedPackageConverter/infrastructure/project"
	"github.com/persn/CentralisedPackageConverter/infrastructure/xmldoc"
)

const legacyProjectContent = `<Project ToolsVersion="15.0">
  <PropertyGroup>
    <TargetFramework>net48</TargetFramework>
  </PropertyGroup>
  <ItemGroup>
    <ProjectReference Include="..\Shared\Shared.csproj" />
  </ItemGroup>
  <Import Project="..\.paket\Paket.Restore.targets" />
</Project>
`

const paketAppConfig = `<configuration>
  <runtime>
    <assemblyBinding xmlns="urn:schemas-microsoft-com:asm.v1">
      <dependentAssembly>
        <Paket>True</Paket>
        <assemblyIdentity name="Newtonsoft.Json" publicKeyToken="30ad4fe6b2a6aeed" />
        <bindingRedirect oldVersion="0.0.0.0-13.0.0.0" newVersion="13.0.0.0" />
      </dependentAssembly>
    </assemblyBinding>
  </runtime>
</configuration>
`

const mixedAppConfig = `<configuration>
  <runtime>
    <assemblyBinding xmlns="urn:schemas-microsoft-com:asm.v1">
      <dependentAssembly>
        <Paket>True</Paket>
        <assemblyIdentity name="Newtonsoft.Json" />
      </dependentAssembly>
      <dependentAssembly>
        <assemblyIdentity name="HandWritten.Lib" />
      </dependentAssembly>
    </assemblyBinding>
  </runtime>
</configuration>
`

func writeLegacyProject(t *testing.T, references string) *project.PackageFile {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "Legacy.csproj")
	require.NoError(t, os.WriteFile(path, []byte(legacyProjectContent), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, domain.PaketReferencesFile), []byte(references), 0o644))

	file, err := project.LoadPackageFile(path)
	require.NoError(t, err)
	return file
}

func TestInjector_Detect(t *testing.T) {
	t.Parallel()

	t.Run("should detect a directory with a reference file", func(t *testing.T) {
		t.Parallel()

		// given
		file := writeLegacyProject(t, "Newtonsoft.Json\n")

		// when
		detected := paket.NewInjector().Detect(file.Dir())

		// then
		assert.True(t, detected)
	})

	t.Run("should not detect a plain project directory", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()

		// when
		detected := paket.NewInjector().Detect(dir)

		// then
		assert.False(t, detected)
	})
}

func TestInjector_Inject(t *testing.T) {
	t.Parallel()

	t.Run("should synthesize unversioned declarations in file order", func(t *testing.T) {
		t.Parallel()

		// given
		file := writeLegacyProject(t, "Newtonsoft.Json\nSerilog framework: net48\n")

		// when
		err := paket.NewInjector().Inject(file, false)

		// then
		require.NoError(t, err)

		refs := xmldoc.FindDescendants(file.Doc.Root(), "PackageReference")
		require.Len(t, refs, 2)
		assert.Equal(t, "Newtonsoft.Json", refs[0].SelectAttrValue("Include", ""))
		assert.Equal(t, "Serilog", refs[1].SelectAttrValue("Include", ""))
		for _, ref := range refs {
			_, present := xmldoc.Attr(ref, "Version")
			assert.False(t, present)
		}
	})

	t.Run("should carry trailing comments into the group", func(t *testing.T) {
		t.Parallel()

		// given
		file := writeLegacyProject(t, "Newtonsoft.Json // pinned for compatibility\n")

		// when
		err := paket.NewInjector().Inject(file, false)

		// then
		require.NoError(t, err)
		rendered, renderErr := file.Doc.WriteToString()
		require.NoError(t, renderErr)
		assert.Contains(t, rendered, "pinned for compatibility")
	})

	t.Run("should place the new group before the project reference group", func(t *testing.T) {
		t.Parallel()

		// given
		file := writeLegacyProject(t, "Newtonsoft.Json\n")

		// when
		err := paket.NewInjector().Inject(file, false)

		// then
		require.NoError(t, err)

		var packageGroupIdx, projectGroupIdx int
		for idx, child := range file.Doc.Root().ChildElements() {
			if child.Tag != "ItemGroup" {
				continue
			}
			if xmldoc.FindFirst(child, "PackageReference") != nil {
				packageGroupIdx = idx
			}
			if xmldoc.FindFirst(child, "ProjectReference") != nil {
				projectGroupIdx = idx
			}
		}
		assert.Less(t, packageGroupIdx, projectGroupIdx)
	})

	t.Run("should append to an existing package reference group", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		path := filepath.Join(dir, "App.csproj")
		content := `<Project><ItemGroup><PackageReference Include="Existing" /></ItemGroup></Project>`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, domain.PaketReferencesFile), []byte("Added.Lib\n"), 0o644))
		file, err := project.LoadPackageFile(path)
		require.NoError(t, err)

		// when
		require.NoError(t, paket.NewInjector().Inject(file, false))

		// then
		groups := xmldoc.FindDescendants(file.Doc.Root(), "ItemGroup")
		require.Len(t, groups, 1)
		assert.Len(t, xmldoc.FindDescendants(groups[0], "PackageReference"), 2)
	})

	t.Run("should fall back to the document root without anchors", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		path := filepath.Join(dir, "Bare.csproj")
		require.NoError(t, os.WriteFile(path, []byte(`<Project></Project>`), 0o644))
		require.NoError(t, os.WriteFile(
			filepath.Join(dir, domain.PaketReferencesFile), []byte("Some.Lib\n"), 0o644))
		file, err := project.LoadPackageFile(path)
		require.NoError(t, err)

		// when
		require.NoError(t, paket.NewInjector().Inject(file, false))

		// then
		refs := xmldoc.FindDescendants(file.Doc.Root(), "PackageReference")
		assert.Len(t, refs, 1)
	})

	t.Run("should remove the paket restore import", func(t *testing.T) {
		t.Parallel()

		// given
		file := writeLegacyProject(t, "Newtonsoft.Json\n")

		// when
		err := paket.NewInjector().Inject(file, false)

		// then
		require.NoError(t, err)
		assert.Empty(t, xmldoc.FindDescendants(file.Doc.Root(), "Import"))
	})

	t.Run("should keep the restore import in dry-run mode", func(t *testing.T) {
		t.Parallel()

		// given
		file := writeLegacyProject(t, "Newtonsoft.Json\n")

		// when
		err := paket.NewInjector().Inject(file, true)

		// then
		require.NoError(t, err)
		assert.Len(t, xmldoc.FindDescendants(file.Doc.Root(), "Import"), 1)
	})

	t.Run("should delete the reference file", func(t *testing.T) {
		t.Parallel()

		// given
		file := writeLegacyProject(t, "Newtonsoft.Json\n")
		refPath := filepath.Join(file.Dir(), domain.PaketReferencesFile)

		// when
		err := paket.NewInjector().Inject(file, false)

		// then
		require.NoError(t, err)
		_, statErr := os.Stat(refPath)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("should keep the reference file in dry-run mode", func(t *testing.T) {
		t.Parallel()

		// given
		file := writeLegacyProject(t, "Newtonsoft.Json\n")
		refPath := filepath.Join(file.Dir(), domain.PaketReferencesFile)

		// when
		err := paket.NewInjector().Inject(file, true)

		// then
		require.NoError(t, err)
		_, statErr := os.Stat(refPath)
		assert.NoError(t, statErr)
	})
}

func TestInjector_ConfigCleanup(t *testing.T) {
	t.Parallel()

	t.Run("should strip fully generated binding blocks and their emptied parent", func(t *testing.T) {
		t.Parallel()

		// given
		file := writeLegacyProject(t, "Newtonsoft.Json\n")
		cfgPath := filepath.Join(file.Dir(), "App.config")
		require.NoError(t, os.WriteFile(cfgPath, []byte(paketAppConfig), 0o644))

		// when
		err := paket.NewInjector().Inject(file, false)

		// then
		require.NoError(t, err)

		doc, loadErr := xmldoc.Load(cfgPath)
		require.NoError(t, loadErr)
		assert.Empty(t, xmldoc.FindDescendants(doc.Root(), "assemblyBinding"))
		assert.Empty(t, xmldoc.FindDescendants(doc.Root(), "runtime"))
	})

	t.Run("should retain blocks containing hand-written redirects", func(t *testing.T) {
		t.Parallel()

		// given
		file := writeLegacyProject(t, "Newtonsoft.Json\n")
		cfgPath := filepath.Join(file.Dir(), "Web.config")
		require.NoError(t, os.WriteFile(cfgPath, []byte(mixedAppConfig), 0o644))

		// when
		err := paket.NewInjector().Inject(file, false)

		// then
		require.NoError(t, err)

		doc, loadErr := xmldoc.Load(cfgPath)
		require.NoError(t, loadErr)
		assert.Len(t, xmldoc.FindDescendants(doc.Root(), "assemblyBinding"), 1)
		assert.Len(t, xmldoc.FindDescendants(doc.Root(), "dependentAssembly"), 2)
	})

	t.Run("should ignore unrelated config files", func(t *testing.T) {
		t.Parallel()

		// given
		file := writeLegacyProject(t, "Newtonsoft.Json\n")
		cfgPath := filepath.Join(file.Dir(), "packages.config")
		original := "<packages>\n  <package id=\"X\" />\n</packages>\n"
		require.NoError(t, os.WriteFile(cfgPath, []byte(original), 0o644))

		// when
		err := paket.NewInjector().Inject(file, false)

		// then
		require.NoError(t, err)
		written, readErr := os.ReadFile(cfgPath)
		require.NoError(t, readErr)
		assert.Equal(t, original, string(written))
	})

	// The cleanup persists its rewrite unconditionally. This is a preserved
	// asymmetry: dry-run suppresses every other filesystem mutation, but a
	// matching runtime config is written back regardless.
	t.Run("should rewrite runtime configs even in dry-run mode", func(t *testing.T) {
		t.Parallel()

		// given
		file := writeLegacyProject(t, "Newtonsoft.Json\n")
		cfgPath := filepath.Join(file.Dir(), "App.config")
		require.NoError(t, os.WriteFile(cfgPath, []byte(paketAppConfig), 0o644))

		// when
		err := paket.NewInjector().Inject(file, true)

		// then
		require.NoError(t, err)

		doc, loadErr := xmldoc.Load(cfgPath)
		require.NoError(t, loadErr)
		assert.Empty(t, xmldoc.FindDescendants(doc.Root(), "assemblyBinding"))
	})
}
