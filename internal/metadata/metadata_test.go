package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MetaYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "META.yml")
	content := `---
name: Foo-Bar
version: '1.23'
requires:
  perl: '5.010'
  Baz: 0
  Foo::Bar: '1.2'
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	dist, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Foo-Bar", dist.Name)
	require.Equal(t, "1.23", dist.Version)
	require.Equal(t, "Foo::Bar", dist.Module())

	// perl itself is not a runtime dependency; "0" means unconstrained.
	require.Len(t, dist.Requires, 2)
	require.Equal(t, "", dist.Requires["Baz"])
	require.Equal(t, "1.2", dist.Requires["Foo::Bar"])
}

func TestLoad_MissingFileYieldsZeroValue(t *testing.T) {
	dist, err := Load(filepath.Join(t.TempDir(), "META.yml"))
	require.NoError(t, err)
	require.Empty(t, dist.Name)
	require.Empty(t, dist.Requires)
}

func TestLoad_NumericVersionConstraint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "META.yml")
	require.NoError(t, os.WriteFile(path, []byte("name: X\nversion: '0.1'\nrequires:\n  Dep: 2\n"), 0o600))

	dist, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "2", dist.Requires["Dep"])
}

func TestResolveVersion_Placeholder(t *testing.T) {
	dist := Distribution{Version: "3.14"}
	require.Equal(t, "3.14", ResolveVersion("{{$VERSION}}", dist))
	require.Equal(t, "3.14", ResolveVersion("", dist))
	require.Equal(t, "2.0", ResolveVersion("2.0", dist))
}

func TestGitVersion_NoRepository(t *testing.T) {
	require.Empty(t, GitVersion(t.TempDir()))
}

func TestCompareDotted(t *testing.T) {
	require.Positive(t, compareDotted("1.10.0", "1.9.9"))
	require.Negative(t, compareDotted("0.9", "1.0"))
	require.Zero(t, compareDotted("2.0", "2.0"))
	require.Positive(t, compareDotted("2.0.1", "2.0"))
}
