package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/podreadme/internal/render"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "podreadme.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "type: gfm\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, render.FormatGFM, cfg.Format)
	require.Equal(t, PhaseBuild, cfg.Phase)
	require.Equal(t, LocationRoot, cfg.Location)
	require.Equal(t, "README.md", cfg.Filename)
	require.True(t, cfg.SectionFallback)
	require.Len(t, cfg.Sections, len(DefaultSections))
	require.Equal(t, filepath.Dir(path), cfg.Root)
}

func TestLoad_MissingFileIsFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "configuration file not found")
}

func TestLoad_UnknownTypeIsFatal(t *testing.T) {
	_, err := Load(writeConfig(t, "type: docx\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "no converter registered")
}

func TestLoad_BuildLocationReleasePhaseRejected(t *testing.T) {
	_, err := Load(writeConfig(t, "type: pod\nphase: release\nlocation: build\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid phase/location combination")
}

func TestLoad_ReleasePhaseRootLocationAccepted(t *testing.T) {
	cfg, err := Load(writeConfig(t, "type: pod\nphase: release\nlocation: root\n"))
	require.NoError(t, err)
	require.Equal(t, PhaseRelease, cfg.Phase)
}

func TestLoad_BadSectionPatternIsFatal(t *testing.T) {
	_, err := Load(writeConfig(t, "type: pod\nsections:\n  - NAME\n  - /([bad/\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "section pattern")
}

func TestLoad_SectionFallbackExplicitFalse(t *testing.T) {
	cfg, err := Load(writeConfig(t, "type: text\nsection_fallback: false\n"))
	require.NoError(t, err)
	require.False(t, cfg.SectionFallback)
}

func TestLoad_FilenamePerFormat(t *testing.T) {
	cfg, err := Load(writeConfig(t, "type: text\n"))
	require.NoError(t, err)
	require.Equal(t, "README", cfg.Filename)

	cfg, err = Load(writeConfig(t, "type: pod\nfilename: README.custom\n"))
	require.NoError(t, err)
	require.Equal(t, "README.custom", cfg.Filename)
}

func TestOutputPath(t *testing.T) {
	cfg, err := Load(writeConfig(t, "type: gfm\nlocation: build\nbuild_dir: stage\n"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cfg.Root, "stage", "README.md"), cfg.OutputPath())

	cfg, err = Load(writeConfig(t, "type: gfm\n"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(cfg.Root, "README.md"), cfg.OutputPath())
}

func TestLoad_PatternSectionCompiles(t *testing.T) {
	cfg, err := Load(writeConfig(t, "type: gfm\nsections:\n  - NAME\n  - /see\\s+also/\n"))
	require.NoError(t, err)
	require.Len(t, cfg.Sections, 2)
	require.True(t, cfg.Sections[1].IsPattern())
}

func TestDefaultYAML_RoundTrips(t *testing.T) {
	path := writeConfig(t, DefaultYAML)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, render.FormatGFM, cfg.Format)
	require.Equal(t, 8, len(cfg.Sections))
}
