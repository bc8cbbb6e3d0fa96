package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/podreadme/internal/config"
)

// Directory watches are non-recursive, so the watch list must name the
// source module itself even when it was autodetected under lib/.
func TestWatchPaths_IncludesAutodetectedSource(t *testing.T) {
	root := t.TempDir()
	module := filepath.Join(root, "lib", "Foo", "Bar.pm")
	require.NoError(t, os.MkdirAll(filepath.Dir(module), 0o755))
	require.NoError(t, os.WriteFile(module, []byte("=head1 NAME\n\nFoo::Bar\n\n=cut\n"), 0o600))

	paths := watchPaths(&config.Config{Root: root})
	require.Contains(t, paths, root)
	require.Contains(t, paths, module)
}

func TestWatchPaths_ResolvesRelativeSourceAgainstRoot(t *testing.T) {
	root := t.TempDir()
	cfg := &config.Config{Root: root, Source: filepath.Join("lib", "Foo.pm")}
	require.Contains(t, watchPaths(cfg), filepath.Join(root, "lib", "Foo.pm"))
}
