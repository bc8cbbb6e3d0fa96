// Package fileset provides the ordered distribution file set the
// synthesizers probe for build descriptors, INSTALL files, and changelogs.
package fileset

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// File is one distribution file, content loaded lazily.
type File struct {
	Name string // name relative to the distribution root
	Path string // absolute path on disk
}

// Content reads the file's content.
func (f File) Content() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Set is an ordered list of distribution files.
type Set struct {
	Files []File
}

// FromDir gathers the top-level files of the distribution root in
// deterministic (sorted) order. Only the root is scanned; build descriptors,
// INSTALL files, and changelogs live there by convention.
func FromDir(root string) (*Set, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return &Set{}, nil
		}
		return nil, err
	}
	s := &Set{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		s.Files = append(s.Files, File{Name: e.Name(), Path: filepath.Join(root, e.Name())})
	}
	sort.Slice(s.Files, func(i, j int) bool { return s.Files[i].Name < s.Files[j].Name })
	return s, nil
}

// BuildDescriptor returns the recognized build-descriptor file name, if any.
// Makefile.PL wins over Build.PL when both exist, matching the toolchain
// precedence users see.
func (s *Set) BuildDescriptor() (string, bool) {
	if s.has("Makefile.PL") {
		return "Makefile.PL", true
	}
	if s.has("Build.PL") {
		return "Build.PL", true
	}
	return "", false
}

var installName = regexp.MustCompile(`(?i)^INSTALL(\.txt|\.md|\.mkdn)?$`)

// InstallFile returns the name of a bundled installation guide: a file whose
// name case-insensitively matches INSTALL, optionally suffixed .txt, .md, or
// .mkdn. The first match in set order wins.
func (s *Set) InstallFile() (string, bool) {
	for _, f := range s.Files {
		if installName.MatchString(f.Name) {
			return f.Name, true
		}
	}
	return "", false
}

var changelogNames = []string{"Changes", "CHANGES", "ChangeLog", "CHANGELOG", "CHANGELOG.md", "Changes.md"}

// ChangelogFile returns the distribution's change history file, if any.
func (s *Set) ChangelogFile() (File, bool) {
	for _, want := range changelogNames {
		for _, f := range s.Files {
			if f.Name == want {
				return f, true
			}
		}
	}
	return File{}, false
}

func (s *Set) has(name string) bool {
	for _, f := range s.Files {
		if f.Name == name {
			return true
		}
	}
	return false
}

// FirstModule walks lib/ under root and returns the first .pm or .pod file
// in ordered-walk position, for source autodetection.
func FirstModule(root string) (string, bool) {
	libDir := filepath.Join(root, "lib")
	var found string
	_ = filepath.WalkDir(libDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || found != "" {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".pm" || ext == ".pod" {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	return found, found != ""
}
