// Package changes parses semi-structured changelog ("Changes") files into a
// release-indexed tree and slices out one release's entries for the
// recent-changes section.
package changes

import (
	"bufio"
	"fmt"
	"regexp"
	"strings"
)

// ReleaseEntry is one changelog bullet with its sub-bullets.
type ReleaseEntry struct {
	Text     string
	Children []ReleaseEntry
}

// Release is one versioned block of change entries.
type Release struct {
	Version string
	Date    string
	Entries []ReleaseEntry
}

// Changelog is the ordered release history, newest-first as written.
type Changelog struct {
	Releases []Release
}

// releaseMarker matches a release heading line: a version token at column
// zero, optionally followed by a date token. Versions are opaque strings;
// they only need to look version-ish, not be strict semver.
var releaseMarker = regexp.MustCompile(`^(v?[0-9][\w.\-+]*)(?:\s+(.*))?$`)

var bulletPrefix = regexp.MustCompile(`^[-*+]\s+`)

// Parse splits raw changelog text into per-version blocks. Lines before the
// first release marker (preamble, dist name) are ignored. Duplicate versions
// keep the first block seen, preserving the uniqueness invariant.
func Parse(raw string) (*Changelog, error) {
	cl := &Changelog{}
	seen := map[string]bool{}
	var cur *Release

	// Stack of open bullet levels, each pointing at the slice that
	// receives entries at that indent.
	type frame struct {
		indent  int
		entries *[]ReleaseEntry
	}
	var stack []frame

	sc := bufio.NewScanner(strings.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := releaseMarker.FindStringSubmatch(line); m != nil {
			version := m[1]
			if seen[version] {
				cur = nil
				stack = nil
				continue
			}
			seen[version] = true
			cl.Releases = append(cl.Releases, Release{
				Version: version,
				Date:    strings.TrimSpace(m[2]),
			})
			cur = &cl.Releases[len(cl.Releases)-1]
			stack = []frame{{indent: -1, entries: &cur.Entries}}
			continue
		}
		if cur == nil {
			continue
		}

		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		body := strings.TrimSpace(line)

		if bulletPrefix.MatchString(body) {
			text := bulletPrefix.ReplaceAllString(body, "")
			// Pop frames until we find the owner of this indent level.
			for len(stack) > 1 && stack[len(stack)-1].indent >= indent {
				stack = stack[:len(stack)-1]
			}
			parent := stack[len(stack)-1].entries
			*parent = append(*parent, ReleaseEntry{Text: text})
			entry := &(*parent)[len(*parent)-1]
			stack = append(stack, frame{indent: indent, entries: &entry.Children})
			continue
		}

		// Continuation line: append to the most recent entry's text.
		if len(stack) > 1 {
			parent := stack[len(stack)-2].entries
			entry := &(*parent)[len(*parent)-1]
			entry.Text += " " + body
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan changelog: %w", err)
	}
	return cl, nil
}

// Find returns the release for an exact version match, trying the bare and
// v-prefixed spellings, or nil when absent.
func (c *Changelog) Find(version string) *Release {
	for _, candidate := range []string{version, "v" + version, strings.TrimPrefix(version, "v")} {
		for i := range c.Releases {
			if c.Releases[i].Version == candidate {
				return &c.Releases[i]
			}
		}
	}
	return nil
}
