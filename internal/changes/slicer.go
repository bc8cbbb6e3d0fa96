package changes

import (
	"fmt"

	"git.home.luguber.info/inful/podreadme/internal/pod"
)

// maxEntryDepth bounds the entry flattening recursion. Changelog trees are
// acyclic by construction; malformed input fails instead of recursing away.
const maxEntryDepth = 32

// Slice returns the entries for one version of the changelog, or nil when
// the version is absent. A changelog with exactly one release is treated as
// an initial-release placeholder and never surfaced.
func Slice(cl *Changelog, version string) *Release {
	if cl == nil || len(cl.Releases) <= 1 {
		return nil
	}
	return cl.Find(version)
}

// ReleaseNodes converts one release into the recent-changes section subtree:
// a level-1 heading, the "Changes for version V" line (date truncated to the
// calendar portion), the flattened entry list, and a closing pointer at the
// changelog file. The list is emitted even when it is empty.
func ReleaseNodes(rel *Release, changelogName string) ([]pod.Node, error) {
	items, err := entryItems(rel.Entries, 0)
	if err != nil {
		return nil, err
	}

	intro := fmt.Sprintf("Changes for version %s", rel.Version)
	if rel.Date != "" {
		date := rel.Date
		if len(date) > 10 {
			date = date[:10]
		}
		intro = fmt.Sprintf("%s (%s)", intro, date)
	}
	if changelogName == "" {
		changelogName = "Changes"
	}

	children := []pod.Node{
		&pod.Text{Content: intro},
		&pod.List{Items: items},
		&pod.Text{Content: fmt.Sprintf("See the F<%s> file for the full change history.", changelogName)},
	}
	return []pod.Node{&pod.Heading{Level: 1, Title: "RECENT CHANGES", Children: children}}, nil
}

// entryItems walks entries depth-first, emitting one list item per node that
// carries text and a nested sub-list for any node's children. Text-less,
// childless nodes contribute nothing.
func entryItems(entries []ReleaseEntry, depth int) ([]*pod.ListItem, error) {
	if depth > maxEntryDepth {
		return nil, fmt.Errorf("changelog entries exceed depth %d", maxEntryDepth)
	}
	var items []*pod.ListItem
	for _, e := range entries {
		if e.Text == "" && len(e.Children) == 0 {
			continue
		}
		item := &pod.ListItem{Marker: "*"}
		if e.Text != "" {
			item.Content = append(item.Content, &pod.Text{Content: e.Text})
		}
		if len(e.Children) > 0 {
			sub, err := entryItems(e.Children, depth+1)
			if err != nil {
				return nil, err
			}
			if len(sub) > 0 {
				item.Content = append(item.Content, &pod.List{Items: sub})
			}
		}
		if len(item.Content) == 0 {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
