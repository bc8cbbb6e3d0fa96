package metadata

import (
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitVersion resolves a version string from the enclosing git repository's
// tags when the metadata file declares none. The highest tag by numeric
// dotted comparison wins; the leading "v" is stripped. Returns "" when no
// repository or no version-shaped tag is found.
func GitVersion(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	tags, err := repo.Tags()
	if err != nil {
		return ""
	}

	var best string
	_ = tags.ForEach(func(ref *plumbing.Reference) error {
		name := strings.TrimPrefix(ref.Name().Short(), "v")
		if name == "" || name[0] < '0' || name[0] > '9' {
			return nil
		}
		if best == "" || compareDotted(name, best) > 0 {
			best = name
		}
		return nil
	})
	return best
}

// compareDotted compares dotted numeric versions segment by segment.
// Non-numeric segments compare as strings, which is good enough for
// tie-breaking pre-release suffixes.
func compareDotted(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var sa, sb string
		if i < len(as) {
			sa = as[i]
		}
		if i < len(bs) {
			sb = bs[i]
		}
		na, errA := strconv.Atoi(sa)
		nb, errB := strconv.Atoi(sb)
		switch {
		case errA == nil && errB == nil:
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
		default:
			if sa != sb {
				if sa < sb {
					return -1
				}
				return 1
			}
		}
	}
	return 0
}
