package section

import (
	"strings"

	"git.home.luguber.info/inful/podreadme/internal/pod"
)

// Match resolves a request against the document's top-level headings and
// returns the first matching heading's subtree, or nil. Headings are tried
// in document order, so first occurrence wins by construction.
func Match(headings []*pod.Heading, req Request) *pod.Heading {
	for _, h := range headings {
		title := normalizeTitle(h.Title)
		if req.IsPattern() {
			if req.Pattern.MatchString(title) {
				return h
			}
			continue
		}
		if strings.EqualFold(title, req.Literal) {
			return h
		}
	}
	return nil
}
