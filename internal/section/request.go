// Package section implements the heading matcher, section synthesizers, and
// the assembler that re-orders matched and synthesized sections into the
// README body.
package section

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/podreadme/internal/errors"
)

// Request is one configured section request, either a literal heading name
// or a /regex/ over heading titles. Compiled once at configuration time.
type Request struct {
	Raw     string
	Literal string         // normalized literal name, when Pattern is nil
	Pattern *regexp.Regexp // full-title, case-insensitive match
}

// IsPattern reports whether the request is a regex request.
func (r Request) IsPattern() bool { return r.Pattern != nil }

// ParseRequest turns a config string into a Request. Slash-delimited
// strings (/.../) compile to an anchored case-insensitive regex; a pattern
// that does not compile is a fatal configuration error.
func ParseRequest(raw string) (Request, error) {
	if len(raw) >= 2 && strings.HasPrefix(raw, "/") && strings.HasSuffix(raw, "/") {
		body := raw[1 : len(raw)-1]
		re, err := regexp.Compile("(?is)^(?:" + body + ")$")
		if err != nil {
			return Request{}, errors.InvalidSectionPattern(raw, err)
		}
		return Request{Raw: raw, Pattern: re}, nil
	}
	return Request{Raw: raw, Literal: normalizeTitle(raw)}, nil
}

// normalizeTitle folds a heading title for comparison: surrounding
// whitespace trimmed, internal runs collapsed.
func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(title), " ")
}
