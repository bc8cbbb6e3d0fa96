// Package weave inserts rendered section blocks into existing markdown
// documentation. The insertion point is a marker pair when present, an
// anchor heading located via the goldmark AST otherwise.
package weave

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/podreadme/internal/errors"
)

const (
	BeginMarker = "<!-- podreadme:begin -->"
	EndMarker   = "<!-- podreadme:end -->"
)

// Weave returns target with block woven in. A previous woven block (between
// the marker pair) is replaced, which makes repeated weaving idempotent.
// Without markers the block lands after the anchor heading, or at the end
// of the document when no anchor is configured.
func Weave(target []byte, block, anchor string) ([]byte, error) {
	block = strings.TrimRight(block, "\n")
	wrapped := BeginMarker + "\n\n" + block + "\n\n" + EndMarker

	if begin := bytes.Index(target, []byte(BeginMarker)); begin >= 0 {
		end := bytes.Index(target[begin:], []byte(EndMarker))
		if end < 0 {
			return nil, errors.New(errors.CategoryWeave, errors.SeverityError, "begin marker without end marker")
		}
		end = begin + end + len(EndMarker)
		var out bytes.Buffer
		out.Write(target[:begin])
		out.WriteString(wrapped)
		out.Write(target[end:])
		return out.Bytes(), nil
	}

	if anchor == "" {
		var out bytes.Buffer
		out.Write(target)
		if len(target) > 0 && !bytes.HasSuffix(target, []byte("\n")) {
			out.WriteString("\n")
		}
		out.WriteString("\n" + wrapped + "\n")
		return out.Bytes(), nil
	}

	offset, ok := anchorOffset(target, anchor)
	if !ok {
		return nil, errors.WeaveAnchorMissing(anchor)
	}
	var out bytes.Buffer
	out.Write(target[:offset])
	out.WriteString("\n" + wrapped + "\n")
	out.Write(target[offset:])
	return out.Bytes(), nil
}

// anchorOffset locates the byte offset just past the anchor heading's line.
func anchorOffset(source []byte, anchor string) (int, bool) {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	offset := -1
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering || offset >= 0 {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		if !strings.EqualFold(headingText(h, source), strings.TrimSpace(anchor)) {
			return gmast.WalkContinue, nil
		}
		lines := h.Lines()
		if lines.Len() > 0 {
			offset = lines.At(lines.Len() - 1).Stop
		}
		return gmast.WalkSkipChildren, nil
	})
	if offset < 0 {
		return 0, false
	}
	// Step past the heading's trailing newline so the block starts on its
	// own line.
	if offset < len(source) && source[offset] == '\n' {
		offset++
	}
	return offset, true
}

func headingText(h *gmast.Heading, source []byte) string {
	var b strings.Builder
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gmast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
	}
	return strings.TrimSpace(b.String())
}
