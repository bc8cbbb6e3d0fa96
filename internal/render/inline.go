package render

import (
	"fmt"
	"regexp"
	"strings"
)

// formattingCode matches single-level POD formatting codes (C<...>, L<...>,
// ...). Nested codes are rare in headings and README prose; inner codes
// simply render on a later pass of the same expression.
var formattingCode = regexp.MustCompile(`([IBCFSLEX])<([^<>]*)>`)

var entities = map[string]string{
	"lt":     "<",
	"gt":     ">",
	"sol":    "/",
	"verbar": "|",
	"amp":    "&",
}

// inlineStyle selects how formatting codes are spelled in the target format.
type inlineStyle int

const (
	stylePlain inlineStyle = iota // strip codes, keep content
	styleMarkdown
	styleGFM // markdown plus metacpan links for L<>
)

func convertInline(s string, style inlineStyle) string {
	// Two passes unwrap one level of nesting (e.g. B<C<foo>>).
	for range 2 {
		s = formattingCode.ReplaceAllStringFunc(s, func(m string) string {
			sub := formattingCode.FindStringSubmatch(m)
			code, content := sub[1], sub[2]
			switch code {
			case "E":
				if r, ok := entities[content]; ok {
					return r
				}
				return content
			case "L":
				return renderLink(content, style)
			case "C", "F":
				if style == stylePlain {
					return content
				}
				return "`" + content + "`"
			case "B":
				if style == stylePlain {
					return content
				}
				return "**" + content + "**"
			case "I":
				if style == stylePlain {
					return content
				}
				return "*" + content + "*"
			default: // S, X
				return content
			}
		})
	}
	return s
}

// renderLink converts an L<> code. Explicit text|target splits are honored;
// GFM output links module names at the public package index.
func renderLink(content string, style inlineStyle) string {
	text, target, hasText := strings.Cut(content, "|")
	if !hasText {
		target = content
		text = content
	}
	if strings.Contains(target, "://") {
		switch style {
		case stylePlain:
			return target
		default:
			return fmt.Sprintf("[%s](%s)", text, target)
		}
	}
	if style == styleGFM {
		return fmt.Sprintf("[%s](https://metacpan.org/pod/%s)", text, target)
	}
	return text
}
