package render

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/podreadme/internal/pod"
)

// renderMarkdown emits plain CommonMark: ATX headings, indented code
// blocks, dash bullets.
func renderMarkdown(nodes []pod.Node) (string, error) {
	return renderMarkdownStyle(nodes, styleMarkdown)
}

// renderGFM emits GitHub-flavored Markdown: fenced code blocks and
// package-index links for module cross-references.
func renderGFM(nodes []pod.Node) (string, error) {
	return renderMarkdownStyle(nodes, styleGFM)
}

func renderMarkdownStyle(nodes []pod.Node, style inlineStyle) (string, error) {
	var b strings.Builder
	if err := writeMarkdownNodes(&b, nodes, style, 0); err != nil {
		return "", err
	}
	out := strings.TrimRight(b.String(), "\n")
	if out == "" {
		return "", nil
	}
	return out + "\n", nil
}

func writeMarkdownNodes(b *strings.Builder, nodes []pod.Node, style inlineStyle, depth int) error {
	if depth > maxRenderDepth {
		return fmt.Errorf("document tree exceeds depth %d", maxRenderDepth)
	}
	for _, n := range nodes {
		switch v := n.(type) {
		case *pod.Heading:
			fmt.Fprintf(b, "%s %s\n\n", strings.Repeat("#", v.Level), convertInline(v.Title, style))
			if err := writeMarkdownNodes(b, v.Children, style, depth+1); err != nil {
				return err
			}
		case *pod.Text:
			b.WriteString(convertInline(v.Content, style))
			b.WriteString("\n\n")
		case *pod.Verbatim:
			writeCodeBlock(b, v.Content, style)
		case *pod.List:
			for _, item := range v.Items {
				if err := writeMarkdownItem(b, item, style, 0, depth+1); err != nil {
					return err
				}
			}
			b.WriteString("\n")
		case *pod.Region:
			// HTML regions pass through raw in markdown output; other
			// formatter targets have nothing to contribute.
			if v.Name == "html" || v.Name == "markdown" {
				for _, c := range v.Children {
					if t, ok := c.(*pod.Text); ok {
						b.WriteString(t.Content)
						b.WriteString("\n\n")
					}
				}
			}
		}
	}
	return nil
}

// writeCodeBlock emits verbatim content: fenced for GFM, indented for
// plain markdown. POD verbatim paragraphs already carry their indentation,
// which the fence variant strips.
func writeCodeBlock(b *strings.Builder, content string, style inlineStyle) {
	if style != styleGFM {
		b.WriteString(indentLines(content, ""))
		b.WriteString("\n\n")
		return
	}
	b.WriteString("```\n")
	b.WriteString(stripCommonIndent(content))
	b.WriteString("\n```\n\n")
}

func writeMarkdownItem(b *strings.Builder, item *pod.ListItem, style inlineStyle, indent, depth int) error {
	if depth > maxRenderDepth {
		return fmt.Errorf("list nesting exceeds depth %d", maxRenderDepth)
	}
	prefix := strings.Repeat("    ", indent)
	wroteBullet := false
	if label := itemLabel(item); label != "" {
		fmt.Fprintf(b, "%s- %s\n", prefix, convertInline(label, style))
		wroteBullet = true
	}
	for _, c := range item.Content {
		switch v := c.(type) {
		case *pod.Text:
			line := strings.ReplaceAll(convertInline(v.Content, style), "\n", " ")
			if !wroteBullet {
				fmt.Fprintf(b, "%s- %s\n", prefix, line)
				wroteBullet = true
			} else {
				fmt.Fprintf(b, "%s  %s\n", prefix, line)
			}
		case *pod.List:
			for _, sub := range v.Items {
				if err := writeMarkdownItem(b, sub, style, indent+1, depth+1); err != nil {
					return err
				}
			}
		case *pod.Verbatim:
			b.WriteString(indentLines(v.Content, prefix))
			b.WriteString("\n")
		}
	}
	return nil
}

// stripCommonIndent removes the shared leading whitespace of a verbatim
// paragraph so fenced output starts at column zero.
func stripCommonIndent(s string) string {
	lines := strings.Split(s, "\n")
	common := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}
	if common <= 0 {
		return s
	}
	for i, l := range lines {
		if len(l) >= common {
			lines[i] = l[common:]
		}
	}
	return strings.Join(lines, "\n")
}
