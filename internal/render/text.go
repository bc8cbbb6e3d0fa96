package render

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/podreadme/internal/pod"
)

// renderText emits a plain-text README: level-1 headings flush left, nested
// content indented, verbatim blocks kept as written.
func renderText(nodes []pod.Node) (string, error) {
	var b strings.Builder
	if err := writeTextNodes(&b, nodes, 0); err != nil {
		return "", err
	}
	out := strings.TrimRight(b.String(), "\n")
	if out == "" {
		return "", nil
	}
	return out + "\n", nil
}

func writeTextNodes(b *strings.Builder, nodes []pod.Node, depth int) error {
	if depth > maxRenderDepth {
		return fmt.Errorf("document tree exceeds depth %d", maxRenderDepth)
	}
	for _, n := range nodes {
		switch v := n.(type) {
		case *pod.Heading:
			title := convertInline(v.Title, stylePlain)
			if v.Level == 1 {
				title = strings.ToUpper(title)
			}
			b.WriteString(title)
			b.WriteString("\n\n")
			if err := writeTextNodes(b, v.Children, depth+1); err != nil {
				return err
			}
		case *pod.Text:
			b.WriteString(indentLines(convertInline(v.Content, stylePlain), "    "))
			b.WriteString("\n\n")
		case *pod.Verbatim:
			b.WriteString(v.Content)
			b.WriteString("\n\n")
		case *pod.List:
			for _, item := range v.Items {
				if err := writeTextItem(b, item, depth+1); err != nil {
					return err
				}
			}
			b.WriteString("\n")
		case *pod.Region:
			// Formatter-specific regions have no plain-text rendering.
		}
	}
	return nil
}

func writeTextItem(b *strings.Builder, item *pod.ListItem, depth int) error {
	if depth > maxRenderDepth {
		return fmt.Errorf("list nesting exceeds depth %d", maxRenderDepth)
	}
	prefix := strings.Repeat("    ", depth)
	wroteBullet := false
	if label := itemLabel(item); label != "" {
		fmt.Fprintf(b, "%s- %s\n", prefix, convertInline(label, stylePlain))
		wroteBullet = true
	}
	for _, c := range item.Content {
		switch v := c.(type) {
		case *pod.Text:
			line := strings.ReplaceAll(convertInline(v.Content, stylePlain), "\n", " ")
			if !wroteBullet {
				fmt.Fprintf(b, "%s- %s\n", prefix, line)
				wroteBullet = true
			} else {
				fmt.Fprintf(b, "%s  %s\n", prefix, line)
			}
		case *pod.List:
			for _, sub := range v.Items {
				if err := writeTextItem(b, sub, depth+1); err != nil {
					return err
				}
			}
		case *pod.Verbatim:
			b.WriteString(v.Content)
			b.WriteString("\n")
		}
	}
	return nil
}

// itemLabel extracts the bullet text carried on the =item line itself,
// e.g. "First" from "=item * First". A bare "*" marker has no label.
func itemLabel(item *pod.ListItem) string {
	return strings.TrimSpace(strings.TrimPrefix(item.Marker, "*"))
}

func indentLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

const maxRenderDepth = 128
