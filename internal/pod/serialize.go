package pod

import (
	"fmt"
	"strings"
)

// maxWalkDepth bounds the serializer's recursion. Document trees are
// acyclic by construction, but a corrupted tree must fail instead of
// recursing forever.
const maxWalkDepth = 128

// Serialize renders the document in its canonical POD form. This is the
// identity output format and the intermediate text the format converters
// consume.
func Serialize(doc *Document) (string, error) {
	if doc.Empty() {
		return "", nil
	}
	return SerializeNodes(doc.Nodes)
}

// SerializeNodes renders a node list in canonical POD form.
func SerializeNodes(nodes []Node) (string, error) {
	var b strings.Builder
	for _, n := range nodes {
		if err := writeNode(&b, n, 0); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func writeNode(b *strings.Builder, n Node, depth int) error {
	if depth > maxWalkDepth {
		return fmt.Errorf("document tree exceeds depth %d", maxWalkDepth)
	}
	switch v := n.(type) {
	case *Text:
		b.WriteString(v.Content)
		b.WriteString("\n\n")
	case *Verbatim:
		b.WriteString(v.Content)
		b.WriteString("\n\n")
	case *Heading:
		fmt.Fprintf(b, "=head%d %s\n\n", v.Level, v.Title)
		for _, c := range v.Children {
			if err := writeNode(b, c, depth+1); err != nil {
				return err
			}
		}
	case *List:
		b.WriteString("=over 4\n\n")
		for _, item := range v.Items {
			if item.Marker != "" {
				fmt.Fprintf(b, "=item %s\n\n", item.Marker)
			}
			for _, c := range item.Content {
				if err := writeNode(b, c, depth+1); err != nil {
					return err
				}
			}
		}
		b.WriteString("=back\n\n")
	case *Region:
		fmt.Fprintf(b, "=begin %s\n\n", v.Name)
		for _, c := range v.Children {
			if err := writeNode(b, c, depth+1); err != nil {
				return err
			}
		}
		fmt.Fprintf(b, "=end %s\n\n", v.Name)
	case *ListItem:
		// Items only occur inside a List; a stray one still round-trips.
		fmt.Fprintf(b, "=item %s\n\n", v.Marker)
		for _, c := range v.Content {
			if err := writeNode(b, c, depth+1); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown node type %T", n)
	}
	return nil
}
