// Package pod models POD documentation as a tree of typed nodes and provides
// the reader, re-nesting pass, and canonical serializer the render pipeline
// operates on. Formatting codes (C<>, L<>, ...) are kept literal in node text;
// converting them is the renderers' concern.
package pod

// Node is one element of a parsed document.
type Node interface {
	node()
}

// Text is an ordinary paragraph. Line breaks inside the paragraph are
// preserved as written; the paragraph carries no trailing blank line.
type Text struct {
	Content string
}

// Verbatim is an indented (code) paragraph, indentation included.
type Verbatim struct {
	Content string
}

// Heading is a =head1..=head4 command with the content it owns after
// re-nesting. Children are empty until Nest runs.
type Heading struct {
	Level    int
	Title    string
	Children []Node
}

// List is an =over/=back block.
type List struct {
	Items []*ListItem
}

// ListItem is one =item with its nested content, sub-lists included.
type ListItem struct {
	Marker  string // text after =item, commonly "*"
	Content []Node
}

// Region is a =begin/=end or =for block addressed to a named formatter.
type Region struct {
	Name     string
	Children []Node
}

func (*Text) node()     {}
func (*Verbatim) node() {}
func (*Heading) node()  {}
func (*List) node()     {}
func (*ListItem) node() {}
func (*Region) node()   {}

// Document is a parsed POD document.
type Document struct {
	Nodes []Node
}

// Empty reports whether the document holds no content at all.
func (d *Document) Empty() bool {
	return d == nil || len(d.Nodes) == 0
}

// Headings returns the top-level headings in document order.
// Meaningful after Nest; before re-nesting every heading is top-level.
func (d *Document) Headings() []*Heading {
	if d == nil {
		return nil
	}
	var out []*Heading
	for _, n := range d.Nodes {
		if h, ok := n.(*Heading); ok {
			out = append(out, h)
		}
	}
	return out
}
