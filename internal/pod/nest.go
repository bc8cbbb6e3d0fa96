package pod

// Nest rebuilds the document so that a heading at level N owns every
// following sibling until the next heading at level <= N. Parse emits
// headings flat; the section machinery wants the tree form.
func Nest(doc *Document) *Document {
	if doc == nil {
		return &Document{}
	}
	nodes, _ := nestFrom(doc.Nodes, 0)
	return &Document{Nodes: nodes}
}

// nestFrom consumes nodes starting at i for a parent at the given level and
// returns the nested children plus the index of the first unconsumed node.
// The recursion depth is bounded by the heading level range (1..4), so no
// explicit depth guard is needed here.
func nestFrom(flat []Node, level int) ([]Node, int) {
	var out []Node
	i := 0
	for i < len(flat) {
		h, ok := flat[i].(*Heading)
		if !ok {
			out = append(out, flat[i])
			i++
			continue
		}
		if h.Level <= level {
			return out, i
		}
		children, consumed := nestFrom(flat[i+1:], h.Level)
		out = append(out, &Heading{Level: h.Level, Title: h.Title, Children: children})
		i += 1 + consumed
	}
	return out, i
}
