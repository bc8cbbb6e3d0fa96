package pod

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// maxNesting bounds container depth during parsing. Well-formed POD never
// approaches this; the bound turns pathological input into an error instead
// of unbounded growth.
const maxNesting = 64

// Parse reads POD out of src and returns the document tree. Headings come
// back flat (empty Children); run Nest to build the section tree. For .pm
// sources, everything outside =command/=cut regions is ignored.
func Parse(src []byte) (*Document, error) {
	p := &parser{}
	sc := bufio.NewScanner(bytes.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var para []string
	flush := func() error {
		if len(para) == 0 {
			return nil
		}
		err := p.paragraph(para)
		para = para[:0]
		return err
	}

	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if !p.inPod {
			if isCommand(line) {
				p.inPod = true
			} else {
				continue
			}
		}
		para = append(para, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan source: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return &Document{Nodes: p.doc}, nil
}

// ParseFile parses the POD content of the file at path. A missing file
// yields an empty document, not an error, so callers can render an empty
// artifact body.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Document{}, nil
		}
		return nil, fmt.Errorf("read source: %w", err)
	}
	return Parse(data)
}

func isCommand(line string) bool {
	if len(line) < 2 || line[0] != '=' {
		return false
	}
	c := line[1]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// container is anything nodes can be appended into while parsing.
type container interface {
	add(n Node)
}

type docRoot struct{ p *parser }

func (d docRoot) add(n Node) { d.p.doc = append(d.p.doc, n) }

func (l *List) add(n Node) {
	if len(l.Items) == 0 {
		// Paragraph between =over and the first =item; attach it as an
		// unmarked item so source order survives.
		l.Items = append(l.Items, &ListItem{})
	}
	item := l.Items[len(l.Items)-1]
	item.Content = append(item.Content, n)
}

func (r *Region) add(n Node) { r.Children = append(r.Children, n) }

type parser struct {
	doc   []Node
	stack []container
	inPod bool
}

func (p *parser) top() container {
	if len(p.stack) == 0 {
		return docRoot{p}
	}
	return p.stack[len(p.stack)-1]
}

func (p *parser) push(c container) error {
	if len(p.stack) >= maxNesting {
		return fmt.Errorf("pod nesting exceeds %d levels", maxNesting)
	}
	p.stack = append(p.stack, c)
	return nil
}

func (p *parser) pop() {
	if len(p.stack) > 0 {
		p.stack = p.stack[:len(p.stack)-1]
	}
}

func (p *parser) paragraph(lines []string) error {
	first := lines[0]
	if isCommand(first) {
		return p.command(first, lines[1:])
	}
	if first[0] == ' ' || first[0] == '\t' {
		p.top().add(&Verbatim{Content: strings.Join(lines, "\n")})
		return nil
	}
	p.top().add(&Text{Content: strings.Join(lines, "\n")})
	return nil
}

func (p *parser) command(line string, rest []string) error {
	name, arg := splitCommand(line)
	switch name {
	case "pod", "encoding":
		// No content of their own.
	case "cut":
		p.inPod = false
	case "head1", "head2", "head3", "head4":
		level, _ := strconv.Atoi(name[4:])
		// A heading terminates any list or region left open before it.
		p.stack = p.stack[:0]
		p.top().add(&Heading{Level: level, Title: arg})
	case "over":
		l := &List{}
		p.top().add(l)
		return p.push(l)
	case "item":
		l, ok := p.top().(*List)
		if !ok {
			// =item with no =over; open the list implicitly.
			l = &List{}
			p.top().add(l)
			if err := p.push(l); err != nil {
				return err
			}
		}
		marker := arg
		if marker == "" {
			marker = "*"
		}
		l.Items = append(l.Items, &ListItem{Marker: marker})
	case "back":
		if _, ok := p.top().(*List); ok {
			p.pop()
		}
	case "begin":
		r := &Region{Name: arg}
		p.top().add(r)
		return p.push(r)
	case "end":
		if _, ok := p.top().(*Region); ok {
			p.pop()
		}
	case "for":
		target, text, found := strings.Cut(arg, " ")
		r := &Region{Name: target}
		if found && strings.TrimSpace(text) != "" {
			rest = append([]string{strings.TrimSpace(text)}, rest...)
		}
		if len(rest) > 0 {
			r.Children = append(r.Children, &Text{Content: strings.Join(rest, "\n")})
		}
		p.top().add(r)
	default:
		// Unknown command paragraphs pass through as text so nothing is
		// silently dropped.
		p.top().add(&Text{Content: line})
	}
	return nil
}

func splitCommand(line string) (name, arg string) {
	body := line[1:]
	name, arg, _ = strings.Cut(body, " ")
	return name, strings.TrimSpace(arg)
}
