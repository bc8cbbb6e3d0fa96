package section

import (
	"git.home.luguber.info/inful/podreadme/internal/pod"
)

// resolvedRequest is a request with its generator bound up front, at
// configuration time, so assembly never does name-based dispatch.
type resolvedRequest struct {
	Request
	generate Generator
}

// Assembler orders matched and synthesized sections per the configured
// request list. Output order is exactly configuration order; the source
// document's own ordering is deliberately ignored so a maintainer can
// reorder README sections without touching the module's documentation.
type Assembler struct {
	requests []resolvedRequest
	fallback bool
}

// NewAssembler binds each literal request to its synthesizer, if one exists
// in the generator table. Pattern requests never synthesize; there is no
// canonical name to generate for.
func NewAssembler(requests []Request, fallback bool) *Assembler {
	a := &Assembler{fallback: fallback}
	for _, req := range requests {
		rr := resolvedRequest{Request: req}
		if !req.IsPattern() {
			if g, ok := GeneratorFor(req.Literal); ok {
				rr.generate = g
			}
		}
		a.requests = append(a.requests, rr)
	}
	return a
}

// Result is one assembly pass's output with origin counts for metrics.
type Result struct {
	Nodes       []pod.Node
	Matched     int
	Synthesized int
}

// Assemble walks the configured requests in order. Each request contributes
// its matched heading subtree, a synthesized replacement when fallback is
// enabled, or nothing. Misses are silent.
func (a *Assembler) Assemble(doc *pod.Document, in Inputs) Result {
	headings := doc.Headings()
	var res Result
	for _, req := range a.requests {
		if h := Match(headings, req.Request); h != nil {
			res.Nodes = append(res.Nodes, h)
			res.Matched++
			continue
		}
		if !a.fallback || req.generate == nil {
			continue
		}
		if nodes := req.generate(in); len(nodes) > 0 {
			res.Nodes = append(res.Nodes, nodes...)
			res.Synthesized++
		}
	}
	return res
}
