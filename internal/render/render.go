// Package render converts assembled document trees into one of the
// supported output formats via a converter registry keyed by format name.
package render

import (
	"strings"

	"git.home.luguber.info/inful/podreadme/internal/errors"
	"git.home.luguber.info/inful/podreadme/internal/pod"
)

// Format is a typed enumeration of supported output formats.
type Format string

const (
	FormatPod      Format = "pod"
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatGFM      Format = "gfm"
)

// ParseFormat normalizes a raw config string to a Format. Unknown formats
// return "" so callers can fail fast with a configuration error.
func ParseFormat(raw string) Format {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(FormatPod):
		return FormatPod
	case string(FormatText):
		return FormatText
	case string(FormatMarkdown):
		return FormatMarkdown
	case string(FormatGFM):
		return FormatGFM
	default:
		return ""
	}
}

// Renderer converts an assembled node list into output text.
type Renderer interface {
	Render(nodes []pod.Node) (string, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(nodes []pod.Node) (string, error)

func (f RendererFunc) Render(nodes []pod.Node) (string, error) { return f(nodes) }

// converters is the registry of format converters. The pod entry is the
// identity serialization; the rest transform the tree directly.
var converters = map[Format]Renderer{
	FormatPod:      RendererFunc(pod.SerializeNodes),
	FormatText:     RendererFunc(renderText),
	FormatMarkdown: RendererFunc(renderMarkdown),
	FormatGFM:      RendererFunc(renderGFM),
}

// For returns the converter for a format, failing fast for unknown formats
// so configuration validation can reject them before any rendering work.
func For(f Format) (Renderer, error) {
	r, ok := converters[f]
	if !ok {
		return nil, errors.UnknownFormat(string(f))
	}
	return r, nil
}

// DefaultFilename returns the conventional README artifact name per format.
func DefaultFilename(f Format) string {
	switch f {
	case FormatPod:
		return "README.pod"
	case FormatText:
		return "README"
	default:
		return "README.md"
	}
}
