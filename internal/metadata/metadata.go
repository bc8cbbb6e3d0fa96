// Package metadata exposes the distribution metadata snapshot (name,
// version, runtime dependencies) the synthesizers consume.
package metadata

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Distribution is one immutable metadata snapshot.
type Distribution struct {
	Name    string
	Version string
	// Requires maps runtime dependency names to minimum version
	// constraints; an empty string means no constraint declared.
	Requires map[string]string
}

// Module returns the package-index name in module form (Foo::Bar) when the
// metadata carries a dist-style name (Foo-Bar).
func (d Distribution) Module() string {
	return strings.ReplaceAll(d.Name, "-", "::")
}

// metaFile mirrors the subset of META.yml the tool reads.
type metaFile struct {
	Name     string         `yaml:"name"`
	Version  string         `yaml:"version"`
	Requires map[string]any `yaml:"requires"`
}

// Load reads a META.yml-style metadata file. A missing file yields a zero
// Distribution so callers can fall back to other version sources.
func Load(path string) (Distribution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Distribution{}, nil
		}
		return Distribution{}, fmt.Errorf("read metadata: %w", err)
	}

	var m metaFile
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Distribution{}, fmt.Errorf("parse metadata: %w", err)
	}

	dist := Distribution{Name: m.Name, Version: m.Version}
	if len(m.Requires) > 0 {
		dist.Requires = make(map[string]string, len(m.Requires))
		for name, v := range m.Requires {
			if name == "perl" {
				continue
			}
			dist.Requires[name] = constraintString(v)
		}
	}
	return dist, nil
}

// constraintString normalizes a YAML version constraint. "0" and 0 mean
// "any version" and map to the empty constraint.
func constraintString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		if val == "0" {
			return ""
		}
		return val
	default:
		s := fmt.Sprintf("%v", val)
		if s == "0" {
			return ""
		}
		return s
	}
}

// ResolveVersion interpolates a "{{$VERSION}}"-style placeholder against the
// distribution version. Any other string passes through opaque.
func ResolveVersion(raw string, dist Distribution) string {
	if raw == "" || strings.Contains(raw, "$VERSION") {
		return dist.Version
	}
	return raw
}
