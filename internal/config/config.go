// Package config loads and validates the podreadme configuration. All
// validation happens at load time; a Config that survives Load is fully
// resolved and immutable from the caller's point of view.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/podreadme/internal/errors"
	"git.home.luguber.info/inful/podreadme/internal/render"
	"git.home.luguber.info/inful/podreadme/internal/section"
)

// Phase says when the artifact is produced.
type Phase string

const (
	PhaseBuild   Phase = "build"
	PhaseRelease Phase = "release"
)

// Location says where the artifact lands.
type Location string

const (
	LocationBuild Location = "build" // build staging directory
	LocationRoot  Location = "root"  // repository root
)

// DefaultSections is the section order used when the config names none.
var DefaultSections = []string{
	"NAME",
	"VERSION",
	"SYNOPSIS",
	"DESCRIPTION",
	"INSTALLATION",
	"REQUIREMENTS",
	"AUTHOR",
	"COPYRIGHT AND LICENSE",
}

// rawConfig mirrors the YAML surface before validation.
type rawConfig struct {
	Root             string   `yaml:"root,omitempty"`
	Source           string   `yaml:"source,omitempty"`
	Metadata         string   `yaml:"metadata,omitempty"`
	Changelog        string   `yaml:"changelog,omitempty"`
	ChangelogVersion string   `yaml:"changelog_version,omitempty"`
	Type             string   `yaml:"type,omitempty"`
	Phase            string   `yaml:"phase,omitempty"`
	Location         string   `yaml:"location,omitempty"`
	Filename         string   `yaml:"filename,omitempty"`
	BuildDir         string   `yaml:"build_dir,omitempty"`
	Sections         []string `yaml:"sections,omitempty"`
	SectionFallback  *bool    `yaml:"section_fallback,omitempty"`
	StateDB          string   `yaml:"state_db,omitempty"`
	Weave            struct {
		Target string `yaml:"target,omitempty"`
		Anchor string `yaml:"anchor,omitempty"`
	} `yaml:"weave,omitempty"`
}

// Config is the fully resolved configuration.
type Config struct {
	Root             string
	Source           string // empty means autodetect under lib/
	Metadata         string
	Changelog        string // empty means autodetect from the file set
	ChangelogVersion string // opaque; may carry a version placeholder
	Format           render.Format
	Phase            Phase
	Location         Location
	Filename         string
	BuildDir         string
	Sections         []section.Request
	SectionFallback  bool
	StateDB          string
	WeaveTarget      string
	WeaveAnchor      string
}

// Load reads, defaults, and validates the configuration file. Every
// rejection here is fatal; nothing downstream re-validates.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "read configuration")
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "parse configuration")
	}
	return resolve(raw, filepath.Dir(path))
}

func resolve(raw rawConfig, baseDir string) (*Config, error) {
	cfg := &Config{
		Root:             raw.Root,
		Source:           raw.Source,
		Metadata:         raw.Metadata,
		Changelog:        raw.Changelog,
		ChangelogVersion: raw.ChangelogVersion,
		Filename:         raw.Filename,
		BuildDir:         raw.BuildDir,
		StateDB:          raw.StateDB,
		WeaveTarget:      raw.Weave.Target,
		WeaveAnchor:      raw.Weave.Anchor,
		SectionFallback:  true,
	}
	if raw.SectionFallback != nil {
		cfg.SectionFallback = *raw.SectionFallback
	}
	if cfg.Root == "" {
		cfg.Root = baseDir
	}
	if cfg.BuildDir == "" {
		cfg.BuildDir = ".build"
	}

	if raw.Type == "" {
		raw.Type = string(render.FormatGFM)
	}
	cfg.Format = render.ParseFormat(raw.Type)
	if cfg.Format == "" {
		return nil, errors.UnknownFormat(raw.Type)
	}
	// Converter existence is a hard dependency; reject before any
	// rendering work happens.
	if _, err := render.For(cfg.Format); err != nil {
		return nil, err
	}
	if cfg.Filename == "" {
		cfg.Filename = render.DefaultFilename(cfg.Format)
	}

	switch Phase(raw.Phase) {
	case "":
		cfg.Phase = PhaseBuild
	case PhaseBuild, PhaseRelease:
		cfg.Phase = Phase(raw.Phase)
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unknown phase %q", raw.Phase))
	}

	switch Location(raw.Location) {
	case "":
		cfg.Location = LocationRoot
	case LocationBuild, LocationRoot:
		cfg.Location = Location(raw.Location)
	default:
		return nil, errors.ConfigInvalid(fmt.Sprintf("unknown location %q", raw.Location))
	}

	// A release-phase artifact in the build staging directory would be
	// discarded with the staging tree before the release happens.
	if cfg.Location == LocationBuild && cfg.Phase == PhaseRelease {
		return nil, errors.InvalidPhaseLocation(string(cfg.Phase), string(cfg.Location))
	}

	names := raw.Sections
	if len(names) == 0 {
		names = DefaultSections
	}
	for _, name := range names {
		req, err := section.ParseRequest(name)
		if err != nil {
			return nil, err
		}
		cfg.Sections = append(cfg.Sections, req)
	}

	return cfg, nil
}

// OutputPath resolves the artifact path from location, build dir, and
// filename.
func (c *Config) OutputPath() string {
	if c.Location == LocationBuild {
		return filepath.Join(c.Root, c.BuildDir, c.Filename)
	}
	return filepath.Join(c.Root, c.Filename)
}

// DefaultYAML is the commented starter configuration written by init.
const DefaultYAML = `# podreadme configuration.
#
# source:     POD source; first .pm/.pod under lib/ when omitted
# metadata:   META.yml-style file with name, version, requires
# type:       pod | text | markdown | gfm
# phase:      build | release
# location:   build | root   (build staging dir vs repository root)

type: gfm
phase: build
location: root
section_fallback: true
sections:
  - NAME
  - VERSION
  - SYNOPSIS
  - DESCRIPTION
  - INSTALLATION
  - REQUIREMENTS
  - AUTHOR
  - COPYRIGHT AND LICENSE
`
