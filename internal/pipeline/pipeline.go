// Package pipeline orchestrates one render pass: gather inputs, parse and
// re-nest the source document, assemble sections, render, and materialize
// the artifact with an atomic whole-file write.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/podreadme/internal/changes"
	"git.home.luguber.info/inful/podreadme/internal/config"
	"git.home.luguber.info/inful/podreadme/internal/errors"
	"git.home.luguber.info/inful/podreadme/internal/fileset"
	"git.home.luguber.info/inful/podreadme/internal/metadata"
	"git.home.luguber.info/inful/podreadme/internal/metrics"
	"git.home.luguber.info/inful/podreadme/internal/observability"
	"git.home.luguber.info/inful/podreadme/internal/pod"
	"git.home.luguber.info/inful/podreadme/internal/render"
	"git.home.luguber.info/inful/podreadme/internal/section"
	"git.home.luguber.info/inful/podreadme/internal/state"
)

// Outcomes of a render pass.
const (
	OutcomeWritten   = "written"
	OutcomeUnchanged = "unchanged"
	OutcomeEmpty     = "empty"
	OutcomeFailed    = "failed"
)

// Options configures a Pipeline.
type Options struct {
	Config   *config.Config
	Recorder metrics.Recorder // nil means no instrumentation
	Store    *state.Store     // nil disables skip-unchanged
	Force    bool             // write even when the fingerprint matches
}

// Pipeline runs render passes. Each pass is a pure function of the source
// tree, configuration, and metadata snapshot; the pipeline holds no mutable
// state between passes.
type Pipeline struct {
	cfg      *config.Config
	recorder metrics.Recorder
	store    *state.Store
	force    bool
}

// Result describes one finished pass.
type Result struct {
	Output      string
	Path        string
	Outcome     string
	Matched     int
	Synthesized int
}

func New(opts Options) *Pipeline {
	rec := opts.Recorder
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Pipeline{cfg: opts.Config, recorder: rec, store: opts.Store, force: opts.Force}
}

// Render produces the artifact body without touching the filesystem sink.
// The weave command uses this directly.
func (p *Pipeline) Render(ctx context.Context) (*Result, error) {
	cfg := p.cfg

	files, dist, err := p.gather(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := p.parse(ctx)
	if err != nil {
		return nil, err
	}

	nodes, res := p.assemble(ctx, doc, files, dist)

	start := time.Now()
	renderer, err := render.For(cfg.Format)
	if err != nil {
		return nil, err
	}
	output, err := renderer.Render(nodes)
	if err != nil {
		return nil, errors.RenderFailed(string(cfg.Format), err)
	}
	p.recorder.ObserveStageDuration("render", time.Since(start))

	res.Output = output
	p.recorder.IncSections("matched", res.Matched)
	p.recorder.IncSections("synthesized", res.Synthesized)
	return res, nil
}

// Run renders and materializes the artifact. The write is a single atomic
// whole-file replace; unchanged content is skipped when a state store is
// attached.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	ctx = observability.WithPassID(ctx, uuid.NewString())
	start := time.Now()

	res, err := p.Render(ctx)
	if err != nil {
		p.recorder.IncPassOutcome(OutcomeFailed)
		return nil, err
	}
	res.Path = p.cfg.OutputPath()

	fingerprint := contentFingerprint(res.Output)
	if p.store != nil && !p.force {
		prev, ferr := p.store.Fingerprint(ctx, res.Path)
		if ferr != nil {
			observability.WarnContext(ctx, "fingerprint lookup failed", slog.String("error", ferr.Error()))
		} else if prev == fingerprint {
			res.Outcome = OutcomeUnchanged
			p.recorder.IncPassOutcome(OutcomeUnchanged)
			p.recorder.ObservePassDuration(time.Since(start))
			observability.InfoContext(ctx, "artifact unchanged, skipping write",
				slog.String("path", res.Path))
			return res, nil
		}
	}

	if err := WriteAtomic(res.Path, []byte(res.Output)); err != nil {
		p.recorder.IncPassOutcome(OutcomeFailed)
		return nil, errors.ArtifactWriteFailed(res.Path, err)
	}
	if p.store != nil {
		if err := p.store.Record(ctx, res.Path, fingerprint); err != nil {
			observability.WarnContext(ctx, "fingerprint record failed", slog.String("error", err.Error()))
		}
	}

	res.Outcome = OutcomeWritten
	if res.Output == "" {
		res.Outcome = OutcomeEmpty
	}
	p.recorder.IncPassOutcome(res.Outcome)
	p.recorder.ObservePassDuration(time.Since(start))
	observability.InfoContext(ctx, "artifact written",
		slog.String("path", res.Path),
		slog.Int("matched", res.Matched),
		slog.Int("synthesized", res.Synthesized),
		slog.String("outcome", res.Outcome))
	return res, nil
}

func (p *Pipeline) gather(ctx context.Context) (*fileset.Set, metadata.Distribution, error) {
	ctx = observability.WithStage(ctx, "gather")
	start := time.Now()
	defer func() { p.recorder.ObserveStageDuration("gather", time.Since(start)) }()

	files, err := fileset.FromDir(p.cfg.Root)
	if err != nil {
		return nil, metadata.Distribution{}, errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "gather distribution files")
	}

	metaPath := p.cfg.Metadata
	if metaPath == "" {
		metaPath = filepath.Join(p.cfg.Root, "META.yml")
	} else if !filepath.IsAbs(metaPath) {
		metaPath = filepath.Join(p.cfg.Root, metaPath)
	}
	dist, err := metadata.Load(metaPath)
	if err != nil {
		return nil, metadata.Distribution{}, errors.Wrap(err, errors.CategoryMetadata, errors.SeverityFatal, "load distribution metadata")
	}
	if dist.Version == "" {
		if v := metadata.GitVersion(p.cfg.Root); v != "" {
			dist.Version = v
			observability.DebugContext(ctx, "version resolved from git tags", slog.String("version", v))
		}
	}
	return files, dist, nil
}

// SourcePath resolves the POD source document for a configuration: a
// configured path is taken relative to the root, an unconfigured one falls
// back to the first module under lib/. Empty when nothing is found. The
// watch command resolves its watch list through the same function so edits
// to the autodetected source trigger rebuilds.
func SourcePath(cfg *config.Config) string {
	source := cfg.Source
	if source == "" {
		if found, ok := fileset.FirstModule(cfg.Root); ok {
			return found
		}
		return ""
	}
	if !filepath.IsAbs(source) {
		return filepath.Join(cfg.Root, source)
	}
	return source
}

func (p *Pipeline) parse(ctx context.Context) (*pod.Document, error) {
	ctx = observability.WithStage(ctx, "parse")
	start := time.Now()
	defer func() { p.recorder.ObserveStageDuration("parse", time.Since(start)) }()

	source := SourcePath(p.cfg)
	if source == "" {
		observability.WarnContext(ctx, "no source document found, output will be empty")
		return &pod.Document{}, nil
	}

	doc, err := pod.ParseFile(source)
	if err != nil {
		return nil, errors.ParseFailed(source, err)
	}
	return pod.Nest(doc), nil
}

func (p *Pipeline) assemble(ctx context.Context, doc *pod.Document, files *fileset.Set, dist metadata.Distribution) ([]pod.Node, *Result) {
	ctx = observability.WithStage(ctx, "assemble")
	start := time.Now()
	defer func() { p.recorder.ObserveStageDuration("assemble", time.Since(start)) }()

	in := section.Inputs{Dist: dist, Files: files}
	asm := section.NewAssembler(p.cfg.Sections, p.cfg.SectionFallback)
	ares := asm.Assemble(doc, in)

	nodes := ares.Nodes
	res := &Result{Matched: ares.Matched, Synthesized: ares.Synthesized}

	if p.cfg.SectionFallback {
		if extra := p.recentChanges(ctx, files, dist); len(extra) > 0 {
			nodes = append(nodes, extra...)
			res.Synthesized++
		}
	}
	return nodes, res
}

// recentChanges is the separately invoked changelog synthesizer. Any
// failure here degrades to "no recent-changes section"; it never aborts
// the pass.
func (p *Pipeline) recentChanges(ctx context.Context, files *fileset.Set, dist metadata.Distribution) []pod.Node {
	var raw, name string
	if p.cfg.Changelog != "" {
		path := p.cfg.Changelog
		if !filepath.IsAbs(path) {
			path = filepath.Join(p.cfg.Root, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		raw, name = string(data), filepath.Base(path)
	} else {
		f, ok := files.ChangelogFile()
		if !ok {
			return nil
		}
		content, err := f.Content()
		if err != nil {
			return nil
		}
		raw, name = content, f.Name
	}

	cl, err := changes.Parse(raw)
	if err != nil {
		observability.WarnContext(ctx, "changelog parse failed", slog.String("error", err.Error()))
		return nil
	}
	version := metadata.ResolveVersion(p.cfg.ChangelogVersion, dist)
	rel := changes.Slice(cl, version)
	if rel == nil {
		return nil
	}
	nodes, err := changes.ReleaseNodes(rel, name)
	if err != nil {
		observability.WarnContext(ctx, "changelog flatten failed", slog.String("error", err.Error()))
		return nil
	}
	return nodes
}

func contentFingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// WriteAtomic replaces path's content in one rename so readers never see a
// partial file. The weave command uses it for the target document as well.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".podreadme-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
