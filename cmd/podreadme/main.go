package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/podreadme/internal/config"
	"git.home.luguber.info/inful/podreadme/internal/metrics"
	"git.home.luguber.info/inful/podreadme/internal/pipeline"
	"git.home.luguber.info/inful/podreadme/internal/state"
	"git.home.luguber.info/inful/podreadme/internal/version"
	"git.home.luguber.info/inful/podreadme/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"podreadme.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Force bool `short:"f" help:"Write the artifact even when unchanged"`
	} `cmd:"" help:"Generate the README artifact from the module's documentation"`

	Watch struct {
		Debounce time.Duration `help:"Delay before rebuilding after a change" default:"300ms"`
	} `cmd:"" help:"Regenerate the README whenever watched files change"`

	Weave struct {
		Target string `short:"t" help:"Markdown file to weave sections into (overrides config)"`
		Anchor string `short:"a" help:"Heading to insert below (overrides config)"`
	} `cmd:"" help:"Insert generated sections into an existing markdown document"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Version struct{} `cmd:"" help:"Print the tool version"`
}

func main() {
	// Optional .env for local overrides; absence is fine.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if env := os.Getenv("PODREADME_CONFIG"); env != "" && CLI.Config == "podreadme.yaml" {
		CLI.Config = env
	}

	var err error
	switch ctx.Command() {
	case "build":
		err = runBuild()
	case "watch":
		err = runWatch()
	case "weave":
		err = runWeave()
	case "init":
		err = runInit()
	case "version":
		fmt.Printf("podreadme %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
	default:
		err = fmt.Errorf("unknown command %q", ctx.Command())
	}
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func runBuild() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	recorder := metrics.NewPrometheusRecorder(prom.NewRegistry())
	res, err := pipeline.New(pipeline.Options{
		Config:   cfg,
		Store:    store,
		Recorder: recorder,
		Force:    CLI.Build.Force,
	}).Run(context.Background())
	if err != nil {
		return err
	}
	slog.Info("Build finished",
		"path", res.Path, "outcome", res.Outcome,
		"matched", res.Matched, "synthesized", res.Synthesized)
	slog.Debug("Pass metrics", "samples", recorder.Summary())
	return nil
}

func runWatch() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	recorder := metrics.NewPrometheusRecorder(prom.NewRegistry())
	pipe := pipeline.New(pipeline.Options{Config: cfg, Store: store, Recorder: recorder})

	rebuild := func(ctx context.Context) {
		if _, err := pipe.Run(ctx); err != nil {
			slog.Error("Rebuild failed", "error", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initial build so the artifact exists before the first change.
	rebuild(ctx)

	w := watch.New(watchPaths(cfg), CLI.Watch.Debounce, rebuild)
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	slog.Info("Watch stopped", "metrics", recorder.Summary())
	return nil
}

// watchPaths lists the files whose changes invalidate the artifact: the
// distribution root (for metadata, changelog, descriptors), the source
// module, and the configuration file. The source goes through the same
// resolution the render pass uses; directory watches are non-recursive, so
// an autodetected module under lib/ must be watched explicitly.
func watchPaths(cfg *config.Config) []string {
	paths := []string{cfg.Root, CLI.Config}
	if source := pipeline.SourcePath(cfg); source != "" {
		paths = append(paths, source)
	}
	return paths
}

func runInit() error {
	if _, err := os.Stat(CLI.Config); err == nil && !CLI.Init.Force {
		return fmt.Errorf("configuration file %s already exists (use --force to overwrite)", CLI.Config)
	}
	if err := os.WriteFile(CLI.Config, []byte(config.DefaultYAML), 0o644); err != nil {
		return err
	}
	slog.Info("Configuration written", "path", CLI.Config)
	return nil
}

func openStore(cfg *config.Config) (*state.Store, func(), error) {
	if cfg.StateDB == "" {
		return nil, func() {}, nil
	}
	store, err := state.Open(cfg.StateDB)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}
