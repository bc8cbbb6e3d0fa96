package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/podreadme/internal/config"
	"git.home.luguber.info/inful/podreadme/internal/pipeline"
	"git.home.luguber.info/inful/podreadme/internal/render"
	"git.home.luguber.info/inful/podreadme/internal/weave"
)

func runWeave() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}

	target := CLI.Weave.Target
	if target == "" {
		target = cfg.WeaveTarget
	}
	if target == "" {
		return fmt.Errorf("no weave target: set weave.target in %s or pass --target", CLI.Config)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(cfg.Root, target)
	}
	anchor := CLI.Weave.Anchor
	if anchor == "" {
		anchor = cfg.WeaveAnchor
	}

	// Woven blocks live inside markdown documents; pod and text configs
	// fall back to GFM for the embedded content.
	weaveCfg := *cfg
	if weaveCfg.Format != render.FormatMarkdown && weaveCfg.Format != render.FormatGFM {
		weaveCfg.Format = render.FormatGFM
	}

	res, err := pipeline.New(pipeline.Options{Config: &weaveCfg}).Render(context.Background())
	if err != nil {
		return err
	}

	doc, err := os.ReadFile(target)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	woven, err := weave.Weave(doc, res.Output, anchor)
	if err != nil {
		return err
	}
	// The target is the user's own document; replace it in one rename.
	if err := pipeline.WriteAtomic(target, woven); err != nil {
		return err
	}
	slog.Info("Sections woven", "target", target, "matched", res.Matched, "synthesized", res.Synthesized)
	return nil
}
