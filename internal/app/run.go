package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/depdiffgo/internal/ctxlog"
	"github.com/vk/depdiffgo/internal/depdiff"
	"github.com/vk/depdiffgo/internal/deptree"
	"github.com/vk/depdiffgo/internal/dotgraph"
	"github.com/vk/depdiffgo/internal/fsutil"
	"github.com/vk/depdiffgo/internal/report"
)

// Run executes the main application logic: load both dump sides, diff them,
// render the report, and deliver it.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	baseline, err := a.loadForest(ctx, "baseline", a.config.BaselinePath)
	if err != nil {
		return err
	}
	candidate, err := a.loadForest(ctx, "candidate", a.config.CandidatePath)
	if err != nil {
		return err
	}

	a.logger.Info("🔍 Comparing dependency forests...",
		"baseline_roots", len(baseline),
		"candidate_roots", len(candidate),
	)
	diff := depdiff.Diff(baseline, candidate)
	a.logger.Info("Diff computed.",
		"introduced", len(diff.Introduced),
		"removed", len(diff.Removed),
		"upgraded", len(diff.Upgraded),
	)

	rep := a.newBuilder().Build(ctx, diff)
	if a.governance != nil {
		a.logger.Debug("Governance lookups complete.", "cached_components", a.governance.CacheLen())
	}
	body, err := rep.Render()
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if err := a.deliver(ctx, rep.Marker, body); err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// loadForest reads, parses and normalizes one side of the comparison.
func (a *App) loadForest(ctx context.Context, side, path string) ([]*deptree.Node, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Reading dependency dumps.", "side", side, "path", path)

	text, err := fsutil.ReadDumps(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s dumps: %w", side, err)
	}

	roots, err := dotgraph.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s dumps: %w", side, err)
	}

	forest := deptree.Normalize(roots)
	logger.Debug("Forest normalized.", "side", side, "roots", len(forest))
	return forest, nil
}

// newBuilder derives the report builder from the settings file.
func (a *App) newBuilder() *report.Builder {
	builder := &report.Builder{SortByThreat: true}
	if a.governance != nil {
		builder.Source = a.governance
	}
	if r := a.settings.Report; r != nil {
		builder.Title = r.Title
		builder.MaxTransitive = r.MaxTransitive
		if r.SortByThreat != nil {
			builder.SortByThreat = *r.SortByThreat
		}
	}
	return builder
}

// deliver routes the rendered report. An output file and a pull-request
// comment can both be requested; with neither, the report goes to outW.
func (a *App) deliver(ctx context.Context, marker, body string) error {
	delivered := false

	if a.config.OutputPath == "-" {
		fmt.Fprintln(a.outW, body)
		delivered = true
	} else if a.config.OutputPath != "" {
		if err := os.WriteFile(a.config.OutputPath, []byte(body), 0o644); err != nil {
			return fmt.Errorf("failed to write report to %s: %w", a.config.OutputPath, err)
		}
		a.logger.Info("✅ Report written.", "path", a.config.OutputPath)
		delivered = true
	}

	if a.config.PullRequest > 0 {
		if a.publisher == nil {
			return fmt.Errorf("pull request %d given but no bitbucket block is configured", a.config.PullRequest)
		}
		if a.config.DryRun {
			a.logger.Info("Dry run, skipping comment upsert.", "pull_request", a.config.PullRequest)
			fmt.Fprintln(a.outW, body)
		} else {
			if err := a.publisher.UpsertComment(ctx, a.config.PullRequest, marker, body); err != nil {
				return fmt.Errorf("failed to publish report to pull request %d: %w", a.config.PullRequest, err)
			}
			a.logger.Info("✅ Report published.", "pull_request", a.config.PullRequest)
		}
		delivered = true
	}

	if !delivered {
		fmt.Fprintln(a.outW, body)
	}
	return nil
}
