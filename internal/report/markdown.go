// Package report assembles dependency diffs, enriched with governance
// findings, into the markdown body posted on pull requests.
package report

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/vk/depdiffgo/internal/ctxlog"
	"github.com/vk/depdiffgo/internal/depdiff"
	"github.com/vk/depdiffgo/internal/deptree"
	"github.com/vk/depdiffgo/internal/gav"
	"github.com/vk/depdiffgo/internal/governance"
	"github.com/vk/depdiffgo/internal/semver"
)

//go:embed template.md
var markdownTemplate string

const (
	// DefaultMarker is the hidden comment tag the publisher searches for
	// when replacing a previous report.
	DefaultMarker = "depdiffgo:report"

	defaultTitle         = "Dependency changes"
	defaultMaxTransitive = 20
)

// ViolationSource yields policy summaries per component. The governance
// client implements it; tests substitute their own.
type ViolationSource interface {
	Lookup(ctx context.Context, id gav.Identifier) (*governance.Summary, error)
}

// Builder assembles dependency-change reports. The zero value renders
// without governance data, with defaults for everything else.
type Builder struct {
	// Title heads the report. Empty means "Dependency changes".
	Title string
	// Marker is embedded as a hidden HTML comment. Empty means DefaultMarker.
	Marker string
	// Source provides policy summaries. Nil disables threat annotations.
	Source ViolationSource
	// MaxTransitive caps the transitive rows listed per entry. Zero means 20.
	MaxTransitive int
	// SortByThreat orders each section by the worst finding in the entry's
	// subtree, most severe first. Diff order is the tie-break.
	SortByThreat bool
}

// Component is one rendered dependency row.
type Component struct {
	Name    string
	Version string
	Scope   string
	Module  bool
	// Threat is the component's worst alert level, or -1 without data.
	Threat int
	Alerts []governance.Alert
}

// Line is a flattened transitive row beneath an entry.
type Line struct {
	Depth int
	Component
}

// Entry is a reported root with its transitive context.
type Entry struct {
	Component
	Transitives []Line
	// Omitted counts transitive components beyond the listing cap.
	Omitted int

	// subtreeThreat is the worst threat anywhere in the entry's subtree,
	// used for section ordering.
	subtreeThreat int
}

// Upgrade pairs the old and new version of one component name.
type Upgrade struct {
	Name        string
	FromVersion string
	ToVersion   string
	// Downgrade is true when the candidate side orders below the baseline.
	Downgrade bool
	// To carries the rendered detail of the version now in use.
	To Entry
}

// Report is the fully assembled template input.
type Report struct {
	Marker     string
	Title      string
	Introduced []Entry
	Removed    []Entry
	Upgraded   []Upgrade
}

// Empty reports whether there is nothing to list.
func (r Report) Empty() bool {
	return len(r.Introduced) == 0 && len(r.Removed) == 0 && len(r.Upgraded) == 0
}

// Build turns a diff into report data, consulting the violation source once
// per component in the result, transitives included. Lookup failures degrade
// to "no data" with a warning; they never abort the report.
func (b *Builder) Build(ctx context.Context, diff depdiff.Result) Report {
	rep := Report{Marker: b.marker(), Title: b.title()}

	for _, root := range diff.Introduced {
		rep.Introduced = append(rep.Introduced, b.entry(ctx, root))
	}
	for _, root := range diff.Removed {
		rep.Removed = append(rep.Removed, b.entry(ctx, root))
	}
	for _, change := range diff.Upgraded {
		from := change.From.ID.Version()
		to := change.To.ID.Version()
		rep.Upgraded = append(rep.Upgraded, Upgrade{
			Name:        change.Name,
			FromVersion: from,
			ToVersion:   to,
			Downgrade:   semver.CompareStrings(from, to) > 0,
			To:          b.entry(ctx, change.To),
		})
	}

	if b.SortByThreat {
		sort.SliceStable(rep.Introduced, func(i, j int) bool {
			return rep.Introduced[i].subtreeThreat > rep.Introduced[j].subtreeThreat
		})
		sort.SliceStable(rep.Removed, func(i, j int) bool {
			return rep.Removed[i].subtreeThreat > rep.Removed[j].subtreeThreat
		})
		sort.SliceStable(rep.Upgraded, func(i, j int) bool {
			return rep.Upgraded[i].To.subtreeThreat > rep.Upgraded[j].To.subtreeThreat
		})
	}
	return rep
}

// Render executes the embedded markdown template over the report.
func (r Report) Render() (string, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"badge": threatBadge,
		"label": threatLabel,
		"indent": func(depth int) string {
			return strings.Repeat("  ", depth)
		},
	}).Parse(markdownTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse report template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return buf.String(), nil
}

func (b *Builder) title() string {
	if b.Title != "" {
		return b.Title
	}
	return defaultTitle
}

func (b *Builder) marker() string {
	if b.Marker != "" {
		return b.Marker
	}
	return DefaultMarker
}

func (b *Builder) maxTransitive() int {
	if b.MaxTransitive > 0 {
		return b.MaxTransitive
	}
	return defaultMaxTransitive
}

// entry renders one reported root and flattens its subtree into transitive
// rows. The walk is memoized by identity key, so shared nodes and cycles
// produce one row each.
func (b *Builder) entry(ctx context.Context, root *deptree.Node) Entry {
	e := Entry{Component: b.component(ctx, root)}
	e.subtreeThreat = e.Threat

	maxRows := b.maxTransitive()
	seen := map[string]struct{}{root.Key(): {}}
	var walk func(n *deptree.Node, depth int)
	walk = func(n *deptree.Node, depth int) {
		for _, child := range n.Children {
			if _, ok := seen[child.Key()]; ok {
				continue
			}
			seen[child.Key()] = struct{}{}

			comp := b.component(ctx, child)
			if comp.Threat > e.subtreeThreat {
				e.subtreeThreat = comp.Threat
			}
			if len(e.Transitives) < maxRows {
				e.Transitives = append(e.Transitives, Line{Depth: depth, Component: comp})
			} else {
				e.Omitted++
			}
			walk(child, depth+1)
		}
	}
	walk(root, 0)
	return e
}

// component resolves the display row for one node, including its policy
// summary when a source is configured.
func (b *Builder) component(ctx context.Context, n *deptree.Node) Component {
	comp := Component{
		Name:    n.ID.Name(),
		Version: n.ID.Version(),
		Scope:   n.Scope,
		Module:  n.Module,
		Threat:  noThreatData,
	}
	if b.Source == nil {
		return comp
	}

	summary, err := b.Source.Lookup(ctx, n.ID)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Policy lookup failed, treating component as unknown.",
			"component", n.ID.String(), "error", err)
		return comp
	}
	if worst, ok := summary.WorstThreat(); ok {
		comp.Threat = worst
		comp.Alerts = summary.Alerts
	}
	return comp
}
