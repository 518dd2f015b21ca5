// Package report renders before/after snapshots of the remote mapping set
// for operator visibility.
package report

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog/log"

	"github.com/darmiel/fedmap/internal/core"
)

// Presenter reads and renders mapping snapshots. Pure read, no side effects.
type Presenter struct {
	store core.MappingStore
}

func NewPresenter(store core.MappingStore) *Presenter {
	return &Presenter{store: store}
}

// Snapshot returns the integration's current mapping set in store order.
// A failed read is logged and yields an empty snapshot, never a fatal error:
// snapshots are operator convenience, not part of reconciliation.
func (p *Presenter) Snapshot(ctx context.Context, integration string) []core.IdentityMapping {
	mappings, err := p.store.ListMappings(ctx, integration)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("integration", integration).
			Msg("snapshot read failed")
		return nil
	}
	return mappings
}

// Render writes the mapping set as a table.
func (p *Presenter) Render(w io.Writer, mappings []core.IdentityMapping) {
	renderTable(w, mappings, nil)
}

// RenderDiff writes the after-snapshot, marking mappings absent from the
// before-snapshot as new. Presentation only, no reconciliation semantics.
func (p *Presenter) RenderDiff(w io.Writer, before, after []core.IdentityMapping) {
	known := make(map[string]bool, len(before))
	for _, m := range before {
		known[m.Name] = true
	}
	renderTable(w, after, known)
}

func renderTable(w io.Writer, mappings []core.IdentityMapping, known map[string]bool) {
	if len(mappings) == 0 {
		_, _ = io.WriteString(w, "(no identity mappings)\n")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"", "Name", "Priority", "Repository Claim", "Scope"})

	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	for _, m := range mappings {
		marker := ""
		name := m.Name
		if known != nil && !known[m.Name] {
			marker = green("+")
			name = bold(m.Name)
		}
		t.AppendRow(table.Row{marker, name, m.Priority, m.Repository, m.Scope})
	}

	s := table.StyleRounded
	s.Format.Header = text.FormatDefault
	t.SetStyle(s)
	t.Render()
}
