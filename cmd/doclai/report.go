package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/ZaguanLabs/doclai"
)

type leafView struct {
	Address string            `json:"address"`
	Context doclai.ContextTag `json:"context"`
	Text    string            `json:"text"`
}

func viewLeaves(leaves []doclai.Leaf) []leafView {
	out := make([]leafView, len(leaves))
	for i, l := range leaves {
		out[i] = leafView{Address: l.Address.String(), Context: l.Context, Text: l.Source}
	}
	return out
}

func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// runDryRun shows what would be translated without calling a provider.
func (o *options) runDryRun(in *input, cfg doclai.Config, keys *doclai.ProtectedKeySet, r doclai.MarkupRepairer, stdout io.Writer) error {
	leaves := doclai.Extract(in.doc, keys, r)
	chunks := doclai.PlanChunks(leaves, cfg.Chunking())

	if o.jsonOut {
		return writeIndented(stdout, struct {
			InputFile  string     `json:"input_file"`
			TargetLang string     `json:"target_lang"`
			LeafCount  int        `json:"leaf_count"`
			Chunks     int        `json:"chunks"`
			Leaves     []leafView `json:"leaves"`
		}{in.name, o.lang, len(leaves), len(chunks), viewLeaves(leaves)})
	}

	fmt.Fprintf(stdout, "Dry run: %s -> %s\n", in.name, o.lang)
	fmt.Fprintf(stdout, "Found %d translatable strings in %d chunk(s):\n\n", len(leaves), len(chunks))
	for i, l := range leaves {
		fmt.Fprintf(stdout, "%3d. %s %q\n", i+1, l.Address, shorten(l.Source, 60))
		if l.Context != doclai.ContextText {
			fmt.Fprintf(stdout, "     Context: %s\n", l.Context)
		}
	}
	return nil
}

// runDiff compares the input with a previous version and shows what changed.
func (o *options) runDiff(in *input, keys *doclai.ProtectedKeySet, r doclai.MarkupRepairer, stdout io.Writer) error {
	prev, err := o.readInput(nil, []string{o.diffPath})
	if err != nil {
		return fmt.Errorf("reading previous version: %w", err)
	}

	diff := doclai.DiffLeaves(doclai.Extract(prev.doc, keys, r), doclai.Extract(in.doc, keys, r))
	stats := diff.Stats()

	if o.jsonOut {
		type change struct {
			Address string `json:"address"`
			Old     string `json:"old"`
			New     string `json:"new"`
		}
		out := struct {
			InputFile        string           `json:"input_file"`
			PreviousFile     string           `json:"previous_file"`
			TargetLang       string           `json:"target_lang"`
			Stats            doclai.DiffStats `json:"stats"`
			NeedsTranslation []leafView       `json:"needs_translation"`
			Removed          []leafView       `json:"removed,omitempty"`
			Modified         []change         `json:"modified,omitempty"`
		}{
			InputFile:        in.name,
			PreviousFile:     filepath.Base(o.diffPath),
			TargetLang:       o.lang,
			Stats:            stats,
			NeedsTranslation: viewLeaves(diff.NeedsTranslation()),
			Removed:          viewLeaves(diff.Removed),
		}
		for _, m := range diff.Modified {
			out.Modified = append(out.Modified, change{m.New.Address.String(), m.Old.Source, m.New.Source})
		}
		return writeIndented(stdout, out)
	}

	fmt.Fprintf(stdout, "Diff: %s vs %s\n", in.name, filepath.Base(o.diffPath))
	fmt.Fprintf(stdout, "Target language: %s\n\n", o.lang)
	fmt.Fprintf(stdout, "Summary:\n")
	fmt.Fprintf(stdout, "  Unchanged: %d\n", stats.Unchanged)
	fmt.Fprintf(stdout, "  Added:     %d\n", stats.Added)
	fmt.Fprintf(stdout, "  Removed:   %d\n", stats.Removed)
	fmt.Fprintf(stdout, "  Modified:  %d\n\n", stats.Modified)

	if !diff.HasChanges() {
		fmt.Fprintf(stdout, "No changes detected. All translations are up to date.\n")
		return nil
	}

	fmt.Fprintf(stdout, "Needs translation: %d strings\n\n", len(diff.NeedsTranslation()))
	if len(diff.Added) > 0 {
		fmt.Fprintf(stdout, "Added:\n")
		for _, l := range diff.Added {
			fmt.Fprintf(stdout, "  + %s %q\n", l.Address, shorten(l.Source, 50))
		}
		fmt.Fprintln(stdout)
	}
	if len(diff.Modified) > 0 {
		fmt.Fprintf(stdout, "Modified:\n")
		for _, m := range diff.Modified {
			fmt.Fprintf(stdout, "  ~ %s %q -> %q\n", m.New.Address, shorten(m.Old.Source, 30), shorten(m.New.Source, 30))
		}
		fmt.Fprintln(stdout)
	}
	if len(diff.Removed) > 0 {
		fmt.Fprintf(stdout, "Removed:\n")
		for _, l := range diff.Removed {
			fmt.Fprintf(stdout, "  - %s %q\n", l.Address, shorten(l.Source, 50))
		}
		fmt.Fprintln(stdout)
	}
	return nil
}
