// Package report renders a finished grouping store, and optionally the
// derived insights, into human-readable text or JSON. Rendering is a pure
// projection of the store: no classification is ever recomputed here.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/logsift/logsift/internal/classify"
	"github.com/logsift/logsift/internal/insights"
	"github.com/logsift/logsift/internal/normalize"
)

// Options controls the text rendering.
type Options struct {
	// ShowFull lists every message in a group instead of the first example,
	// and lifts the 120-character truncation.
	ShowFull bool

	// EnabledTiers is the tier set this run evaluated; when it is a strict
	// subset of AllTiers, the report carries an active-filter note.
	EnabledTiers map[string]bool

	// AllTiers is the registry's full tier list, in evaluation order.
	AllTiers []string
}

// Renderer writes reports to a fixed destination.
type Renderer struct {
	w        io.Writer
	colorize bool
}

// New creates a Renderer for the given writer and color mode.
func New(w io.Writer, mode ColorMode) *Renderer {
	return &Renderer{w: w, colorize: shouldColorize(mode, w)}
}

func (r *Renderer) paint(text, color string) string {
	if r.colorize {
		return color + text + colorReset
	}
	return text
}

// WriteText renders the full text report: header, active-filter note, totals,
// one block per non-empty group, and the closing summary section.
func (r *Renderer) WriteText(results *classify.Results, opts Options) error {
	var b strings.Builder

	b.WriteString("\n" + strings.Repeat("=", 50) + "\n")
	b.WriteString(r.paint("Log Analysis Results", colorGreen) + "\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")

	if filtered, active := filterNote(opts); filtered {
		b.WriteString("\n" + r.paint("Active Filters:", colorCyan) + "\n")
		b.WriteString("Showing only: " + active + "\n")
	}

	fmt.Fprintf(&b, "\nTotal lines processed: %d\n", results.Stats.TotalLines)
	fmt.Fprintf(&b, "Total matches found: %d\n", results.Stats.TotalMatches)

	if results.Grouped != nil {
		for tp := results.Grouped.Oldest(); tp != nil; tp = tp.Next() {
			tier := tp.Key
			for gp := tp.Value.Oldest(); gp != nil; gp = gp.Next() {
				if len(gp.Value) == 0 {
					continue
				}
				header := fmt.Sprintf("[%s] %s: %d occurrence(s)",
					strings.ToUpper(tier), gp.Key, len(gp.Value))
				b.WriteString("\n" + r.paint(header, colorYellow) + "\n")
				if opts.ShowFull {
					b.WriteString("Messages:\n")
					for _, msg := range gp.Value {
						b.WriteString("  " + normalize.CleanForDisplay(msg, true) + "\n")
					}
				} else {
					b.WriteString("Example: " + normalize.CleanForDisplay(gp.Value[0], false) + "\n")
				}
			}
		}
	}

	b.WriteString("\n" + r.paint("=== Summary ===", colorGreen) + "\n")
	for _, tier := range sortedTiers(results.Alerts) {
		line := fmt.Sprintf("%s: %d total issues", tier, results.Alerts[tier])
		b.WriteString(r.paint(line, tierColor(tier)) + "\n")
	}

	if opts.ShowFull {
		b.WriteString("\nNote: Showing full messages (--full flag is enabled)\n")
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

// WriteInsights renders the derived insights block.
func (r *Renderer) WriteInsights(ins insights.Insights) error {
	var b strings.Builder

	b.WriteString("\n" + r.paint("=== System Insights ===", colorGreen) + "\n")

	b.WriteString("\n" + r.paint("Backup Analysis:", colorCyan) + "\n")
	r.writeBackup(&b, ins.Backup)

	if len(ins.ErrorPatterns) > 0 {
		b.WriteString("\n" + r.paint("Error Patterns:", colorCyan) + "\n")
		for _, bucket := range sortedTiers(ins.ErrorPatterns) {
			fmt.Fprintf(&b, "- %s: %d occurrences\n", titleCase(bucket), ins.ErrorPatterns[bucket])
		}
	}

	if len(ins.ServiceStatus) > 0 {
		b.WriteString("\n" + r.paint("Service Status:", colorCyan) + "\n")
		names := make([]string, 0, len(ins.ServiceStatus))
		for name := range ins.ServiceStatus {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "- %s: %s\n", name, ins.ServiceStatus[name])
		}
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) writeBackup(b *strings.Builder, sum insights.BackupSummary) {
	if sum.Status != "" {
		b.WriteString(sum.Status + "\n")
		return
	}
	fmt.Fprintf(b, "- Total backup jobs: %d\n", sum.TotalJobs)
	fmt.Fprintf(b, "- Successful backups: %d\n", sum.SuccessfulJobs)
	fmt.Fprintf(b, "- VMs backed up: %d\n", len(sum.VMsBackedUp))
	if sum.AverageDuration != "" {
		fmt.Fprintf(b, "- Average duration: %s\n", sum.AverageDuration)
	}
	if sum.IncompleteJobs > 0 {
		fmt.Fprintf(b, "- Incomplete jobs: %d\n", sum.IncompleteJobs)
	}
	if len(sum.Jobs) > 0 {
		b.WriteString("\nDetailed Backup Information:\n")
		for _, job := range sum.Jobs {
			mark := r.paint("x", colorRed)
			if job.Successful {
				mark = r.paint("ok", colorGreen)
			}
			fmt.Fprintf(b, "[%s] %s: %d VMs\n",
				mark, job.End.Format("2006-01-02 15:04:05"), len(job.VMIDs))
		}
	}
}

// WriteJSON emits any value as indented JSON.
func (r *Renderer) WriteJSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// filterNote reports whether a strict subset of tiers is enabled and, if so,
// the sorted list of active tier names.
func filterNote(opts Options) (bool, string) {
	if len(opts.AllTiers) == 0 || opts.EnabledTiers == nil {
		return false, ""
	}
	var active []string
	for _, tier := range opts.AllTiers {
		if opts.EnabledTiers[tier] {
			active = append(active, tier)
		}
	}
	if len(active) == len(opts.AllTiers) {
		return false, ""
	}
	sort.Strings(active)
	return true, strings.Join(active, ", ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func sortedTiers[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
