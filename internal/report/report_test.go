package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/logsift/logsift/internal/classify"
	"github.com/logsift/logsift/internal/insights"
)

func sampleResults() *classify.Results {
	store := classify.NewStore()
	for i := 0; i < 5; i++ {
		store.CountLine()
	}
	store.Add(classify.Entry{Tier: "error", Group: "storage", Canonical: "disk write error on sda1"})
	store.Add(classify.Entry{Tier: "error", Group: "storage", Canonical: "disk read error on sdb2"})
	store.Add(classify.Entry{Tier: "warning", Group: "resource", Canonical: "memory pressure warning"})
	return store.Results()
}

func TestRenderer_WriteText(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, ColorNever)

	err := r.WriteText(sampleResults(), Options{
		EnabledTiers: map[string]bool{"error": true, "warning": true, "info": true},
		AllTiers:     []string{"error", "warning", "info"},
	})
	if err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Log Analysis Results",
		"Total lines processed: 5",
		"Total matches found: 3",
		"[ERROR] storage: 2 occurrence(s)",
		"Example: disk write error on sda1",
		"[WARNING] resource: 1 occurrence(s)",
		"=== Summary ===",
		"error: 2 total issues",
		"warning: 1 total issues",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n---\n%s", want, out)
		}
	}

	if strings.Contains(out, "Active Filters:") {
		t.Error("no filter note expected when all tiers are enabled")
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("ANSI escapes present with ColorNever")
	}
}

func TestRenderer_WriteText_FilterNote(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, ColorNever)

	err := r.WriteText(sampleResults(), Options{
		EnabledTiers: map[string]bool{"error": true},
		AllTiers:     []string{"error", "warning", "info"},
	})
	if err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Active Filters:") {
		t.Errorf("filter note missing:\n%s", out)
	}
	if !strings.Contains(out, "Showing only: error") {
		t.Errorf("active tier list missing:\n%s", out)
	}
}

func TestRenderer_WriteText_ShowFull(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, ColorNever)

	err := r.WriteText(sampleResults(), Options{ShowFull: true})
	if err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Messages:") {
		t.Error("full mode should list every message under a Messages: header")
	}
	if strings.Contains(out, "Example: ") {
		t.Error("full mode should not print single examples")
	}
	if !strings.Contains(out, "disk read error on sdb2") {
		t.Error("full mode should include every message in the group")
	}
	if !strings.Contains(out, "--full flag is enabled") {
		t.Error("full mode note missing")
	}
}

func TestRenderer_WriteText_Truncation(t *testing.T) {
	store := classify.NewStore()
	store.CountLine()
	long := strings.Repeat("z", 150)
	store.Add(classify.Entry{Tier: "error", Group: "misc", Canonical: long})

	var buf bytes.Buffer
	if err := New(&buf, ColorNever).WriteText(store.Results(), Options{}); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}

	if !strings.Contains(buf.String(), strings.Repeat("z", 117)+"...") {
		t.Error("long example should be truncated with an ellipsis")
	}
	if strings.Contains(buf.String(), long) {
		t.Error("untruncated message leaked into default output")
	}
}

func TestRenderer_WriteText_EmptyResults(t *testing.T) {
	var buf bytes.Buffer
	err := New(&buf, ColorNever).WriteText(classify.NewStore().Results(), Options{})
	if err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Total lines processed: 0") {
		t.Errorf("empty results should still render the header and totals:\n%s", out)
	}
	if !strings.Contains(out, "=== Summary ===") {
		t.Error("summary section missing on empty results")
	}
}

func TestRenderer_WriteInsights(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, ColorNever)

	err := r.WriteInsights(insights.Insights{
		Backup: insights.BackupSummary{
			TotalJobs:       1,
			SuccessfulJobs:  1,
			VMsBackedUp:     []string{"100", "101"},
			AverageDuration: "19m 59s",
		},
		ErrorPatterns: map[string]int{"docker": 2, "other": 1},
		ServiceStatus: map[string]string{"redis": insights.StatusFailed},
	})
	if err != nil {
		t.Fatalf("WriteInsights() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"=== System Insights ===",
		"Backup Analysis:",
		"- Total backup jobs: 1",
		"- Successful backups: 1",
		"- VMs backed up: 2",
		"- Average duration: 19m 59s",
		"Error Patterns:",
		"- Docker: 2 occurrences",
		"Service Status:",
		"- redis: Failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n---\n%s", want, out)
		}
	}
}

func TestRenderer_WriteInsights_NoBackupData(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, ColorNever)

	err := r.WriteInsights(insights.Insights{
		Backup: insights.BackupSummary{Status: insights.NoBackupData},
	})
	if err != nil {
		t.Fatalf("WriteInsights() error = %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, insights.NoBackupData) {
		t.Errorf("no-data marker missing:\n%s", out)
	}
	if strings.Contains(out, "Error Patterns:") || strings.Contains(out, "Service Status:") {
		t.Error("empty sections should be omitted")
	}
}

func TestRenderer_WriteJSON(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, ColorNever)

	results := sampleResults()
	if err := r.WriteJSON(results); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded struct {
		Alerts  map[string]int            `json:"alerts"`
		Grouped map[string]map[string]any `json:"grouped_messages"`
		Stats   struct {
			TotalLines   int `json:"total_lines"`
			TotalMatches int `json:"total_matches"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if decoded.Alerts["error"] != 2 {
		t.Errorf("alerts.error = %d, want 2", decoded.Alerts["error"])
	}
	if decoded.Stats.TotalLines != 5 {
		t.Errorf("stats.total_lines = %d, want 5", decoded.Stats.TotalLines)
	}
	if _, ok := decoded.Grouped["error"]["storage"]; !ok {
		t.Errorf("grouped_messages.error.storage missing:\n%s", buf.String())
	}
}

func TestBuildSummaryPayload(t *testing.T) {
	store := classify.NewStore()
	for i := 0; i < 10; i++ {
		store.CountLine()
	}
	store.Add(classify.Entry{Tier: "error", Group: "storage", Canonical: "msg one"})
	store.Add(classify.Entry{Tier: "error", Group: "storage", Canonical: "msg two"})
	store.Add(classify.Entry{Tier: "error", Group: "storage", Canonical: "msg three"})
	store.Add(classify.Entry{Tier: "error", Group: "storage", Canonical: "msg four"})

	payload := BuildSummaryPayload(store.Results(), 2)

	for _, want := range []string{
		"Log Analysis Summary:",
		"Total lines processed: 10",
		"ERROR Groups:",
		"storage: 4 occurrences",
		"Example: msg one",
		"Example: msg two",
	} {
		if !strings.Contains(payload, want) {
			t.Errorf("payload missing %q\n---\n%s", want, payload)
		}
	}

	if strings.Contains(payload, "msg three") {
		t.Error("payload should cap examples at maxExamples")
	}
	// The cap is payload-only; the count still reflects the full group.
	if !strings.Contains(payload, ": 4 occurrences") {
		t.Error("group count should be uncapped")
	}
}

func TestBuildSummaryPayload_DefaultCap(t *testing.T) {
	store := classify.NewStore()
	for i := 1; i <= 5; i++ {
		store.Add(classify.Entry{Tier: "error", Group: "g", Canonical: strings.Repeat("m", i)})
	}

	payload := BuildSummaryPayload(store.Results(), 0)
	if got := strings.Count(payload, "Example: "); got != 3 {
		t.Errorf("examples = %d, want default cap of 3", got)
	}
}

func TestBuildSummaryPayload_Empty(t *testing.T) {
	payload := BuildSummaryPayload(classify.NewStore().Results(), 3)
	if !strings.Contains(payload, "Total matches found: 0") {
		t.Errorf("empty payload should still carry totals:\n%s", payload)
	}
}
