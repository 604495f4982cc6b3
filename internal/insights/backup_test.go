package insights

import (
	"testing"
	"time"
)

var backupFixture = []string{
	"Nov  7 03:00:01 pve vzdump[PID]: INFO: starting new backup job: vzdump 100 101",
	"Nov  7 03:00:05 pve vzdump[PID]: INFO: Starting Backup of VM 100",
	"Nov  7 03:05:05 pve vzdump[PID]: INFO: Finished Backup of VM 100 (00:05:00)",
	"Nov  7 03:20:00 pve vzdump[PID]: INFO: Backup job finished successfully",
}

func TestAnalyzeBackups(t *testing.T) {
	summary := AnalyzeBackups(backupFixture)

	if summary.TotalJobs != 1 {
		t.Fatalf("TotalJobs = %d, want 1", summary.TotalJobs)
	}
	if summary.SuccessfulJobs != 1 {
		t.Errorf("SuccessfulJobs = %d, want 1", summary.SuccessfulJobs)
	}
	if summary.IncompleteJobs != 0 {
		t.Errorf("IncompleteJobs = %d, want 0", summary.IncompleteJobs)
	}
	if summary.Status != "" {
		t.Errorf("Status = %q, want empty (data present)", summary.Status)
	}

	if len(summary.VMsBackedUp) != 2 || summary.VMsBackedUp[0] != "100" || summary.VMsBackedUp[1] != "101" {
		t.Errorf("VMsBackedUp = %v, want [100 101]", summary.VMsBackedUp)
	}

	job := summary.Jobs[0]
	if !job.Successful {
		t.Error("job should be marked successful")
	}
	vt, ok := job.PerVM["100"]
	if !ok {
		t.Fatal("per-VM record for 100 missing")
	}
	if vt.Duration != "00:05:00" {
		t.Errorf("PerVM[100].Duration = %q, want %q", vt.Duration, "00:05:00")
	}
	if vt.Start.IsZero() {
		t.Error("PerVM[100].Start should be set from the log timestamp")
	}

	// Job spans 03:00:01 to 03:20:00, so 19m 59s.
	if summary.AverageDuration != "19m 59s" {
		t.Errorf("AverageDuration = %q, want %q", summary.AverageDuration, "19m 59s")
	}
	if summary.TimestampFallbacks != 0 {
		t.Errorf("TimestampFallbacks = %d, want 0", summary.TimestampFallbacks)
	}
}

func TestAnalyzeBackups_NoData(t *testing.T) {
	for _, messages := range [][]string{nil, {}, {"unrelated info line"}} {
		summary := AnalyzeBackups(messages)
		if summary.Status != NoBackupData {
			t.Errorf("AnalyzeBackups(%v).Status = %q, want %q", messages, summary.Status, NoBackupData)
		}
		if summary.TotalJobs != 0 {
			t.Errorf("TotalJobs = %d, want 0", summary.TotalJobs)
		}
	}
}

func TestAnalyzeBackups_AbandonedJob(t *testing.T) {
	messages := []string{
		"Nov  7 03:00:01 pve vzdump[PID]: INFO: starting new backup job: vzdump 100",
		"Nov  7 03:00:05 pve vzdump[PID]: INFO: Starting Backup of VM 100",
		// New job starts before the first ever succeeds.
		"Nov  8 03:00:01 pve vzdump[PID]: INFO: starting new backup job: vzdump 200",
		"Nov  8 03:10:00 pve vzdump[PID]: INFO: Backup job finished successfully",
	}

	summary := AnalyzeBackups(messages)
	if summary.TotalJobs != 1 {
		t.Errorf("TotalJobs = %d, want 1 (only the completed job)", summary.TotalJobs)
	}
	if summary.IncompleteJobs != 1 {
		t.Errorf("IncompleteJobs = %d, want 1", summary.IncompleteJobs)
	}
	if len(summary.VMsBackedUp) != 1 || summary.VMsBackedUp[0] != "200" {
		t.Errorf("VMsBackedUp = %v, want [200] (abandoned job excluded)", summary.VMsBackedUp)
	}
}

func TestAnalyzeBackups_TrailingOpenJob(t *testing.T) {
	messages := []string{
		"Nov  7 03:00:01 pve vzdump[PID]: INFO: starting new backup job: vzdump 100",
		"Nov  7 03:00:05 pve vzdump[PID]: INFO: Starting Backup of VM 100",
	}

	summary := AnalyzeBackups(messages)
	if summary.TotalJobs != 0 {
		t.Errorf("TotalJobs = %d, want 0", summary.TotalJobs)
	}
	if summary.IncompleteJobs != 1 {
		t.Errorf("IncompleteJobs = %d, want 1 (job still open at stream end)", summary.IncompleteJobs)
	}
	if summary.Status != "" {
		t.Errorf("Status = %q, want empty (backup activity was observed)", summary.Status)
	}
}

func TestAnalyzeBackups_SuccessWithoutOpenJob(t *testing.T) {
	// A stray success line with no preceding start line changes nothing.
	summary := AnalyzeBackups([]string{
		"Nov  7 03:20:00 pve vzdump[PID]: INFO: Backup job finished successfully",
	})
	if summary.Status != NoBackupData {
		t.Errorf("Status = %q, want %q", summary.Status, NoBackupData)
	}
}

func TestAnalyzeBackups_TimestampFallback(t *testing.T) {
	messages := []string{
		"INFO: starting new backup job: vzdump 100",
		"INFO: Backup job finished successfully",
	}

	summary := AnalyzeBackups(messages)
	if summary.TotalJobs != 1 {
		t.Fatalf("TotalJobs = %d, want 1", summary.TotalJobs)
	}
	if summary.TimestampFallbacks != 2 {
		t.Errorf("TimestampFallbacks = %d, want 2", summary.TimestampFallbacks)
	}
}

func TestExtractTimestamp(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Valid prefix", func(t *testing.T) {
		ts, ok := extractTimestamp("Nov  7 03:00:01 pve vzdump: text", now)
		if !ok {
			t.Fatal("expected a parsed timestamp")
		}
		if ts.Month() != time.November || ts.Day() != 7 || ts.Hour() != 3 {
			t.Errorf("parsed %v, want Nov 7 03:00:01", ts)
		}
		if ts.Year() != now.Year() {
			t.Errorf("year = %d, want current year %d", ts.Year(), now.Year())
		}
	})

	t.Run("No prefix falls back to now", func(t *testing.T) {
		ts, ok := extractTimestamp("INFO: no timestamp here", now)
		if ok {
			t.Error("expected fallback")
		}
		if !ts.Equal(now) {
			t.Errorf("fallback = %v, want %v", ts, now)
		}
	})
}

func TestAverageDuration(t *testing.T) {
	base := time.Date(2024, time.November, 7, 3, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		jobs []Job
		want string
	}{
		{
			name: "Single job",
			jobs: []Job{{Start: base, End: base.Add(10 * time.Minute)}},
			want: "10m 0s",
		},
		{
			name: "Mean of two jobs",
			jobs: []Job{
				{Start: base, End: base.Add(10 * time.Minute)},
				{Start: base, End: base.Add(20 * time.Minute)},
			},
			want: "15m 0s",
		},
		{
			name: "Missing endpoints",
			jobs: []Job{{Start: base}},
			want: "unknown",
		},
		{
			name: "No jobs",
			jobs: nil,
			want: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := averageDuration(tt.jobs); got != tt.want {
				t.Errorf("averageDuration() = %q, want %q", got, tt.want)
			}
		})
	}
}
