package insights

import (
	"regexp"
	"strings"
	"time"
)

// Backup lifecycle patterns, matched against canonical info/backup messages.
var (
	backupStartRe   = regexp.MustCompile(`INFO: starting new backup job:`)
	backupJobVMsRe  = regexp.MustCompile(`vzdump ([\d\s]+)`)
	backupVMStartRe = regexp.MustCompile(`INFO: Starting Backup of VM (\d+)`)
	backupVMDoneRe  = regexp.MustCompile(`INFO: Finished Backup of VM (\d+) \(([^)]+)\)`)
	backupDoneRe    = regexp.MustCompile(`INFO: Backup job finished successfully`)

	// Syslog-style prefix, e.g. "Nov  7 03:00:01" or "Nov 07 03:00:01".
	syslogPrefixRe = regexp.MustCompile(`^(\w+)\s+(\d+)\s+(\d{2}):(\d{2}):(\d{2})`)
)

// VMTime records when one VM's backup started inside a job and how long the
// job reported it took.
type VMTime struct {
	Start    time.Time `json:"start"`
	Duration string    `json:"duration,omitempty"`
}

// Job is one completed backup job reconstructed from the log stream.
type Job struct {
	VMIDs      []string           `json:"vm_ids"`
	Start      time.Time          `json:"start_time"`
	End        time.Time          `json:"end_time"`
	PerVM      map[string]*VMTime `json:"per_vm_times"`
	Successful bool               `json:"successful"`
}

// BackupSummary aggregates the reconstructed jobs. Status carries the
// explicit no-data marker when nothing backup-related was seen.
type BackupSummary struct {
	Status             string   `json:"status,omitempty"`
	TotalJobs          int      `json:"total_jobs"`
	SuccessfulJobs     int      `json:"successful_jobs"`
	VMsBackedUp        []string `json:"vms_backed_up,omitempty"`
	AverageDuration    string   `json:"average_duration,omitempty"`
	IncompleteJobs     int      `json:"incomplete_jobs,omitempty"`
	TimestampFallbacks int      `json:"timestamp_fallbacks,omitempty"`
	Jobs               []Job    `json:"details,omitempty"`
}

// NoBackupData is the explicit marker for an empty derivation.
const NoBackupData = "No backup information found"

// AnalyzeBackups replays backup messages through the job lifecycle state
// machine. Messages must arrive in original chronological order; reordering
// breaks the adjacency the correlation depends on.
//
// At most one job is open at a time. A job closes only on a success line.
// Jobs that never reach one — abandoned by a newer start line, or still open
// when the stream ends — are counted in IncompleteJobs but never emitted as
// records.
func AnalyzeBackups(messages []string) BackupSummary {
	var (
		jobs       []Job
		current    *Job
		incomplete int
		fallbacks  int
	)

	now := time.Now()
	for _, msg := range messages {
		switch {
		case backupStartRe.MatchString(msg):
			if current != nil {
				incomplete++
			}
			current = nil
			vms := backupJobVMsRe.FindStringSubmatch(msg)
			if vms == nil {
				continue
			}
			start, ok := extractTimestamp(msg, now)
			if !ok {
				fallbacks++
			}
			current = &Job{
				VMIDs: strings.Fields(vms[1]),
				Start: start,
				PerVM: make(map[string]*VMTime),
			}

		case current != nil && backupVMStartRe.MatchString(msg):
			vmID := backupVMStartRe.FindStringSubmatch(msg)[1]
			ts, ok := extractTimestamp(msg, now)
			if !ok {
				fallbacks++
			}
			current.PerVM[vmID] = &VMTime{Start: ts}

		case current != nil && backupVMDoneRe.MatchString(msg):
			m := backupVMDoneRe.FindStringSubmatch(msg)
			if vt, tracked := current.PerVM[m[1]]; tracked {
				vt.Duration = m[2]
			}

		case current != nil && backupDoneRe.MatchString(msg):
			end, ok := extractTimestamp(msg, now)
			if !ok {
				fallbacks++
			}
			current.Successful = true
			current.End = end
			jobs = append(jobs, *current)
			current = nil
		}
	}

	if current != nil {
		incomplete++
	}

	summary := BackupSummary{
		IncompleteJobs:     incomplete,
		TimestampFallbacks: fallbacks,
	}
	if len(jobs) == 0 && incomplete == 0 {
		summary.Status = NoBackupData
		return summary
	}

	summary.TotalJobs = len(jobs)
	summary.Jobs = jobs
	vmSet := make(map[string]struct{})
	for _, j := range jobs {
		if j.Successful {
			summary.SuccessfulJobs++
		}
		for _, vm := range j.VMIDs {
			vmSet[vm] = struct{}{}
		}
	}
	summary.VMsBackedUp = sortedKeys(vmSet)
	summary.AverageDuration = averageDuration(jobs)
	return summary
}

// averageDuration is the mean wall-clock time of jobs reporting both
// endpoints, or "unknown" when none do.
func averageDuration(jobs []Job) string {
	var total float64
	var counted int
	for _, j := range jobs {
		if j.Start.IsZero() || j.End.IsZero() {
			continue
		}
		total += j.End.Sub(j.Start).Seconds()
		counted++
	}
	if counted == 0 {
		return "unknown"
	}
	return formatDuration(total / float64(counted))
}

// extractTimestamp parses the syslog prefix of a message using the current
// year. When no timestamp is present it falls back to now; callers count
// these fallbacks as a known precision loss.
func extractTimestamp(msg string, now time.Time) (time.Time, bool) {
	m := syslogPrefixRe.FindStringSubmatch(msg)
	if m == nil {
		return now, false
	}
	t, err := time.Parse("2006 Jan 2 15:04:05",
		now.Format("2006")+" "+m[1]+" "+m[2]+" "+m[3]+":"+m[4]+":"+m[5])
	if err != nil {
		return now, false
	}
	return t, true
}
