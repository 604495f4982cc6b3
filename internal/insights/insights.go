// Package insights derives operational findings from a finished grouping
// store: backup-job lifecycle records, per-service status inference, and a
// coarse error-category tally.
//
// Every derivation tolerates empty input and yields an explicit "no data"
// result rather than an error. The correlator reads the store snapshot and
// never mutates it.
package insights

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/logsift/logsift/internal/classify"
)

// Insights is the combined output of one correlation pass.
type Insights struct {
	Backup        BackupSummary     `json:"backup_summary"`
	ErrorPatterns map[string]int    `json:"error_patterns"`
	ServiceStatus map[string]string `json:"service_status"`
}

// Correlate runs all three derivations over a results snapshot.
func Correlate(results *classify.Results) Insights {
	return Insights{
		Backup:        AnalyzeBackups(results.Messages("info", "backup")),
		ErrorPatterns: TallyErrorPatterns(results.TierMessages("error")),
		ServiceStatus: InferServiceStatus(results.Messages("info", "service")),
	}
}

// errorBuckets are checked in order; the first substring found wins. This is
// deliberately coarser than the registry's group rules.
var errorBuckets = []string{"docker", "service", "permission"}

// TallyErrorPatterns buckets error messages by first matching substring,
// case-insensitively, falling back to "other".
func TallyErrorPatterns(messages []string) map[string]int {
	tally := make(map[string]int)
	for _, msg := range messages {
		lower := strings.ToLower(msg)
		bucket := "other"
		for _, b := range errorBuckets {
			if strings.Contains(lower, b) {
				bucket = b
				break
			}
		}
		tally[bucket]++
	}
	return tally
}

// Service lifecycle keyword classes, checked in priority order.
var (
	serviceFailedRe  = regexp.MustCompile(`Failed to start (.+?) service`)
	serviceStopRe    = regexp.MustCompile(`Stopping (.+?) service`)
	serviceStartRe   = regexp.MustCompile(`Starting (.+?) service`)
	serviceNameOrder = []*regexp.Regexp{serviceFailedRe, serviceStopRe, serviceStartRe}
)

// Service status labels.
const (
	StatusFailed  = "Failed"
	StatusStopped = "Stopped"
	StatusStarted = "Started"
)

// InferServiceStatus assigns one terminal status per named service from its
// messages, with priority Failed > Stopped > Started. A service whose
// messages match no keyword class is omitted rather than defaulted.
func InferServiceStatus(messages []string) map[string]string {
	byService := make(map[string][]string)
	var order []string
	for _, msg := range messages {
		name := extractServiceName(msg)
		if name == "" {
			continue
		}
		if _, ok := byService[name]; !ok {
			order = append(order, name)
		}
		byService[name] = append(byService[name], msg)
	}

	status := make(map[string]string, len(order))
	for _, name := range order {
		msgs := byService[name]
		switch {
		case anyMatch(serviceFailedRe, msgs):
			status[name] = StatusFailed
		case anyMatch(serviceStopRe, msgs):
			status[name] = StatusStopped
		case anyMatch(serviceStartRe, msgs):
			status[name] = StatusStarted
		}
	}
	return status
}

func extractServiceName(msg string) string {
	for _, re := range serviceNameOrder {
		if m := re.FindStringSubmatch(msg); m != nil {
			return m[1]
		}
	}
	return ""
}

func anyMatch(re *regexp.Regexp, msgs []string) bool {
	for _, m := range msgs {
		if re.MatchString(m) {
			return true
		}
	}
	return false
}

// sortedKeys returns map keys in stable order for rendering.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatDuration renders a second count as "<minutes>m <seconds>s".
func formatDuration(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}
