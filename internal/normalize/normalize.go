// Package normalize canonicalizes log lines for deduplication.
//
// The canonical form replaces volatile substrings (timestamps, process IDs,
// operation identifiers, numeric error codes) with fixed tokens so that
// repeated occurrences of the same underlying message collapse into one
// group. Normalize is pure and idempotent; over-normalization would silently
// merge unrelated messages, so nothing beyond the four substitutions below is
// ever touched.
package normalize

import "regexp"

// Substitutions are applied in declaration order so the replacements cannot
// interfere with each other.
var (
	timestampRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d+[-+]\d{4}`)
	pidRe       = regexp.MustCompile(`\[\d+\]`)
	operationRe = regexp.MustCompile(`Operation [A-F0-9-]+`)
	errorCodeRe = regexp.MustCompile(`error \d+`)

	// Bracketed clock fragments in the middle of a message, display-only.
	midClockRe = regexp.MustCompile(`\s+\[\d{2}:\d{2}:\d{2}[^\]]*\]`)
)

// Normalize returns the canonical form of a raw log line. Lines lacking any
// volatile substring pass through unchanged.
func Normalize(line string) string {
	line = timestampRe.ReplaceAllString(line, "TIMESTAMP")
	line = pidRe.ReplaceAllString(line, "[PID]")
	line = operationRe.ReplaceAllString(line, "Operation ID")
	line = errorCodeRe.ReplaceAllString(line, "error CODE")
	return line
}

// CleanForDisplay prepares a canonical message for terminal output. It strips
// bracketed clock fragments that appear mid-message and, unless showFull is
// set, truncates to a 120-character soft cap. Display cleanup never feeds
// back into the dedup key.
func CleanForDisplay(msg string, showFull bool) string {
	cleaned := midClockRe.ReplaceAllString(msg, " ")
	if !showFull && len(cleaned) > 120 {
		return cleaned[:117] + "..."
	}
	return cleaned
}
