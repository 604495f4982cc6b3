package cmd

import "fmt"

// buildSummarySystemPrompt instructs the model to produce an operator-facing
// report with fixed section headers so severity detection has a stable
// vocabulary to scan.
func buildSummarySystemPrompt() string {
	return `You are an experienced Linux systems administrator reviewing a
pre-classified log analysis summary. The raw logs have already been
deduplicated and grouped by severity tier and subsystem; work only from the
summary you are given.

Produce a concise report with exactly these sections:

=== Overall Assessment ===
One or two sentences on overall system health. Use the word "critical" only
if immediate action is required, and "warning" for conditions that need
attention soon.

=== Critical Issues ===
Issues requiring immediate action, or "None detected".

=== Service Issues ===
Services that failed, stopped unexpectedly, or are degraded, or "None detected".

=== Recommendations ===
Specific, actionable next steps ordered by priority.

=== Preventive Measures ===
Configuration or monitoring changes that would prevent recurrence.

Be specific: name the processes, services, and error codes from the summary.
Do not invent issues that are not supported by the data.`
}

// buildSummaryUserPrompt wraps the reduced analysis payload for the model.
func buildSummaryUserPrompt(payload string) string {
	return fmt.Sprintf(`Analyze this system log summary and report on the health of the machine:

%s`, payload)
}
