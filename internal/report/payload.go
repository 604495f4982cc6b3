package report

import (
	"fmt"
	"strings"

	"github.com/logsift/logsift/internal/classify"
)

// BuildSummaryPayload flattens a results snapshot into the textual form sent
// to the summarization provider, capping each group at maxExamples messages.
// The cap applies only to this payload; the store itself is never truncated.
func BuildSummaryPayload(results *classify.Results, maxExamples int) string {
	if maxExamples <= 0 {
		maxExamples = 3
	}

	var b strings.Builder
	b.WriteString("Log Analysis Summary:\n")
	fmt.Fprintf(&b, "Total lines processed: %d\n", results.Stats.TotalLines)
	fmt.Fprintf(&b, "Total matches found: %d\n", results.Stats.TotalMatches)

	if results.Grouped == nil {
		return b.String()
	}

	for tp := results.Grouped.Oldest(); tp != nil; tp = tp.Next() {
		fmt.Fprintf(&b, "\n%s Groups:\n", strings.ToUpper(tp.Key))
		for gp := tp.Value.Oldest(); gp != nil; gp = gp.Next() {
			fmt.Fprintf(&b, "\n%s: %d occurrences\n", gp.Key, len(gp.Value))
			for i, msg := range gp.Value {
				if i >= maxExamples {
					break
				}
				b.WriteString("Example: " + msg + "\n")
			}
		}
	}

	return b.String()
}
