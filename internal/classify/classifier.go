// Package classify applies the pattern registry to raw log lines and
// accumulates the results into a run-scoped grouping store.
package classify

import (
	"regexp"
	"strings"

	"github.com/logsift/logsift/internal/normalize"
	"github.com/logsift/logsift/internal/registry"
)

// Entry is one classification decision for one line.
type Entry struct {
	Tier      string
	Group     string
	Canonical string
	Process   string
}

// processRe extracts the originating process from syslog-style lines,
// e.g. "Nov 07 12:00:00 host sshd[1234]: ...".
var processRe = regexp.MustCompile(`\s(\w+)\[\d+\]:`)

// outcome is the result of evaluating one tier against one line.
type outcome int

const (
	outcomeNoMatch outcome = iota
	outcomeSuppressed
	outcomeMatched
)

// Classifier applies enabled tiers in registry order and writes into a store.
type Classifier struct {
	reg     *registry.Registry
	enabled map[string]bool
	store   *Store
}

// New creates a classifier over the given registry. enabled selects the
// tiers evaluated this run; nil enables every tier.
func New(reg *registry.Registry, enabled map[string]bool, store *Store) *Classifier {
	if enabled == nil {
		enabled = make(map[string]bool)
		for _, name := range reg.TierNames() {
			enabled[name] = true
		}
	}
	return &Classifier{reg: reg, enabled: enabled, store: store}
}

// ProcessLine classifies a single raw line. Blank lines are ignored entirely;
// any other line increments the processed-line counter exactly once,
// regardless of how many tiers it affects.
func (c *Classifier) ProcessLine(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	c.store.CountLine()

	proc := extractProcess(line)

	// Tiers are independent: a suppression in one tier never stops the
	// evaluation of the others.
	for _, tier := range c.reg.Tiers() {
		if !c.enabled[tier.Name] {
			continue
		}

		res, group := evaluateTier(tier, line)
		if res != outcomeMatched {
			continue
		}
		if group == "" {
			group = "process_" + proc
		}

		c.store.Add(Entry{
			Tier:      tier.Name,
			Group:     group,
			Canonical: normalize.Normalize(line),
			Process:   proc,
		})
	}
}

// ProcessLines feeds a batch of lines through the classifier in order. Input
// order is a correctness requirement: the first observed canonical form
// becomes a group's representative example, and the insights correlator
// depends on chronological adjacency.
func (c *Classifier) ProcessLines(lines []string) {
	for _, line := range lines {
		c.ProcessLine(line)
	}
}

// evaluateTier checks one line against one tier. It returns the matched
// group name, or an empty name when the tier matched but no group rule did.
func evaluateTier(tier registry.Tier, line string) (outcome, string) {
	if !tier.Match.MatchString(line) {
		return outcomeNoMatch, ""
	}
	for _, re := range tier.Suppress {
		if re.MatchString(line) {
			return outcomeSuppressed, ""
		}
	}
	for _, g := range tier.Groups {
		if g.Pattern.MatchString(line) {
			return outcomeMatched, g.Name
		}
	}
	return outcomeMatched, ""
}

// extractProcess pulls the process name out of a line, defaulting to
// "unknown" when no process token is present.
func extractProcess(line string) string {
	if m := processRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return "unknown"
}
