// Package collector acquires raw log lines for one analysis run.
//
// Collectors are the boundary between the classification engine and the
// outside world: each one produces an ordered, finite batch of text lines
// for a lookback window. Retry and timeout behavior lives here, never in the
// engine — the engine accepts a plain slice and runs to completion.
package collector

import (
	"context"
	"strings"
	"time"
)

// Collector produces the ordered line batch for one invocation.
type Collector interface {
	Collect(ctx context.Context, lookback time.Duration) ([]string, error)
}

// splitLines breaks command output into lines, dropping a trailing empty
// line from the final newline.
func splitLines(out string) []string {
	lines := strings.Split(out, "\n")
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// sinceArg formats the start of a lookback window for journalctl.
func sinceArg(lookback time.Duration) string {
	return time.Now().Add(-lookback).Format("2006-01-02 15:04:05")
}
