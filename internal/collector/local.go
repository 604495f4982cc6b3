package collector

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"time"
)

// Local collects logs from the machine logsift runs on: journalctl on Linux,
// the unified log on macOS.
type Local struct {
	logger *slog.Logger

	// goos overrides runtime.GOOS in tests.
	goos string
}

// NewLocal creates a local collector.
func NewLocal(logger *slog.Logger) *Local {
	return &Local{logger: logger, goos: runtime.GOOS}
}

// Collect retrieves log lines for the lookback window.
func (l *Local) Collect(ctx context.Context, lookback time.Duration) ([]string, error) {
	since := sinceArg(lookback)

	var cmd *exec.Cmd
	if l.goos == "darwin" {
		// --style syslog keeps the output shape consistent with journalctl.
		cmd = exec.CommandContext(ctx, "log", "show",
			"--start", since,
			"--style", "syslog",
			"--predicate", macOSPredicate)
	} else {
		cmd = exec.CommandContext(ctx, "journalctl", "--since", since)
	}

	l.logger.Debug("collecting local logs", "os", l.goos, "since", since)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("local log collection failed: %w", err)
	}

	lines := splitLines(string(out))
	l.logger.Debug("collected local logs", "lines", len(lines))
	return lines, nil
}

// macOSPredicate pre-filters the unified log to the messages the tiers can
// match, keeping the batch size manageable.
const macOSPredicate = `(eventMessage CONTAINS[c] "error" OR eventMessage CONTAINS[c] "warning" OR eventMessage CONTAINS[c] "failure" OR eventMessage CONTAINS[c] "failed" OR process == "system")`
