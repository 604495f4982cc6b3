package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ParseLookback parses a lookback window such as "30m", "2h", "1d12h", or a
// bare number of hours ("1", "0.5").
func ParseLookback(s string) (time.Duration, error) {
	if hours, err := strconv.ParseFloat(s, 64); err == nil {
		if hours <= 0 {
			return 0, fmt.Errorf("lookback must be positive: %s", s)
		}
		return time.Duration(hours * float64(time.Hour)), nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("lookback must be positive: %s", s)
		}
		return d, nil
	}

	return parseExtendedDuration(s)
}

var durationUnitRe = regexp.MustCompile(`(\d+)([dhms])`)

// parseExtendedDuration handles day-bearing forms like "2d" or "1d12h" that
// time.ParseDuration rejects.
func parseExtendedDuration(input string) (time.Duration, error) {
	matches := durationUnitRe.FindAllStringSubmatchIndex(input, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid lookback window: %s", input)
	}

	matchedLen := 0
	total := time.Duration(0)

	for _, match := range matches {
		matchedLen += match[1] - match[0]
		valueStr := input[match[2]:match[3]]
		unit := input[match[4]:match[5]]

		value, err := strconv.ParseInt(valueStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid lookback window: %s", input)
		}

		switch unit {
		case "d":
			total += time.Hour * 24 * time.Duration(value)
		case "h":
			total += time.Hour * time.Duration(value)
		case "m":
			total += time.Minute * time.Duration(value)
		case "s":
			total += time.Second * time.Duration(value)
		}
	}

	if matchedLen != len(input) || total <= 0 {
		return 0, fmt.Errorf("invalid lookback window: %s", input)
	}

	return total, nil
}
