package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestShouldColorize(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		name string
		mode ColorMode
		want bool
	}{
		{"Always", ColorAlways, true},
		{"Never", ColorNever, false},
		{"Auto on non-TTY writer", ColorAuto, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldColorize(tt.mode, &buf); got != tt.want {
				t.Errorf("shouldColorize(%v) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestTierColor(t *testing.T) {
	tests := []struct {
		tier string
		want string
	}{
		{"error", colorRed},
		{"warning", colorYellow},
		{"info", colorBlue},
		{"anything-else", colorBlue},
	}

	for _, tt := range tests {
		if got := tierColor(tt.tier); got != tt.want {
			t.Errorf("tierColor(%q) = %q, want %q", tt.tier, got, tt.want)
		}
	}
}

func TestRenderer_Paint(t *testing.T) {
	var buf bytes.Buffer

	colored := New(&buf, ColorAlways)
	if got := colored.paint("text", colorRed); got != colorRed+"text"+colorReset {
		t.Errorf("paint() = %q, want wrapped in escapes", got)
	}

	plain := New(&buf, ColorNever)
	if got := plain.paint("text", colorRed); strings.Contains(got, "\x1b[") {
		t.Errorf("paint() = %q, want no escapes", got)
	}
}
