package registry

import (
	"strings"
	"testing"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		specs   []TierSpec
		wantErr string
	}{
		{
			name: "Valid single tier",
			specs: []TierSpec{
				{
					Name:     "error",
					Match:    `error|fail`,
					Suppress: []string{`debug`},
					Groups:   []GroupSpec{{Name: "disk", Pattern: `disk|storage`}},
				},
			},
		},
		{
			name:    "No tiers",
			specs:   nil,
			wantErr: "no tiers defined",
		},
		{
			name:    "Empty tier name",
			specs:   []TierSpec{{Name: "", Match: `error`}},
			wantErr: "empty name",
		},
		{
			name: "Duplicate tier name",
			specs: []TierSpec{
				{Name: "error", Match: `error`},
				{Name: "error", Match: `fail`},
			},
			wantErr: `duplicate tier "error"`,
		},
		{
			name:    "Malformed match pattern",
			specs:   []TierSpec{{Name: "error", Match: `error(`}},
			wantErr: "match rule",
		},
		{
			name: "Malformed suppress pattern",
			specs: []TierSpec{
				{Name: "error", Match: `error`, Suppress: []string{`[`}},
			},
			wantErr: "suppress rule 0",
		},
		{
			name: "Malformed group pattern",
			specs: []TierSpec{
				{Name: "error", Match: `error`, Groups: []GroupSpec{{Name: "disk", Pattern: `(`}}},
			},
			wantErr: `group "disk"`,
		},
		{
			name: "Empty group name",
			specs: []TierSpec{
				{Name: "error", Match: `error`, Groups: []GroupSpec{{Name: "", Pattern: `disk`}}},
			},
			wantErr: "group with empty name",
		},
		{
			name:    "Blank match pattern",
			specs:   []TierSpec{{Name: "error", Match: "   "}},
			wantErr: "empty pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := Compile(tt.specs)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Compile() error = %v", err)
				}
				if reg == nil {
					t.Fatal("Compile() returned nil registry without error")
				}
				return
			}
			if err == nil {
				t.Fatalf("Compile() expected error containing %q, got nil", tt.wantErr)
			}
			if reg != nil {
				t.Error("Compile() returned a partial registry alongside an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Compile() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestCompile_CaseInsensitive(t *testing.T) {
	reg, err := Compile([]TierSpec{
		{Name: "error", Match: `error`, Groups: []GroupSpec{{Name: "disk", Pattern: `DISK`}}},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	tier := reg.Tiers()[0]
	for _, line := range []string{"ERROR: boom", "Error: boom", "error: boom"} {
		if !tier.Match.MatchString(line) {
			t.Errorf("match rule missed %q", line)
		}
	}
	if !tier.Groups[0].Pattern.MatchString("disk full") {
		t.Error("group rule should match regardless of case")
	}
}

func TestCompile_PreservesOrder(t *testing.T) {
	reg, err := Compile([]TierSpec{
		{Name: "error", Match: `error`},
		{Name: "warning", Match: `warn`},
		{Name: "info", Match: `info`},
	})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	want := []string{"error", "warning", "info"}
	got := reg.TierNames()
	if len(got) != len(want) {
		t.Fatalf("TierNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("TierNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDefault(t *testing.T) {
	reg := Default()

	names := reg.TierNames()
	want := []string{"error", "warning", "info"}
	if len(names) != len(want) {
		t.Fatalf("TierNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("TierNames()[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	// The error tier must not fire on INFO-prefixed progress lines; vzdump
	// reports backup activity as "INFO: ... error ..." when nothing is wrong.
	errorTier := reg.Tiers()[0]
	line := "INFO: task finished with 0 errors"
	suppressed := false
	for _, re := range errorTier.Suppress {
		if re.MatchString(line) {
			suppressed = true
			break
		}
	}
	if !suppressed {
		t.Errorf("error tier should suppress %q", line)
	}
}
