// Package registry defines the severity tiers and matching rules used to
// classify log lines.
//
// A registry is a read-only object built once per run. Each tier carries a
// primary match rule, an ordered suppression list, and an ordered list of
// named group rules. Group rules are evaluated first-match-wins, so priority
// is carried by slice order rather than map iteration order. All patterns are
// matched case-insensitively.
package registry

import (
	"fmt"
	"regexp"
	"strings"
)

// GroupRule assigns a group name to lines matching its pattern.
type GroupRule struct {
	Name    string
	Pattern *regexp.Regexp
}

// Tier is one severity category with its compiled rules.
type Tier struct {
	Name     string
	Match    *regexp.Regexp
	Suppress []*regexp.Regexp
	Groups   []GroupRule
}

// Registry holds the ordered set of tiers for a run.
type Registry struct {
	tiers []Tier
}

// Tiers returns the tiers in evaluation order.
func (r *Registry) Tiers() []Tier {
	return r.tiers
}

// TierNames returns the names of all tiers in evaluation order.
func (r *Registry) TierNames() []string {
	names := make([]string, len(r.tiers))
	for i, t := range r.tiers {
		names[i] = t.Name
	}
	return names
}

// GroupSpec is the uncompiled form of a group rule.
type GroupSpec struct {
	Name    string
	Pattern string
}

// TierSpec is the uncompiled form of a tier. Adding a tier or group is a data
// change here, not a code change in the classifier.
type TierSpec struct {
	Name     string
	Match    string
	Suppress []string
	Groups   []GroupSpec
}

// Compile builds a Registry from tier specifications. Any malformed pattern
// fails the whole construction; no partial registry is ever returned.
func Compile(specs []TierSpec) (*Registry, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("registry: no tiers defined")
	}

	seen := make(map[string]struct{}, len(specs))
	tiers := make([]Tier, 0, len(specs))

	for _, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("registry: tier with empty name")
		}
		if _, dup := seen[spec.Name]; dup {
			return nil, fmt.Errorf("registry: duplicate tier %q", spec.Name)
		}
		seen[spec.Name] = struct{}{}

		match, err := compilePattern(spec.Match)
		if err != nil {
			return nil, fmt.Errorf("registry: tier %q match rule: %w", spec.Name, err)
		}

		tier := Tier{Name: spec.Name, Match: match}

		for i, pat := range spec.Suppress {
			re, err := compilePattern(pat)
			if err != nil {
				return nil, fmt.Errorf("registry: tier %q suppress rule %d: %w", spec.Name, i, err)
			}
			tier.Suppress = append(tier.Suppress, re)
		}

		for _, g := range spec.Groups {
			if g.Name == "" {
				return nil, fmt.Errorf("registry: tier %q group with empty name", spec.Name)
			}
			re, err := compilePattern(g.Pattern)
			if err != nil {
				return nil, fmt.Errorf("registry: tier %q group %q: %w", spec.Name, g.Name, err)
			}
			tier.Groups = append(tier.Groups, GroupRule{Name: g.Name, Pattern: re})
		}

		tiers = append(tiers, tier)
	}

	return &Registry{tiers: tiers}, nil
}

// compilePattern compiles a rule pattern with case-insensitive matching.
func compilePattern(pat string) (*regexp.Regexp, error) {
	if strings.TrimSpace(pat) == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	return regexp.Compile("(?i)" + pat)
}
