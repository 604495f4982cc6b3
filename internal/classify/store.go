package classify

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Stats carries the line-level counters for a run.
type Stats struct {
	TotalLines   int `json:"total_lines"`
	TotalMatches int `json:"total_matches"`
}

// GroupMap is an insertion-ordered mapping of group name to the unique
// canonical messages collected under it.
type GroupMap = orderedmap.OrderedMap[string, []string]

// TierMap is an insertion-ordered mapping of tier name to its groups.
type TierMap = orderedmap.OrderedMap[string, *GroupMap]

// Results is the complete, serializable snapshot of a run. It is derived
// from the store with no information loss and no recomputation.
type Results struct {
	Alerts  map[string]int `json:"alerts"`
	Grouped *TierMap       `json:"grouped_messages"`
	Stats   Stats          `json:"stats"`
}

// Messages returns the canonical messages under a (tier, group) pair in
// insertion order, or nil when the pair is absent.
func (r *Results) Messages(tier, group string) []string {
	if r.Grouped == nil {
		return nil
	}
	groups, ok := r.Grouped.Get(tier)
	if !ok {
		return nil
	}
	msgs, _ := groups.Get(group)
	return msgs
}

// TierMessages returns every canonical message under a tier, across all of
// its groups, in insertion order.
func (r *Results) TierMessages(tier string) []string {
	if r.Grouped == nil {
		return nil
	}
	groups, ok := r.Grouped.Get(tier)
	if !ok {
		return nil
	}
	var all []string
	for pair := groups.Oldest(); pair != nil; pair = pair.Next() {
		all = append(all, pair.Value...)
	}
	return all
}

// Store accumulates classification decisions for one analysis run. It is
// created empty, owned by a single run, and discarded after output; there is
// no concurrent writer and no process-wide state.
type Store struct {
	alerts       map[string]int
	grouped      *TierMap
	seen         map[storeKey]struct{}
	totalLines   int
	totalMatches int
}

type storeKey struct {
	tier, group, canonical string
}

// NewStore returns an empty run-scoped store.
func NewStore() *Store {
	return &Store{
		alerts:  make(map[string]int),
		grouped: orderedmap.New[string, *GroupMap](),
		seen:    make(map[storeKey]struct{}),
	}
}

// CountLine records one processed (non-blank) input line.
func (s *Store) CountLine() {
	s.totalLines++
}

// Add inserts a classified entry. A canonical message already present under
// the same (tier, group) pair is dropped silently; only first insertions
// increment the alert and match counters, so counts always equal the number
// of unique canonical messages, not raw lines.
func (s *Store) Add(e Entry) bool {
	key := storeKey{tier: e.Tier, group: e.Group, canonical: e.Canonical}
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}

	groups, ok := s.grouped.Get(e.Tier)
	if !ok {
		groups = orderedmap.New[string, []string]()
		s.grouped.Set(e.Tier, groups)
	}
	msgs, _ := groups.Get(e.Group)
	groups.Set(e.Group, append(msgs, e.Canonical))

	s.alerts[e.Tier]++
	s.totalMatches++
	return true
}

// Results returns the full state of the store. The snapshot shares the
// underlying ordered maps; callers treat it as read-only.
func (s *Store) Results() *Results {
	alerts := make(map[string]int, len(s.alerts))
	for tier, n := range s.alerts {
		alerts[tier] = n
	}
	return &Results{
		Alerts:  alerts,
		Grouped: s.grouped,
		Stats:   Stats{TotalLines: s.totalLines, TotalMatches: s.totalMatches},
	}
}
