package cleaner

import (
	"fmt"

	"codeberg.org/snonux/palabra/internal/words"
)

// Kind selects what a cleanup removes
type Kind string

const (
	KindJunk       Kind = "junk"
	KindDuplicates Kind = "duplicates"
	KindAll        Kind = "all"
)

// ParseKind validates a cleanup kind
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindJunk, KindDuplicates, KindAll:
		return k, nil
	}
	return "", fmt.Errorf("unknown cleanup kind %q (want junk, duplicates or all)", s)
}

// JunkIndices returns the store indices of junk entries in ascending order
func JunkIndices(entries []words.Entry) []int {
	var out []int
	for i, e := range entries {
		if _, junk := Classify(e); junk {
			out = append(out, i)
		}
	}
	return out
}

// DuplicateIndices returns every index whose Spanish key was already seen
// earlier in the list. The first occurrence is kept.
func DuplicateIndices(entries []words.Entry) []int {
	seen := make(map[string]bool, len(entries))
	var out []int
	for i, e := range entries {
		key := words.Key(e.Spanish)
		if seen[key] {
			out = append(out, i)
			continue
		}
		seen[key] = true
	}
	return out
}

// Plan is a pending cleanup awaiting confirmation
type Plan struct {
	Kind    Kind
	Indices []int
	Entries []words.Entry
	// Reasons holds the matching rule name per junk entry, keyed by index
	Reasons map[int]string
}

// Count is the number of entries the plan removes
func (p Plan) Count() int {
	return len(p.Indices)
}

// Prepare computes a plan. It reports false when there is nothing to clean,
// in which case no confirmation should be asked for.
func Prepare(kind Kind, entries []words.Entry) (Plan, bool) {
	plan := Plan{Kind: kind, Reasons: map[int]string{}}
	marked := make(map[int]bool)

	if kind == KindJunk || kind == KindAll {
		for i, e := range entries {
			if rule, junk := Classify(e); junk {
				marked[i] = true
				plan.Reasons[i] = rule
			}
		}
	}
	if kind == KindDuplicates || kind == KindAll {
		for _, i := range DuplicateIndices(entries) {
			if !marked[i] {
				marked[i] = true
				plan.Reasons[i] = "duplicate"
			}
		}
	}

	for i := range entries {
		if marked[i] {
			plan.Indices = append(plan.Indices, i)
			plan.Entries = append(plan.Entries, entries[i])
		}
	}
	return plan, plan.Count() > 0
}
