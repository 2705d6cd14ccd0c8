package domain

import "slices"

// RuleCollection accumulates rule strings across every input of a run.
// Insertion order carries no meaning; Sorted is the only read path used
// for output.
type RuleCollection interface {
	// Add records one rule occurrence.
	Add(rule string)
	// Len returns the number of entries that Sorted would return.
	Len() int
	// Sorted returns the entries in ascending byte order.
	Sorted() []string
	// Unique reports whether the collection drops duplicates.
	Unique() bool
}

// NewRuleCollection returns a RuleSet when unique is true, otherwise a RuleList.
func NewRuleCollection(unique bool) RuleCollection {
	if unique {
		return NewRuleSet()
	}
	return NewRuleList()
}

// RuleSet is a RuleCollection that keeps one copy of each rule.
type RuleSet struct {
	rules map[string]struct{}
}

func NewRuleSet() *RuleSet {
	return &RuleSet{rules: make(map[string]struct{})}
}

func (s *RuleSet) Add(rule string) { s.rules[rule] = struct{}{} }

func (s *RuleSet) Len() int { return len(s.rules) }

func (s *RuleSet) Unique() bool { return true }

func (s *RuleSet) Sorted() []string {
	out := make([]string, 0, len(s.rules))
	for r := range s.rules {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// RuleList is a RuleCollection that keeps every occurrence, duplicates included.
type RuleList struct {
	rules []string
}

func NewRuleList() *RuleList {
	return &RuleList{}
}

func (l *RuleList) Add(rule string) { l.rules = append(l.rules, rule) }

func (l *RuleList) Len() int { return len(l.rules) }

func (l *RuleList) Unique() bool { return false }

func (l *RuleList) Sorted() []string {
	out := slices.Clone(l.rules)
	if out == nil {
		out = []string{}
	}
	slices.Sort(out)
	return out
}

var _ RuleCollection = (*RuleSet)(nil)
var _ RuleCollection = (*RuleList)(nil)
