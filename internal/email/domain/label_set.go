package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// LabelSet is a set of lower-cased label strings persisted as a JSON text
// column. Order is irrelevant; membership is what matters.
type LabelSet []string

func (s LabelSet) Value() (driver.Value, error) {
	if s == nil {
		s = LabelSet{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *LabelSet) Scan(value interface{}) error {
	if value == nil {
		*s = LabelSet{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into LabelSet", value)
	}
}

func (s LabelSet) Has(label string) bool {
	for _, l := range s {
		if l == label {
			return true
		}
	}
	return false
}

// With returns the set including label, without duplicates.
func (s LabelSet) With(label string) LabelSet {
	if s.Has(label) {
		return s
	}
	return append(s.clone(), label)
}

// Without returns the set excluding label.
func (s LabelSet) Without(label string) LabelSet {
	out := make(LabelSet, 0, len(s))
	for _, l := range s {
		if l != label {
			out = append(out, l)
		}
	}
	return out
}

// Union merges other into s. Local-only labels are always kept.
func (s LabelSet) Union(other LabelSet) LabelSet {
	out := s.clone()
	for _, l := range other {
		if !out.Has(l) {
			out = append(out, l)
		}
	}
	return out
}

// Diff computes the minimal delta from prev to s: labels to add and
// labels to remove. Never returns the full set.
func (s LabelSet) Diff(prev LabelSet) (added, removed LabelSet) {
	added = LabelSet{}
	removed = LabelSet{}
	for _, l := range s {
		if !prev.Has(l) {
			added = append(added, l)
		}
	}
	for _, l := range prev {
		if !s.Has(l) {
			removed = append(removed, l)
		}
	}
	return added, removed
}

// Sorted returns a sorted copy, used for stable comparison in logs and tests.
func (s LabelSet) Sorted() LabelSet {
	out := s.clone()
	sort.Strings(out)
	return out
}

func (s LabelSet) clone() LabelSet {
	out := make(LabelSet, len(s))
	copy(out, s)
	return out
}
