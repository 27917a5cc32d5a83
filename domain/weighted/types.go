package weighted

import (
	"fmt"
)

// Outcome is one weighted value of a flat outcome set
type Outcome[T any] struct {
	Value  T
	Weight float64
}

// Group is a weighted set of members; once a group is chosen each member is
// equally likely.
type Group[T any] struct {
	Members []T
	Weight  float64
}

// TableKind distinguishes flat and grouped probability tables
type TableKind string

const (
	KindFlat    TableKind = "flat"
	KindGrouped TableKind = "grouped"
)

// Entry is a single row of a probability table document. Exactly one of
// Value or Group is set. Weight is a pointer so that an omitted weight can be
// told apart from an explicit 0.
type Entry struct {
	Value  string   `yaml:"value,omitempty" json:"value,omitempty"`
	Group  []string `yaml:"group,omitempty" json:"group,omitempty"`
	Weight *float64 `yaml:"weight" json:"weight" validate:"required"`
}

// Table is a named probability table as stored on disk
type Table struct {
	Name    string  `yaml:"name" json:"name" validate:"required"`
	Entries []Entry `yaml:"entries" json:"entries" validate:"required,min=1,dive"`
}

// Kind reports whether the table is flat or grouped. A table mixing plain
// values with groups is rejected.
func (t *Table) Kind() (TableKind, error) {
	var flat, grouped int
	for i, e := range t.Entries {
		switch {
		case e.Group != nil && e.Value != "":
			return "", fmt.Errorf("entry %d sets both value and group", i)
		case e.Group != nil:
			grouped++
		default:
			flat++
		}
	}
	if flat > 0 && grouped > 0 {
		return "", fmt.Errorf("table %q mixes %d values with %d groups", t.Name, flat, grouped)
	}
	if grouped > 0 {
		return KindGrouped, nil
	}
	return KindFlat, nil
}

// Flat converts the table into an outcome set
func (t *Table) Flat() []Outcome[string] {
	out := make([]Outcome[string], len(t.Entries))
	for i, e := range t.Entries {
		out[i] = Outcome[string]{Value: e.Value, Weight: weightOf(e)}
	}
	return out
}

// Grouped converts the table into a grouped outcome set
func (t *Table) Grouped() []Group[string] {
	out := make([]Group[string], len(t.Entries))
	for i, e := range t.Entries {
		out[i] = Group[string]{Members: e.Group, Weight: weightOf(e)}
	}
	return out
}

// Labels returns one display label per entry
func (t *Table) Labels() []string {
	labels := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		if e.Group != nil {
			labels[i] = fmt.Sprintf("%v", e.Group)
			continue
		}
		labels[i] = e.Value
	}
	return labels
}

// TotalWeight sums the declared weights
func (t *Table) TotalWeight() float64 {
	var sum float64
	for _, e := range t.Entries {
		sum += weightOf(e)
	}
	return sum
}

func weightOf(e Entry) float64 {
	if e.Weight == nil {
		return 0
	}
	return *e.Weight
}

// Float is a convenience for building entries in code
func Float(v float64) *float64 {
	return &v
}
