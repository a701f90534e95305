package importer

import (
	"fmt"
	"strings"
)

// Kind names an element kind in the report.
type Kind string

// Element kinds tracked by the report.
const (
	KindPackage  Kind = "packages"
	KindClass    Kind = "classes"
	KindEnum     Kind = "enums"
	KindProperty Kind = "properties"
	KindLiteral  Kind = "literals"
)

// kinds fixes the display order of report lines.
var kinds = []Kind{KindPackage, KindClass, KindEnum, KindProperty, KindLiteral}

// Action is the outcome of synchronizing one element.
type Action int

const (
	Unchanged Action = iota
	Created
	Updated
)

// Counts tallies actions for one element kind.
type Counts struct {
	Created   int
	Updated   int
	Unchanged int
}

// Report summarizes what an import run did (or, for a dry run, would do).
type Report struct {
	counts map[Kind]*Counts
}

// NewReport returns an empty report.
func NewReport() *Report {
	counts := make(map[Kind]*Counts, len(kinds))
	for _, k := range kinds {
		counts[k] = &Counts{}
	}
	return &Report{counts: counts}
}

func (r *Report) record(kind Kind, action Action) {
	c := r.counts[kind]
	switch action {
	case Created:
		c.Created++
	case Updated:
		c.Updated++
	default:
		c.Unchanged++
	}
}

// Counts returns the tally for one element kind.
func (r *Report) Counts(kind Kind) Counts {
	return *r.counts[kind]
}

// Changes returns the total number of created and updated elements.
// Zero means the model already matched the descriptions and nothing needs
// saving.
func (r *Report) Changes() int {
	total := 0
	for _, c := range r.counts {
		total += c.Created + c.Updated
	}
	return total
}

// String renders a one-line summary, e.g.
// "2 packages created, 3 classes created, 1 class updated".
// An all-unchanged run renders as "no changes".
func (r *Report) String() string {
	var parts []string
	for _, k := range kinds {
		c := r.counts[k]
		if c.Created > 0 {
			parts = append(parts, fmt.Sprintf("%d %s created", c.Created, k))
		}
		if c.Updated > 0 {
			parts = append(parts, fmt.Sprintf("%d %s updated", c.Updated, k))
		}
	}
	if len(parts) == 0 {
		return "no changes"
	}
	return strings.Join(parts, ", ")
}
