// Package history describes past template instantiations.
package history

import (
	"cmp"
	"slices"
	"time"
)

// Entry is one successful instantiation of a template.
type Entry struct {
	// ID is assigned by the database.
	ID int64
	// Template is the catalog name of the template used.
	Template string
	// Item is the new item name given by the user.
	Item string
	// Destination is the directory that was created.
	Destination string
	// CreatedAt is when the instantiation finished.
	CreatedAt time.Time
}

// Ranked is a template name with the number of times it has been used.
type Ranked struct {
	Name  string
	Count int
}

// Rank orders names by usage count, most used first, then by name.
// Names absent from usage have a count of zero.
func Rank(names []string, usage map[string]int) []Ranked {
	ranked := make([]Ranked, 0, len(names))
	for _, name := range names {
		ranked = append(ranked, Ranked{Name: name, Count: usage[name]})
	}

	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	return ranked
}
