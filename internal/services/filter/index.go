package filter

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/ternarybob/treatyview/internal/models"
	"github.com/ternarybob/treatyview/internal/services/period"
)

// ErrUnknownDimension is returned when a selection names a dimension that is not indexed
var ErrUnknownDimension = errors.New("unknown dimension")

// Indexes holds one inverted index per filterable dimension. Built once per
// dataset snapshot and read-only afterwards.
type Indexes struct {
	size     int
	postings map[models.Dimension]map[string][]int // key -> ascending positions
	display  map[models.Dimension]map[string]string
}

// BuildIndexes indexes every field dimension plus the resolved year
func BuildIndexes(records []models.Policy, resolver *period.Resolver) *Indexes {
	idx := &Indexes{
		size:     len(records),
		postings: make(map[models.Dimension]map[string][]int, len(models.FilterDimensions)),
		display:  make(map[models.Dimension]map[string]string, len(models.FilterDimensions)),
	}
	for _, d := range models.FilterDimensions {
		idx.postings[d] = make(map[string][]int)
		idx.display[d] = make(map[string]string)
	}

	for i := range records {
		p := &records[i]
		for _, d := range models.FieldDimensions {
			if l := p.Label(d); l != nil {
				idx.add(d, l.Key, l.Raw, i)
			}
		}
		if year, ok := resolver.ResolveYear(p); ok {
			key := models.YearKey(year)
			idx.add(models.DimensionYear, key, key, i)
		}
	}

	return idx
}

func (idx *Indexes) add(d models.Dimension, key, raw string, pos int) {
	idx.postings[d][key] = append(idx.postings[d][key], pos)
	if _, seen := idx.display[d][key]; !seen {
		idx.display[d][key] = raw
	}
}

// Size is the number of indexed records
func (idx *Indexes) Size() int {
	return idx.size
}

// Keys returns the distinct keys of a dimension, unordered
func (idx *Indexes) Keys(d models.Dimension) []string {
	return lo.Keys(idx.postings[d])
}

// Display returns the first-seen display value for a key
func (idx *Indexes) Display(d models.Dimension, key string) string {
	return idx.display[d][key]
}

// Validate checks that every selected dimension is indexed
func (idx *Indexes) Validate(selections models.Selections) error {
	for d := range selections {
		if _, ok := idx.postings[d]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownDimension, d)
		}
	}
	return nil
}

// Match returns the ascending positions of records passing every facet.
// Values within a facet are OR'd, facets are AND'd, and a facet without
// values imposes nothing. Values are compared by normalized key.
func (idx *Indexes) Match(selections models.Selections) ([]int, error) {
	if err := idx.Validate(selections); err != nil {
		return nil, err
	}
	return idx.match(selections, ""), nil
}

// match ignores the facet named by skip
func (idx *Indexes) match(selections models.Selections, skip models.Dimension) []int {
	hits := make([]int, idx.size)
	active := 0

	for d, values := range selections {
		if d == skip || len(values) == 0 {
			continue
		}
		active++

		seen := make(map[int]bool)
		for _, v := range values {
			for _, pos := range idx.postings[d][models.NormalizeKey(v)] {
				if !seen[pos] {
					seen[pos] = true
					hits[pos]++
				}
			}
		}
	}

	positions := make([]int, 0, idx.size)
	for pos, n := range hits {
		if n == active {
			positions = append(positions, pos)
		}
	}
	return positions
}

// Apply returns the matching records in dataset order
func Apply(records []models.Policy, idx *Indexes, selections models.Selections) ([]models.Policy, error) {
	positions, err := idx.Match(selections)
	if err != nil {
		return nil, err
	}
	return lo.Map(positions, func(pos int, _ int) models.Policy {
		return records[pos]
	}), nil
}
