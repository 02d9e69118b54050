package filter

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/ternarybob/treatyview/internal/models"
)

// Options returns, for every filterable dimension, the sorted display values
// still reachable under the current selections. A dimension's own selection
// is ignored when computing its options so the user can widen it again.
func Options(idx *Indexes, selections models.Selections) (map[models.Dimension][]string, error) {
	if err := idx.Validate(selections); err != nil {
		return nil, err
	}

	options := make(map[models.Dimension][]string, len(models.FilterDimensions))
	for _, d := range models.FilterDimensions {
		pool := idx.match(selections, d)
		passing := make(map[int]bool, len(pool))
		for _, pos := range pool {
			passing[pos] = true
		}

		reachable := lo.Filter(idx.Keys(d), func(key string, _ int) bool {
			return lo.SomeBy(idx.postings[d][key], func(pos int) bool {
				return passing[pos]
			})
		})
		options[d] = sortedDisplay(idx, d, reachable)
	}
	return options, nil
}

// Values returns the sorted distinct display values of every dimension over
// the whole dataset.
func Values(idx *Indexes) map[models.Dimension][]string {
	values := make(map[models.Dimension][]string, len(models.FilterDimensions))
	for _, d := range models.FilterDimensions {
		values[d] = sortedDisplay(idx, d, idx.Keys(d))
	}
	return values
}

func sortedDisplay(idx *Indexes, d models.Dimension, keys []string) []string {
	sort.Strings(keys)
	display := lo.Map(keys, func(key string, _ int) string {
		return idx.Display(d, key)
	})
	sort.SliceStable(display, func(i, j int) bool {
		return strings.ToLower(display[i]) < strings.ToLower(display[j])
	})
	return display
}
