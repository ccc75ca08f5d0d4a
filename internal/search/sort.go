package search

import "sort"

// SortResults sorts results by score (descending), then kind, then ID.
func SortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Doc.Kind != b.Doc.Kind {
			return a.Doc.Kind.rank() < b.Doc.Kind.rank()
		}
		return a.Doc.ID < b.Doc.ID
	})
}
