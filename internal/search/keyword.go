package search

import (
	"strings"
)

// KeywordSearch matches docs case-insensitively against every token of
// query (AND semantics) over id, name, description and keywords. A doc whose
// name contains every token scores 2, other matches score 1.
func KeywordSearch(docs []Doc, query string, limit int) []Result {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return []Result{}
	}

	out := []Result{}
	for _, d := range docs {
		blob := strings.ToLower(strings.Join([]string{d.ID, d.Name, d.Description, d.Keywords}, "\n"))
		if !containsAll(blob, tokens) {
			continue
		}
		r := Result{Doc: d, Score: 1, Why: "keyword"}
		if containsAll(strings.ToLower(d.Name), tokens) {
			r.Score, r.Why = 2, "name"
		}
		out = append(out, r)
	}

	SortResults(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func containsAll(s string, tokens []string) bool {
	for _, tok := range tokens {
		if !strings.Contains(s, tok) {
			return false
		}
	}
	return true
}

func tokenize(q string) []string {
	parts := strings.Fields(strings.TrimSpace(q))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.ToLower(p))
	}
	return out
}
