package match

import (
	"cmp"
	"slices"
)

// DefaultThreshold is the minimum Similarity a candidate needs to be suggested.
const DefaultThreshold = 0.5

type scored struct {
	name  string
	score float64
}

// Suggest returns up to limit candidates closest to target, best first.
// Candidates scoring below threshold are dropped; ties keep alphabetical order.
func Suggest(target string, candidates []string, limit int, threshold float64) []string {
	if limit <= 0 {
		return nil
	}

	ranked := make([]scored, 0, len(candidates))

	for _, c := range candidates {
		if c == target {
			continue
		}

		if s := Similarity(target, c); s >= threshold {
			ranked = append(ranked, scored{name: c, score: s})
		}
	}

	slices.SortFunc(ranked, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}

		return cmp.Compare(a.name, b.name)
	})

	out := make([]string, 0, min(limit, len(ranked)))
	for _, r := range ranked[:min(limit, len(ranked))] {
		out = append(out, r.name)
	}

	return out
}
