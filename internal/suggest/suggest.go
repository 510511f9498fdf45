package suggest

import (
	"cmp"
	"slices"
	"strings"
)

const (
	// MinSimilarity is the lowest similarity a suggestion may have.
	MinSimilarity = 0.5
	// DefaultLimit is the number of suggestions Names returns by default.
	DefaultLimit = 3
)

type scored struct {
	name  string
	score float64
}

// Names returns up to limit candidates similar to name, best first. A
// candidate qualifies when its normalized form contains, or is contained
// in, the normalized name, or when their similarity is at least
// MinSimilarity. A limit below one means DefaultLimit.
func Names(name string, candidates []string, limit int) []string {
	if limit < 1 {
		limit = DefaultLimit
	}

	target := Normalize(name)
	if target == "" {
		return nil
	}

	var found []scored

	for _, c := range slices.Compact(slices.Sorted(slices.Values(candidates))) {
		if c == name {
			continue
		}

		norm := Normalize(c)
		if norm == "" {
			continue
		}

		score := Similarity(target, norm)
		if strings.Contains(norm, target) || strings.Contains(target, norm) {
			score = max(score, MinSimilarity)
		}

		if score >= MinSimilarity {
			found = append(found, scored{name: c, score: score})
		}
	}

	// Higher score first, then alphabetical for determinism
	slices.SortStableFunc(found, func(a, b scored) int {
		return cmp.Or(cmp.Compare(b.score, a.score), strings.Compare(a.name, b.name))
	})

	out := make([]string, 0, min(limit, len(found)))
	for _, s := range found[:min(limit, len(found))] {
		out = append(out, s.name)
	}

	return out
}
