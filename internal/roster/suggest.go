package roster

import (
	"sort"
	"strings"

	"talentbase-backend/internal/database/models"

	"github.com/agnivade/levenshtein"
)

const maxSuggestions = 3

// Suggest returns up to limit player names close to query, best first.
// A name is scored by its closest word or the whole name, whichever is nearer.
func Suggest(players []models.Player, query string, limit int) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}
	threshold := len([]rune(q)) / 2
	if threshold < 2 {
		threshold = 2
	}

	type candidate struct {
		name     string
		distance int
	}
	seen := make(map[string]bool)
	var candidates []candidate
	for _, p := range players {
		if p.Name == "" || seen[p.Name] {
			continue
		}
		seen[p.Name] = true

		name := strings.ToLower(p.Name)
		best := levenshtein.ComputeDistance(q, name)
		for _, word := range strings.Fields(name) {
			if d := levenshtein.ComputeDistance(q, word); d < best {
				best = d
			}
		}
		if best <= threshold {
			candidates = append(candidates, candidate{name: p.Name, distance: best})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].name < candidates[j].name
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}
