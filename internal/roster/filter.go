package roster

import (
	"strings"

	"talentbase-backend/internal/database/models"
)

// Filter narrows the player list
type Filter struct {
	Query   string
	TopOnly bool
}

// VisiblePlayers returns the players whose name or nationality contains
// query, ignoring case, keeping source order. With topOnly only top talents
// are kept. The input slice is never modified.
func VisiblePlayers(players []models.Player, query string, topOnly bool) []models.Player {
	q := strings.ToLower(query)
	out := make([]models.Player, 0, len(players))
	for _, p := range players {
		if topOnly && !p.TopTalent {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Nationality), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Apply runs VisiblePlayers with the filter's settings
func (f Filter) Apply(players []models.Player) []models.Player {
	return VisiblePlayers(players, f.Query, f.TopOnly)
}

// Active reports whether the filter hides anything
func (f Filter) Active() bool {
	return f.Query != "" || f.TopOnly
}
