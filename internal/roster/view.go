package roster

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"talentbase-backend/internal/database/models"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EntityKind names the two record kinds a console manages
type EntityKind string

const (
	KindPlayer EntityKind = "player"
	KindTeam   EntityKind = "team"
)

// ParseEntityKind parses "player" or "team"
func ParseEntityKind(s string) (EntityKind, bool) {
	switch EntityKind(s) {
	case KindPlayer, KindTeam:
		return EntityKind(s), true
	}
	return "", false
}

// Theme is the console colour scheme
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme falls back to light for unknown values
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle returns the other theme
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// NoticeLevel classifies a notice
type NoticeLevel string

const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// Notice is a message reported to the user after an action
type Notice struct {
	Level   NoticeLevel
	Message string
}

// PendingDelete is a delete waiting for confirmation
type PendingDelete struct {
	Kind EntityKind
	ID   uuid.UUID
}

// Viewer is the signed-in user a view is composed for
type Viewer struct {
	Email string
	Admin bool
}

// PanelMode tells how a detail panel renders
type PanelMode string

const (
	PanelView     PanelMode = "view"
	PanelEdit     PanelMode = "edit"
	PanelNew      PanelMode = "new"
	PanelNotFound PanelMode = "not_found"
)

// ViewInput is everything Compose reads
type ViewInput struct {
	Players         []models.Player
	Teams           []models.Team
	PlayerSelection Selection
	TeamSelection   Selection
	Filter          Filter
	PlayerEditor    *PlayerEditor
	TeamEditor      *TeamEditor
	Viewer          Viewer
	PendingDelete   *PendingDelete
	Busy            bool
	Notices         []Notice
	Theme           Theme
	Now             time.Time
	LoadedAt        time.Time
}

// View is a renderable description of the console
type View struct {
	Header      Header
	Teams       []TeamRow
	Players     []PlayerRow
	PlayerCount int
	PlayerTotal int
	Filter      Filter
	Suggestions []string
	PlayerPanel *PlayerPanel
	TeamPanel   *TeamPanel
	Confirm     *ConfirmPanel
	Notices     []Notice
	CanEdit     bool
	Busy        bool
	Positions   []string
	TeamOptions []Option
}

// Header is the top bar
type Header struct {
	Email    string
	Admin    bool
	Theme    Theme
	LoadedAt string
}

// Option is one entry of a select input
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// TeamRow is one line of the team list
type TeamRow struct {
	ID       uuid.UUID
	Name     string
	Selected bool
}

// PlayerRow is one line of the player list
type PlayerRow struct {
	ID          uuid.UUID
	Name        string
	Position    string
	Nationality string
	TeamName    string
	MarketValue string
	TopTalent   bool
	Selected    bool
}

// PlayerPanel shows one player or its form
type PlayerPanel struct {
	Mode   PanelMode
	ID     uuid.UUID
	Detail PlayerDetail
	Form   PlayerForm
}

// PlayerDetail is a read-only player card
type PlayerDetail struct {
	Name          string
	Position      string
	Nationality   string
	DateOfBirth   string
	Age           string
	Agent         string
	MarketValue   string
	ContractUntil string
	TeamName      string
	PhotoURL      string
	TopTalent     bool
}

// PlayerForm holds the staged player as form values
type PlayerForm struct {
	FirstName     string
	LastName      string
	DateOfBirth   string
	Nationality   string
	Position      string
	Agent         string
	MarketValue   string
	ContractUntil string
	TeamID        string
	PhotoURL      string
	PhotoFile     string
	TopTalent     bool
}

// TeamPanel shows one team or its form
type TeamPanel struct {
	Mode   PanelMode
	ID     uuid.UUID
	Detail TeamDetail
	Form   TeamForm
}

// TeamDetail is a read-only team card
type TeamDetail struct {
	Name        string
	Stadium     string
	Founded     string
	LogoURL     string
	PlayerCount int
}

// TeamForm holds the staged team as form values
type TeamForm struct {
	Name     string
	Stadium  string
	Founded  string
	LogoURL  string
	LogoFile string
}

// ConfirmPanel asks the user to confirm a delete
type ConfirmPanel struct {
	Kind    EntityKind
	ID      uuid.UUID
	Label   string
	Message string
}

var ngn = message.NewPrinter(language.English)

// FormatNGN renders an amount in naira with thousands separators
func FormatNGN(amount float64) string {
	switch {
	case math.IsInf(amount, 0) || math.IsNaN(amount):
		return "n/a"
	case math.Abs(amount) >= math.MaxInt64:
		return ngn.Sprintf("₦%.0f", amount)
	}
	return ngn.Sprintf("₦%d", int64(math.Round(amount)))
}

// Compose builds the view for in. It only reads its input.
func Compose(in ViewInput) View {
	teamNames := make(map[uuid.UUID]string, len(in.Teams))
	for _, t := range in.Teams {
		teamNames[t.ID] = t.Name
	}

	v := View{
		Header: Header{
			Email:    in.Viewer.Email,
			Admin:    in.Viewer.Admin,
			Theme:    ParseTheme(string(in.Theme)),
			LoadedAt: formatLoadedAt(in.LoadedAt),
		},
		Filter:      in.Filter,
		CanEdit:     in.Viewer.Admin,
		Busy:        in.Busy,
		PlayerTotal: len(in.Players),
	}

	v.Teams = make([]TeamRow, 0, len(in.Teams))
	for _, t := range in.Teams {
		v.Teams = append(v.Teams, TeamRow{
			ID:       t.ID,
			Name:     t.Name,
			Selected: in.TeamSelection.Refers(t.ID),
		})
	}

	visible := in.Filter.Apply(in.Players)
	v.PlayerCount = len(visible)
	v.Players = make([]PlayerRow, 0, len(visible))
	for _, p := range visible {
		v.Players = append(v.Players, PlayerRow{
			ID:          p.ID,
			Name:        p.Name,
			Position:    string(p.Position),
			Nationality: p.Nationality,
			TeamName:    teamName(teamNames, p.TeamID),
			MarketValue: FormatNGN(p.MarketValue),
			TopTalent:   p.TopTalent,
			Selected:    in.PlayerSelection.Refers(p.ID),
		})
	}
	if len(visible) == 0 && in.Filter.Query != "" {
		v.Suggestions = Suggest(in.Players, in.Filter.Query, maxSuggestions)
	}

	v.PlayerPanel = composePlayerPanel(in, teamNames)
	v.TeamPanel = composeTeamPanel(in)
	v.Confirm = composeConfirm(in)

	if len(in.Notices) > 0 {
		v.Notices = append([]Notice(nil), in.Notices...)
	}

	if in.Viewer.Admin {
		v.Positions = make([]string, 0, len(models.Positions))
		for _, pos := range models.Positions {
			v.Positions = append(v.Positions, string(pos))
		}
		v.TeamOptions = teamOptions(in)
	}
	return v
}

func findPlayer(players []models.Player, id uuid.UUID) (models.Player, bool) {
	for _, p := range players {
		if p.ID == id {
			return p, true
		}
	}
	return models.Player{}, false
}

func findTeam(teams []models.Team, id uuid.UUID) (models.Team, bool) {
	for _, t := range teams {
		if t.ID == id {
			return t, true
		}
	}
	return models.Team{}, false
}

func composePlayerPanel(in ViewInput, teamNames map[uuid.UUID]string) *PlayerPanel {
	sel := in.PlayerSelection
	switch sel.Kind() {
	case SelectionNew:
		panel := &PlayerPanel{Mode: PanelNew}
		if in.PlayerEditor != nil && in.PlayerEditor.IsNew() {
			panel.Form = playerForm(in.PlayerEditor.Staged(), in.PlayerEditor.Photo())
		} else {
			panel.Form = playerForm(models.Player{Position: models.DefaultPosition}, nil)
		}
		return panel
	case SelectionViewing, SelectionEditing:
		id, _ := sel.ID()
		p, ok := findPlayer(in.Players, id)
		if !ok {
			return &PlayerPanel{Mode: PanelNotFound, ID: id}
		}
		if sel.Kind() == SelectionViewing {
			return &PlayerPanel{Mode: PanelView, ID: id, Detail: playerDetail(p, teamNames, in.Now)}
		}
		panel := &PlayerPanel{Mode: PanelEdit, ID: id}
		if in.PlayerEditor != nil && in.PlayerEditor.ID() == id {
			panel.Form = playerForm(in.PlayerEditor.Staged(), in.PlayerEditor.Photo())
		} else {
			panel.Form = playerForm(p, nil)
		}
		return panel
	}
	return nil
}

func composeTeamPanel(in ViewInput) *TeamPanel {
	sel := in.TeamSelection
	switch sel.Kind() {
	case SelectionNew:
		panel := &TeamPanel{Mode: PanelNew}
		if in.TeamEditor != nil && in.TeamEditor.IsNew() {
			panel.Form = teamForm(in.TeamEditor.Staged(), in.TeamEditor.Logo())
		}
		return panel
	case SelectionViewing, SelectionEditing:
		id, _ := sel.ID()
		t, ok := findTeam(in.Teams, id)
		if !ok {
			return &TeamPanel{Mode: PanelNotFound, ID: id}
		}
		if sel.Kind() == SelectionViewing {
			return &TeamPanel{Mode: PanelView, ID: id, Detail: teamDetail(t, in.Players)}
		}
		panel := &TeamPanel{Mode: PanelEdit, ID: id}
		if in.TeamEditor != nil && in.TeamEditor.ID() == id {
			panel.Form = teamForm(in.TeamEditor.Staged(), in.TeamEditor.Logo())
		} else {
			panel.Form = teamForm(t, nil)
		}
		return panel
	}
	return nil
}

func composeConfirm(in ViewInput) *ConfirmPanel {
	pd := in.PendingDelete
	if pd == nil {
		return nil
	}
	panel := &ConfirmPanel{Kind: pd.Kind, ID: pd.ID}
	switch pd.Kind {
	case KindPlayer:
		panel.Label = "this player"
		if p, ok := findPlayer(in.Players, pd.ID); ok {
			panel.Label = p.Name
		}
		panel.Message = fmt.Sprintf("Delete %s?", panel.Label)
	case KindTeam:
		panel.Label = "this team"
		attached := 0
		if t, ok := findTeam(in.Teams, pd.ID); ok {
			panel.Label = t.Name
			attached = countAttached(in.Players, t.ID)
		}
		panel.Message = fmt.Sprintf("Delete %s?", panel.Label)
		if attached > 0 {
			panel.Message = fmt.Sprintf("Delete %s? %d player(s) will become unattached.", panel.Label, attached)
		}
	}
	return panel
}

func teamOptions(in ViewInput) []Option {
	current := ""
	if in.PlayerSelection.IsForm() && in.PlayerEditor != nil {
		if id := in.PlayerEditor.Staged().TeamID; id != nil {
			current = id.String()
		}
	}
	opts := make([]Option, 0, len(in.Teams)+1)
	opts = append(opts, Option{Value: "", Label: "-- Unattached --", Selected: current == ""})
	for _, t := range in.Teams {
		opts = append(opts, Option{Value: t.ID.String(), Label: t.Name, Selected: current == t.ID.String()})
	}
	return opts
}

func teamName(names map[uuid.UUID]string, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return names[*id]
}

func countAttached(players []models.Player, teamID uuid.UUID) int {
	n := 0
	for _, p := range players {
		if p.TeamID != nil && *p.TeamID == teamID {
			n++
		}
	}
	return n
}

func playerDetail(p models.Player, teamNames map[uuid.UUID]string, now time.Time) PlayerDetail {
	d := PlayerDetail{
		Name:          p.Name,
		Position:      string(p.Position),
		Nationality:   p.Nationality,
		DateOfBirth:   formatDate(p.DateOfBirth),
		Agent:         p.Agent,
		MarketValue:   FormatNGN(p.MarketValue),
		ContractUntil: formatDate(p.ContractUntil),
		TeamName:      teamName(teamNames, p.TeamID),
		PhotoURL:      p.PhotoURL,
		TopTalent:     p.TopTalent,
	}
	if p.DateOfBirth != nil && !now.IsZero() {
		d.Age = strconv.Itoa(age(*p.DateOfBirth, now))
	}
	return d
}

func playerForm(p models.Player, photo *Upload) PlayerForm {
	f := PlayerForm{
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		DateOfBirth:   formatDate(p.DateOfBirth),
		Nationality:   p.Nationality,
		Position:      string(p.Position),
		Agent:         p.Agent,
		MarketValue:   strconv.FormatFloat(p.MarketValue, 'f', -1, 64),
		ContractUntil: formatDate(p.ContractUntil),
		PhotoURL:      p.PhotoURL,
		TopTalent:     p.TopTalent,
	}
	if p.TeamID != nil {
		f.TeamID = p.TeamID.String()
	}
	if photo != nil {
		f.PhotoFile = photo.FileName
	}
	return f
}

func teamDetail(t models.Team, players []models.Player) TeamDetail {
	d := TeamDetail{
		Name:        t.Name,
		Stadium:     t.Stadium,
		LogoURL:     t.LogoURL,
		PlayerCount: countAttached(players, t.ID),
	}
	if t.Founded != 0 {
		d.Founded = strconv.Itoa(t.Founded)
	}
	return d
}

func teamForm(t models.Team, logo *Upload) TeamForm {
	f := TeamForm{
		Name:    t.Name,
		Stadium: t.Stadium,
		LogoURL: t.LogoURL,
	}
	if t.Founded != 0 {
		f.Founded = strconv.Itoa(t.Founded)
	}
	if logo != nil {
		f.LogoFile = logo.FileName
	}
	return f
}

func formatLoadedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04 UTC")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

func age(born, now time.Time) int {
	years := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		years--
	}
	return years
}
