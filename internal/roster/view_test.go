package roster

import (
	"math"
	"testing"
	"time"

	"talentbase-backend/internal/database/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type viewFixture struct {
	team    models.Team
	ada     models.Player
	kwame   models.Player
	players []models.Player
	teams   []models.Team
}

func newViewFixture() viewFixture {
	f := viewFixture{}
	f.team = models.Team{Name: "Enyimba FC", Stadium: "Aba Township", Founded: 1976}
	f.team.ID = uuid.New()

	dob := time.Date(2004, time.May, 2, 0, 0, 0, 0, time.UTC)
	f.ada = models.Player{Name: "Ada Obi", FirstName: "Ada", LastName: "Obi", Nationality: "Nigeria",
		Position: "ST", MarketValue: 2500000, TeamID: &f.team.ID, DateOfBirth: &dob, TopTalent: true}
	f.ada.ID = uuid.New()
	f.kwame = models.Player{Name: "Kwame Mensah", Nationality: "Ghana", Position: "CB"}
	f.kwame.ID = uuid.New()

	f.players = []models.Player{f.ada, f.kwame}
	f.teams = []models.Team{f.team}
	return f
}

func (f viewFixture) input() ViewInput {
	return ViewInput{
		Players: f.players,
		Teams:   f.teams,
		Viewer:  Viewer{Email: "admin@nnl.test", Admin: true},
		Theme:   ThemeDark,
		Now:     fixedClock(),
	}
}

func TestComposeLists(t *testing.T) {
	f := newViewFixture()
	in := f.input()
	in.PlayerSelection = Viewing(f.ada.ID)
	in.TeamSelection = Viewing(f.team.ID)

	v := Compose(in)

	assert.Equal(t, Header{Email: "admin@nnl.test", Admin: true, Theme: ThemeDark}, v.Header)
	require.Len(t, v.Players, 2)
	assert.Equal(t, 2, v.PlayerCount)
	assert.Equal(t, 2, v.PlayerTotal)
	assert.True(t, v.Players[0].Selected)
	assert.False(t, v.Players[1].Selected)
	assert.Equal(t, "Enyimba FC", v.Players[0].TeamName)
	assert.Equal(t, "", v.Players[1].TeamName)
	assert.Equal(t, "₦2,500,000", v.Players[0].MarketValue)
	require.Len(t, v.Teams, 1)
	assert.True(t, v.Teams[0].Selected)
}

func TestComposeHeaderShowsLoadTime(t *testing.T) {
	f := newViewFixture()
	in := f.input()
	in.LoadedAt = time.Date(2026, time.March, 14, 10, 30, 0, 0, time.FixedZone("WAT", 3600))

	assert.Equal(t, "2026-03-14 09:30 UTC", Compose(in).Header.LoadedAt)

	in.LoadedAt = time.Time{}
	assert.Empty(t, Compose(in).Header.LoadedAt)
}

func TestComposeStackedPanels(t *testing.T) {
	f := newViewFixture()
	in := f.input()
	in.PlayerSelection = Viewing(f.ada.ID)
	in.TeamSelection = Viewing(f.team.ID)

	v := Compose(in)

	require.NotNil(t, v.PlayerPanel)
	require.NotNil(t, v.TeamPanel)
	assert.Equal(t, PanelView, v.PlayerPanel.Mode)
	assert.Equal(t, "Ada Obi", v.PlayerPanel.Detail.Name)
	assert.Equal(t, "21", v.PlayerPanel.Detail.Age)
	assert.Equal(t, "2004-05-02", v.PlayerPanel.Detail.DateOfBirth)
	assert.Equal(t, "Enyimba FC", v.PlayerPanel.Detail.TeamName)
	assert.Equal(t, PanelView, v.TeamPanel.Mode)
	assert.Equal(t, "1976", v.TeamPanel.Detail.Founded)
	assert.Equal(t, 1, v.TeamPanel.Detail.PlayerCount)
}

func TestComposeNotFoundPanel(t *testing.T) {
	f := newViewFixture()
	in := f.input()
	missing := uuid.New()
	in.PlayerSelection = Editing(missing)
	in.TeamSelection = Viewing(missing)

	v := Compose(in)

	assert.Equal(t, &PlayerPanel{Mode: PanelNotFound, ID: missing}, v.PlayerPanel)
	assert.Equal(t, &TeamPanel{Mode: PanelNotFound, ID: missing}, v.TeamPanel)
}

func TestComposeEditFormUsesBoundEditor(t *testing.T) {
	f := newViewFixture()
	in := f.input()
	in.PlayerSelection = Editing(f.ada.ID)
	editor := NewPlayerEditor(&f.ada)
	require.NoError(t, editor.Set("agent", "Stellar Sports"))
	editor.SetPhoto(&Upload{FileName: "ada.png"})
	in.PlayerEditor = editor

	v := Compose(in)

	require.NotNil(t, v.PlayerPanel)
	assert.Equal(t, PanelEdit, v.PlayerPanel.Mode)
	assert.Equal(t, "Stellar Sports", v.PlayerPanel.Form.Agent)
	assert.Equal(t, "ada.png", v.PlayerPanel.Form.PhotoFile)
	assert.Equal(t, "2500000", v.PlayerPanel.Form.MarketValue)
	assert.Equal(t, f.team.ID.String(), v.PlayerPanel.Form.TeamID)

	var selected []string
	for _, o := range v.TeamOptions {
		if o.Selected {
			selected = append(selected, o.Label)
		}
	}
	assert.Equal(t, []string{"Enyimba FC"}, selected)
	assert.Len(t, v.Positions, len(models.Positions))
}

func TestComposeNewForms(t *testing.T) {
	f := newViewFixture()
	in := f.input()
	in.PlayerSelection = Creating()
	in.TeamSelection = Creating()

	v := Compose(in)

	assert.Equal(t, PanelNew, v.PlayerPanel.Mode)
	assert.Equal(t, "CM", v.PlayerPanel.Form.Position)
	assert.Equal(t, PanelNew, v.TeamPanel.Mode)
	assert.Equal(t, TeamForm{}, v.TeamPanel.Form)
}

func TestComposeNoPanels(t *testing.T) {
	v := Compose(newViewFixture().input())
	assert.Nil(t, v.PlayerPanel)
	assert.Nil(t, v.TeamPanel)
	assert.Nil(t, v.Confirm)
}

func TestComposeHidesAdminAffordances(t *testing.T) {
	in := newViewFixture().input()
	in.Viewer = Viewer{Email: "scout@nnl.test"}

	v := Compose(in)

	assert.False(t, v.CanEdit)
	assert.False(t, v.Header.Admin)
	assert.Empty(t, v.Positions)
	assert.Empty(t, v.TeamOptions)
}

func TestComposeFilterAndSuggestions(t *testing.T) {
	f := newViewFixture()
	in := f.input()

	in.Filter = Filter{TopOnly: true}
	v := Compose(in)
	assert.Equal(t, 1, v.PlayerCount)
	assert.Equal(t, 2, v.PlayerTotal)
	assert.Empty(t, v.Suggestions)

	in.Filter = Filter{Query: "Mensa x"}
	v = Compose(in)
	assert.Equal(t, 0, v.PlayerCount)
	assert.Equal(t, []string{"Kwame Mensah"}, v.Suggestions)
	assert.Empty(t, v.Players, "suggestions never change visibility")
}

func TestComposeConfirmPanel(t *testing.T) {
	f := newViewFixture()
	in := f.input()
	in.PendingDelete = &PendingDelete{Kind: KindTeam, ID: f.team.ID}

	v := Compose(in)

	require.NotNil(t, v.Confirm)
	assert.Equal(t, "Enyimba FC", v.Confirm.Label)
	assert.Equal(t, "Delete Enyimba FC? 1 player(s) will become unattached.", v.Confirm.Message)

	in.PendingDelete = &PendingDelete{Kind: KindPlayer, ID: f.kwame.ID}
	v = Compose(in)
	assert.Equal(t, "Delete Kwame Mensah?", v.Confirm.Message)
}

func TestComposeIsDeterministic(t *testing.T) {
	f := newViewFixture()
	in := f.input()
	in.PlayerSelection = Viewing(f.ada.ID)
	in.Notices = []Notice{{Level: NoticeInfo, Message: "Saved player Ada Obi"}}

	first := Compose(in)
	second := Compose(in)

	assert.Equal(t, first, second)
	assert.Equal(t, "Ada Obi", f.players[0].Name)
}

func TestFormatNGN(t *testing.T) {
	assert.Equal(t, "₦0", FormatNGN(0))
	assert.Equal(t, "₦1,234,568", FormatNGN(1234567.5))
	assert.Equal(t, "n/a", FormatNGN(math.Inf(1)))
	assert.Equal(t, "n/a", FormatNGN(math.NaN()))
}

func TestThemeAndKindParsing(t *testing.T) {
	assert.Equal(t, ThemeDark, ParseTheme("dark"))
	assert.Equal(t, ThemeLight, ParseTheme("neon"))
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())

	kind, ok := ParseEntityKind("team")
	assert.True(t, ok)
	assert.Equal(t, KindTeam, kind)
	_, ok = ParseEntityKind("coach")
	assert.False(t, ok)
}
