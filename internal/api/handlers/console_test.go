package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"talentbase-backend/internal/api/handlers"
	"talentbase-backend/internal/api/templates"
	"talentbase-backend/internal/auth"
	"talentbase-backend/internal/database/models"
	apperrors "talentbase-backend/internal/errors"
	"talentbase-backend/internal/roster"
	"talentbase-backend/internal/testutils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

const (
	adminEmail     = "admin@nnl.test"
	scoutEmail     = "scout@nnl.test"
	testUserHeader = "X-Test-User"
)

// memoryRecords is an in-memory roster persistence
type memoryRecords struct {
	mu      sync.Mutex
	players map[uuid.UUID]models.Player
	teams   map[uuid.UUID]models.Team
	failAll bool
}

func newMemoryRecords() *memoryRecords {
	return &memoryRecords{players: map[uuid.UUID]models.Player{}, teams: map[uuid.UUID]models.Team{}}
}

func (r *memoryRecords) failure(op string) error {
	return apperrors.NewPersistenceError(op, "database unavailable", errors.New("connection refused"))
}

func (r *memoryRecords) ListPlayers(context.Context) ([]models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, r.failure("list players")
	}
	out := make([]models.Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryRecords) ListTeams(context.Context) ([]models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, r.failure("list teams")
	}
	out := make([]models.Team, 0, len(r.teams))
	for _, t := range r.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryRecords) UpsertPlayer(_ context.Context, player models.Player) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, r.failure("upsert player")
	}
	if player.ID == uuid.Nil {
		player.ID = uuid.New()
	}
	r.players[player.ID] = player
	return &player, nil
}

func (r *memoryRecords) UpsertTeam(_ context.Context, team models.Team) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, r.failure("upsert team")
	}
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	r.teams[team.ID] = team
	return &team, nil
}

func (r *memoryRecords) DeletePlayer(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return r.failure("delete player")
	}
	delete(r.players, id)
	return nil
}

func (r *memoryRecords) DeleteTeam(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return r.failure("delete team")
	}
	delete(r.teams, id)
	for pid, p := range r.players {
		if p.TeamID != nil && *p.TeamID == id {
			p.TeamID = nil
			r.players[pid] = p
		}
	}
	return nil
}

func (r *memoryRecords) player(name string) (models.Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.Name == name {
			return p, true
		}
	}
	return models.Player{}, false
}

type stubUploader struct {
	paths   []string
	removed []string
}

func (u *stubUploader) Upload(_ context.Context, path string, _ []byte, _ string) (string, error) {
	u.paths = append(u.paths, path)
	return "https://cdn.nnl.test/" + path, nil
}

func (u *stubUploader) Remove(_ context.Context, path string) error {
	u.removed = append(u.removed, path)
	return nil
}

// stubAuthenticator accepts one password for every account
type stubAuthenticator struct {
	signedOut []string
}

func (a *stubAuthenticator) SignUp(ctx context.Context, email, password string) (*auth.Session, error) {
	return a.SignIn(ctx, email, password)
}

func (a *stubAuthenticator) SignIn(_ context.Context, email, password string) (*auth.Session, error) {
	if password != "secret123" {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &auth.Session{
		Token:     "token-" + email,
		TokenType: "bearer",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      auth.User{ID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(email)), Email: email},
	}, nil
}

func (a *stubAuthenticator) SignOut(_ context.Context, token string) error {
	a.signedOut = append(a.signedOut, token)
	return nil
}

type stubCookies struct{}

func (stubCookies) SetSessionCookie(c *gin.Context, session *auth.Session) {
	c.SetCookie(auth.SessionCookieName, session.Token, 3600, "/", "", false, true)
}

func (stubCookies) ClearSessionCookie(c *gin.Context) {
	c.SetCookie(auth.SessionCookieName, "", -1, "/", "", false, true)
}

// ConsoleHandlerTestSuite drives the console through HTTP
type ConsoleHandlerTestSuite struct {
	suite.Suite
	records   *memoryRecords
	uploader  *stubUploader
	authn     *stubAuthenticator
	store     *roster.Store
	httpSuite *testutils.HTTPTestSuite
	ada       models.Player
	enyimba   models.Team
}

// SetupTest sets up the test suite
func (suite *ConsoleHandlerTestSuite) SetupTest() {
	suite.records = newMemoryRecords()
	suite.uploader = &stubUploader{}
	suite.authn = &stubAuthenticator{}

	factories := testutils.NewFactorySet()
	suite.enyimba = *factories.Team.Create()
	suite.ada = *factories.Player.WithTeam(suite.enyimba.ID)
	suite.records.teams[suite.enyimba.ID] = suite.enyimba
	suite.records.players[suite.ada.ID] = suite.ada

	suite.store = roster.NewStore(suite.records)
	suite.Require().NoError(suite.store.Reload(context.Background()))
	sessions := roster.NewSessions(suite.store, suite.records, suite.uploader, auth.NewAuthorizer(adminEmail))

	tmpl, err := templates.Load()
	suite.Require().NoError(err)

	handler := handlers.NewConsoleHandler(sessions, suite.authn, stubCookies{}, adminEmail, 1<<20)

	suite.httpSuite = testutils.SetupHTTPTest()
	router := suite.httpSuite.Router
	router.SetHTMLTemplate(tmpl)
	router.Use(func(c *gin.Context) {
		if email := c.GetHeader(testUserHeader); email != "" {
			c.Set("user", &auth.User{ID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(email)), Email: email})
			c.Set("email", email)
		}
		c.Next()
	})

	console := router.Group("/console")
	{
		console.GET("", handler.Show)
		console.POST("/signin", handler.SignIn)
		console.POST("/signup", handler.SignUp)
		console.POST("/signout", handler.SignOut)
		console.POST("/refresh", handler.Refresh)
		console.POST("/filter", handler.Filter)
		console.POST("/theme", handler.Theme)
		console.POST("/clear", handler.Clear)
		console.POST("/players/new", handler.NewPlayer)
		console.POST("/players/save", handler.SavePlayer)
		console.POST("/players/cancel", handler.CancelPlayer)
		console.GET("/players/:id", handler.ShowPlayer)
		console.POST("/players/:id/edit", handler.EditPlayer)
		console.POST("/players/:id/delete", handler.DeletePlayer)
		console.POST("/teams/new", handler.NewTeam)
		console.POST("/teams/save", handler.SaveTeam)
		console.POST("/teams/cancel", handler.CancelTeam)
		console.GET("/teams/:id", handler.ShowTeam)
		console.POST("/teams/:id/edit", handler.EditTeam)
		console.POST("/teams/:id/delete", handler.DeleteTeam)
		console.POST("/delete/confirm", handler.ConfirmDelete)
		console.POST("/delete/cancel", handler.CancelDelete)
	}
}

func (suite *ConsoleHandlerTestSuite) as(email, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if email != "" {
		req.Header.Set(testUserHeader, email)
	}
	recorder := httptest.NewRecorder()
	suite.httpSuite.Router.ServeHTTP(recorder, req)
	return recorder
}

func (suite *ConsoleHandlerTestSuite) assertRedirect(recorder *httptest.ResponseRecorder) {
	suite.Equal(http.StatusSeeOther, recorder.Code, recorder.Body.String())
	suite.Equal("/console", recorder.Header().Get("Location"))
}

func (suite *ConsoleHandlerTestSuite) TestShowWithoutSessionRendersSignIn() {
	recorder := suite.as("", http.MethodGet, "/console", nil)

	suite.Equal(http.StatusOK, recorder.Code)
	suite.Contains(recorder.Body.String(), `action="/console/signin"`)
	suite.Contains(recorder.Body.String(), adminEmail)
}

func (suite *ConsoleHandlerTestSuite) TestActionsWithoutSessionRedirect() {
	suite.assertRedirect(suite.as("", http.MethodPost, "/console/players/new", url.Values{}))
	suite.assertRedirect(suite.as("", http.MethodPost, "/console/delete/confirm", url.Values{}))
}

func (suite *ConsoleHandlerTestSuite) TestSignIn() {
	recorder := suite.as("", http.MethodPost, "/console/signin", url.Values{"email": {adminEmail}, "password": {"secret123"}})

	suite.assertRedirect(recorder)
	var found bool
	for _, c := range recorder.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			found = true
			suite.Equal("token-"+adminEmail, c.Value)
		}
	}
	suite.True(found, "session cookie should be set")
}

func (suite *ConsoleHandlerTestSuite) TestSignInWrongPassword() {
	recorder := suite.as("", http.MethodPost, "/console/signin", url.Values{"email": {adminEmail}, "password": {"nope"}})

	suite.Equal(http.StatusUnauthorized, recorder.Code)
	suite.Contains(recorder.Body.String(), "invalid email or password")
	suite.Contains(recorder.Body.String(), `value="`+adminEmail+`"`)
}

func (suite *ConsoleHandlerTestSuite) TestSignOutRevokesToken() {
	req := httptest.NewRequest(http.MethodPost, "/console/signout", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "token-x"})
	recorder := httptest.NewRecorder()
	suite.httpSuite.Router.ServeHTTP(recorder, req)

	suite.assertRedirect(recorder)
	suite.Equal([]string{"token-x"}, suite.authn.signedOut)
}

func (suite *ConsoleHandlerTestSuite) TestShowListsRoster() {
	recorder := suite.as(adminEmail, http.MethodGet, "/console", nil)

	suite.Equal(http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	suite.Contains(body, "Ada Obi")
	suite.Contains(body, "Enyimba FC")
	suite.Contains(body, "+ New player")
}

func (suite *ConsoleHandlerTestSuite) TestNonAdminCannotEdit() {
	recorder := suite.as(scoutEmail, http.MethodGet, "/console", nil)
	suite.Equal(http.StatusOK, recorder.Code)
	suite.NotContains(recorder.Body.String(), "+ New player")

	suite.Equal(http.StatusForbidden, suite.as(scoutEmail, http.MethodPost, "/console/players/new", url.Values{}).Code)
	suite.Equal(http.StatusForbidden, suite.as(scoutEmail, http.MethodPost, "/console/players/"+suite.ada.ID.String()+"/delete", url.Values{}).Code)
}

func (suite *ConsoleHandlerTestSuite) TestCreatePlayer() {
	suite.assertRedirect(suite.as(adminEmail, http.MethodPost, "/console/players/new", url.Values{}))

	recorder := suite.as(adminEmail, http.MethodPost, "/console/players/save", url.Values{
		"first_name":   {"Chidi"},
		"last_name":    {"Eze"},
		"position":     {"CM"},
		"nationality":  {"Nigeria"},
		"market_value": {"1,500,000"},
		"team_id":      {suite.enyimba.ID.String()},
		"top_talent":   {"on"},
	})
	suite.assertRedirect(recorder)

	saved, ok := suite.records.player("Chidi Eze")
	suite.Require().True(ok)
	suite.Equal(float64(1500000), saved.MarketValue)
	suite.True(saved.TopTalent)
	suite.Equal(suite.enyimba.ID, *saved.TeamID)

	page := suite.as(adminEmail, http.MethodGet, "/console", nil)
	suite.Contains(page.Body.String(), "Saved player Chidi Eze")
	suite.NotContains(suite.as(adminEmail, http.MethodGet, "/console", nil).Body.String(), "Saved player Chidi Eze")
}

func (suite *ConsoleHandlerTestSuite) TestSavePlayerWithPhoto() {
	suite.assertRedirect(suite.as(adminEmail, http.MethodPost, "/console/players/"+suite.ada.ID.String()+"/edit", url.Values{}))

	recorder := suite.httpSuite.MakeMultipartRequest("/console/players/save",
		url.Values{"first_name": {"Ada"}, "last_name": {"Obi"}, "position": {"ST"}},
		"photo", "ada.png", []byte("png"), map[string]string{testUserHeader: adminEmail})
	suite.assertRedirect(recorder)

	saved, ok := suite.records.player("Ada Obi")
	suite.Require().True(ok)
	suite.Require().Len(suite.uploader.paths, 1)
	suite.Equal("https://cdn.nnl.test/"+suite.uploader.paths[0], saved.PhotoURL)
}

func (suite *ConsoleHandlerTestSuite) TestSaveInvalidFieldKeepsForm() {
	suite.assertRedirect(suite.as(adminEmail, http.MethodPost, "/console/players/new", url.Values{}))

	recorder := suite.as(adminEmail, http.MethodPost, "/console/players/save", url.Values{
		"first_name":    {"Chidi"},
		"date_of_birth": {"yesterday"},
	})

	suite.Equal(http.StatusBadRequest, recorder.Code)
	_, ok := suite.records.player("Chidi")
	suite.False(ok)
}

func (suite *ConsoleHandlerTestSuite) TestSaveWithoutFormIsRejected() {
	recorder := suite.as(adminEmail, http.MethodPost, "/console/players/save", url.Values{"first_name": {"X"}})

	suite.Equal(http.StatusBadRequest, recorder.Code)
}

func (suite *ConsoleHandlerTestSuite) TestSaveFailureReportsBadGateway() {
	suite.assertRedirect(suite.as(adminEmail, http.MethodPost, "/console/teams/new", url.Values{}))
	suite.records.failAll = true

	recorder := suite.as(adminEmail, http.MethodPost, "/console/teams/save", url.Values{"name": {"Kano Pillars"}})

	suite.Equal(http.StatusBadGateway, recorder.Code)
	suite.Contains(recorder.Body.String(), "database unavailable")
}

func (suite *ConsoleHandlerTestSuite) TestCreateTeam() {
	suite.assertRedirect(suite.as(adminEmail, http.MethodPost, "/console/teams/new", url.Values{}))
	suite.assertRedirect(suite.as(adminEmail, http.MethodPost, "/console/teams/save", url.Values{
		"name":    {"Kano Pillars"},
		"stadium": {"Sani Abacha Stadium"},
		"founded": {"1990"},
	}))

	page := suite.as(adminEmail, http.MethodGet, "/console", nil)
	suite.Contains(page.Body.String(), "Kano Pillars")
	suite.Contains(page.Body.String(), "Saved team Kano Pillars")
}

func (suite *ConsoleHandlerTestSuite) TestDeletePlayerNeedsConfirmation() {
	suite.assertRedirect(suite.as(adminEmail, http.MethodPost, "/console/players/"+suite.ada.ID.String()+"/delete", url.Values{}))

	page := suite.as(adminEmail, http.MethodGet, "/console", nil)
	suite.Contains(page.Body.String(), "Delete Ada Obi?")
	_, stillThere := suite.records.player("Ada Obi")
	suite.True(stillThere)

	suite.assertRedirect(suite.as(adminEmail, http.MethodPost, "/console/delete/confirm", url.Values{}))
	_, stillThere = suite.records.player("Ada Obi")
	suite.False(stillThere)
	suite.Contains(suite.as(adminEmail, http.MethodGet, "/console", nil).Body.String(), "Deleted player Ada Obi")
}

func (suite *ConsoleHandlerTestSuite) TestDeleteTeamWarnsAboutPlayers() {
	suite.assertRedirect(suite.as(adminEmail, http.MethodPost, "/console/teams/"+suite.enyimba.ID.String()+"/delete", url.Values{}))

	page := suite.as(adminEmail, http.MethodGet, "/console", nil)
	suite.Contains(page.Body.String(), "1 player(s) will become unattached")

	suite.assertRedirect(suite.as(adminEmail, http.MethodPost, "/console/delete/cancel", url.Values{}))
	suite.Equal(http.StatusConflict, suite.as(adminEmail, http.MethodPost, "/console/delete/confirm", url.Values{}).Code)
}

func (suite *ConsoleHandlerTestSuite) TestInvalidAndUnknownIDs() {
	suite.Equal(http.StatusBadRequest, suite.as(adminEmail, http.MethodPost, "/console/players/nope/edit", url.Values{}).Code)
	suite.Equal(http.StatusNotFound, suite.as(adminEmail, http.MethodPost, "/console/teams/"+uuid.New().String()+"/delete", url.Values{}).Code)
}

func (suite *ConsoleHandlerTestSuite) TestShowPlayer() {
	recorder := suite.as(scoutEmail, http.MethodGet, "/console/players/"+suite.ada.ID.String(), nil)

	suite.Equal(http.StatusOK, recorder.Code)
	suite.Contains(recorder.Body.String(), "Nigeria")
}

func (suite *ConsoleHandlerTestSuite) TestFilter() {
	suite.assertRedirect(suite.as(scoutEmail, http.MethodPost, "/console/filter", url.Values{"q": {"zzz"}}))

	page := suite.as(scoutEmail, http.MethodGet, "/console", nil)
	suite.Contains(page.Body.String(), "No players match.")
}

func (suite *ConsoleHandlerTestSuite) TestThemeToggleSetsCookie() {
	recorder := suite.as(scoutEmail, http.MethodPost, "/console/theme", url.Values{})

	suite.assertRedirect(recorder)
	var theme string
	for _, c := range recorder.Result().Cookies() {
		if c.Name == handlers.ThemeCookieName {
			theme = c.Value
		}
	}
	suite.Equal(string(roster.ThemeDark), theme)
}

func (suite *ConsoleHandlerTestSuite) TestRefreshFailure() {
	suite.records.failAll = true

	recorder := suite.as(adminEmail, http.MethodPost, "/console/refresh", url.Values{})

	suite.Equal(http.StatusBadGateway, recorder.Code)
	suite.Contains(recorder.Body.String(), "Ada Obi")
}

// TestConsoleHandlerTestSuite runs the test suite
func TestConsoleHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ConsoleHandlerTestSuite))
}
