package handlers

import (
	"context"
	"net/http"
	"strconv"

	"talentbase-backend/internal/auth"
	apperrors "talentbase-backend/internal/errors"
	"talentbase-backend/internal/logger"
	"talentbase-backend/internal/roster"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ThemeCookieName keeps the console theme between sessions
const ThemeCookieName = "talentbase_theme"

const consolePath = "/console"

var (
	playerFormFields = []string{
		"first_name", "last_name", "date_of_birth", "nationality", "position",
		"agent", "market_value", "contract_until", "team_id", "photo_url",
	}
	teamFormFields = []string{"name", "stadium", "founded", "logo_url"}
)

// Authenticator signs console users up, in and out
type Authenticator interface {
	SignUp(ctx context.Context, email, password string) (*auth.Session, error)
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	SignOut(ctx context.Context, token string) error
}

// SessionCookies writes and clears the session cookie
type SessionCookies interface {
	SetSessionCookie(c *gin.Context, session *auth.Session)
	ClearSessionCookie(c *gin.Context)
}

// ConsoleHandler serves the server-rendered admin console. Every POST is
// one console action answered with a redirect to /console, or with the
// console re-rendered under the error's status when the action fails.
type ConsoleHandler struct {
	sessions   *roster.Sessions
	authn      Authenticator
	cookies    SessionCookies
	adminEmail string
	maxUpload  int64
}

// NewConsoleHandler creates a new console handler
func NewConsoleHandler(sessions *roster.Sessions, authn Authenticator, cookies SessionCookies, adminEmail string, maxUpload int64) *ConsoleHandler {
	return &ConsoleHandler{
		sessions:   sessions,
		authn:      authn,
		cookies:    cookies,
		adminEmail: adminEmail,
		maxUpload:  maxUpload,
	}
}

type consolePage struct {
	Theme roster.Theme
	View  roster.View
	Error string
}

type signinPage struct {
	Theme      roster.Theme
	Email      string
	Error      string
	AdminEmail string
}

func themeFromCookie(c *gin.Context) roster.Theme {
	value, _ := c.Cookie(ThemeCookieName)
	return roster.ParseTheme(value)
}

// console returns the signed-in user's console or redirects to the sign in page
func (h *ConsoleHandler) console(c *gin.Context) (*roster.Console, bool) {
	user, ok := auth.GetUser(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, consolePath)
		return nil, false
	}
	return h.consoleFor(c, user), true
}

func (h *ConsoleHandler) consoleFor(c *gin.Context, user *auth.User) *roster.Console {
	console := h.sessions.Get(user)
	if value, err := c.Cookie(ThemeCookieName); err == nil {
		console.SetTheme(roster.ParseTheme(value))
	}
	return console
}

func (h *ConsoleHandler) render(c *gin.Context, console *roster.Console, status int, message string) {
	c.HTML(status, "console.html", consolePage{
		Theme: console.Theme(),
		View:  console.View(),
		Error: message,
	})
}

func (h *ConsoleHandler) renderSignin(c *gin.Context, status int, email, message string) {
	c.HTML(status, "signin.html", signinPage{
		Theme:      themeFromCookie(c),
		Email:      email,
		Error:      message,
		AdminEmail: h.adminEmail,
	})
}

// finish answers a console action
func (h *ConsoleHandler) finish(c *gin.Context, console *roster.Console, err error) {
	if err == nil {
		c.Redirect(http.StatusSeeOther, consolePath)
		return
	}
	h.render(c, console, StatusFor(err), "")
}

// Show handles GET /console
func (h *ConsoleHandler) Show(c *gin.Context) {
	user, ok := auth.GetUser(c)
	if !ok {
		h.renderSignin(c, http.StatusOK, "", "")
		return
	}
	h.render(c, h.consoleFor(c, user), http.StatusOK, "")
}

// SignIn handles POST /console/signin
func (h *ConsoleHandler) SignIn(c *gin.Context) {
	h.startSession(c, h.authn.SignIn)
}

// SignUp handles POST /console/signup
func (h *ConsoleHandler) SignUp(c *gin.Context) {
	h.startSession(c, h.authn.SignUp)
}

func (h *ConsoleHandler) startSession(c *gin.Context, start func(ctx context.Context, email, password string) (*auth.Session, error)) {
	email := c.PostForm("email")
	session, err := start(c.Request.Context(), email, c.PostForm("password"))
	if err != nil {
		h.renderSignin(c, StatusFor(err), email, apperrors.Message(err))
		return
	}
	h.cookies.SetSessionCookie(c, session)
	c.Redirect(http.StatusSeeOther, consolePath)
}

// SignOut handles POST /console/signout
func (h *ConsoleHandler) SignOut(c *gin.Context) {
	if token := auth.TokenFromRequest(c); token != "" {
		if err := h.authn.SignOut(c.Request.Context(), token); err != nil {
			logger.WithContext(c.Request.Context()).WithError(err).Debug("sign out with an invalid session")
		}
	}
	h.cookies.ClearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, consolePath)
}

// Refresh handles POST /console/refresh
func (h *ConsoleHandler) Refresh(c *gin.Context) {
	console, ok := h.console(c)
	if !ok {
		return
	}
	h.finish(c, console, console.Refresh(c.Request.Context()))
}

// Filter handles POST /console/filter
func (h *ConsoleHandler) Filter(c *gin.Context) {
	console, ok := h.console(c)
	if !ok {
		return
	}
	topOnly, _ := strconv.ParseBool(c.PostForm("top"))
	console.SetFilter(c.PostForm("q"), topOnly)
	h.finish(c, console, nil)
}

// Theme handles POST /console/theme
func (h *ConsoleHandler) Theme(c *gin.Context) {
	console, ok := h.console(c)
	if !ok {
		return
	}
	theme := console.ToggleTheme()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ThemeCookieName, string(theme), 365*24*60*60, "/", "", false, true)
	h.finish(c, console, nil)
}

// Clear handles POST /console/clear
func (h *ConsoleHandler) Clear(c *gin.Context) {
	console, ok := h.console(c)
	if !ok {
		return
	}
	console.Clear()
	h.finish(c, console, nil)
}

func (h *ConsoleHandler) withID(c *gin.Context, kind roster.EntityKind, action func(*roster.Console, uuid.UUID) error) {
	console, ok := h.console(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.render(c, console, http.StatusBadRequest, "invalid "+string(kind)+" ID")
		return
	}
	h.finish(c, console, action(console, id))
}

// NewPlayer handles POST /console/players/new
func (h *ConsoleHandler) NewPlayer(c *gin.Context) {
	console, ok := h.console(c)
	if !ok {
		return
	}
	h.finish(c, console, console.CreatePlayer())
}

// ShowPlayer handles GET /console/players/:id
func (h *ConsoleHandler) ShowPlayer(c *gin.Context) {
	console, ok := h.console(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.render(c, console, http.StatusBadRequest, "invalid player ID")
		return
	}
	console.ViewPlayer(id)
	h.render(c, console, http.StatusOK, "")
}

// EditPlayer handles POST /console/players/:id/edit
func (h *ConsoleHandler) EditPlayer(c *gin.Context) {
	h.withID(c, roster.KindPlayer, (*roster.Console).EditPlayer)
}

// DeletePlayer handles POST /console/players/:id/delete. It only asks for confirmation.
func (h *ConsoleHandler) DeletePlayer(c *gin.Context) {
	h.withID(c, roster.KindPlayer, func(console *roster.Console, id uuid.UUID) error {
		return console.AskDelete(roster.KindPlayer, id)
	})
}

// SavePlayer handles POST /console/players/save
func (h *ConsoleHandler) SavePlayer(c *gin.Context) {
	console, ok := h.console(c)
	if !ok {
		return
	}

	fields := formValues(c, playerFormFields)
	fields["top_talent"] = c.PostForm("top_talent")
	if err := console.StagePlayer(fields, nil); err != nil {
		h.finish(c, console, err)
		return
	}

	photo, err := readUpload(c, "photo", h.maxUpload)
	if err != nil {
		h.render(c, console, StatusFor(err), apperrors.Message(err))
		return
	}
	if photo != nil {
		if err := console.StagePlayer(nil, photo); err != nil {
			h.finish(c, console, err)
			return
		}
	}

	h.finish(c, console, console.SavePlayer(c.Request.Context()))
}

// CancelPlayer handles POST /console/players/cancel
func (h *ConsoleHandler) CancelPlayer(c *gin.Context) {
	console, ok := h.console(c)
	if !ok {
		return
	}
	console.CancelPlayer()
	h.finish(c, console, nil)
}

// NewTeam handles POST /console/teams/new
func (h *ConsoleHandler) NewTeam(c *gin.Context) {
	console, ok := h.console(c)
	if !ok {
		return
	}
	h.finish(c, console, console.CreateTeam())
}

// ShowTeam handles GET /console/teams/:id
func (h *ConsoleHandler) ShowTeam(c *gin.Context) {
	console, ok := h.console(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.render(c, console, http.StatusBadRequest, "invalid team ID")
		return
	}
	console.ViewTeam(id)
	h.render(c, console, http.StatusOK, "")
}

// EditTeam handles POST /console/teams/:id/edit
func (h *ConsoleHandler) EditTeam(c *gin.Context) {
	h.withID(c, roster.KindTeam, (*roster.Console).EditTeam)
}

// DeleteTeam handles POST /console/teams/:id/delete. It only asks for confirmation.
func (h *ConsoleHandler) DeleteTeam(c *gin.Context) {
	h.withID(c, roster.KindTeam, func(console *roster.Console, id uuid.UUID) error {
		return console.AskDelete(roster.KindTeam, id)
	})
}

// SaveTeam handles POST /console/teams/save
func (h *ConsoleHandler) SaveTeam(c *gin.Context) {
	console, ok := h.console(c)
	if !ok {
		return
	}

	if err := console.StageTeam(formValues(c, teamFormFields), nil); err != nil {
		h.finish(c, console, err)
		return
	}

	logo, err := readUpload(c, "logo", h.maxUpload)
	if err != nil {
		h.render(c, console, StatusFor(err), apperrors.Message(err))
		return
	}
	if logo != nil {
		if err := console.StageTeam(nil, logo); err != nil {
			h.finish(c, console, err)
			return
		}
	}

	h.finish(c, console, console.SaveTeam(c.Request.Context()))
}

// CancelTeam handles POST /console/teams/cancel
func (h *ConsoleHandler) CancelTeam(c *gin.Context) {
	console, ok := h.console(c)
	if !ok {
		return
	}
	console.CancelTeam()
	h.finish(c, console, nil)
}

// ConfirmDelete handles POST /console/delete/confirm
func (h *ConsoleHandler) ConfirmDelete(c *gin.Context) {
	console, ok := h.console(c)
	if !ok {
		return
	}
	h.finish(c, console, console.ConfirmDelete(c.Request.Context()))
}

// CancelDelete handles POST /console/delete/cancel
func (h *ConsoleHandler) CancelDelete(c *gin.Context) {
	console, ok := h.console(c)
	if !ok {
		return
	}
	console.CancelDelete()
	h.finish(c, console, nil)
}

// formValues collects the submitted fields among names
func formValues(c *gin.Context, names []string) map[string]string {
	values := make(map[string]string, len(names)+1)
	for _, name := range names {
		if v, ok := c.GetPostForm(name); ok {
			values[name] = v
		}
	}
	return values
}
