package roster

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"talentbase-backend/internal/database/models"
	apperrors "talentbase-backend/internal/errors"
	"talentbase-backend/internal/logger"

	"github.com/google/uuid"
)

// Persistence is the collaborator a console saves and deletes through
type Persistence interface {
	Source
	UpsertPlayer(ctx context.Context, player models.Player) (*models.Player, error)
	UpsertTeam(ctx context.Context, team models.Team) (*models.Team, error)
	DeletePlayer(ctx context.Context, id uuid.UUID) error
	DeleteTeam(ctx context.Context, id uuid.UUID) error
}

// Console is the state of one signed-in user's admin console. Every
// operation is one discrete user action. Collaborator calls run without
// holding the console lock; the busy flag rejects overlapping
// saves, deletes and refreshes.
type Console struct {
	store    *Store
	records  Persistence
	uploader Uploader
	viewer   Viewer
	now      func() time.Time

	busy atomic.Bool

	mu           sync.Mutex
	playerSel    Selection
	teamSel      Selection
	filter       Filter
	playerEditor *PlayerEditor
	teamEditor   *TeamEditor
	pending      *PendingDelete
	notices      []Notice
	theme        Theme
}

// NewConsole creates a console for viewer
func NewConsole(store *Store, records Persistence, uploader Uploader, viewer Viewer) *Console {
	return &Console{
		store:    store,
		records:  records,
		uploader: uploader,
		viewer:   viewer,
		now:      time.Now,
		theme:    ThemeLight,
	}
}

// Viewer returns who the console belongs to
func (c *Console) Viewer() Viewer { return c.viewer }

// Busy reports whether a save, delete or refresh is outstanding
func (c *Console) Busy() bool { return c.busy.Load() }

// PlayerSelection returns the player panel selection
func (c *Console) PlayerSelection() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerSel
}

// TeamSelection returns the team panel selection
func (c *Console) TeamSelection() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.teamSel
}

// Filter returns the current player filter
func (c *Console) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Pending returns the delete waiting for confirmation, if any
func (c *Console) Pending() *PendingDelete {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return nil
	}
	pd := *c.pending
	return &pd
}

// Theme returns the colour scheme
func (c *Console) Theme() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

func (c *Console) begin() error {
	if !c.busy.CompareAndSwap(false, true) {
		return apperrors.ErrBusy
	}
	return nil
}

func (c *Console) end() { c.busy.Store(false) }

func (c *Console) notify(level NoticeLevel, message string) {
	c.mu.Lock()
	c.notices = append(c.notices, Notice{Level: level, Message: message})
	c.mu.Unlock()
}

// fail records err as an error notice and returns it
func (c *Console) fail(err error) error {
	c.notify(NoticeError, apperrors.Message(err))
	return err
}

func (c *Console) requireAdmin(denied error) error {
	if !c.viewer.Admin {
		return c.fail(denied)
	}
	return nil
}

// Refresh reloads the shared store
func (c *Console) Refresh(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return c.fail(err)
	}
	defer c.end()

	if err := c.store.Reload(ctx); err != nil {
		logger.WithContext(ctx).WithError(err).Warn("Failed to refresh roster")
		return c.fail(err)
	}
	return nil
}

// SetFilter replaces the player filter
func (c *Console) SetFilter(query string, topOnly bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = Filter{Query: query, TopOnly: topOnly}
}

// CreatePlayer opens a blank player form
func (c *Console) CreatePlayer() error {
	if err := c.requireAdmin(apperrors.ErrEditDenied); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerSel = c.playerSel.Create()
	c.playerEditor = NewPlayerEditor(nil)
	c.playerEditor.now = c.now
	return nil
}

// CreateTeam opens a blank team form
func (c *Console) CreateTeam() error {
	if err := c.requireAdmin(apperrors.ErrEditDenied); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teamSel = c.teamSel.Create()
	c.teamEditor = NewTeamEditor(nil)
	c.teamEditor.now = c.now
	return nil
}

// ViewPlayer shows player id
func (c *Console) ViewPlayer(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerSel = c.playerSel.View(id)
	c.playerEditor = nil
}

// ViewTeam shows team id
func (c *Console) ViewTeam(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teamSel = c.teamSel.View(id)
	c.teamEditor = nil
}

// EditPlayer opens the edit form of player id
func (c *Console) EditPlayer(id uuid.UUID) error {
	if err := c.requireAdmin(apperrors.ErrEditDenied); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerSel = c.playerSel.Edit(id)
	if _, err := c.boundPlayerEditor(); err != nil {
		c.playerEditor = nil
	}
	return nil
}

// EditTeam opens the edit form of team id
func (c *Console) EditTeam(id uuid.UUID) error {
	if err := c.requireAdmin(apperrors.ErrEditDenied); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teamSel = c.teamSel.Edit(id)
	if _, err := c.boundTeamEditor(); err != nil {
		c.teamEditor = nil
	}
	return nil
}

// boundPlayerEditor returns the editor of the open player form, bound to
// the live record. Callers hold c.mu.
func (c *Console) boundPlayerEditor() (*PlayerEditor, error) {
	switch c.playerSel.Kind() {
	case SelectionNew:
		if c.playerEditor == nil || !c.playerEditor.IsNew() {
			c.playerEditor = NewPlayerEditor(nil)
			c.playerEditor.now = c.now
		}
	case SelectionEditing:
		id, _ := c.playerSel.ID()
		p, ok := c.store.Player(id)
		if !ok {
			return nil, apperrors.ErrPlayerNotFound
		}
		if c.playerEditor == nil {
			c.playerEditor = NewPlayerEditor(&p)
			c.playerEditor.now = c.now
		} else {
			c.playerEditor.Bind(&p)
		}
	default:
		return nil, apperrors.ErrNothingToSave
	}
	return c.playerEditor, nil
}

// boundTeamEditor is boundPlayerEditor for the team form
func (c *Console) boundTeamEditor() (*TeamEditor, error) {
	switch c.teamSel.Kind() {
	case SelectionNew:
		if c.teamEditor == nil || !c.teamEditor.IsNew() {
			c.teamEditor = NewTeamEditor(nil)
			c.teamEditor.now = c.now
		}
	case SelectionEditing:
		id, _ := c.teamSel.ID()
		t, ok := c.store.Team(id)
		if !ok {
			return nil, apperrors.ErrTeamNotFound
		}
		if c.teamEditor == nil {
			c.teamEditor = NewTeamEditor(&t)
			c.teamEditor.now = c.now
		} else {
			c.teamEditor.Bind(&t)
		}
	default:
		return nil, apperrors.ErrNothingToSave
	}
	return c.teamEditor, nil
}

// StagePlayer applies form values to the open player form. Either every
// field is applied or, on the first invalid one, none is.
// A nil photo keeps the file chosen earlier.
func (c *Console) StagePlayer(fields map[string]string, photo *Upload) error {
	if err := c.requireAdmin(apperrors.ErrEditDenied); err != nil {
		return err
	}
	if c.Busy() {
		return c.fail(apperrors.ErrBusy)
	}
	c.mu.Lock()
	editor, err := c.boundPlayerEditor()
	if err != nil {
		c.mu.Unlock()
		return c.fail(err)
	}
	trial := *editor
	for _, field := range sortedKeys(fields) {
		if err := trial.Set(field, fields[field]); err != nil {
			c.mu.Unlock()
			return c.fail(err)
		}
	}
	if photo != nil {
		trial.SetPhoto(photo)
	}
	*editor = trial
	c.mu.Unlock()
	return nil
}

// StageTeam applies form values to the open team form
func (c *Console) StageTeam(fields map[string]string, logo *Upload) error {
	if err := c.requireAdmin(apperrors.ErrEditDenied); err != nil {
		return err
	}
	if c.Busy() {
		return c.fail(apperrors.ErrBusy)
	}
	c.mu.Lock()
	editor, err := c.boundTeamEditor()
	if err != nil {
		c.mu.Unlock()
		return c.fail(err)
	}
	trial := *editor
	for _, field := range sortedKeys(fields) {
		if err := trial.Set(field, fields[field]); err != nil {
			c.mu.Unlock()
			return c.fail(err)
		}
	}
	if logo != nil {
		trial.SetLogo(logo)
	}
	*editor = trial
	c.mu.Unlock()
	return nil
}

// SavePlayer uploads the chosen photo, upserts the staged player and
// reloads the store. The form stays open with its staged values when
// any step before the upsert's success fails.
func (c *Console) SavePlayer(ctx context.Context) error {
	if err := c.requireAdmin(apperrors.ErrEditDenied); err != nil {
		return err
	}
	if err := c.begin(); err != nil {
		return c.fail(err)
	}
	defer c.end()

	c.mu.Lock()
	editor, err := c.boundPlayerEditor()
	if err != nil {
		c.mu.Unlock()
		return c.fail(err)
	}
	snapshot := *editor
	c.mu.Unlock()

	var stored *models.Player
	err = snapshot.Save(ctx, c.uploader, func(ctx context.Context, p models.Player) error {
		var upsertErr error
		stored, upsertErr = c.records.UpsertPlayer(ctx, p)
		return upsertErr
	})
	if err != nil {
		logger.WithContext(ctx).WithError(err).WithField("player_id", snapshot.ID()).Warn("Failed to save player")
		return c.fail(err)
	}

	reloadErr := c.store.Reload(ctx)

	c.mu.Lock()
	c.playerSel = c.playerSel.Saved(stored.ID)
	c.playerEditor = nil
	c.notices = append(c.notices, Notice{Level: NoticeInfo, Message: fmt.Sprintf("Saved player %s", stored.Name)})
	c.mu.Unlock()

	if reloadErr != nil {
		logger.WithContext(ctx).WithError(reloadErr).Warn("Saved player but failed to reload roster")
		return c.fail(reloadErr)
	}
	return nil
}

// SaveTeam uploads the chosen logo, upserts the staged team and reloads the store
func (c *Console) SaveTeam(ctx context.Context) error {
	if err := c.requireAdmin(apperrors.ErrEditDenied); err != nil {
		return err
	}
	if err := c.begin(); err != nil {
		return c.fail(err)
	}
	defer c.end()

	c.mu.Lock()
	editor, err := c.boundTeamEditor()
	if err != nil {
		c.mu.Unlock()
		return c.fail(err)
	}
	snapshot := *editor
	c.mu.Unlock()

	var stored *models.Team
	err = snapshot.Save(ctx, c.uploader, func(ctx context.Context, t models.Team) error {
		var upsertErr error
		stored, upsertErr = c.records.UpsertTeam(ctx, t)
		return upsertErr
	})
	if err != nil {
		logger.WithContext(ctx).WithError(err).WithField("team_id", snapshot.ID()).Warn("Failed to save team")
		return c.fail(err)
	}

	reloadErr := c.store.Reload(ctx)

	c.mu.Lock()
	c.teamSel = c.teamSel.Saved(stored.ID)
	c.teamEditor = nil
	c.notices = append(c.notices, Notice{Level: NoticeInfo, Message: fmt.Sprintf("Saved team %s", stored.Name)})
	c.mu.Unlock()

	if reloadErr != nil {
		logger.WithContext(ctx).WithError(reloadErr).Warn("Saved team but failed to reload roster")
		return c.fail(reloadErr)
	}
	return nil
}

// CancelPlayer closes the player panel and discards staged edits
func (c *Console) CancelPlayer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playerEditor != nil {
		c.playerEditor.Cancel()
		c.playerEditor = nil
	}
	c.playerSel = c.playerSel.Cancel()
}

// CancelTeam closes the team panel and discards staged edits
func (c *Console) CancelTeam() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.teamEditor != nil {
		c.teamEditor.Cancel()
		c.teamEditor = nil
	}
	c.teamSel = c.teamSel.Cancel()
}

// Clear closes both panels
func (c *Console) Clear() {
	c.CancelPlayer()
	c.CancelTeam()
}

// AskDelete opens the confirmation for deleting a record
func (c *Console) AskDelete(kind EntityKind, id uuid.UUID) error {
	if err := c.requireAdmin(apperrors.ErrDeleteDenied); err != nil {
		return err
	}
	switch kind {
	case KindPlayer:
		if _, ok := c.store.Player(id); !ok {
			return c.fail(apperrors.ErrPlayerNotFound)
		}
	case KindTeam:
		if _, ok := c.store.Team(id); !ok {
			return c.fail(apperrors.ErrTeamNotFound)
		}
	default:
		return c.fail(apperrors.NewValidationError("kind", fmt.Sprintf("unknown record kind %q", kind)))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = &PendingDelete{Kind: kind, ID: id}
	return nil
}

// CancelDelete drops the pending confirmation
func (c *Console) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
}

// ConfirmDelete executes the pending delete and reloads the store. The
// confirmation stays pending when the delete fails.
func (c *Console) ConfirmDelete(ctx context.Context) error {
	if err := c.requireAdmin(apperrors.ErrDeleteDenied); err != nil {
		return err
	}
	pd := c.Pending()
	if pd == nil {
		return c.fail(apperrors.ErrNoPendingDelete)
	}
	if err := c.begin(); err != nil {
		return c.fail(err)
	}
	defer c.end()

	var (
		err   error
		label string
	)
	switch pd.Kind {
	case KindPlayer:
		label = "player"
		if p, ok := c.store.Player(pd.ID); ok {
			label = "player " + p.Name
		}
		err = c.records.DeletePlayer(ctx, pd.ID)
	case KindTeam:
		label = "team"
		if t, ok := c.store.Team(pd.ID); ok {
			label = "team " + t.Name
		}
		err = c.records.DeleteTeam(ctx, pd.ID)
	}
	if err != nil {
		logger.WithContext(ctx).WithError(err).WithFields(map[string]interface{}{
			"kind": pd.Kind,
			"id":   pd.ID,
		}).Warn("Failed to delete record")
		return c.fail(err)
	}

	reloadErr := c.store.Reload(ctx)

	c.mu.Lock()
	c.pending = nil
	switch pd.Kind {
	case KindPlayer:
		if c.playerSel.Refers(pd.ID) {
			c.playerEditor = nil
		}
		c.playerSel = c.playerSel.Deleted(pd.ID)
	case KindTeam:
		if c.teamSel.Refers(pd.ID) {
			c.teamEditor = nil
		}
		c.teamSel = c.teamSel.Deleted(pd.ID)
	}
	c.notices = append(c.notices, Notice{Level: NoticeInfo, Message: "Deleted " + label})
	c.mu.Unlock()

	if reloadErr != nil {
		logger.WithContext(ctx).WithError(reloadErr).Warn("Deleted record but failed to reload roster")
		return c.fail(reloadErr)
	}
	return nil
}

// ToggleTheme switches between light and dark
func (c *Console) ToggleTheme() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.theme = c.theme.Toggle()
	return c.theme
}

// SetTheme restores a theme, e.g. from a cookie
func (c *Console) SetTheme(theme Theme) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.theme = ParseTheme(string(theme))
}

// View composes the console and drains the notices it shows
func (c *Console) View() View {
	players := c.store.Players()
	teams := c.store.Teams()

	c.mu.Lock()
	defer c.mu.Unlock()
	in := ViewInput{
		Players:         players,
		Teams:           teams,
		PlayerSelection: c.playerSel,
		TeamSelection:   c.teamSel,
		Filter:          c.filter,
		PlayerEditor:    c.playerEditor,
		TeamEditor:      c.teamEditor,
		Viewer:          c.viewer,
		PendingDelete:   c.pending,
		Busy:            c.busy.Load(),
		Notices:         c.notices,
		Theme:           c.theme,
		Now:             c.now(),
		LoadedAt:        c.store.LoadedAt(),
	}
	v := Compose(in)
	c.notices = nil
	return v
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
