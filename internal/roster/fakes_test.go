package roster

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"talentbase-backend/internal/database/models"
	apperrors "talentbase-backend/internal/errors"

	"github.com/google/uuid"
)

var errDatabaseDown = errors.New("database down")

// fakeRecords is an in-memory persistence collaborator
type fakeRecords struct {
	mu      sync.Mutex
	players []models.Player
	teams   []models.Team
	calls   []string

	failList   bool
	failUpsert bool
	failDelete bool
	// block, when set, is waited on inside UpsertPlayer
	block chan struct{}
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{}
}

func (f *fakeRecords) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeRecords) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRecords) addTeam(name string) models.Team {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := models.Team{Name: name}
	t.ID = uuid.New()
	f.teams = append(f.teams, t)
	return t
}

func (f *fakeRecords) addPlayer(first, last string, mutate ...func(*models.Player)) models.Player {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := models.Player{
		FirstName: first,
		LastName:  last,
		Name:      models.DisplayName(first, last),
		Position:  models.DefaultPosition,
	}
	p.ID = uuid.New()
	for _, m := range mutate {
		m(&p)
	}
	f.players = append(f.players, p)
	return p.Clone()
}

// removePlayer deletes a player behind the console's back
func (f *fakeRecords) removePlayer(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.players {
		if p.ID == id {
			f.players = append(f.players[:i], f.players[i+1:]...)
			return
		}
	}
}

func (f *fakeRecords) ListPlayers(ctx context.Context) ([]models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListPlayers")
	if f.failList {
		return nil, errDatabaseDown
	}
	out := make([]models.Player, len(f.players))
	for i, p := range f.players {
		out[i] = p.Clone()
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRecords) ListTeams(ctx context.Context) ([]models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListTeams")
	if f.failList {
		return nil, errDatabaseDown
	}
	out := append([]models.Team(nil), f.teams...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRecords) UpsertPlayer(ctx context.Context, player models.Player) (*models.Player, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpsertPlayer")
	if f.failUpsert {
		return nil, apperrors.NewPersistenceError("upsert player", "could not save player "+player.Name, errDatabaseDown)
	}
	stored := player.Clone()
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
		f.players = append(f.players, stored)
		return &stored, nil
	}
	for i, p := range f.players {
		if p.ID == stored.ID {
			f.players[i] = stored
			return &stored, nil
		}
	}
	return nil, apperrors.ErrPlayerNotFound
}

func (f *fakeRecords) UpsertTeam(ctx context.Context, team models.Team) (*models.Team, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpsertTeam")
	if f.failUpsert {
		return nil, apperrors.NewPersistenceError("upsert team", "could not save team "+team.Name, errDatabaseDown)
	}
	stored := team
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
		f.teams = append(f.teams, stored)
		return &stored, nil
	}
	for i, t := range f.teams {
		if t.ID == stored.ID {
			f.teams[i] = stored
			return &stored, nil
		}
	}
	return nil, apperrors.ErrTeamNotFound
}

func (f *fakeRecords) DeletePlayer(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeletePlayer")
	if f.failDelete {
		return apperrors.NewPersistenceError("delete player", "could not delete player", errDatabaseDown)
	}
	for i, p := range f.players {
		if p.ID == id {
			f.players = append(f.players[:i], f.players[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrPlayerNotFound
}

func (f *fakeRecords) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTeam")
	if f.failDelete {
		return apperrors.NewPersistenceError("delete team", "could not delete team", errDatabaseDown)
	}
	for i, t := range f.teams {
		if t.ID == id {
			f.teams = append(f.teams[:i], f.teams[i+1:]...)
			for j := range f.players {
				if f.players[j].TeamID != nil && *f.players[j].TeamID == id {
					f.players[j].TeamID = nil
				}
			}
			return nil
		}
	}
	return apperrors.ErrTeamNotFound
}

// fakeUploader records uploads and returns a URL under /blobs
type fakeUploader struct {
	mu      sync.Mutex
	paths   []string
	removed []string
	fail    bool
}

func (u *fakeUploader) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.paths = append(u.paths, path)
	if u.fail {
		return "", errors.New("bucket unavailable")
	}
	return "https://cdn.test/" + path, nil
}

func (u *fakeUploader) Remove(ctx context.Context, path string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.removed = append(u.removed, path)
	return nil
}

func (u *fakeUploader) Removed() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.removed...)
}

func (u *fakeUploader) Paths() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.paths...)
}

func fixedClock() time.Time {
	return time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
}
