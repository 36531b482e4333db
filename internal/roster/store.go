package roster

import (
	"context"
	"sync"
	"time"

	"talentbase-backend/internal/database/models"
	apperrors "talentbase-backend/internal/errors"
	"talentbase-backend/internal/logger"

	"github.com/google/uuid"
)

// Source lists the records the Store mirrors, each ordered by name
type Source interface {
	ListPlayers(ctx context.Context) ([]models.Player, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
}

// Store holds the last loaded players and teams. It is shared by every
// console session and is only ever replaced wholesale by Reload.
type Store struct {
	source Source

	mu       sync.RWMutex
	players  []models.Player
	teams    []models.Team
	loadedAt time.Time
}

// NewStore creates an empty store backed by source
func NewStore(source Source) *Store {
	return &Store{source: source}
}

// Reload fetches both lists. On failure the previous lists stay in place.
func (s *Store) Reload(ctx context.Context) error {
	players, err := s.source.ListPlayers(ctx)
	if err != nil {
		return reloadError("list players", "could not load players", err)
	}
	teams, err := s.source.ListTeams(ctx)
	if err != nil {
		return reloadError("list teams", "could not load teams", err)
	}

	s.mu.Lock()
	s.players = players
	s.teams = teams
	s.loadedAt = time.Now()
	s.mu.Unlock()

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"players": len(players),
		"teams":   len(teams),
	}).Debug("roster reloaded")
	return nil
}

func reloadError(op, message string, err error) error {
	if apperrors.IsPersistence(err) {
		return err
	}
	return apperrors.NewPersistenceError(op, message, err)
}

// Players returns a copy of the players in name order
func (s *Store) Players() []models.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Player, len(s.players))
	for i, p := range s.players {
		out[i] = p.Clone()
	}
	return out
}

// Teams returns a copy of the teams in name order
func (s *Store) Teams() []models.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Team, len(s.teams))
	copy(out, s.teams)
	return out
}

// Player looks a player up by id
func (s *Store) Player(id uuid.UUID) (models.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.players {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return models.Player{}, false
}

// Team looks a team up by id
func (s *Store) Team(id uuid.UUID) (models.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.teams {
		if t.ID == id {
			return t, true
		}
	}
	return models.Team{}, false
}

// LoadedAt returns when the store was last reloaded successfully
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
