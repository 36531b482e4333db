package service

import (
	"context"

	"talentbase-backend/internal/database/models"

	"github.com/google/uuid"
)

// RosterService is the persistence collaborator of the admin console.
// It exposes both entity services behind one set of roster operations.
type RosterService struct {
	players PlayerServiceInterface
	teams   TeamServiceInterface
}

// NewRosterService creates a new roster service
func NewRosterService(players PlayerServiceInterface, teams TeamServiceInterface) *RosterService {
	return &RosterService{players: players, teams: teams}
}

// ListPlayers returns every player ordered by name
func (s *RosterService) ListPlayers(ctx context.Context) ([]models.Player, error) {
	return s.players.List(ctx)
}

// ListTeams returns every team ordered by name
func (s *RosterService) ListTeams(ctx context.Context) ([]models.Team, error) {
	return s.teams.List(ctx)
}

// UpsertPlayer inserts or updates a player and returns the stored record
func (s *RosterService) UpsertPlayer(ctx context.Context, player models.Player) (*models.Player, error) {
	return s.players.Upsert(ctx, player)
}

// UpsertTeam inserts or updates a team and returns the stored record
func (s *RosterService) UpsertTeam(ctx context.Context, team models.Team) (*models.Team, error) {
	return s.teams.Upsert(ctx, team)
}

// DeletePlayer deletes a player
func (s *RosterService) DeletePlayer(ctx context.Context, id uuid.UUID) error {
	return s.players.Delete(ctx, id)
}

// DeleteTeam deletes a team; its players keep existing without a team
func (s *RosterService) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	_, err := s.teams.Delete(ctx, id)
	return err
}
