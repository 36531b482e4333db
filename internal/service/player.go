package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"talentbase-backend/internal/database/models"
	apperrors "talentbase-backend/internal/errors"
	"talentbase-backend/internal/logger"
	"talentbase-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlayerService handles business logic for players
type PlayerService struct {
	repo      repository.PlayerRepositoryInterface
	teamRepo  repository.TeamRepositoryInterface
	validator *validator.Validate
}

// NewPlayerService creates a new player service
func NewPlayerService(repo repository.PlayerRepositoryInterface, teamRepo repository.TeamRepositoryInterface, validator *validator.Validate) *PlayerService {
	return &PlayerService{
		repo:      repo,
		teamRepo:  teamRepo,
		validator: validator,
	}
}

// PlayerRequest is the JSON body used to create or update a player
type PlayerRequest struct {
	FirstName     string     `json:"first_name" example:"Ada"`
	LastName      string     `json:"last_name" example:"Obi"`
	DateOfBirth   string     `json:"date_of_birth,omitempty" example:"2004-03-14"`
	Nationality   string     `json:"nationality" example:"Nigeria"`
	Position      string     `json:"position,omitempty" example:"ST"`
	Agent         string     `json:"agent,omitempty"`
	MarketValue   float64    `json:"market_value" example:"25000000"`
	ContractUntil string     `json:"contract_until,omitempty" example:"2027-06-30"`
	TeamID        *uuid.UUID `json:"team_id,omitempty"`
	PhotoURL      string     `json:"photo_url,omitempty"`
	TopTalent     bool       `json:"top_talent"`
}

// ToPlayer converts the request into a player model with the given id
func (r *PlayerRequest) ToPlayer(id uuid.UUID) (models.Player, error) {
	dob, err := ParseDate("date_of_birth", r.DateOfBirth)
	if err != nil {
		return models.Player{}, err
	}
	until, err := ParseDate("contract_until", r.ContractUntil)
	if err != nil {
		return models.Player{}, err
	}
	return models.Player{
		BaseModel:     models.BaseModel{ID: id},
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		DateOfBirth:   dob,
		Nationality:   r.Nationality,
		Position:      models.Position(r.Position),
		Agent:         r.Agent,
		MarketValue:   r.MarketValue,
		ContractUntil: until,
		TeamID:        r.TeamID,
		PhotoURL:      r.PhotoURL,
		TopTalent:     r.TopTalent,
	}, nil
}

// ParseDate parses an optional YYYY-MM-DD value; empty means no date
func ParseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, apperrors.NewValidationError(field, "must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

// List returns every player ordered by name
func (s *PlayerService) List(ctx context.Context) ([]models.Player, error) {
	players, err := s.repo.ListOrderedByName(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list players", "could not load players", err)
	}
	return players, nil
}

// GetByID retrieves a player by ID
func (s *PlayerService) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	player, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPlayerNotFound
		}
		return nil, apperrors.NewPersistenceError("get player", "could not load player", err)
	}
	return player, nil
}

// Upsert inserts the player when it has no id and updates it otherwise.
// The derived name is recomputed from first and last name before storing.
func (s *PlayerService) Upsert(ctx context.Context, player models.Player) (*models.Player, error) {
	player.Team = nil
	player.Name = models.DisplayName(player.FirstName, player.LastName)
	if player.Position == "" {
		player.Position = models.DefaultPosition
	}
	if !player.Position.IsValid() {
		return nil, apperrors.NewValidationError("position", fmt.Sprintf("unknown position %q", player.Position))
	}
	if math.IsInf(player.MarketValue, 0) || math.IsNaN(player.MarketValue) {
		return nil, apperrors.NewValidationError("market_value", "must be a finite number")
	}
	if err := s.validator.Struct(&player); err != nil {
		return nil, validationError(err)
	}

	if player.TeamID != nil {
		exists, err := s.teamRepo.CheckTeamExists(ctx, *player.TeamID)
		if err != nil {
			return nil, apperrors.NewPersistenceError("check team", "could not verify team", err)
		}
		if !exists {
			return nil, apperrors.NewValidationError("team_id", "team does not exist")
		}
	}

	actor := logger.UserFromContext(ctx)
	log := logger.WithContext(ctx).WithField("player", player.Name)

	if player.IsNew() {
		player.CreatedBy = actor
		player.UpdatedBy = actor
		if err := s.repo.Create(ctx, &player); err != nil {
			log.WithError(err).Error("insert player failed")
			return nil, apperrors.NewPersistenceError("insert player", "could not save player "+player.Name, err)
		}
		log.WithField("player_id", player.ID).Info("player created")
		return &player, nil
	}

	existing, err := s.GetByID(ctx, player.ID)
	if err != nil {
		return nil, err
	}
	player.CreatedAt = existing.CreatedAt
	player.CreatedBy = existing.CreatedBy
	player.UpdatedBy = actor
	if err := s.repo.Update(ctx, &player); err != nil {
		log.WithError(err).WithField("player_id", player.ID).Error("update player failed")
		return nil, apperrors.NewPersistenceError("update player", "could not save player "+player.Name, err)
	}
	log.WithField("player_id", player.ID).Info("player updated")
	return &player, nil
}

// SetPhotoURL points the player's photo at url
func (s *PlayerService) SetPhotoURL(ctx context.Context, id uuid.UUID, url string) (*models.Player, error) {
	player, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	player.PhotoURL = url
	return s.Upsert(ctx, *player)
}

// Delete deletes a player
func (s *PlayerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		logger.WithContext(ctx).WithError(err).WithField("player_id", id).Error("delete player failed")
		return apperrors.NewPersistenceError("delete player", "could not delete player", err)
	}
	logger.WithContext(ctx).WithField("player_id", id).Info("player deleted")
	return nil
}
