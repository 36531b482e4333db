package service

import (
	"context"
	"errors"
	"time"

	"talentbase-backend/internal/database/models"
	apperrors "talentbase-backend/internal/errors"
	"talentbase-backend/internal/logger"
	"talentbase-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamService handles business logic for teams
type TeamService struct {
	repo      repository.TeamRepositoryInterface
	validator *validator.Validate
	now       func() time.Time
}

// NewTeamService creates a new team service
func NewTeamService(repo repository.TeamRepositoryInterface, validator *validator.Validate) *TeamService {
	return &TeamService{
		repo:      repo,
		validator: validator,
		now:       time.Now,
	}
}

// TeamRequest is the JSON body used to create or update a team
type TeamRequest struct {
	Name    string `json:"name" example:"Enyimba FC"`
	Stadium string `json:"stadium,omitempty" example:"Aba Township Stadium"`
	Founded int    `json:"founded,omitempty" example:"1976"`
	LogoURL string `json:"logo_url,omitempty"`
}

// ToTeam converts the request into a team model with the given id
func (r *TeamRequest) ToTeam(id uuid.UUID) models.Team {
	return models.Team{
		BaseModel: models.BaseModel{ID: id},
		Name:      r.Name,
		Stadium:   r.Stadium,
		Founded:   r.Founded,
		LogoURL:   r.LogoURL,
	}
}

// List returns every team ordered by name
func (s *TeamService) List(ctx context.Context) ([]models.Team, error) {
	teams, err := s.repo.ListOrderedByName(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list teams", "could not load teams", err)
	}
	return teams, nil
}

// GetByID retrieves a team by ID
func (s *TeamService) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	team, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, apperrors.NewPersistenceError("get team", "could not load team", err)
	}
	return team, nil
}

// Upsert inserts the team when it has no id and updates it otherwise
func (s *TeamService) Upsert(ctx context.Context, team models.Team) (*models.Team, error) {
	if err := s.validator.Struct(&team); err != nil {
		return nil, validationError(err)
	}
	if team.Founded > s.now().Year() {
		return nil, apperrors.NewValidationError("founded", "must not be in the future")
	}

	actor := logger.UserFromContext(ctx)
	log := logger.WithContext(ctx).WithField("team", team.Name)

	if team.IsNew() {
		team.CreatedBy = actor
		team.UpdatedBy = actor
		if err := s.repo.Create(ctx, &team); err != nil {
			log.WithError(err).Error("insert team failed")
			return nil, apperrors.NewPersistenceError("insert team", "could not save team "+team.Name, err)
		}
		log.WithField("team_id", team.ID).Info("team created")
		return &team, nil
	}

	existing, err := s.GetByID(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	team.CreatedAt = existing.CreatedAt
	team.CreatedBy = existing.CreatedBy
	team.UpdatedBy = actor
	if err := s.repo.Update(ctx, &team); err != nil {
		log.WithError(err).WithField("team_id", team.ID).Error("update team failed")
		return nil, apperrors.NewPersistenceError("update team", "could not save team "+team.Name, err)
	}
	log.WithField("team_id", team.ID).Info("team updated")
	return &team, nil
}

// SetLogoURL points the team's logo at url
func (s *TeamService) SetLogoURL(ctx context.Context, id uuid.UUID, url string) (*models.Team, error) {
	team, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	team.LogoURL = url
	return s.Upsert(ctx, *team)
}

// Delete deletes a team and clears the team reference of its players.
// It returns the number of players that were detached.
func (s *TeamService) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	detached, err := s.repo.DeleteAndDetachPlayers(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrTeamNotFound
		}
		logger.WithContext(ctx).WithError(err).WithField("team_id", id).Error("delete team failed")
		return 0, apperrors.NewPersistenceError("delete team", "could not delete team", err)
	}
	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"team_id":          id,
		"players_detached": detached,
	}).Info("team deleted")
	return detached, nil
}
