package repository

import (
	"context"

	"talentbase-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

// PlayerRepositoryInterface defines the interface for player repository operations
type PlayerRepositoryInterface interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error)
	ListOrderedByName(ctx context.Context) ([]models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TeamRepositoryInterface defines the interface for team repository operations
type TeamRepositoryInterface interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	ListOrderedByName(ctx context.Context) ([]models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	DeleteAndDetachPlayers(ctx context.Context, id uuid.UUID) (int64, error)
	CheckTeamExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// UserRepositoryInterface defines the interface for user repository operations
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
