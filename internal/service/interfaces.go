package service

import (
	"context"

	"talentbase-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/service_mocks.go -package=mocks

// PlayerServiceInterface defines the interface for player service
type PlayerServiceInterface interface {
	List(ctx context.Context) ([]models.Player, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error)
	Upsert(ctx context.Context, player models.Player) (*models.Player, error)
	SetPhotoURL(ctx context.Context, id uuid.UUID, url string) (*models.Player, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TeamServiceInterface defines the interface for team service
type TeamServiceInterface interface {
	List(ctx context.Context) ([]models.Team, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	Upsert(ctx context.Context, team models.Team) (*models.Team, error)
	SetLogoURL(ctx context.Context, id uuid.UUID, url string) (*models.Team, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// StorageServiceInterface defines the interface for the upload service
type StorageServiceInterface interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, path string) error
}

// Compile-time checks
var (
	_ PlayerServiceInterface  = (*PlayerService)(nil)
	_ TeamServiceInterface    = (*TeamService)(nil)
	_ StorageServiceInterface = (*StorageService)(nil)
)
