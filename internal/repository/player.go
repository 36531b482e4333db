package repository

import (
	"context"

	"talentbase-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlayerRepository handles database operations for players
type PlayerRepository struct {
	db *gorm.DB
}

// NewPlayerRepository creates a new player repository
func NewPlayerRepository(db *gorm.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Create creates a new player
func (r *PlayerRepository) Create(ctx context.Context, player *models.Player) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(player).Error
}

// GetByID retrieves a player by ID
func (r *PlayerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	var player models.Player
	err := r.db.WithContext(ctx).First(&player, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// ListOrderedByName retrieves every player sorted by name ascending
func (r *PlayerRepository) ListOrderedByName(ctx context.Context) ([]models.Player, error) {
	var players []models.Player
	err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&players).Error
	return players, err
}

// Update updates a player
func (r *PlayerRepository) Update(ctx context.Context, player *models.Player) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(player).Error
}

// Delete deletes a player
func (r *PlayerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Player{}, "id = ?", id).Error
}
