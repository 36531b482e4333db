package repository

import (
	"context"

	"talentbase-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamRepository handles database operations for teams
type TeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create creates a new team
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

// GetByID retrieves a team by ID
func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := r.db.WithContext(ctx).First(&team, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// ListOrderedByName retrieves every team sorted by name ascending
func (r *TeamRepository) ListOrderedByName(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&teams).Error
	return teams, err
}

// Update updates a team
func (r *TeamRepository) Update(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Save(team).Error
}

// DeleteAndDetachPlayers clears the team reference of every player on the
// team and deletes the team in one transaction. It returns how many players
// were detached. A missing team yields gorm.ErrRecordNotFound.
func (r *TeamRepository) DeleteAndDetachPlayers(ctx context.Context, id uuid.UUID) (int64, error) {
	var detached int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Player{}).Where("team_id = ?", id).Update("team_id", nil)
		if res.Error != nil {
			return res.Error
		}
		detached = res.RowsAffected

		del := tx.Delete(&models.Team{}, "id = ?", id)
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return detached, nil
}

// CheckTeamExists checks if a team exists by ID
func (r *TeamRepository) CheckTeamExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Team{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
