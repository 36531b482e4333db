package testutils

import (
	"fmt"
	"time"

	"talentbase-backend/internal/database/models"

	"github.com/google/uuid"
)

// TeamFactory provides methods to create test Team data
type TeamFactory struct{}

// NewTeamFactory creates a new TeamFactory
func NewTeamFactory() *TeamFactory {
	return &TeamFactory{}
}

// Create creates a test Team with default values and a fresh ID
func (f *TeamFactory) Create() *models.Team {
	return &models.Team{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:    "Enyimba FC",
		Stadium: "Aba Township Stadium",
		Founded: 1976,
	}
}

// New creates a test Team that has not been persisted yet
func (f *TeamFactory) New() *models.Team {
	team := f.Create()
	team.ID = uuid.Nil
	return team
}

// WithName sets a custom name for the team
func (f *TeamFactory) WithName(name string) *models.Team {
	team := f.Create()
	team.Name = name
	return team
}

// PlayerFactory provides methods to create test Player data
type PlayerFactory struct{}

// NewPlayerFactory creates a new PlayerFactory
func NewPlayerFactory() *PlayerFactory {
	return &PlayerFactory{}
}

// Create creates a test Player with default values and a fresh ID
func (f *PlayerFactory) Create() *models.Player {
	dob := time.Date(2004, time.March, 14, 0, 0, 0, 0, time.UTC)
	return &models.Player{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		FirstName:   "Ada",
		LastName:    "Obi",
		Name:        "Ada Obi",
		DateOfBirth: &dob,
		Nationality: "Nigeria",
		Position:    models.PositionStriker,
		MarketValue: 25000000,
	}
}

// New creates a test Player that has not been persisted yet
func (f *PlayerFactory) New() *models.Player {
	player := f.Create()
	player.ID = uuid.Nil
	return player
}

// WithName sets first and last name, keeping the derived name consistent
func (f *PlayerFactory) WithName(first, last string) *models.Player {
	player := f.Create()
	player.FirstName = first
	player.LastName = last
	player.Name = models.DisplayName(first, last)
	return player
}

// WithTeam attaches the player to a team
func (f *PlayerFactory) WithTeam(teamID uuid.UUID) *models.Player {
	player := f.Create()
	player.TeamID = &teamID
	return player
}

// TopTalent creates a player flagged as top talent
func (f *PlayerFactory) TopTalent(first, last, nationality string) *models.Player {
	player := f.WithName(first, last)
	player.Nationality = nationality
	player.TopTalent = true
	return player
}

// UserFactory provides methods to create test User data
type UserFactory struct {
	seq int
}

// NewUserFactory creates a new UserFactory
func NewUserFactory() *UserFactory {
	return &UserFactory{}
}

// Create creates a test User with a unique email and a placeholder hash
func (f *UserFactory) Create() *models.User {
	f.seq++
	return &models.User{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Email:        fmt.Sprintf("scout%d@nnl.test", f.seq),
		PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceholderplacehold",
	}
}

// WithEmail sets a custom email for the user
func (f *UserFactory) WithEmail(email string) *models.User {
	user := f.Create()
	user.Email = email
	return user
}

// FactorySet provides access to all factories
type FactorySet struct {
	Team   *TeamFactory
	Player *PlayerFactory
	User   *UserFactory
}

// NewFactorySet creates a new set of all factories
func NewFactorySet() *FactorySet {
	return &FactorySet{
		Team:   NewTeamFactory(),
		Player: NewPlayerFactory(),
		User:   NewUserFactory(),
	}
}
