package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Player represents a player on the talent roster
type Player struct {
	BaseModel
	FirstName     string     `json:"first_name" gorm:"size:100" validate:"max=100"`
	LastName      string     `json:"last_name" gorm:"size:100" validate:"max=100"`
	Name          string     `json:"name" gorm:"not null;size:201;index" validate:"required,max=201"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty" gorm:"type:date"`
	Nationality   string     `json:"nationality" gorm:"size:100" validate:"max=100"`
	Position      Position   `json:"position" gorm:"type:varchar(2);not null;default:'CM'" validate:"required"`
	Agent         string     `json:"agent" gorm:"size:100" validate:"max=100"`
	MarketValue   float64    `json:"market_value" gorm:"not null;default:0" validate:"gte=0"`
	ContractUntil *time.Time `json:"contract_until,omitempty" gorm:"type:date"`
	TeamID        *uuid.UUID `json:"team_id" gorm:"type:uuid;index"`
	PhotoURL      string     `json:"photo_url,omitempty" gorm:"size:500" validate:"omitempty,public_url,max=500"`
	TopTalent     bool       `json:"top_talent" gorm:"not null;default:false;index"`

	// Relationships
	Team *Team `json:"team,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:SET NULL"`
}

// TableName returns the table name for Player
func (Player) TableName() string {
	return "players"
}

// DisplayName derives the player's name from first and last name
func DisplayName(firstName, lastName string) string {
	return strings.TrimSpace(firstName + " " + lastName)
}

// Clone returns a copy of p that shares no pointers with it
func (p Player) Clone() Player {
	out := p
	out.Team = nil
	if p.DateOfBirth != nil {
		dob := *p.DateOfBirth
		out.DateOfBirth = &dob
	}
	if p.ContractUntil != nil {
		until := *p.ContractUntil
		out.ContractUntil = &until
	}
	if p.TeamID != nil {
		teamID := *p.TeamID
		out.TeamID = &teamID
	}
	return out
}
