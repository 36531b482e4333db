package models

// Position is a player's field position code
type Position string

const (
	PositionGoalkeeper        Position = "GK"
	PositionRightBack         Position = "RB"
	PositionLeftBack          Position = "LB"
	PositionCentreBack        Position = "CB"
	PositionCentralMidfield   Position = "CM"
	PositionRightMidfield     Position = "RM"
	PositionLeftMidfield      Position = "LM"
	PositionAttackingMidfield Position = "AM"
	PositionStriker           Position = "ST"
	PositionLeftWing          Position = "LW"
	PositionRightWing         Position = "RW"
)

// DefaultPosition is used when a new player has no position yet
const DefaultPosition = PositionCentralMidfield

// Positions lists every position in display order
var Positions = []Position{
	PositionGoalkeeper,
	PositionRightBack,
	PositionLeftBack,
	PositionCentreBack,
	PositionCentralMidfield,
	PositionRightMidfield,
	PositionLeftMidfield,
	PositionAttackingMidfield,
	PositionStriker,
	PositionLeftWing,
	PositionRightWing,
}

// IsValid checks if the Position is valid
func (p Position) IsValid() bool {
	for _, known := range Positions {
		if p == known {
			return true
		}
	}
	return false
}
