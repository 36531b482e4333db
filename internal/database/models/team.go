package models

// Team represents a club players can be attached to
type Team struct {
	BaseModel
	Name    string `json:"name" gorm:"not null;size:100;index" validate:"required,min=1,max=100"`
	Stadium string `json:"stadium" gorm:"size:100" validate:"max=100"`
	Founded int    `json:"founded,omitempty" validate:"omitempty,min=1800"`
	LogoURL string `json:"logo_url,omitempty" gorm:"size:500" validate:"omitempty,public_url,max=500"`
}

// TableName returns the table name for Team
func (Team) TableName() string {
	return "teams"
}
