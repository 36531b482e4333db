package models

// User is an account that can sign in to the admin console
type User struct {
	BaseModel
	Email        string `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email,max=255"`
	PasswordHash string `json:"-" gorm:"not null;size:100"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}
