package models

// User represents a registered account in the server variant.
type User struct {
	Base
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Plan      string `gorm:"not null;default:basic" json:"plan"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`
}
