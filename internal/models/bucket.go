package models

// Bucket is a persisted bucket item row. Position is the manual array
// order within the category; AmountCents keeps money integral in the
// database.
type Bucket struct {
	Base
	UserID      string `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID  string `gorm:"not null;index" json:"category_id"`
	Name        string `gorm:"not null" json:"name"`
	AmountCents int64  `gorm:"not null" json:"amount_cents"`
	Position    int    `gorm:"not null;default:0" json:"position"`
}

// CategoryState is the persisted per-category view state: expanded or
// collapsed, and the active sort directive ("" means manual order).
type CategoryState struct {
	Base
	UserID     string `gorm:"type:uuid;not null;uniqueIndex:idx_user_category" json:"user_id"`
	CategoryID string `gorm:"not null;uniqueIndex:idx_user_category" json:"category_id"`
	Open       bool   `gorm:"default:false" json:"open"`
	Sort       string `gorm:"default:''" json:"sort"`
}

// Preference stores per-user settings that live outside the bucket
// snapshot, currently just the theme.
type Preference struct {
	Base
	UserID string `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Theme  string `gorm:"not null;default:light" json:"theme"`
}
