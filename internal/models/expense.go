package models

import "time"

// Expense is a persisted spend record. BucketName and CategoryID are
// denormalized snapshots taken at creation so the record stays
// presentable after its bucket is deleted; BucketID may reference a
// bucket that no longer exists.
type Expense struct {
	Base
	UserID      string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Label       string    `gorm:"not null" json:"label"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	BucketID    string    `gorm:"index" json:"bucket_id"`
	BucketName  string    `gorm:"not null;default:Unassigned" json:"bucket_name"`
	CategoryID  string    `json:"category_id"`
	SpentAt     time.Time `gorm:"not null" json:"spent_at"`
}
