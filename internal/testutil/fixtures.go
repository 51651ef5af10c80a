package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"bucketeer/internal/models"
	"bucketeer/internal/plans"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a Basic-plan user with a hashed password and
// unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Plan:     plans.PlanBasic,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBucket creates a bucket row in the given category.
func CreateTestBucket(t *testing.T, db *gorm.DB, userID, categoryID string, amountCents int64) *models.Bucket {
	t.Helper()

	bucket := &models.Bucket{
		UserID:      userID,
		CategoryID:  categoryID,
		Name:        fmt.Sprintf("Test Bucket %d", nextID()),
		AmountCents: amountCents,
	}
	if err := db.Create(bucket).Error; err != nil {
		t.Fatalf("failed to create test bucket: %v", err)
	}
	return bucket
}

// CreateTestExpense creates an expense row against the given bucket.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string, bucket *models.Bucket, amountCents int64) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		Label:       fmt.Sprintf("Test Expense %d", nextID()),
		AmountCents: amountCents,
		BucketID:    bucket.ID,
		BucketName:  bucket.Name,
		CategoryID:  bucket.CategoryID,
		SpentAt:     time.Now().UTC(),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
