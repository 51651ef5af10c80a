package store

import (
	"time"

	"gorm.io/gorm"

	"bucketeer/internal/budget"
	"bucketeer/internal/models"
	"bucketeer/internal/money"
)

// GormStore implements budget.Store over database rows scoped to one
// user: buckets carry an explicit position column for manual order,
// category states hold the open/sort view state, and expenses are the
// ledger. Saves replace the user's rows in one transaction, mirroring
// the whole-slot semantics of the local store.
type GormStore struct {
	db     *gorm.DB
	userID string
}

// NewGormStore returns a store over the given user's rows.
func NewGormStore(db *gorm.DB, userID string) *GormStore {
	return &GormStore{db: db, userID: userID}
}

// LoadSnapshot rebuilds the snapshot from bucket, state and preference
// rows. Rows for unknown categories are ignored.
func (g *GormStore) LoadSnapshot() (budget.Snapshot, error) {
	snap := budget.NewSnapshot()

	var buckets []models.Bucket
	if err := g.db.Where("user_id = ?", g.userID).
		Order("category_id, position").Find(&buckets).Error; err != nil {
		return budget.Snapshot{}, err
	}
	for _, row := range buckets {
		if !budget.IsValidCategory(row.CategoryID) {
			continue
		}
		snap.Buckets[row.CategoryID] = append(snap.Buckets[row.CategoryID], budget.Item{
			ID:     row.ID,
			Name:   row.Name,
			Amount: money.Cents(row.AmountCents),
		})
	}

	var states []models.CategoryState
	if err := g.db.Where("user_id = ?", g.userID).Find(&states).Error; err != nil {
		return budget.Snapshot{}, err
	}
	for _, row := range states {
		if !budget.IsValidCategory(row.CategoryID) {
			continue
		}
		snap.Open[row.CategoryID] = row.Open
		switch dir := budget.SortDirection(row.Sort); dir {
		case budget.SortAsc, budget.SortDesc:
			snap.Sort[row.CategoryID] = dir
		}
	}

	var pref models.Preference
	err := g.db.Where("user_id = ?", g.userID).First(&pref).Error
	if err == nil {
		switch theme := budget.Theme(pref.Theme); theme {
		case budget.ThemeLight, budget.ThemeDark:
			snap.Theme = theme
		}
	} else if err != gorm.ErrRecordNotFound {
		return budget.Snapshot{}, err
	}

	return snap, nil
}

// SaveSnapshot replaces the user's bucket, state and preference rows.
func (g *GormStore) SaveSnapshot(snap budget.Snapshot) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", g.userID).Delete(&models.Bucket{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", g.userID).Delete(&models.CategoryState{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", g.userID).Delete(&models.Preference{}).Error; err != nil {
			return err
		}

		var rows []models.Bucket
		for _, c := range budget.Categories {
			for position, item := range snap.Buckets[c.ID] {
				rows = append(rows, models.Bucket{
					Base:        models.Base{ID: item.ID},
					UserID:      g.userID,
					CategoryID:  c.ID,
					Name:        item.Name,
					AmountCents: int64(item.Amount),
					Position:    position,
				})
			}
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		var states []models.CategoryState
		for _, c := range budget.Categories {
			states = append(states, models.CategoryState{
				UserID:     g.userID,
				CategoryID: c.ID,
				Open:       snap.Open[c.ID],
				Sort:       string(snap.SortFor(c.ID)),
			})
		}
		if err := tx.Create(&states).Error; err != nil {
			return err
		}

		return tx.Create(&models.Preference{
			UserID: g.userID,
			Theme:  string(snap.Theme),
		}).Error
	})
}

// LoadExpenses rebuilds the ledger from expense rows in spend order.
func (g *GormStore) LoadExpenses() ([]budget.Expense, error) {
	var rows []models.Expense
	if err := g.db.Where("user_id = ?", g.userID).
		Order("spent_at, id").Find(&rows).Error; err != nil {
		return nil, err
	}

	ledger := make([]budget.Expense, 0, len(rows))
	for _, row := range rows {
		ledger = append(ledger, budget.Expense{
			ID:         row.ID,
			Label:      row.Label,
			Amount:     money.Cents(row.AmountCents),
			BucketID:   row.BucketID,
			BucketName: row.BucketName,
			CategoryID: row.CategoryID,
			CreatedAt:  row.SpentAt.UTC().Format(time.RFC3339),
		})
	}
	return ledger, nil
}

// SaveExpenses replaces the user's expense rows.
func (g *GormStore) SaveExpenses(ledger []budget.Expense) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("user_id = ?", g.userID).Delete(&models.Expense{}).Error; err != nil {
			return err
		}

		rows := make([]models.Expense, 0, len(ledger))
		for _, e := range ledger {
			spentAt, err := time.Parse(time.RFC3339, e.CreatedAt)
			if err != nil {
				spentAt = time.Now().UTC()
			}
			rows = append(rows, models.Expense{
				Base:        models.Base{ID: e.ID},
				UserID:      g.userID,
				Label:       e.Label,
				AmountCents: int64(e.Amount),
				BucketID:    e.BucketID,
				BucketName:  e.BucketName,
				CategoryID:  e.CategoryID,
				SpentAt:     spentAt,
			})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}
