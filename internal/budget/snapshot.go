package budget

import (
	"time"

	"bucketeer/internal/money"
)

// SortDirection is the persisted sort directive for a category.
// SortNone means the manual array order is authoritative.
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Theme is the persisted UI theme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Item is a named budget allocation ("bucket") within a category.
// Amounts are always positive; records that cannot be normalized to a
// positive amount are discarded at load time.
type Item struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Amount money.Cents `json:"amount"`
}

// Expense is a logged spend event against a bucket. The bucket name and
// category are denormalized onto the expense at creation so the record
// stays presentable after its bucket is deleted.
type Expense struct {
	ID         string      `json:"id"`
	Label      string      `json:"label"`
	Amount     money.Cents `json:"amount"`
	BucketID   string      `json:"bucketId"`
	BucketName string      `json:"bucketName"`
	CategoryID string      `json:"categoryId"`
	CreatedAt  string      `json:"createdAt"`
}

// Snapshot is the full persisted budget state: bucket items per
// category plus per-category view state and the theme preference. The
// expense ledger persists separately.
type Snapshot struct {
	Buckets map[string][]Item        `json:"buckets"`
	Open    map[string]bool          `json:"open"`
	Sort    map[string]SortDirection `json:"sort"`
	Theme   Theme                    `json:"theme"`
}

// NewSnapshot returns the default state: every category empty, income
// expanded and the rest collapsed, nothing sorted, light theme.
func NewSnapshot() Snapshot {
	s := Snapshot{
		Buckets: make(map[string][]Item, len(Categories)),
		Open:    make(map[string]bool, len(Categories)),
		Sort:    make(map[string]SortDirection),
		Theme:   ThemeLight,
	}
	for _, c := range Categories {
		s.Buckets[c.ID] = []Item{}
		s.Open[c.ID] = c.ID == CategoryIncome
	}
	return s
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Buckets: make(map[string][]Item, len(s.Buckets)),
		Open:    make(map[string]bool, len(s.Open)),
		Sort:    make(map[string]SortDirection, len(s.Sort)),
		Theme:   s.Theme,
	}
	for categoryID, items := range s.Buckets {
		out.Buckets[categoryID] = append([]Item(nil), items...)
	}
	for categoryID, open := range s.Open {
		out.Open[categoryID] = open
	}
	for categoryID, dir := range s.Sort {
		out.Sort[categoryID] = dir
	}
	return out
}

// FindItem returns the index of the item with the given id within a
// category, or -1.
func (s Snapshot) FindItem(categoryID, itemID string) int {
	for i, item := range s.Buckets[categoryID] {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

// SortFor returns the active sort directive for a category.
func (s Snapshot) SortFor(categoryID string) SortDirection {
	if s.Sort == nil {
		return SortNone
	}
	return s.Sort[categoryID]
}

// nowRFC3339 is the creation timestamp source, overridable in tests.
var nowRFC3339 = func() string {
	return time.Now().UTC().Format(time.RFC3339)
}
