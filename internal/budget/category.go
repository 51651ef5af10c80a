// Package budget implements the bucket-budget state engine: snapshot
// normalization and persistence, derived totals, reconciliation of
// expenses against deleted buckets, per-category ordering, and the
// mutation operations that tie them together.
package budget

// Category IDs. The taxonomy is fixed at process start; users never
// create or destroy categories.
const (
	CategoryIncome      = "income"
	CategoryFundamental = "fundamental"
	CategoryFuture      = "future"
	CategoryFun         = "fun"

	// CategoryUnknown is the sentinel spend bucket for expenses whose
	// category snapshot is empty.
	CategoryUnknown = "unknown"
)

// Category is one of the four fixed groupings a bucket belongs to.
type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Hint  string `json:"hint"`
	Badge string `json:"badge"`
}

// Categories lists the full taxonomy in display order. Income is first
// and is excluded from allocation math.
var Categories = []Category{
	{ID: CategoryIncome, Title: "Monthly Net Income", Hint: "Paychecks & deposits", Badge: "emerald"},
	{ID: CategoryFundamental, Title: "Fundamental", Hint: "Bills / rent / food", Badge: "sky"},
	{ID: CategoryFuture, Title: "Future", Hint: "Savings & goals", Badge: "amber"},
	{ID: CategoryFun, Title: "Fun", Hint: "Dining / travel / movie night", Badge: "pink"},
}

// SpendingCategoryIDs are the categories that count toward allocation.
var SpendingCategoryIDs = []string{CategoryFundamental, CategoryFuture, CategoryFun}

// CategoryByID returns the category definition for an id.
func CategoryByID(categoryID string) (Category, bool) {
	for _, c := range Categories {
		if c.ID == categoryID {
			return c, true
		}
	}
	return Category{}, false
}

// IsValidCategory reports whether categoryID names a known category.
func IsValidCategory(categoryID string) bool {
	_, ok := CategoryByID(categoryID)
	return ok
}

// CategoryTitle returns the display title for a category id, or
// "Uncategorized" when the id is empty or unknown.
func CategoryTitle(categoryID string) string {
	if c, ok := CategoryByID(categoryID); ok {
		return c.Title
	}
	return "Uncategorized"
}
