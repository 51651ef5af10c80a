package budget

import "bucketeer/internal/money"

// BucketView is the render-facing view of a bucket: a live item
// annotated with its category, or a synthesized placeholder for a
// bucket that no longer exists but still has ledger history.
type BucketView struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Amount        money.Cents `json:"amount"`
	CategoryID    string      `json:"categoryId"`
	CategoryTitle string      `json:"categoryTitle"`
	Archived      bool        `json:"archived"`
}

// FlattenBuckets lists every live bucket item across categories in
// display order.
func FlattenBuckets(s Snapshot) []BucketView {
	var list []BucketView
	for _, c := range Categories {
		for _, item := range s.Buckets[c.ID] {
			list = append(list, BucketView{
				ID:            item.ID,
				Name:          item.Name,
				Amount:        item.Amount,
				CategoryID:    c.ID,
				CategoryTitle: c.Title,
			})
		}
	}
	return list
}

// Reconcile appends an archived placeholder for every distinct bucket
// id referenced by the ledger but absent from the live list, so
// historical spend always resolves to a presentable bucket. The first
// expense seen for a missing id wins the name and category attribution.
// Re-running reconcile on its own output synthesizes nothing new.
func Reconcile(live []BucketView, ledger []Expense) []BucketView {
	known := make(map[string]bool, len(live))
	for _, b := range live {
		known[b.ID] = true
	}

	out := append([]BucketView(nil), live...)
	for _, e := range ledger {
		if e.BucketID == "" || known[e.BucketID] {
			continue
		}
		known[e.BucketID] = true

		name := e.BucketName
		if name == "" {
			name = "Archived bucket"
		}
		categoryID := e.CategoryID
		if categoryID == "" {
			categoryID = CategoryUnknown
		}
		out = append(out, BucketView{
			ID:            e.BucketID,
			Name:          name,
			Amount:        0,
			CategoryID:    categoryID,
			CategoryTitle: CategoryTitle(categoryID),
			Archived:      true,
		})
	}
	return out
}
