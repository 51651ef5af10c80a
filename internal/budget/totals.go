package budget

import "bucketeer/internal/money"

// Derived aggregation over normalized state plus the expense ledger.
// Everything here is a pure function: no mutation, no persistence.
// Remaining amounts are signed; negative means over-allocated or
// over-spent, which is a flagged state rather than an error.

// Totals is the allocation-side summary of a snapshot.
type Totals struct {
	Breakdown map[string]money.Cents `json:"breakdown"`
	Income    money.Cents            `json:"income"`
	Allocated money.Cents            `json:"allocated"`
	Remaining money.Cents            `json:"remaining"`
}

// OverAllocated reports whether more is allocated than the income
// covers.
func (t Totals) OverAllocated() bool { return t.Remaining < 0 }

// Summary extends Totals with the spend side of the ledger.
type Summary struct {
	Totals
	TotalSpent money.Cents `json:"totalSpent"`
	Available  money.Cents `json:"available"`
}

// CategoryTotal sums the bucket amounts in one category.
func (s Snapshot) CategoryTotal(categoryID string) money.Cents {
	var total money.Cents
	for _, item := range s.Buckets[categoryID] {
		total += item.Amount
	}
	return total
}

// ComputeTotals derives income, allocated and remaining from a
// snapshot. Allocation only counts the three spending categories.
func ComputeTotals(s Snapshot) Totals {
	breakdown := make(map[string]money.Cents, len(Categories))
	for _, c := range Categories {
		breakdown[c.ID] = s.CategoryTotal(c.ID)
	}

	var allocated money.Cents
	for _, categoryID := range SpendingCategoryIDs {
		allocated += breakdown[categoryID]
	}

	income := breakdown[CategoryIncome]
	return Totals{
		Breakdown: breakdown,
		Income:    income,
		Allocated: allocated,
		Remaining: income - allocated,
	}
}

// TotalSpent sums every expense in the ledger.
func TotalSpent(ledger []Expense) money.Cents {
	var total money.Cents
	for _, e := range ledger {
		total += e.Amount
	}
	return total
}

// ComputeSummary derives the full allocation-plus-spend summary.
func ComputeSummary(s Snapshot, ledger []Expense) Summary {
	totals := ComputeTotals(s)
	spent := TotalSpent(ledger)
	return Summary{
		Totals:     totals,
		TotalSpent: spent,
		Available:  totals.Allocated - spent,
	}
}

// SpendByBucket groups ledger spend by bucket id. Expenses without a
// bucket reference are skipped.
func SpendByBucket(ledger []Expense) map[string]money.Cents {
	spend := make(map[string]money.Cents)
	for _, e := range ledger {
		if e.BucketID == "" {
			continue
		}
		spend[e.BucketID] += e.Amount
	}
	return spend
}

// SpendByCategory groups ledger spend by the expense's category
// snapshot. Spend with no category lands under CategoryUnknown.
func SpendByCategory(ledger []Expense) map[string]money.Cents {
	spend := make(map[string]money.Cents)
	for _, e := range ledger {
		categoryID := e.CategoryID
		if categoryID == "" {
			categoryID = CategoryUnknown
		}
		spend[categoryID] += e.Amount
	}
	return spend
}

// BucketRemaining is the bucket's allocation minus its recorded spend.
func BucketRemaining(b BucketView, spendByBucket map[string]money.Cents) money.Cents {
	return b.Amount - spendByBucket[b.ID]
}

// CategoryRemaining is the category's allocation minus the spend
// attributed to it.
func CategoryRemaining(s Snapshot, ledger []Expense, categoryID string) money.Cents {
	return s.CategoryTotal(categoryID) - SpendByCategory(ledger)[categoryID]
}
