package budget

import (
	"strings"

	"bucketeer/internal/id"
	"bucketeer/internal/money"
)

// Normalization of raw persisted records. Payloads may come from older
// clients or have been edited by hand, so every field is treated as
// untyped until proven otherwise. The rules, in order:
//
//  1. nil records are rejected
//  2. the name/label is trimmed and must be non-empty
//  3. the amount must coerce to a finite positive value and is rounded
//     to cent precision, half away from zero
//  4. a missing or blank id is backfilled with a fresh one
//
// Normalizing an already-normalized record is a no-op.

// rawString extracts a string field from a loosely-typed record.
func rawString(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

// NormalizeItem validates and sanitizes a raw bucket record. It returns
// the normalized item, whether any field needed correction, and whether
// the record is salvageable at all.
func NormalizeItem(raw map[string]any) (Item, bool, bool) {
	if raw == nil {
		return Item{}, true, false
	}

	originalName := rawString(raw, "name")
	name := strings.TrimSpace(originalName)
	if name == "" {
		return Item{}, true, false
	}

	amount, ok := money.Coerce(raw["amount"])
	if !ok || amount <= 0 {
		return Item{}, true, false
	}

	itemID := rawString(raw, "id")
	changed := name != originalName || !amountExact(raw["amount"], amount)
	if strings.TrimSpace(itemID) == "" {
		itemID = id.New()
		changed = true
	}

	return Item{ID: itemID, Name: name, Amount: amount}, changed, true
}

// NormalizeExpense validates and sanitizes a raw expense record. Beyond
// the item rules it defaults the denormalized bucket fields: bucket
// name falls back to "Unassigned", category to empty, creation time to
// now.
func NormalizeExpense(raw map[string]any) (Expense, bool, bool) {
	if raw == nil {
		return Expense{}, true, false
	}

	originalLabel := rawString(raw, "label")
	label := strings.TrimSpace(originalLabel)
	if label == "" {
		return Expense{}, true, false
	}

	amount, ok := money.Coerce(raw["amount"])
	if !ok || amount <= 0 {
		return Expense{}, true, false
	}

	expenseID := rawString(raw, "id")
	changed := label != originalLabel || !amountExact(raw["amount"], amount)
	if strings.TrimSpace(expenseID) == "" {
		expenseID = id.New()
		changed = true
	}

	bucketName := strings.TrimSpace(rawString(raw, "bucketName"))
	if bucketName == "" {
		bucketName = "Unassigned"
		changed = true
	}

	createdAt := rawString(raw, "createdAt")
	if createdAt == "" {
		createdAt = nowRFC3339()
		changed = true
	}

	return Expense{
		ID:         expenseID,
		Label:      label,
		Amount:     amount,
		BucketID:   rawString(raw, "bucketId"),
		BucketName: bucketName,
		CategoryID: rawString(raw, "categoryId"),
		CreatedAt:  createdAt,
	}, changed, true
}

// amountExact reports whether the raw amount value already equals its
// normalized cent representation, i.e. rounding was a no-op.
func amountExact(raw any, normalized money.Cents) bool {
	d, ok := money.DecimalOf(raw)
	return ok && d.Equal(normalized.Decimal())
}
