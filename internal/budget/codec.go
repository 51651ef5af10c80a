package budget

import (
	"bytes"
	"encoding/json"
	"fmt"

	"bucketeer/internal/id"
)

// Snapshot and ledger wire codec. Two historical snapshot payloads are
// accepted: a bare category-id → item-array mapping, and the current
// wrapper object {buckets, open, sort, theme}. Decoding never fails on
// per-field damage: invalid records are dropped, invalid fields fall
// back to defaults, and the reported changed flag tells the store to
// re-save the corrected payload (self-healing persistence). Only a
// payload that is not JSON at all is an error.

// DecodeSnapshot parses a persisted snapshot payload. changed reports
// whether any record or wrapper field needed correction.
func DecodeSnapshot(data []byte) (Snapshot, bool, error) {
	snap := NewSnapshot()
	if len(bytes.TrimSpace(data)) == 0 {
		return snap, false, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return NewSnapshot(), false, fmt.Errorf("unparsable snapshot payload: %w", err)
	}

	root, ok := parsed.(map[string]any)
	if !ok {
		return NewSnapshot(), false, fmt.Errorf("snapshot payload is not an object")
	}

	bucketsSource, hasWrapper := root["buckets"].(map[string]any)
	changed := false
	if !hasWrapper {
		// Legacy shape: the whole object is the bucket mapping.
		bucketsSource = root
		changed = true
	}

	// Item ids must be unique across the whole snapshot; a duplicated
	// id (hand-edited slot, botched copy) gets re-minted so later
	// lookups cannot land on the wrong item.
	seenIDs := make(map[string]bool)
	for _, c := range Categories {
		rawList, _ := bucketsSource[c.ID].([]any)
		items := make([]Item, 0, len(rawList))
		for _, entry := range rawList {
			record, _ := entry.(map[string]any)
			item, corrected, ok := NormalizeItem(record)
			if !ok {
				changed = true
				continue
			}
			if corrected {
				changed = true
			}
			if seenIDs[item.ID] {
				item.ID = id.New()
				changed = true
			}
			seenIDs[item.ID] = true
			items = append(items, item)
		}
		snap.Buckets[c.ID] = items
	}

	openSource, hasOpen := root["open"].(map[string]any)
	if !hasWrapper || !hasOpen {
		changed = true
	}
	for _, c := range Categories {
		if v, present := openSource[c.ID]; present {
			if open, ok := v.(bool); ok {
				snap.Open[c.ID] = open
			} else {
				changed = true
			}
		}
	}

	sortSource, hasSort := root["sort"].(map[string]any)
	if hasWrapper && !hasSort {
		changed = true
	}
	for _, c := range Categories {
		v, present := sortSource[c.ID]
		if !present {
			continue
		}
		switch dir, _ := v.(string); SortDirection(dir) {
		case SortAsc, SortDesc:
			snap.Sort[c.ID] = SortDirection(dir)
		default:
			changed = true
		}
	}

	if v, present := root["theme"]; hasWrapper && present {
		switch theme, _ := v.(string); Theme(theme) {
		case ThemeLight, ThemeDark:
			snap.Theme = Theme(theme)
		default:
			changed = true
		}
	} else if hasWrapper {
		changed = true
	}

	return snap, changed, nil
}

// EncodeSnapshot serializes a snapshot in the wrapper shape. Map keys
// marshal in sorted order, so output is deterministic.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	// Persist every category key even when empty, and only active sort
	// directives.
	out := Snapshot{
		Buckets: make(map[string][]Item, len(Categories)),
		Open:    make(map[string]bool, len(Categories)),
		Sort:    make(map[string]SortDirection),
		Theme:   snap.Theme,
	}
	if out.Theme != ThemeLight && out.Theme != ThemeDark {
		out.Theme = ThemeLight
	}
	for _, c := range Categories {
		items := snap.Buckets[c.ID]
		if items == nil {
			items = []Item{}
		}
		out.Buckets[c.ID] = items

		if open, present := snap.Open[c.ID]; present {
			out.Open[c.ID] = open
		} else {
			out.Open[c.ID] = c.ID == CategoryIncome
		}

		if dir := snap.SortFor(c.ID); dir == SortAsc || dir == SortDesc {
			out.Sort[c.ID] = dir
		}
	}
	return json.Marshal(out)
}

// DecodeExpenses parses the persisted expense ledger. Invalid entries
// are dropped; changed reports whether any entry was dropped or
// corrected.
func DecodeExpenses(data []byte) ([]Expense, bool, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Expense{}, false, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return []Expense{}, false, fmt.Errorf("unparsable expense ledger: %w", err)
	}

	rawList, ok := parsed.([]any)
	if !ok {
		return []Expense{}, false, fmt.Errorf("expense ledger is not an array")
	}

	expenses := make([]Expense, 0, len(rawList))
	changed := false
	for _, entry := range rawList {
		record, _ := entry.(map[string]any)
		expense, corrected, ok := NormalizeExpense(record)
		if !ok {
			changed = true
			continue
		}
		if corrected {
			changed = true
		}
		expenses = append(expenses, expense)
	}
	return expenses, changed, nil
}

// EncodeExpenses serializes the expense ledger.
func EncodeExpenses(expenses []Expense) ([]byte, error) {
	if expenses == nil {
		expenses = []Expense{}
	}
	return json.Marshal(expenses)
}
