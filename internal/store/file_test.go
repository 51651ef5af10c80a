package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bucketeer/internal/budget"
	"bucketeer/internal/testutil"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}
	return fs, dir
}

func TestFileStoreSnapshot(t *testing.T) {
	t.Run("absent_slot_yields_defaults", func(t *testing.T) {
		fs, _ := newTestFileStore(t)
		snap, err := fs.LoadSnapshot()
		testutil.AssertNoError(t, err)
		if !snap.Open[budget.CategoryIncome] || snap.Theme != budget.ThemeLight {
			t.Errorf("unexpected defaults: %+v", snap)
		}
	})

	t.Run("round_trip", func(t *testing.T) {
		fs, _ := newTestFileStore(t)
		snap := budget.NewSnapshot()
		snap.Buckets[budget.CategoryFun] = []budget.Item{{ID: "f1", Name: "Dining", Amount: 20000}}
		snap.Theme = budget.ThemeDark
		testutil.AssertNoError(t, fs.SaveSnapshot(snap))

		loaded, err := fs.LoadSnapshot()
		testutil.AssertNoError(t, err)
		if len(loaded.Buckets[budget.CategoryFun]) != 1 || loaded.Theme != budget.ThemeDark {
			t.Errorf("snapshot did not round trip: %+v", loaded)
		}
	})

	t.Run("corrupt_slot_yields_defaults_without_overwrite", func(t *testing.T) {
		fs, dir := newTestFileStore(t)
		path := filepath.Join(dir, "budget-buckets-state-v1.json")
		if err := os.WriteFile(path, []byte("{definitely not json"), 0o644); err != nil {
			t.Fatalf("failed to plant corrupt slot: %v", err)
		}

		snap, err := fs.LoadSnapshot()
		testutil.AssertNoError(t, err)
		if len(snap.Buckets[budget.CategoryFun]) != 0 {
			t.Errorf("expected defaults, got %+v", snap)
		}

		// The broken payload is left in place for inspection; only the
		// next successful save replaces it.
		data, err := os.ReadFile(path)
		testutil.AssertNoError(t, err)
		if string(data) != "{definitely not json" {
			t.Error("corrupt slot must not be overwritten by a load")
		}
	})

	t.Run("damaged_records_self_heal", func(t *testing.T) {
		fs, dir := newTestFileStore(t)
		path := filepath.Join(dir, "budget-buckets-state-v1.json")
		legacy := `{"fun":[{"id":"f1","name":" Dining ","amount":200},{"id":"f2","name":"","amount":5}]}`
		if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
			t.Fatalf("failed to plant legacy slot: %v", err)
		}

		snap, err := fs.LoadSnapshot()
		testutil.AssertNoError(t, err)
		items := snap.Buckets[budget.CategoryFun]
		if len(items) != 1 || items[0].Name != "Dining" {
			t.Fatalf("expected healed items, got %+v", items)
		}

		// The slot was re-saved in the corrected wrapper shape.
		data, err := os.ReadFile(path)
		testutil.AssertNoError(t, err)
		if !strings.Contains(string(data), `"buckets"`) {
			t.Errorf("expected healed wrapper payload, got %s", data)
		}
		if strings.Contains(string(data), `" Dining "`) {
			t.Error("expected trimmed name in healed payload")
		}
	})
}

func TestFileStoreExpenses(t *testing.T) {
	t.Run("absent_slot_yields_empty_ledger", func(t *testing.T) {
		fs, _ := newTestFileStore(t)
		ledger, err := fs.LoadExpenses()
		testutil.AssertNoError(t, err)
		if len(ledger) != 0 {
			t.Errorf("expected empty ledger, got %+v", ledger)
		}
	})

	t.Run("round_trip", func(t *testing.T) {
		fs, _ := newTestFileStore(t)
		ledger := []budget.Expense{{
			ID: "e1", Label: "Coffee", Amount: 450,
			BucketID: "b1", BucketName: "Fun money", CategoryID: budget.CategoryFun,
			CreatedAt: "2025-05-01T10:00:00Z",
		}}
		testutil.AssertNoError(t, fs.SaveExpenses(ledger))

		loaded, err := fs.LoadExpenses()
		testutil.AssertNoError(t, err)
		if len(loaded) != 1 || loaded[0] != ledger[0] {
			t.Errorf("ledger did not round trip: %+v", loaded)
		}
	})

	t.Run("invalid_entries_self_heal", func(t *testing.T) {
		fs, dir := newTestFileStore(t)
		path := filepath.Join(dir, "budget-expenses-v1.json")
		payload := `[{"id":"e1","label":"Coffee","amount":4.5,"bucketName":"Fun","createdAt":"2025-05-01T10:00:00Z"},{"label":""}]`
		if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
			t.Fatalf("failed to plant slot: %v", err)
		}

		ledger, err := fs.LoadExpenses()
		testutil.AssertNoError(t, err)
		if len(ledger) != 1 || ledger[0].ID != "e1" {
			t.Fatalf("expected healed ledger, got %+v", ledger)
		}

		data, err := os.ReadFile(path)
		testutil.AssertNoError(t, err)
		if strings.Contains(string(data), `"label":""`) {
			t.Error("expected dropped entry to be gone from the healed slot")
		}
	})
}
