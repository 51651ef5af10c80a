package services

import (
	"fmt"
	"strings"
	"testing"

	"bucketeer/internal/budget"
	"bucketeer/internal/models"
	"bucketeer/internal/pagination"
	"bucketeer/internal/plans"
	"bucketeer/internal/testutil"
)

func TestGetBoard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db)
	user := testutil.CreateTestUser(t, db)

	board, err := svc.GetBoard(user.ID)
	testutil.AssertNoError(t, err)
	if len(board.Categories) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(board.Categories))
	}
	if board.Categories[0].ID != budget.CategoryIncome || !board.Categories[0].Open {
		t.Errorf("income should be first and expanded: %+v", board.Categories[0])
	}
	if board.Theme != budget.ThemeLight {
		t.Errorf("expected light theme default, got %q", board.Theme)
	}

	_, err = svc.AddItem(user.ID, budget.CategoryIncome, "Salary", 2500)
	testutil.AssertNoError(t, err)
	_, err = svc.AddItem(user.ID, budget.CategoryFun, "Dining", 200)
	testutil.AssertNoError(t, err)

	board, err = svc.GetBoard(user.ID)
	testutil.AssertNoError(t, err)
	if board.Totals.Income != 250000 || board.Totals.Allocated != 20000 || board.Totals.Remaining != 230000 {
		t.Errorf("unexpected totals: %+v", board.Totals)
	}
	for _, cat := range board.Categories {
		if cat.ID == budget.CategoryFun {
			if cat.Total != 20000 || len(cat.Items) != 1 {
				t.Errorf("unexpected fun category: %+v", cat)
			}
			if !cat.Open {
				t.Error("adding an item should expand its category")
			}
		}
	}
}

func TestItemLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db)
	user := testutil.CreateTestUser(t, db)

	item, err := svc.AddItem(user.ID, budget.CategoryFun, "Dining", 200)
	testutil.AssertNoError(t, err)

	updated, err := svc.UpdateItem(user.ID, budget.CategoryFun, item.ID, "Dining out", 250)
	testutil.AssertNoError(t, err)
	if updated.ID != item.ID || updated.Amount != 25000 {
		t.Errorf("unexpected update: %+v", updated)
	}

	// State survives across service calls via the database.
	board, err := svc.GetBoard(user.ID)
	testutil.AssertNoError(t, err)
	for _, cat := range board.Categories {
		if cat.ID == budget.CategoryFun && (len(cat.Items) != 1 || cat.Items[0].Name != "Dining out") {
			t.Errorf("update did not persist: %+v", cat.Items)
		}
	}

	testutil.AssertNoError(t, svc.DeleteItem(user.ID, budget.CategoryFun, item.ID))
	buckets, err := svc.ListBuckets(user.ID)
	testutil.AssertNoError(t, err)
	if len(buckets) != 0 {
		t.Errorf("expected no buckets after delete, got %+v", buckets)
	}

	_, err = svc.UpdateItem(user.ID, budget.CategoryFun, item.ID, "X", 10)
	testutil.AssertAppError(t, err, "ITEM_NOT_FOUND")
}

func TestBucketQuota(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db)
	user := testutil.CreateTestUser(t, db)

	limit := plans.ByID(plans.PlanBasic).MaxBuckets
	for i := 0; i < limit; i++ {
		_, err := svc.AddItem(user.ID, budget.CategoryFun, "Bucket", 10)
		testutil.AssertNoError(t, err)
	}

	_, err := svc.AddItem(user.ID, budget.CategoryFun, "One too many", 10)
	testutil.AssertAppError(t, err, "QUOTA_EXCEEDED")

	// Upgrading lifts the cap.
	users := NewUserService(db)
	_, err = users.ChangePlan(user.ID, plans.PlanAdvanced)
	testutil.AssertNoError(t, err)
	_, err = svc.AddItem(user.ID, budget.CategoryFun, "Now it fits", 10)
	testutil.AssertNoError(t, err)
}

func TestSortAndMove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db)
	user := testutil.CreateTestUser(t, db)

	travel, err := svc.AddItem(user.ID, budget.CategoryFun, "Travel", 300)
	testutil.AssertNoError(t, err)
	_, err = svc.AddItem(user.ID, budget.CategoryFun, "Dining", 100)
	testutil.AssertNoError(t, err)

	dir, err := svc.ToggleSort(user.ID, budget.CategoryFun)
	testutil.AssertNoError(t, err)
	if dir != budget.SortAsc {
		t.Errorf("first toggle should be ascending, got %q", dir)
	}

	board, err := svc.GetBoard(user.ID)
	testutil.AssertNoError(t, err)
	for _, cat := range board.Categories {
		if cat.ID == budget.CategoryFun {
			if cat.Sort != budget.SortAsc || cat.Items[0].Name != "Dining" {
				t.Errorf("sort did not persist: %+v", cat)
			}
		}
	}

	testutil.AssertNoError(t, svc.MoveItem(user.ID, budget.CategoryFun, travel.ID, 0))
	board, err = svc.GetBoard(user.ID)
	testutil.AssertNoError(t, err)
	for _, cat := range board.Categories {
		if cat.ID == budget.CategoryFun {
			if cat.Sort != budget.SortNone || cat.Items[0].Name != "Travel" {
				t.Errorf("manual move should clear the directive and persist order: %+v", cat)
			}
		}
	}
}

func TestExpenseLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db)
	user := testutil.CreateTestUser(t, db)

	bucket, err := svc.AddItem(user.ID, budget.CategoryFun, "Dining", 200)
	testutil.AssertNoError(t, err)

	expense, err := svc.AddExpense(user.ID, "Pizza night", 45.5, bucket.ID)
	testutil.AssertNoError(t, err)
	if expense.BucketName != "Dining" || expense.CategoryID != budget.CategoryFun {
		t.Errorf("expense should snapshot bucket fields: %+v", expense)
	}

	// Deleting the bucket keeps the history as an archived placeholder.
	testutil.AssertNoError(t, svc.DeleteItem(user.ID, budget.CategoryFun, bucket.ID))
	buckets, err := svc.ListBuckets(user.ID)
	testutil.AssertNoError(t, err)
	if len(buckets) != 1 || !buckets[0].Archived || buckets[0].Name != "Dining" {
		t.Errorf("expected archived placeholder, got %+v", buckets)
	}

	summary, err := svc.GetSummary(user.ID)
	testutil.AssertNoError(t, err)
	if summary.TotalSpent != 4550 {
		t.Errorf("expected total spent 4550, got %d", summary.TotalSpent)
	}

	updated, err := svc.UpdateExpense(user.ID, expense.ID, "Pizza", 40, bucket.ID)
	testutil.AssertNoError(t, err)
	if updated.Amount != 4000 || updated.CreatedAt != expense.CreatedAt {
		t.Errorf("unexpected update: %+v", updated)
	}

	testutil.AssertNoError(t, svc.DeleteExpense(user.ID, expense.ID))
	page, err := svc.ListExpenses(user.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 0 {
		t.Errorf("expected empty ledger, got %+v", page)
	}
}

func TestListExpensesPagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db)
	user := testutil.CreateTestUser(t, db)

	bucket, err := svc.AddItem(user.ID, budget.CategoryFun, "Dining", 500)
	testutil.AssertNoError(t, err)
	labels := []string{"First", "Second", "Third"}
	for _, label := range labels {
		_, err := svc.AddExpense(user.ID, label, 10, bucket.ID)
		testutil.AssertNoError(t, err)
	}

	page, err := svc.ListExpenses(user.ID, pagination.PageRequest{Page: 1, PageSize: 2})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 3 || page.TotalPages != 2 || len(page.Data) != 2 {
		t.Fatalf("unexpected page shape: %+v", page)
	}
	if page.Data[0].Label != "Third" {
		t.Errorf("expected newest first, got %+v", page.Data)
	}

	page, err = svc.ListExpenses(user.ID, pagination.PageRequest{Page: 2, PageSize: 2})
	testutil.AssertNoError(t, err)
	if len(page.Data) != 1 || page.Data[0].Label != "First" {
		t.Errorf("unexpected second page: %+v", page.Data)
	}
}

func TestExpenseQuota(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db)
	user := testutil.CreateTestUser(t, db)

	bucket, err := svc.AddItem(user.ID, budget.CategoryFun, "Dining", 500)
	testutil.AssertNoError(t, err)

	limit := plans.ByID(plans.PlanBasic).MaxExpenses
	for i := 0; i < limit; i++ {
		_, err := svc.AddExpense(user.ID, "Spend", 1, bucket.ID)
		testutil.AssertNoError(t, err)
	}
	_, err = svc.AddExpense(user.ID, "One too many", 1, bucket.ID)
	testutil.AssertAppError(t, err, "QUOTA_EXCEEDED")
}

func TestImportExport(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewBudgetService(db)
	user := testutil.CreateTestUser(t, db)

	csvText := strings.Join([]string{
		"category,label,amount",
		"income,Salary,2500",
		"fun,Dining,200",
	}, "\n")
	testutil.AssertNoError(t, svc.Import(user.ID, csvText))

	out, err := svc.ExportCSV(user.ID)
	testutil.AssertNoError(t, err)
	if !strings.Contains(out, "income,Salary,2500.00") || !strings.Contains(out, "fun,Dining,200.00") {
		t.Errorf("unexpected export: %q", out)
	}

	t.Run("bad_row_aborts", func(t *testing.T) {
		err := svc.Import(user.ID, "category,label,amount\nunknown_cat,Oops,10\n")
		testutil.AssertAppError(t, err, "IMPORT_FAILED")

		board, err := svc.GetBoard(user.ID)
		testutil.AssertNoError(t, err)
		if board.Totals.Income != 250000 {
			t.Error("failed import must leave prior state untouched")
		}
	})

	t.Run("oversized_import_rejected_without_writes", func(t *testing.T) {
		fresh := testutil.CreateTestUser(t, db)
		_, err := svc.AddItem(fresh.ID, budget.CategoryFun, "Dining", 200)
		testutil.AssertNoError(t, err)

		rows := []string{"category,label,amount"}
		for i := 0; i <= plans.ByID(plans.PlanBasic).MaxBuckets; i++ {
			rows = append(rows, fmt.Sprintf("fun,Bucket %d,10", i))
		}
		err = svc.Import(fresh.ID, strings.Join(rows, "\n"))
		testutil.AssertAppError(t, err, "QUOTA_EXCEEDED")

		// The rejection must happen before anything reaches the store:
		// the prior board survives row for row.
		var count int64
		if err := db.Model(&models.Bucket{}).Where("user_id = ?", fresh.ID).Count(&count).Error; err != nil {
			t.Fatalf("failed to count buckets: %v", err)
		}
		if count != 1 {
			t.Errorf("rejected import left %d bucket rows, want 1", count)
		}
		board, err := svc.GetBoard(fresh.ID)
		testutil.AssertNoError(t, err)
		if board.Totals.Allocated != 20000 {
			t.Errorf("rejected import changed the board: %+v", board.Totals)
		}
	})

	t.Run("xlsx_is_plan_gated", func(t *testing.T) {
		_, err := svc.ExportXLSX(user.ID)
		testutil.AssertAppError(t, err, "QUOTA_EXCEEDED")

		users := NewUserService(db)
		_, err = users.ChangePlan(user.ID, plans.PlanAdvanced)
		testutil.AssertNoError(t, err)

		data, err := svc.ExportXLSX(user.ID)
		testutil.AssertNoError(t, err)
		// XLSX files are zip archives.
		if len(data) < 4 || data[0] != 'P' || data[1] != 'K' {
			t.Errorf("expected a zip payload, got %d bytes", len(data))
		}
	})
}
