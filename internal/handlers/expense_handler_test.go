package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"bucketeer/internal/budget"
	apperrors "bucketeer/internal/errors"
	"bucketeer/internal/pagination"
)

func setupExpenseRouter(handler *ExpenseHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("/", injectUserID(testUserID))
	auth.GET("/expenses", handler.ListExpenses)
	auth.POST("/expenses", handler.CreateExpense)
	auth.PUT("/expenses/:expenseID", handler.UpdateExpense)
	auth.DELETE("/expenses/:expenseID", handler.DeleteExpense)
	return r
}

func TestExpenseHandler_ListExpenses(t *testing.T) {
	t.Run("forwards pagination params", func(t *testing.T) {
		svc := &mockBudgetService{
			listExpensesFn: func(_ string, page pagination.PageRequest) (*pagination.PageResponse[budget.Expense], error) {
				if page.Page != 2 || page.PageSize != 5 {
					t.Errorf("unexpected page request: %+v", page)
				}
				return &pagination.PageResponse[budget.Expense]{
					Data:       []budget.Expense{{ID: "exp-1", Label: "Groceries", Amount: 4550}},
					TotalItems: 11,
					Page:       2,
					PageSize:   5,
					TotalPages: 3,
				}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc))
		rec := doRequest(r, "GET", "/expenses?page=2&page_size=5", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		items := result["data"].([]interface{})
		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
		if result["total_items"] != float64(11) {
			t.Errorf("unexpected response shape: %v", result)
		}
	})

	t.Run("returns 401 without user", func(t *testing.T) {
		r := gin.New()
		r.GET("/expenses", NewExpenseHandler(&mockBudgetService{}).ListExpenses)
		rec := doRequest(r, "GET", "/expenses", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestExpenseHandler_CreateExpense(t *testing.T) {
	t.Run("returns 201 with expense", func(t *testing.T) {
		svc := &mockBudgetService{
			addExpenseFn: func(_, label string, amount float64, bucketID string) (*budget.Expense, error) {
				if bucketID != "bucket-1" {
					t.Errorf("unexpected bucket: %s", bucketID)
				}
				return &budget.Expense{ID: "exp-1", Label: label, Amount: 4550, BucketID: bucketID}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc))
		rec := doRequest(r, "POST", "/expenses", `{"label":"Groceries","amount":45.50,"bucket_id":"bucket-1"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		expense := parseJSON(t, rec)["expense"].(map[string]interface{})
		if expense["label"] != "Groceries" || expense["amount"] != float64(4550) {
			t.Errorf("unexpected expense payload: %v", expense)
		}
	})

	t.Run("requires a bucket", func(t *testing.T) {
		r := setupExpenseRouter(NewExpenseHandler(&mockBudgetService{}))
		rec := doRequest(r, "POST", "/expenses", `{"label":"Groceries","amount":45.50}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("passes through bucket not found", func(t *testing.T) {
		svc := &mockBudgetService{
			addExpenseFn: func(_, _ string, _ float64, _ string) (*budget.Expense, error) {
				return nil, apperrors.ErrBucketNotFound
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc))
		rec := doRequest(r, "POST", "/expenses", `{"label":"Groceries","amount":45.50,"bucket_id":"nope"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUCKET_NOT_FOUND")
	})
}

func TestExpenseHandler_UpdateAndDelete(t *testing.T) {
	t.Run("update returns 200", func(t *testing.T) {
		svc := &mockBudgetService{
			updateExpenseFn: func(_, expenseID, label string, _ float64, _ string) (*budget.Expense, error) {
				return &budget.Expense{ID: expenseID, Label: label, Amount: 5000}, nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc))
		rec := doRequest(r, "PUT", "/expenses/exp-1", `{"label":"Petrol","amount":50,"bucket_id":"bucket-2"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		expense := parseJSON(t, rec)["expense"].(map[string]interface{})
		if expense["id"] != "exp-1" || expense["label"] != "Petrol" {
			t.Errorf("unexpected expense payload: %v", expense)
		}
	})

	t.Run("update passes through not found", func(t *testing.T) {
		svc := &mockBudgetService{
			updateExpenseFn: func(_, _, _ string, _ float64, _ string) (*budget.Expense, error) {
				return nil, apperrors.ErrExpenseNotFound
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc))
		rec := doRequest(r, "PUT", "/expenses/nope", `{"label":"Petrol","amount":50,"bucket_id":"bucket-2"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "EXPENSE_NOT_FOUND")
	})

	t.Run("delete returns 204", func(t *testing.T) {
		called := false
		svc := &mockBudgetService{
			deleteExpenseFn: func(_, expenseID string) error {
				called = true
				if expenseID != "exp-1" {
					t.Errorf("unexpected expense id: %s", expenseID)
				}
				return nil
			},
		}
		r := setupExpenseRouter(NewExpenseHandler(svc))
		rec := doRequest(r, "DELETE", "/expenses/exp-1", "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
		if !called {
			t.Error("expected DeleteExpense to be called")
		}
	})
}
