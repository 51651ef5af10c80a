package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "bucketeer/internal/errors"
	"bucketeer/internal/pagination"
	"bucketeer/internal/services"
)

// ExpenseHandler handles spend-tracking requests.
type ExpenseHandler struct {
	budgetService services.BudgetServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(budgetService services.BudgetServicer) *ExpenseHandler {
	return &ExpenseHandler{budgetService: budgetService}
}

// ExpenseRequest represents the payload for creating or updating an expense.
type ExpenseRequest struct {
	Label    string  `json:"label" binding:"required,min=1,max=200"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	BucketID string  `json:"bucket_id" binding:"required"`
}

// ListExpenses returns the ledger newest first, paginated.
// @Summary     List expenses
// @Description Get a paginated list of expenses, newest first
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Items per page" default(20)
// @Success     200 {object} pagination.PageResponse[budget.Expense] "Expenses"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.budgetService.ListExpenses(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateExpense logs a spend event against a bucket.
// @Summary     Create expense
// @Description Log a spend event against a live or archived bucket
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ExpenseRequest true "Expense details"
// @Success     201 {object} budget.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Plan quota exceeded"
// @Failure     404 {object} ErrorResponse "Bucket not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.budgetService.AddExpense(userID, req.Label, req.Amount, req.BucketID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// UpdateExpense replaces an expense's label, amount and bucket.
// @Summary     Update expense
// @Description Update an expense's label, amount and bucket, preserving its creation time
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       expenseID path string true "Expense ID"
// @Param       request body ExpenseRequest true "Replacement details"
// @Success     200 {object} budget.Expense "Expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense or bucket not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{expenseID} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.budgetService.UpdateExpense(userID, c.Param("expenseID"), req.Label, req.Amount, req.BucketID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense removes an expense.
// @Summary     Delete expense
// @Description Delete an expense from the ledger
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       expenseID path string true "Expense ID"
// @Success     204 "Expense deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{expenseID} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteExpense(userID, c.Param("expenseID")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
