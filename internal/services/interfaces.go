package services

import (
	"bucketeer/internal/budget"
	"bucketeer/internal/models"
	"bucketeer/internal/money"
	"bucketeer/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	ChangePlan(userID, planID string) (*models.User, error)
}

// CategoryView is one category of the board with its items and state.
type CategoryView struct {
	ID    string               `json:"id"`
	Title string               `json:"title"`
	Hint  string               `json:"hint"`
	Badge string               `json:"badge"`
	Open  bool                 `json:"open"`
	Sort  budget.SortDirection `json:"sort"`
	Total money.Cents          `json:"total"`
	Items []budget.Item        `json:"items"`
}

// BoardView is the full budget board: every category with its items,
// plus the derived totals and the theme preference.
type BoardView struct {
	Categories []CategoryView `json:"categories"`
	Totals     budget.Totals  `json:"totals"`
	Theme      budget.Theme   `json:"theme"`
}

// BudgetServicer defines the contract for budget-board business logic.
// Every call loads the caller's state, applies the operation, and
// persists before returning.
type BudgetServicer interface {
	GetBoard(userID string) (*BoardView, error)
	GetSummary(userID string) (*budget.Summary, error)
	ListBuckets(userID string) ([]budget.BucketView, error)

	AddItem(userID, categoryID, name string, amount float64) (*budget.Item, error)
	UpdateItem(userID, categoryID, itemID, name string, amount float64) (*budget.Item, error)
	DeleteItem(userID, categoryID, itemID string) error
	MoveItem(userID, categoryID, itemID string, dest int) error
	ToggleSort(userID, categoryID string) (budget.SortDirection, error)
	SetOpen(userID, categoryID string, open bool) error
	SetTheme(userID string, theme budget.Theme) error

	ListExpenses(userID string, page pagination.PageRequest) (*pagination.PageResponse[budget.Expense], error)
	AddExpense(userID, label string, amount float64, bucketID string) (*budget.Expense, error)
	UpdateExpense(userID, expenseID, label string, amount float64, bucketID string) (*budget.Expense, error)
	DeleteExpense(userID, expenseID string) error

	Import(userID, csvText string) error
	ExportCSV(userID string) (string, error)
	ExportXLSX(userID string) ([]byte, error)
}
