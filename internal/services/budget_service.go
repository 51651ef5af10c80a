package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"bucketeer/internal/budget"
	apperrors "bucketeer/internal/errors"
	"bucketeer/internal/models"
	"bucketeer/internal/pagination"
	"bucketeer/internal/plans"
	"bucketeer/internal/store"
)

// budgetService handles budget-board business logic. Each call builds
// an engine over the caller's database rows, applies the operation and
// flushes, so requests never share in-memory state.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

func (s *budgetService) engine(userID string) (*budget.Engine, error) {
	e, err := budget.NewEngine(store.NewGormStore(s.db, userID))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return e, nil
}

// flush persists both slots and surfaces the failure, unlike the
// engine's own best-effort writes.
func (s *budgetService) flush(e *budget.Engine) error {
	if err := e.Flush(); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *budgetService) planFor(userID string) (plans.Plan, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return plans.Plan{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return plans.ByID(user.Plan), nil
}

// GetBoard returns the full board: every category with its items and
// view state, derived totals, and the theme preference.
func (s *budgetService) GetBoard(userID string) (*BoardView, error) {
	e, err := s.engine(userID)
	if err != nil {
		return nil, err
	}

	snap := e.Snapshot()
	board := &BoardView{
		Categories: make([]CategoryView, 0, len(budget.Categories)),
		Totals:     e.Totals(),
		Theme:      snap.Theme,
	}
	for _, c := range budget.Categories {
		items := snap.Buckets[c.ID]
		if items == nil {
			items = []budget.Item{}
		}
		board.Categories = append(board.Categories, CategoryView{
			ID:    c.ID,
			Title: c.Title,
			Hint:  c.Hint,
			Badge: c.Badge,
			Open:  snap.Open[c.ID],
			Sort:  snap.SortFor(c.ID),
			Total: snap.CategoryTotal(c.ID),
			Items: items,
		})
	}
	return board, nil
}

// GetSummary returns allocation totals plus ledger spend.
func (s *budgetService) GetSummary(userID string) (*budget.Summary, error) {
	e, err := s.engine(userID)
	if err != nil {
		return nil, err
	}
	summary := e.Summary()
	return &summary, nil
}

// ListBuckets returns the reconciled bucket list, archived placeholders
// included, for expense forms.
func (s *budgetService) ListBuckets(userID string) ([]budget.BucketView, error) {
	e, err := s.engine(userID)
	if err != nil {
		return nil, err
	}
	return e.Buckets(), nil
}

// AddItem appends a bucket item, enforcing the plan's bucket quota.
func (s *budgetService) AddItem(userID, categoryID, name string, amount float64) (*budget.Item, error) {
	e, err := s.engine(userID)
	if err != nil {
		return nil, err
	}

	plan, err := s.planFor(userID)
	if err != nil {
		return nil, err
	}
	if !plan.CanAddBucket(itemCount(e)) {
		return nil, apperrors.WithMessage(apperrors.ErrQuotaExceeded,
			fmt.Sprintf("the %s plan allows up to %d buckets", plan.Name, plan.MaxBuckets))
	}

	item, err := e.AddItem(categoryID, name, amount)
	if err != nil {
		return nil, err
	}
	if err := s.flush(e); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem replaces an item's name and amount in place.
func (s *budgetService) UpdateItem(userID, categoryID, itemID, name string, amount float64) (*budget.Item, error) {
	e, err := s.engine(userID)
	if err != nil {
		return nil, err
	}
	item, err := e.EditItem(categoryID, itemID, name, amount)
	if err != nil {
		return nil, err
	}
	if err := s.flush(e); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes an item; a missing item is not an error.
func (s *budgetService) DeleteItem(userID, categoryID, itemID string) error {
	e, err := s.engine(userID)
	if err != nil {
		return err
	}
	if err := e.DeleteItem(categoryID, itemID); err != nil {
		return err
	}
	return s.flush(e)
}

// MoveItem reorders an item to an insert-before index, dropping the
// category's sort directive.
func (s *budgetService) MoveItem(userID, categoryID, itemID string, dest int) error {
	e, err := s.engine(userID)
	if err != nil {
		return err
	}
	if err := e.MoveItem(categoryID, itemID, dest); err != nil {
		return err
	}
	return s.flush(e)
}

// ToggleSort advances the category's sort directive and applies it.
func (s *budgetService) ToggleSort(userID, categoryID string) (budget.SortDirection, error) {
	e, err := s.engine(userID)
	if err != nil {
		return budget.SortNone, err
	}
	dir, err := e.ToggleSort(categoryID)
	if err != nil {
		return budget.SortNone, err
	}
	if err := s.flush(e); err != nil {
		return budget.SortNone, err
	}
	return dir, nil
}

// SetOpen records a category's expanded/collapsed state.
func (s *budgetService) SetOpen(userID, categoryID string, open bool) error {
	e, err := s.engine(userID)
	if err != nil {
		return err
	}
	if err := e.SetOpen(categoryID, open); err != nil {
		return err
	}
	return s.flush(e)
}

// SetTheme records the theme preference.
func (s *budgetService) SetTheme(userID string, theme budget.Theme) error {
	e, err := s.engine(userID)
	if err != nil {
		return err
	}
	if err := e.SetTheme(theme); err != nil {
		return err
	}
	return s.flush(e)
}

// ListExpenses returns the ledger newest first, paginated.
func (s *budgetService) ListExpenses(userID string, page pagination.PageRequest) (*pagination.PageResponse[budget.Expense], error) {
	e, err := s.engine(userID)
	if err != nil {
		return nil, err
	}
	page.Defaults()

	ledger := e.Expenses()
	for i, j := 0, len(ledger)-1; i < j; i, j = i+1, j-1 {
		ledger[i], ledger[j] = ledger[j], ledger[i]
	}
	result := pagination.Slice(ledger, page)
	return &result, nil
}

// AddExpense logs a spend event, enforcing the plan's expense quota.
func (s *budgetService) AddExpense(userID, label string, amount float64, bucketID string) (*budget.Expense, error) {
	e, err := s.engine(userID)
	if err != nil {
		return nil, err
	}

	plan, err := s.planFor(userID)
	if err != nil {
		return nil, err
	}
	if !plan.CanAddExpense(len(e.Expenses())) {
		return nil, apperrors.WithMessage(apperrors.ErrQuotaExceeded,
			fmt.Sprintf("the %s plan allows up to %d expenses", plan.Name, plan.MaxExpenses))
	}

	expense, err := e.AddExpense(label, amount, bucketID)
	if err != nil {
		return nil, err
	}
	if err := s.flush(e); err != nil {
		return nil, err
	}
	return &expense, nil
}

// UpdateExpense replaces an expense's label, amount and bucket.
func (s *budgetService) UpdateExpense(userID, expenseID, label string, amount float64, bucketID string) (*budget.Expense, error) {
	e, err := s.engine(userID)
	if err != nil {
		return nil, err
	}
	expense, err := e.EditExpense(expenseID, label, amount, bucketID)
	if err != nil {
		return nil, err
	}
	if err := s.flush(e); err != nil {
		return nil, err
	}
	return &expense, nil
}

// DeleteExpense removes an expense; absence is a no-op.
func (s *budgetService) DeleteExpense(userID, expenseID string) error {
	e, err := s.engine(userID)
	if err != nil {
		return err
	}
	if err := e.DeleteExpense(expenseID); err != nil {
		return err
	}
	return s.flush(e)
}

// Import replaces all bucket items from delimited text, enforcing the
// bucket quota against the incoming state. Both the parse and the quota
// check run before any mutation: a rejected import leaves the stored
// board untouched.
func (s *budgetService) Import(userID, csvText string) error {
	payload, err := budget.ParseImport(csvText)
	if err != nil {
		return err
	}

	plan, err := s.planFor(userID)
	if err != nil {
		return err
	}
	if count := payload.ItemCount(); count > plan.MaxBuckets {
		return apperrors.WithMessage(apperrors.ErrQuotaExceeded,
			fmt.Sprintf("import has %d buckets but the %s plan allows %d", count, plan.Name, plan.MaxBuckets))
	}

	e, err := s.engine(userID)
	if err != nil {
		return err
	}
	e.ApplyImport(payload)
	return s.flush(e)
}

// ExportCSV serializes the board as delimited text.
func (s *budgetService) ExportCSV(userID string) (string, error) {
	e, err := s.engine(userID)
	if err != nil {
		return "", err
	}
	return e.ExportCSV(), nil
}

// ExportXLSX serializes the board as a spreadsheet, one row per item
// with a totals block below. Gated to plans with spreadsheet export.
func (s *budgetService) ExportXLSX(userID string) ([]byte, error) {
	plan, err := s.planFor(userID)
	if err != nil {
		return nil, err
	}
	if !plan.Export {
		return nil, apperrors.WithMessage(apperrors.ErrQuotaExceeded,
			fmt.Sprintf("the %s plan does not include spreadsheet export", plan.Name))
	}

	e, err := s.engine(userID)
	if err != nil {
		return nil, err
	}
	snap := e.Snapshot()

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Buckets"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	_ = f.SetColWidth(sheetName, "A", "A", 14)
	_ = f.SetColWidth(sheetName, "B", "B", 30)
	_ = f.SetColWidth(sheetName, "C", "C", 12)

	headers := []string{"Category", "Label", "Amount"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		_ = f.SetCellValue(sheetName, cell, header)
	}
	_ = f.SetCellStyle(sheetName, "A1", "C1", headerStyle)

	row := 2
	for _, c := range budget.Categories {
		for _, item := range snap.Buckets[c.ID] {
			_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), c.Title)
			_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), item.Name)
			_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), item.Amount.Decimal().InexactFloat64())
			row++
		}
	}

	summary := e.Summary()
	row++
	totals := []struct {
		label  string
		amount float64
	}{
		{"Income", summary.Income.Decimal().InexactFloat64()},
		{"Allocated", summary.Allocated.Decimal().InexactFloat64()},
		{"Remaining", summary.Remaining.Decimal().InexactFloat64()},
		{"Spent", summary.TotalSpent.Decimal().InexactFloat64()},
	}
	for _, t := range totals {
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), t.label)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), t.amount)
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return buf.Bytes(), nil
}

// itemCount counts live bucket items across all categories.
func itemCount(e *budget.Engine) int {
	count := 0
	for _, c := range budget.Categories {
		count += len(e.Items(c.ID))
	}
	return count
}
