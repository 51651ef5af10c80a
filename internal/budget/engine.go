package budget

import (
	"strings"

	apperrors "bucketeer/internal/errors"
	"bucketeer/internal/id"
	"bucketeer/internal/logger"
	"bucketeer/internal/money"
)

// Store persists the budget snapshot and the expense ledger. The local
// variant backs this with file-based key-value slots; the server
// variant backs it with database rows. The engine is written once
// against this interface.
type Store interface {
	LoadSnapshot() (Snapshot, error)
	SaveSnapshot(Snapshot) error
	LoadExpenses() ([]Expense, error)
	SaveExpenses([]Expense) error
}

// EditRef identifies an in-progress item edit in the host UI.
type EditRef struct {
	CategoryID string
	ItemID     string
}

// Engine owns the in-memory budget state for one session and is the
// only mutation path to it. Every operation applies to memory first,
// then persists, so in-memory and persisted state never diverge within
// an operation. Persistence failures are logged, not surfaced: memory
// stays authoritative and the next successful write reconciles storage.
//
// The engine is single-session by contract: operations run to
// completion synchronously and are never invoked concurrently.
type Engine struct {
	store      Store
	snap       Snapshot
	ledger     []Expense
	activeEdit *EditRef
}

// NewEngine loads state from the store and constructs an engine over
// it. A store read error is fatal to construction; per-record damage
// is not (the codec drops and heals it).
func NewEngine(s Store) (*Engine, error) {
	snap, err := s.LoadSnapshot()
	if err != nil {
		return nil, err
	}
	ledger, err := s.LoadExpenses()
	if err != nil {
		return nil, err
	}
	if ledger == nil {
		ledger = []Expense{}
	}
	return &Engine{store: s, snap: snap, ledger: ledger}, nil
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() Snapshot { return e.snap.Clone() }

// Expenses returns a copy of the current ledger.
func (e *Engine) Expenses() []Expense {
	return append([]Expense(nil), e.ledger...)
}

// Items returns a copy of one category's items in current order.
func (e *Engine) Items(categoryID string) []Item {
	return append([]Item(nil), e.snap.Buckets[categoryID]...)
}

// Buckets returns the reconciled bucket list: live items plus archived
// placeholders for ledger history whose bucket is gone.
func (e *Engine) Buckets() []BucketView {
	return Reconcile(FlattenBuckets(e.snap), e.ledger)
}

// Totals returns the allocation summary for the current state.
func (e *Engine) Totals() Totals { return ComputeTotals(e.snap) }

// Summary returns the full allocation-plus-spend summary.
func (e *Engine) Summary() Summary { return ComputeSummary(e.snap, e.ledger) }

// ActiveEdit returns the in-progress edit marker, if any.
func (e *Engine) ActiveEdit() *EditRef {
	if e.activeEdit == nil {
		return nil
	}
	ref := *e.activeEdit
	return &ref
}

// StartEdit marks an item as being edited and expands its category.
func (e *Engine) StartEdit(categoryID, itemID string) error {
	if !IsValidCategory(categoryID) {
		return apperrors.ErrUnknownCategory
	}
	if e.snap.FindItem(categoryID, itemID) < 0 {
		return apperrors.ErrItemNotFound
	}
	e.activeEdit = &EditRef{CategoryID: categoryID, ItemID: itemID}
	e.snap.Open[categoryID] = true
	return nil
}

// CancelEdit clears the in-progress edit marker.
func (e *Engine) CancelEdit() { e.activeEdit = nil }

// AddItem validates and appends a new bucket item, expands the
// category, and re-sorts when a directive is active.
func (e *Engine) AddItem(categoryID, name string, amount any) (Item, error) {
	if !IsValidCategory(categoryID) {
		return Item{}, apperrors.ErrUnknownCategory
	}
	item, ok := normalizeInput(name, amount)
	if !ok {
		return Item{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Item requires a name and a positive amount")
	}

	e.snap.Buckets[categoryID] = append(e.snap.Buckets[categoryID], item)
	e.snap.Open[categoryID] = true
	e.resortIfActive(categoryID)
	e.activeEdit = nil
	e.persistSnapshot()
	return item, nil
}

// EditItem replaces an item's name and amount in place, preserving its
// id and position, then re-sorts when a directive is active.
func (e *Engine) EditItem(categoryID, itemID, name string, amount any) (Item, error) {
	if !IsValidCategory(categoryID) {
		return Item{}, apperrors.ErrUnknownCategory
	}
	idx := e.snap.FindItem(categoryID, itemID)
	if idx < 0 {
		if e.isArchivedBucket(itemID) {
			return Item{}, apperrors.ErrBucketArchived
		}
		return Item{}, apperrors.ErrItemNotFound
	}
	replacement, ok := normalizeInput(name, amount)
	if !ok {
		return Item{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Item requires a name and a positive amount")
	}
	replacement.ID = itemID

	e.snap.Buckets[categoryID][idx] = replacement
	e.resortIfActive(categoryID)
	e.activeEdit = nil
	e.persistSnapshot()
	return replacement, nil
}

// DeleteItem removes an item if present. A missing item is a no-op,
// not an error, unless the id names an archived placeholder, which is
// not deletable as a bucket. Any in-progress edit of that item is
// cleared.
func (e *Engine) DeleteItem(categoryID, itemID string) error {
	if !IsValidCategory(categoryID) {
		return apperrors.ErrUnknownCategory
	}
	idx := e.snap.FindItem(categoryID, itemID)
	if idx < 0 {
		if e.isArchivedBucket(itemID) {
			return apperrors.ErrBucketArchived
		}
		return nil
	}

	items := e.snap.Buckets[categoryID]
	e.snap.Buckets[categoryID] = append(items[:idx], items[idx+1:]...)
	if e.activeEdit != nil && e.activeEdit.ItemID == itemID {
		e.activeEdit = nil
	}
	e.persistSnapshot()
	return nil
}

// ToggleSort advances the category's sort directive (unsorted → asc,
// asc ↔ desc) and applies it immediately.
func (e *Engine) ToggleSort(categoryID string) (SortDirection, error) {
	if !IsValidCategory(categoryID) {
		return SortNone, apperrors.ErrUnknownCategory
	}
	next := NextSortDirection(e.snap.SortFor(categoryID))
	e.snap.Sort[categoryID] = next
	sortItems(e.snap.Buckets[categoryID], next)
	e.persistSnapshot()
	return next, nil
}

// MoveItem moves an item to a destination insert-before index and
// clears the category's sort directive: after a manual move the array
// order is authoritative again. dest ranges from 0 to the category
// length inclusive, where the length means append; anything outside
// that is rejected, not clamped.
func (e *Engine) MoveItem(categoryID, itemID string, dest int) error {
	if !IsValidCategory(categoryID) {
		return apperrors.ErrUnknownCategory
	}
	from := e.snap.FindItem(categoryID, itemID)
	if from < 0 {
		return apperrors.ErrItemNotFound
	}
	if dest < 0 || dest > len(e.snap.Buckets[categoryID]) {
		return apperrors.ErrInvalidMove
	}

	e.snap.Buckets[categoryID] = moveItem(e.snap.Buckets[categoryID], from, dest)
	delete(e.snap.Sort, categoryID)
	e.persistSnapshot()
	return nil
}

// MoveItemUp moves an item one position toward the front.
func (e *Engine) MoveItemUp(categoryID, itemID string) error {
	return e.moveItemBy(categoryID, itemID, -1)
}

// MoveItemDown moves an item one position toward the back.
func (e *Engine) MoveItemDown(categoryID, itemID string) error {
	return e.moveItemBy(categoryID, itemID, 1)
}

func (e *Engine) moveItemBy(categoryID, itemID string, delta int) error {
	if !IsValidCategory(categoryID) {
		return apperrors.ErrUnknownCategory
	}
	from := e.snap.FindItem(categoryID, itemID)
	if from < 0 {
		return apperrors.ErrItemNotFound
	}

	// Translate the swap target into an insert-before destination.
	dest := from + delta
	if dest < 0 || dest >= len(e.snap.Buckets[categoryID]) {
		return nil
	}
	if delta > 0 {
		dest++
	}
	e.snap.Buckets[categoryID] = moveItem(e.snap.Buckets[categoryID], from, dest)
	delete(e.snap.Sort, categoryID)
	e.persistSnapshot()
	return nil
}

// SetOpen records a category's expanded/collapsed state.
func (e *Engine) SetOpen(categoryID string, open bool) error {
	if !IsValidCategory(categoryID) {
		return apperrors.ErrUnknownCategory
	}
	e.snap.Open[categoryID] = open
	e.persistSnapshot()
	return nil
}

// SetTheme records the theme preference.
func (e *Engine) SetTheme(theme Theme) error {
	if theme != ThemeLight && theme != ThemeDark {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Theme must be light or dark")
	}
	e.snap.Theme = theme
	e.persistSnapshot()
	return nil
}

// AddExpense validates and logs a spend event against a bucket. The
// bucket must resolve, live or archived; its name and category are
// snapshotted onto the expense so the record outlives the bucket.
func (e *Engine) AddExpense(label string, amount any, bucketID string) (Expense, error) {
	labelTrimmed, amountCents, ok := normalizeExpenseInput(label, amount)
	if !ok {
		return Expense{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Expense requires a label and a positive amount")
	}
	bucket, ok := e.resolveBucket(bucketID)
	if !ok {
		return Expense{}, apperrors.ErrBucketNotFound
	}

	expense := Expense{
		ID:         id.New(),
		Label:      labelTrimmed,
		Amount:     amountCents,
		BucketID:   bucket.ID,
		BucketName: bucket.Name,
		CategoryID: bucket.CategoryID,
		CreatedAt:  nowRFC3339(),
	}
	e.ledger = append(e.ledger, expense)
	e.persistLedger()
	return expense, nil
}

// EditExpense replaces an expense's label, amount and bucket, keeping
// its id and creation time. The new bucket reference must resolve.
func (e *Engine) EditExpense(expenseID, label string, amount any, bucketID string) (Expense, error) {
	idx := e.findExpense(expenseID)
	if idx < 0 {
		return Expense{}, apperrors.ErrExpenseNotFound
	}
	labelTrimmed, amountCents, ok := normalizeExpenseInput(label, amount)
	if !ok {
		return Expense{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "Expense requires a label and a positive amount")
	}
	bucket, ok := e.resolveBucket(bucketID)
	if !ok {
		return Expense{}, apperrors.ErrBucketNotFound
	}

	updated := e.ledger[idx]
	updated.Label = labelTrimmed
	updated.Amount = amountCents
	updated.BucketID = bucket.ID
	updated.BucketName = bucket.Name
	updated.CategoryID = bucket.CategoryID
	e.ledger[idx] = updated
	e.persistLedger()
	return updated, nil
}

// DeleteExpense removes an expense if present; absence is a no-op.
func (e *Engine) DeleteExpense(expenseID string) error {
	idx := e.findExpense(expenseID)
	if idx < 0 {
		return nil
	}
	e.ledger = append(e.ledger[:idx], e.ledger[idx+1:]...)
	e.persistLedger()
	return nil
}

// Flush writes both slots and returns the first persistence error, for
// hosts that need to surface it (teardown hooks, server requests).
func (e *Engine) Flush() error {
	if err := e.store.SaveSnapshot(e.snap); err != nil {
		return err
	}
	return e.store.SaveExpenses(e.ledger)
}

func (e *Engine) resortIfActive(categoryID string) {
	if dir := e.snap.SortFor(categoryID); dir != SortNone {
		sortItems(e.snap.Buckets[categoryID], dir)
	}
}

func (e *Engine) findExpense(expenseID string) int {
	for i, expense := range e.ledger {
		if expense.ID == expenseID {
			return i
		}
	}
	return -1
}

// resolveBucket looks an id up in the reconciled bucket list.
func (e *Engine) resolveBucket(bucketID string) (BucketView, bool) {
	if bucketID == "" {
		return BucketView{}, false
	}
	for _, b := range e.Buckets() {
		if b.ID == bucketID {
			return b, true
		}
	}
	return BucketView{}, false
}

// isArchivedBucket reports whether bucketID resolves only to an
// archived placeholder: no live item carries the id but ledger history
// still references it. Placeholders are not editable or deletable as
// buckets.
func (e *Engine) isArchivedBucket(bucketID string) bool {
	if bucketID == "" {
		return false
	}
	for _, c := range Categories {
		if e.snap.FindItem(c.ID, bucketID) >= 0 {
			return false
		}
	}
	for _, expense := range e.ledger {
		if expense.BucketID == bucketID {
			return true
		}
	}
	return false
}

// persistSnapshot writes the snapshot slot, best effort. In-memory
// state stays authoritative when the write fails.
func (e *Engine) persistSnapshot() {
	if err := e.store.SaveSnapshot(e.snap); err != nil {
		logger.Get().Warnw("unable to save budget snapshot", "error", err)
	}
}

// persistLedger writes the expense slot, best effort.
func (e *Engine) persistLedger() {
	if err := e.store.SaveExpenses(e.ledger); err != nil {
		logger.Get().Warnw("unable to save expense ledger", "error", err)
	}
}

// normalizeInput applies the item normalization rules to direct user
// input, minting a fresh id.
func normalizeInput(name string, amount any) (Item, bool) {
	item, _, ok := NormalizeItem(map[string]any{"name": name, "amount": amount})
	return item, ok
}

// normalizeExpenseInput trims and coerces direct expense input.
func normalizeExpenseInput(label string, amount any) (string, money.Cents, bool) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return "", 0, false
	}
	amountCents, ok := money.Coerce(amount)
	if !ok || amountCents <= 0 {
		return "", 0, false
	}
	return trimmed, amountCents, true
}
