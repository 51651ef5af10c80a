package budget

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	apperrors "bucketeer/internal/errors"
	"bucketeer/internal/money"
)

// Delimited-text import/export of the full bucket state. The format is
// RFC 4180 CSV with a fixed header of category, label and amount
// columns (case-insensitive, any column order). Import replaces every
// category's items atomically: one malformed row aborts the whole
// import with a row-numbered error and prior state is untouched. Row
// numbers are 1-indexed counting the header as row 1; blank lines do
// not consume a row number.

// ImportPayload is a parsed full-replacement bucket state that has not
// been applied yet. Hosts can inspect it before committing, for example
// to run plan-quota checks without touching the live state.
type ImportPayload struct {
	buckets map[string][]Item
}

// ItemCount counts the items the payload would install across all
// categories.
func (p ImportPayload) ItemCount() int {
	count := 0
	for _, items := range p.buckets {
		count += len(items)
	}
	return count
}

// ParseImport reads csvText into an ImportPayload without touching any
// engine state.
func ParseImport(csvText string) (ImportPayload, error) {
	next, err := parseImport(csvText)
	if err != nil {
		return ImportPayload{}, err
	}
	return ImportPayload{buckets: next}, nil
}

// ImportCSV parses csvText and, when every row is valid, replaces all
// bucket items across all categories.
func (e *Engine) ImportCSV(csvText string) error {
	payload, err := ParseImport(csvText)
	if err != nil {
		return err
	}
	e.ApplyImport(payload)
	return nil
}

// ApplyImport replaces every category's items with the parsed payload.
// Categories left non-empty by the import are expanded, as is income.
func (e *Engine) ApplyImport(payload ImportPayload) {
	for _, c := range Categories {
		e.snap.Buckets[c.ID] = payload.buckets[c.ID]
		e.snap.Open[c.ID] = len(payload.buckets[c.ID]) > 0 || c.ID == CategoryIncome
		e.resortIfActive(c.ID)
	}
	e.activeEdit = nil
	e.persistSnapshot()
}

// ExportCSV serializes every bucket item as category,label,amount rows
// with two-decimal amounts, quoting per RFC 4180.
func (e *Engine) ExportCSV() string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	w.UseCRLF = true

	_ = w.Write([]string{"category", "label", "amount"})
	for _, c := range Categories {
		for _, item := range e.snap.Buckets[c.ID] {
			_ = w.Write([]string{c.ID, item.Name, item.Amount.String()})
		}
	}
	w.Flush()
	return sb.String()
}

// parseImport reads the delimited text into a full replacement state
// without touching the engine. All-or-nothing: the first malformed row
// fails the parse.
func parseImport(csvText string) (map[string][]Item, error) {
	r := csv.NewReader(strings.NewReader(csvText))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrImportFailed, "CSV file is empty.")
	}

	categoryIdx, labelIdx, amountIdx := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "category":
			categoryIdx = i
		case "label":
			labelIdx = i
		case "amount":
			amountIdx = i
		}
	}
	if categoryIdx < 0 || labelIdx < 0 || amountIdx < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrImportFailed, "CSV headers must include category, label, and amount.")
	}

	next := make(map[string][]Item, len(Categories))
	for _, c := range Categories {
		next[c.ID] = []Item{}
	}

	rowNumber := 1
	for {
		cells, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			rowNumber++
			return nil, apperrors.WithMessage(apperrors.ErrImportFailed,
				fmt.Sprintf("Malformed row %d.", rowNumber))
		}
		rowNumber++

		if allBlank(cells) {
			continue
		}

		categoryRaw := strings.TrimSpace(cell(cells, categoryIdx))
		categoryID := strings.ToLower(categoryRaw)
		label := strings.TrimSpace(cell(cells, labelIdx))

		if categoryID == "" || !IsValidCategory(categoryID) {
			return nil, apperrors.WithMessage(apperrors.ErrImportFailed,
				fmt.Sprintf("Unknown category %q on row %d.", categoryRaw, rowNumber))
		}
		if label == "" {
			return nil, apperrors.WithMessage(apperrors.ErrImportFailed,
				fmt.Sprintf("Missing label on row %d.", rowNumber))
		}
		amount, err := money.Parse(cell(cells, amountIdx))
		if err != nil || amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrImportFailed,
				fmt.Sprintf("Invalid amount on row %d.", rowNumber))
		}

		item, _, ok := NormalizeItem(map[string]any{"name": label, "amount": amount})
		if !ok {
			return nil, apperrors.WithMessage(apperrors.ErrImportFailed,
				fmt.Sprintf("Invalid item on row %d.", rowNumber))
		}
		next[categoryID] = append(next[categoryID], item)
	}

	return next, nil
}

func cell(cells []string, idx int) string {
	if idx < len(cells) {
		return cells[idx]
	}
	return ""
}

func allBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
