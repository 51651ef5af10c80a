package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bucketeer/internal/budget"
	apperrors "bucketeer/internal/errors"
	"bucketeer/internal/services"
)

// BucketHandler handles budget-board requests: categories, bucket
// items, view state and import/export.
type BucketHandler struct {
	budgetService services.BudgetServicer
}

// NewBucketHandler creates a new BucketHandler.
func NewBucketHandler(budgetService services.BudgetServicer) *BucketHandler {
	return &BucketHandler{budgetService: budgetService}
}

// ItemRequest represents the payload for creating or updating a bucket item.
type ItemRequest struct {
	Name   string  `json:"name" binding:"required,min=1,max=200"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// MoveItemRequest represents the payload for reordering a bucket item.
type MoveItemRequest struct {
	Dest *int `json:"dest" binding:"required,min=0"`
}

// SetOpenRequest represents the payload for expanding or collapsing a category.
type SetOpenRequest struct {
	Open *bool `json:"open" binding:"required"`
}

// SetThemeRequest represents the payload for the theme preference.
type SetThemeRequest struct {
	Theme string `json:"theme" binding:"required,theme"`
}

// GetBoard returns the full budget board.
// @Summary     Get board
// @Description Get every category with its items, view state, derived totals and theme
// @Tags        board
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.BoardView "Budget board"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /board [get]
func (h *BucketHandler) GetBoard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	board, err := h.budgetService.GetBoard(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// GetSummary returns allocation totals plus ledger spend.
// @Summary     Get summary
// @Description Get income, allocated, remaining, total spent and available amounts
// @Tags        board
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} budget.Summary "Allocation and spend summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /summary [get]
func (h *BucketHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.budgetService.GetSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListBuckets returns the reconciled bucket list.
// @Summary     List buckets
// @Description List live buckets plus archived placeholders referenced by expenses
// @Tags        board
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} budget.BucketView "Reconciled buckets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /buckets [get]
func (h *BucketHandler) ListBuckets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	buckets, err := h.budgetService.ListBuckets(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"buckets": buckets})
}

// CreateItem adds a bucket item to a category.
// @Summary     Create bucket item
// @Description Add a bucket item to a category
// @Tags        items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       categoryID path string true "Category ID"
// @Param       request body ItemRequest true "Item details"
// @Success     201 {object} budget.Item "Item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Plan quota exceeded"
// @Failure     404 {object} ErrorResponse "Unknown category"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{categoryID}/items [post]
func (h *BucketHandler) CreateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.budgetService.AddItem(userID, c.Param("categoryID"), req.Name, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// UpdateItem replaces a bucket item's name and amount.
// @Summary     Update bucket item
// @Description Update a bucket item's name and amount, preserving its position
// @Tags        items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       categoryID path string true "Category ID"
// @Param       itemID path string true "Item ID"
// @Param       request body ItemRequest true "Replacement details"
// @Success     200 {object} budget.Item "Item updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{categoryID}/items/{itemID} [put]
func (h *BucketHandler) UpdateItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	item, err := h.budgetService.UpdateItem(userID, c.Param("categoryID"), c.Param("itemID"), req.Name, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteItem removes a bucket item.
// @Summary     Delete bucket item
// @Description Delete a bucket item; expenses recorded against it survive as archived history
// @Tags        items
// @Produce     json
// @Security    BearerAuth
// @Param       categoryID path string true "Category ID"
// @Param       itemID path string true "Item ID"
// @Success     204 "Item deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Unknown category"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{categoryID}/items/{itemID} [delete]
func (h *BucketHandler) DeleteItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteItem(userID, c.Param("categoryID"), c.Param("itemID")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MoveItem reorders a bucket item within its category.
// @Summary     Move bucket item
// @Description Move a bucket item to an insert-before index, switching the category to manual order
// @Tags        items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       categoryID path string true "Category ID"
// @Param       itemID path string true "Item ID"
// @Param       request body MoveItemRequest true "Destination index"
// @Success     200 {array} budget.Item "Items in new order"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{categoryID}/items/{itemID}/move [post]
func (h *BucketHandler) MoveItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.budgetService.MoveItem(userID, c.Param("categoryID"), c.Param("itemID"), *req.Dest); err != nil {
		respondWithError(c, err)
		return
	}

	board, err := h.budgetService.GetBoard(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// ToggleSort advances a category's sort directive.
// @Summary     Toggle category sort
// @Description Cycle the category's sort directive: manual to ascending, then between ascending and descending
// @Tags        items
// @Produce     json
// @Security    BearerAuth
// @Param       categoryID path string true "Category ID"
// @Success     200 {object} map[string]string "Resulting sort direction"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Unknown category"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{categoryID}/sort [post]
func (h *BucketHandler) ToggleSort(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dir, err := h.budgetService.ToggleSort(userID, c.Param("categoryID"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sort": dir})
}

// SetOpen expands or collapses a category.
// @Summary     Set category open state
// @Description Record whether a category is expanded or collapsed
// @Tags        items
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       categoryID path string true "Category ID"
// @Param       request body SetOpenRequest true "Open state"
// @Success     204 "State recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Unknown category"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{categoryID}/open [put]
func (h *BucketHandler) SetOpen(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetOpenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.budgetService.SetOpen(userID, c.Param("categoryID"), *req.Open); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetTheme records the theme preference.
// @Summary     Set theme
// @Description Record the light/dark theme preference
// @Tags        board
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetThemeRequest true "Theme"
// @Success     204 "Preference recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /preferences/theme [put]
func (h *BucketHandler) SetTheme(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.budgetService.SetTheme(userID, budget.Theme(req.Theme)); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Import replaces all bucket items from a CSV body.
// @Summary     Import buckets
// @Description Replace every category's items from CSV text; one bad row aborts the whole import
// @Tags        board
// @Accept      plain
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.BoardView "Board after import"
// @Failure     400 {object} ErrorResponse "Malformed CSV"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Plan quota exceeded"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /board/import [post]
func (h *BucketHandler) Import(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "unreadable request body"))
		return
	}

	if err := h.budgetService.Import(userID, string(body)); err != nil {
		respondWithError(c, err)
		return
	}

	board, err := h.budgetService.GetBoard(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// Export downloads the board as CSV or XLSX.
// @Summary     Export buckets
// @Description Download every bucket item as CSV, or as a spreadsheet on plans that include it
// @Tags        board
// @Produce     octet-stream
// @Security    BearerAuth
// @Param       format query string false "csv or xlsx" default(csv)
// @Success     200 {string} string "Exported file"
// @Failure     400 {object} ErrorResponse "Unknown format"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Plan quota exceeded"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /board/export [get]
func (h *BucketHandler) Export(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("buckets_%s", time.Now().Format("2006-01-02"))
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		out, err := h.budgetService.ExportCSV(userID)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		c.Data(http.StatusOK, "text/csv", []byte(out))
	case "xlsx":
		out, err := h.budgetService.ExportXLSX(userID)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", filename))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", out)
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "format must be csv or xlsx"))
	}
}
