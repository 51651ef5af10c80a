// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"bucketeer/internal/budget"
	"bucketeer/internal/plans"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("category_id", validateCategoryID)
		_ = v.RegisterValidation("sort_direction", validateSortDirection)
		_ = v.RegisterValidation("theme", validateTheme)
		_ = v.RegisterValidation("plan", validatePlan)
		_ = v.RegisterValidation("export_format", validateExportFormat)
	}
}

func validateCategoryID(fl validator.FieldLevel) bool {
	return budget.IsValidCategory(fl.Field().String())
}

func validateSortDirection(fl validator.FieldLevel) bool {
	switch budget.SortDirection(fl.Field().String()) {
	case budget.SortNone, budget.SortAsc, budget.SortDesc:
		return true
	}
	return false
}

func validateTheme(fl validator.FieldLevel) bool {
	switch budget.Theme(fl.Field().String()) {
	case budget.ThemeLight, budget.ThemeDark:
		return true
	}
	return false
}

func validatePlan(fl validator.FieldLevel) bool {
	return plans.IsValid(fl.Field().String())
}

func validateExportFormat(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "csv", "xlsx":
		return true
	}
	return false
}
