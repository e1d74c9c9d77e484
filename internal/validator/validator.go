// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// categoryNameRegex matches names made of letters, digits and +_.- only,
// with no spaces. Length is checked separately via the max tag.
var categoryNameRegex = regexp.MustCompile(`^[A-Za-z0-9+_.-]+$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterCustomTypeFunc(decimalAsFloat, decimal.Decimal{})
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("category_name", validateCategoryName)
		_ = v.RegisterValidation("budget_period", validateBudgetPeriod)
	}
}

// decimalAsFloat presents decimal fields to the binding engine as float64 so
// the numeric tags (required, gt) apply to them. The engine's struct-typed
// fields otherwise skip value checks entirely, which would let a missing
// amount bind to zero and slip through. The conversion is used only for
// validation; the bound field keeps its exact decimal value.
func decimalAsFloat(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateCategoryName(fl validator.FieldLevel) bool {
	return categoryNameRegex.MatchString(fl.Field().String())
}

func validateBudgetPeriod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "daily", "weekly", "monthly", "yearly":
		return true
	}
	return false
}
