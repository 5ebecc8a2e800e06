// Package validation provides struct validation for service-layer inputs.
package validation

import (
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "moneyflow/internal/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// validCurrencies contains ISO 4217 currency codes.
var validCurrencies = map[string]bool{
	"AED": true, "AUD": true, "BRL": true, "CAD": true, "CHF": true,
	"CNY": true, "CZK": true, "DKK": true, "EUR": true, "GBP": true,
	"HKD": true, "HUF": true, "IDR": true, "ILS": true, "INR": true,
	"JPY": true, "KRW": true, "MXN": true, "MYR": true, "NOK": true,
	"NZD": true, "PHP": true, "PLN": true, "RON": true, "RUB": true,
	"SAR": true, "SEK": true, "SGD": true, "THB": true, "TRY": true,
	"TWD": true, "UAH": true, "USD": true, "VND": true, "ZAR": true,
}

// Engine returns the shared validator with all custom rules registered.
func Engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("iso4217", validateISO4217)
		_ = validate.RegisterValidation("transaction_type", validateTransactionType)
		_ = validate.RegisterValidation("category_type", validateCategoryType)
		_ = validate.RegisterValidation("account_type", validateAccountType)
		_ = validate.RegisterValidation("frequency", validateFrequency)
	})
	return validate
}

// Struct validates a service input struct and converts validator errors
// into an INVALID_INPUT AppError naming the first offending field.
func Struct(input any) error {
	if err := Engine().Struct(input); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return apperrors.WithMessage(apperrors.ErrInvalidInput,
				"invalid value for "+errs[0].Field())
		}
		return apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}
	return nil
}

func validateISO4217(fl validator.FieldLevel) bool {
	return validCurrencies[fl.Field().String()]
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense", "transfer":
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

func validateAccountType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "checking", "savings", "cash", "credit_card", "investment", "other":
		return true
	}
	return false
}

func validateFrequency(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "daily", "weekly", "monthly", "yearly":
		return true
	}
	return false
}
