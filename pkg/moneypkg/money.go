// Package moneypkg provides common money amount functionality for apps.
package moneypkg

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Places is the number of decimal places amounts are displayed with.
const Places = 2

// ErrExponent indicates an amount written in scientific notation.
var ErrExponent = errors.New("amount must not use exponent notation")

// Parse converts user input into an amount.
//
// Exponent notation is rejected: an exponent of a few digits already
// describes a number too large to add or format in reasonable time.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrExponent
	}

	return decimal.NewFromString(s)
}

// Format renders an amount for display.
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(Places)
}

// IsAmount returns true if s is a valid decimal amount.
func IsAmount(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// ValidAmount validates whether the field holds a decimal amount.
var ValidAmount validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return IsAmount(s)
	}
	return false
}
