package handlers

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var currencyPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// RegisterValidators installs the currency, money, weight and rate tags on gin's validator.
// decimal.Decimal fields are validated through their string form.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	if err := v.RegisterValidation("currency", validateCurrency); err != nil {
		return fmt.Errorf("register currency validator: %w", err)
	}
	if err := v.RegisterValidation("money", validateMoney); err != nil {
		return fmt.Errorf("register money validator: %w", err)
	}
	if err := v.RegisterValidation("weight", validateWeight); err != nil {
		return fmt.Errorf("register weight validator: %w", err)
	}
	if err := v.RegisterValidation("rate", validateRate); err != nil {
		return fmt.Errorf("register rate validator: %w", err)
	}
	return nil
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func validateCurrency(fl validator.FieldLevel) bool {
	return currencyPattern.MatchString(fl.Field().String())
}

// validateMoney accepts non-negative amounts with at most two decimals.
func validateMoney(fl validator.FieldLevel) bool {
	return nonNegativeWithPlaces(fl, 2)
}

// validateWeight accepts non-negative weights in kilograms down to the gram.
func validateWeight(fl validator.FieldLevel) bool {
	return nonNegativeWithPlaces(fl, 3)
}

// validateRate accepts exchange rates stored with six decimals.
func validateRate(fl validator.FieldLevel) bool {
	return nonNegativeWithPlaces(fl, 6)
}

func nonNegativeWithPlaces(fl validator.FieldLevel, places int32) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative() && d.Equal(d.Round(places))
}

// queryCurrency reads an optional currency query parameter, rendering 400 when it is malformed.
func queryCurrency(c *gin.Context, def string) (string, bool) {
	currency := strings.ToUpper(strings.TrimSpace(c.DefaultQuery("currency", def)))
	if currency != "" && !currencyPattern.MatchString(currency) {
		respondBindError(c, fmt.Errorf("currency %q is not a 3-letter code", currency), "query parameters")
		return "", false
	}
	return currency, true
}
