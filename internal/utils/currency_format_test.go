package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "1250.50 MAD", FormatMoney(decimal.RequireFromString("1250.5"), "MAD"))
	assert.Equal(t, "0.00 CFA", FormatMoney(decimal.Zero, "CFA"))
	assert.Equal(t, "10.13 MAD", FormatMoney(decimal.RequireFromString("10.125"), "MAD"))
}
