package dto

import "github.com/shopspring/decimal"

// ConvertParams defines the query parameters of a conversion.
// Amount stays a string here and is parsed by the handler.
type ConvertParams struct {
	Amount string `form:"amount" binding:"required,money"`
	From   string `form:"from" binding:"required,currency"`
	To     string `form:"to" binding:"required,currency"`
}

// ConvertResponse is the result of a conversion.
// Rate is nil when no conversion took place.
type ConvertResponse struct {
	Amount    decimal.Decimal  `json:"amount"`
	From      string           `json:"from"`
	To        string           `json:"to"`
	Converted decimal.Decimal  `json:"converted"`
	Rate      *decimal.Decimal `json:"rate,omitempty"`
}
