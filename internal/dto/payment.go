package dto

import (
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentLegRequest is one part of a payment, in the paid entity's currency.
type PaymentLegRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"money"`
}

// PaymentRequest registers one or more payment legs against an order or parcel.
type PaymentRequest struct {
	Payments    []PaymentLegRequest `json:"payments" binding:"required,min=1,dive"`
	Description string              `json:"description"`
}

// PickupRequest settles an order or parcel at pickup. Payments may be empty
// when nothing is owed.
type PickupRequest struct {
	Payments    []PaymentLegRequest `json:"payments" binding:"dive"`
	Description string              `json:"description"`
}

// ToPaymentLegs converts request legs to domain legs.
func ToPaymentLegs(legs []PaymentLegRequest) []domain.PaymentLeg {
	res := make([]domain.PaymentLeg, len(legs))
	for i, leg := range legs {
		res[i] = domain.PaymentLeg{AccountID: leg.AccountID, Amount: leg.Amount}
	}
	return res
}
