package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrPartialSettlement is returned when a pickup payment leaves more than the tolerance unpaid.
	ErrPartialSettlement = errors.New("pickup requires full settlement of the remaining debt")
	// ErrOverpayment is returned when an ordinary payment exceeds the remaining debt.
	ErrOverpayment = errors.New("payment exceeds the remaining debt")
	// ErrNegativePayment is returned for payment totals below zero.
	ErrNegativePayment = errors.New("payment amount must not be negative")
)

var (
	largeDebtThreshold = decimal.NewFromInt(1000)
	largeDebtTolerance = decimal.NewFromInt(1)
	smallDebtTolerance = decimal.New(1, -2) // 0.01
)

// SettlementTolerance returns how much of a debt may remain unpaid while
// still counting as fully settled: 1 unit above 1000, 0.01 otherwise.
func SettlementTolerance(debt decimal.Decimal) decimal.Decimal {
	if debt.GreaterThan(largeDebtThreshold) {
		return largeDebtTolerance
	}
	return smallDebtTolerance
}

// Payable holds the cached payment state of an order or a parcel.
// All amounts are in CurrencyCode, the entity's own currency.
type Payable struct {
	CurrencyCode    string          `json:"currencyCode"`
	PrincipalAmount decimal.Decimal `json:"principalAmount"`
	TotalPaid       decimal.Decimal `json:"totalPaid"`
	HasDebt         bool            `json:"hasDebt"`
}

// RemainingDebt returns PrincipalAmount - TotalPaid, floored at zero.
func (p Payable) RemainingDebt() decimal.Decimal {
	remaining := p.PrincipalAmount.Sub(p.TotalPaid)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// RecomputeDebt re-derives HasDebt from TotalPaid and PrincipalAmount.
func (p *Payable) RecomputeDebt() {
	p.HasDebt = p.TotalPaid.LessThan(p.PrincipalAmount)
}

// SetPrincipal replaces the principal (e.g. after line items change) and
// re-derives the debt flag.
func (p *Payable) SetPrincipal(principal decimal.Decimal) {
	p.PrincipalAmount = principal.Round(2)
	p.RecomputeDebt()
}

// ApplyPayment adds amount to TotalPaid. Amounts beyond the remaining debt
// plus tolerance are rejected; amounts within the tolerance clamp TotalPaid
// at the principal.
func (p *Payable) ApplyPayment(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativePayment
	}
	remaining := p.RemainingDebt()
	if amount.GreaterThan(remaining.Add(SettlementTolerance(remaining))) {
		return fmt.Errorf("%w: paying %s against %s remaining", ErrOverpayment, amount.StringFixed(2), remaining.StringFixed(2))
	}
	p.TotalPaid = p.TotalPaid.Add(amount).Round(2)
	if p.TotalPaid.GreaterThan(p.PrincipalAmount) {
		p.TotalPaid = p.PrincipalAmount
	}
	p.RecomputeDebt()
	return nil
}

// SettleAtPickup applies a pickup payment. When the entity is in debt the
// payment must cover the remaining debt within tolerance; a covering payment
// (including over-settlement) clamps TotalPaid at the principal. On error the
// Payable is left unchanged.
func (p *Payable) SettleAtPickup(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrNegativePayment
	}
	if !p.HasDebt {
		p.RecomputeDebt()
		return nil
	}
	remaining := p.RemainingDebt()
	if amount.LessThan(remaining.Sub(SettlementTolerance(remaining))) {
		return fmt.Errorf("%w: paid %s, remaining %s", ErrPartialSettlement, amount.StringFixed(2), remaining.StringFixed(2))
	}
	p.TotalPaid = p.PrincipalAmount
	p.RecomputeDebt()
	return nil
}

// PaymentLeg is one part of a possibly split payment. Amount is expressed in
// the paid entity's currency; it is converted to the account's currency
// before being posted.
type PaymentLeg struct {
	AccountID string          `json:"accountID"`
	Amount    decimal.Decimal `json:"amount"`
}

// SumPaymentLegs totals the legs in the entity's currency.
func SumPaymentLegs(legs []PaymentLeg) decimal.Decimal {
	total := decimal.Zero
	for _, leg := range legs {
		total = total.Add(leg.Amount)
	}
	return total
}
