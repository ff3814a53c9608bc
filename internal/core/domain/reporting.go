package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is one row of a balance summary.
type AccountBalance struct {
	AccountID      string          `json:"accountID"`
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"accountType"`
	CurrencyCode   string          `json:"currencyCode"`
	Balance        decimal.Decimal `json:"balance"`        // In the account's own currency
	Converted      decimal.Decimal `json:"converted"`      // In the summary's target currency
	TargetCurrency string          `json:"targetCurrency"` // Currency of Converted
}

// BalanceSummary lists the balances of all active accounts in one target currency.
type BalanceSummary struct {
	TargetCurrency string           `json:"targetCurrency"`
	Accounts       []AccountBalance `json:"accounts"`
	Total          decimal.Decimal  `json:"total"`
}

// CategoryTotal sums the ledger rows of one category, direction and currency.
type CategoryTotal struct {
	Category        Category        `json:"category"`
	TransactionType TransactionType `json:"transactionType"`
	CurrencyCode    string          `json:"currencyCode"`
	Total           decimal.Decimal `json:"total"`
	Count           int             `json:"count"`
}

// Debtor is an order or parcel with an outstanding debt.
type Debtor struct {
	Kind         RelatedKind     `json:"kind"`
	EntityID     string          `json:"entityID"`
	Reference    string          `json:"reference"`
	ClientID     string          `json:"clientID"`
	CurrencyCode string          `json:"currencyCode"`
	Principal    decimal.Decimal `json:"principal"`
	TotalPaid    decimal.Decimal `json:"totalPaid"`
	Remaining    decimal.Decimal `json:"remaining"`
}

// Dashboard aggregates the ledger and the debt caches for a period.
type Dashboard struct {
	From            time.Time                  `json:"from"`
	To              time.Time                  `json:"to"`
	TotalBalanceCFA decimal.Decimal            `json:"totalBalanceCFA"`
	TotalBalanceMAD decimal.Decimal            `json:"totalBalanceMAD"`
	OutstandingDebt map[string]decimal.Decimal `json:"outstandingDebt"` // Keyed by currency
	OrdersInDebt    int                        `json:"ordersInDebt"`
	ParcelsInDebt   int                        `json:"parcelsInDebt"`
	CategoryTotals  []CategoryTotal            `json:"categoryTotals"`
}
