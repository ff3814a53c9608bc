package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType tags the kind of monetary holding point.
type AccountType string

const (
	AccountMobileMoney AccountType = "MOBILE_MONEY"
	AccountBank        AccountType = "BANK"
	AccountCash        AccountType = "CASH"
	AccountOther       AccountType = "OTHER"
)

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case AccountMobileMoney, AccountBank, AccountCash, AccountOther:
		return true
	}
	return false
}

// Account is a monetary holding point in a single currency.
// The ledger treats InitialBalance plus the transaction log as the truth;
// CurrentBalance is a display cache refreshed whenever the log changes.
type Account struct {
	AccountID      string          `json:"accountID"`
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"accountType"`
	CurrencyCode   string          `json:"currencyCode"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	Description    string          `json:"description"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}
