package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger row.
type TransactionType string

const (
	Debit       TransactionType = "debit"
	Credit      TransactionType = "credit"
	TransferOut TransactionType = "transfer_out"
	TransferIn  TransactionType = "transfer_in"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	switch t {
	case Debit, Credit, TransferOut, TransferIn:
		return true
	}
	return false
}

// Increases reports whether a row of this type adds to the account balance.
func (t TransactionType) Increases() bool {
	return t == Credit || t == TransferIn
}

// Category tags the business purpose of a ledger row. Categories outside the
// known set are accepted as free-form tags.
type Category string

const (
	CategoryOrderPurchase       Category = "order_purchase"
	CategoryOrderPayment        Category = "order_payment"
	CategoryOrderPickupPayment  Category = "order_pickup_payment"
	CategoryConvoyCost          Category = "convoy_cost"
	CategoryTripCost            Category = "trip_cost"
	CategoryWaveCost            Category = "wave_cost"
	CategoryParcelDeposit       Category = "parcel_deposit"
	CategoryParcelPickupPayment Category = "parcel_pickup_payment"
	CategoryTransferConversion  Category = "transfer_conversion"
)

// OrderCategories are the categories cascaded when a business order is deleted.
var OrderCategories = []Category{CategoryOrderPurchase, CategoryOrderPayment, CategoryOrderPickupPayment}

// ParcelCategories are the categories cascaded when an express parcel is deleted.
var ParcelCategories = []Category{CategoryParcelDeposit, CategoryParcelPickupPayment}

// RelatedKind enumerates the entities a ledger row may point at.
type RelatedKind string

const (
	RelatedBusinessOrder RelatedKind = "business_order"
	RelatedExpressParcel RelatedKind = "express_parcel"
	RelatedConvoyCost    RelatedKind = "convoy_cost"
	RelatedTripCost      RelatedKind = "trip_cost"
	RelatedWaveCost      RelatedKind = "wave_cost"
)

// IsValid reports whether k is a known related kind.
func (k RelatedKind) IsValid() bool {
	switch k {
	case RelatedBusinessOrder, RelatedExpressParcel, RelatedConvoyCost, RelatedTripCost, RelatedWaveCost:
		return true
	}
	return false
}

// RelatedEntity identifies the business record a ledger row belongs to.
type RelatedEntity struct {
	Kind RelatedKind `json:"kind"`
	ID   string      `json:"id"`
}

// FinancialTransaction is an append-only ledger row. It is never updated;
// corrections delete and recreate it.
type FinancialTransaction struct {
	TransactionID     string           `json:"transactionID"`
	AccountID         string           `json:"accountID"`
	TransactionType   TransactionType  `json:"transactionType"`
	Amount            decimal.Decimal  `json:"amount"`
	CurrencyCode      string           `json:"currencyCode"`
	Reference         string           `json:"reference"`
	Category          Category         `json:"category"`
	Related           *RelatedEntity   `json:"related,omitempty"`
	Description       string           `json:"description"`
	ExchangeRateUsed  *decimal.Decimal `json:"exchangeRateUsed,omitempty"`
	TransferReference *string          `json:"transferReference,omitempty"`
	CreatedBy         string           `json:"createdBy"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// SignedAmount returns Amount with the sign it contributes to the account balance.
func (t FinancialTransaction) SignedAmount() decimal.Decimal {
	if t.TransactionType.Increases() {
		return t.Amount
	}
	return t.Amount.Neg()
}

// Transfer groups the two legs of a transfer sharing one TransferReference.
type Transfer struct {
	TransferReference string               `json:"transferReference"`
	Debit             FinancialTransaction `json:"debit"`  // transfer_out on the source account
	Credit            FinancialTransaction `json:"credit"` // transfer_in on the destination account
}

// TransactionFilter narrows a read of the log for a single account.
type TransactionFilter struct {
	Type      *TransactionType
	Category  *Category
	From      *time.Time // inclusive
	To        *time.Time // exclusive
	Limit     int
	NextToken *string
}

// AccountTotals holds the raw sums of an account's log by direction.
type AccountTotals struct {
	Increases decimal.Decimal // credit + transfer_in
	Decreases decimal.Decimal // debit + transfer_out
	Count     int
}
