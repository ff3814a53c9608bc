package dto

import (
	"time"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to post a single ledger row.
// Transfer legs are written by CreateTransferRequest only.
type CreateTransactionRequest struct {
	AccountID        string                 `json:"accountID" binding:"required"`
	TransactionType  domain.TransactionType `json:"transactionType" binding:"required,oneof=debit credit"`
	Amount           decimal.Decimal        `json:"amount" binding:"money"`
	CurrencyCode     string                 `json:"currencyCode" binding:"required,currency"`
	Category         domain.Category        `json:"category" binding:"required"`
	RelatedKind      *domain.RelatedKind    `json:"relatedKind"`
	RelatedID        *string                `json:"relatedID"`
	Description      string                 `json:"description"`
	ExchangeRateUsed *decimal.Decimal       `json:"exchangeRateUsed"`
}

// Related returns the related entity of the request, or nil when none was given.
func (r CreateTransactionRequest) Related() *domain.RelatedEntity {
	if r.RelatedKind == nil || r.RelatedID == nil {
		return nil
	}
	return &domain.RelatedEntity{Kind: *r.RelatedKind, ID: *r.RelatedID}
}

// CreateTransferRequest defines the data needed to move money between two accounts.
type CreateTransferRequest struct {
	SourceAccountID      string          `json:"sourceAccountID" binding:"required"`
	DestinationAccountID string          `json:"destinationAccountID" binding:"required,nefield=SourceAccountID"`
	SourceAmount         decimal.Decimal `json:"sourceAmount" binding:"money"`
	SourceCurrency       string          `json:"sourceCurrency" binding:"required,currency"`
	DestinationAmount    decimal.Decimal `json:"destinationAmount" binding:"money"`
	DestinationCurrency  string          `json:"destinationCurrency" binding:"required,currency"`
	ExchangeRate         decimal.Decimal `json:"exchangeRate" binding:"rate"`
	Description          string          `json:"description"`
}

// TransactionResponse mirrors domain.FinancialTransaction.
type TransactionResponse struct {
	TransactionID     string                 `json:"transactionID"`
	AccountID         string                 `json:"accountID"`
	TransactionType   domain.TransactionType `json:"transactionType"`
	Amount            decimal.Decimal        `json:"amount"`
	CurrencyCode      string                 `json:"currencyCode"`
	Reference         string                 `json:"reference"`
	Category          domain.Category        `json:"category"`
	RelatedKind       *domain.RelatedKind    `json:"relatedKind,omitempty"`
	RelatedID         *string                `json:"relatedID,omitempty"`
	Description       string                 `json:"description"`
	ExchangeRateUsed  *decimal.Decimal       `json:"exchangeRateUsed,omitempty"`
	TransferReference *string                `json:"transferReference,omitempty"`
	CreatedBy         string                 `json:"createdBy"`
	CreatedAt         time.Time              `json:"createdAt"`
}

// ToTransactionResponse converts a domain.FinancialTransaction to its DTO.
func ToTransactionResponse(txn *domain.FinancialTransaction) TransactionResponse {
	res := TransactionResponse{
		TransactionID:     txn.TransactionID,
		AccountID:         txn.AccountID,
		TransactionType:   txn.TransactionType,
		Amount:            txn.Amount,
		CurrencyCode:      txn.CurrencyCode,
		Reference:         txn.Reference,
		Category:          txn.Category,
		Description:       txn.Description,
		ExchangeRateUsed:  txn.ExchangeRateUsed,
		TransferReference: txn.TransferReference,
		CreatedBy:         txn.CreatedBy,
		CreatedAt:         txn.CreatedAt,
	}
	if txn.Related != nil {
		kind, id := txn.Related.Kind, txn.Related.ID
		res.RelatedKind = &kind
		res.RelatedID = &id
	}
	return res
}

// ToListTransactionResponse converts a slice of rows to DTOs.
func ToListTransactionResponse(txns []domain.FinancialTransaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// TransferResponse holds both legs of a transfer.
type TransferResponse struct {
	TransferReference string              `json:"transferReference"`
	Debit             TransactionResponse `json:"debit"`
	Credit            TransactionResponse `json:"credit"`
}

// ToTransferResponse converts a domain.Transfer to its DTO.
func ToTransferResponse(t *domain.Transfer) TransferResponse {
	return TransferResponse{
		TransferReference: t.TransferReference,
		Debit:             ToTransactionResponse(&t.Debit),
		Credit:            ToTransactionResponse(&t.Credit),
	}
}

// ListTransactionsParams defines query parameters for listing an account's rows.
type ListTransactionsParams struct {
	Type      *domain.TransactionType `form:"type" binding:"omitempty,oneof=debit credit transfer_out transfer_in"`
	Category  *domain.Category        `form:"category"`
	From      *time.Time              `form:"from" time_format:"2006-01-02"`
	To        *time.Time              `form:"to" time_format:"2006-01-02"`
	Limit     int                     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string                 `form:"nextToken"`
}

// ToFilter converts the query parameters into a domain filter. The To date is
// inclusive, so the filter bound is the start of the following day.
func (p ListTransactionsParams) ToFilter() domain.TransactionFilter {
	filter := domain.TransactionFilter{
		Type:      p.Type,
		Category:  p.Category,
		From:      p.From,
		Limit:     p.Limit,
		NextToken: p.NextToken,
	}
	if p.To != nil {
		to := p.To.AddDate(0, 0, 1)
		filter.To = &to
	}
	return filter
}

// ListTransactionsResponse wraps a page of ledger rows.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
