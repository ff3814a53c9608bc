package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// ledgerPoster turns amounts expressed in an entity's currency into ledger
// rows in the currency of the account they hit.
type ledgerPoster struct {
	ledger   portssvc.LedgerWriterSvc
	accounts portsrepo.AccountReader
	currency portssvc.CurrencySvcFacade
}

func newLedgerPoster(ledger portssvc.LedgerWriterSvc, accounts portsrepo.AccountReader, currency portssvc.CurrencySvcFacade) *ledgerPoster {
	return &ledgerPoster{ledger: ledger, accounts: accounts, currency: currency}
}

// post converts amount from currency into the account's currency and posts it.
func (p *ledgerPoster) post(
	ctx context.Context,
	txnType domain.TransactionType,
	accountID string,
	amount decimal.Decimal,
	currency string,
	category domain.Category,
	related domain.RelatedEntity,
	description string,
	userID string,
) (*domain.FinancialTransaction, error) {
	if amount.IsNegative() {
		return nil, apperrors.NewValidationError("amount must not be negative")
	}
	account, err := p.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	converted, rate, err := p.currency.Convert(ctx, amount, currency, account.CurrencyCode)
	if err != nil {
		return nil, err
	}
	relatedKind, relatedID := related.Kind, related.ID
	return p.ledger.CreateTransaction(ctx, dto.CreateTransactionRequest{
		AccountID:        account.AccountID,
		TransactionType:  txnType,
		Amount:           converted,
		CurrencyCode:     account.CurrencyCode,
		Category:         category,
		RelatedKind:      &relatedKind,
		RelatedID:        &relatedID,
		Description:      description,
		ExchangeRateUsed: rate,
	}, userID)
}

// postPayments posts every non-zero leg as a credit.
func (p *ledgerPoster) postPayments(
	ctx context.Context,
	payable domain.Payable,
	related domain.RelatedEntity,
	category domain.Category,
	legs []domain.PaymentLeg,
	description string,
	userID string,
) error {
	for _, leg := range legs {
		if leg.Amount.IsZero() {
			continue
		}
		if _, err := p.post(ctx, domain.Credit, leg.AccountID, leg.Amount, payable.CurrencyCode, category, related, description, userID); err != nil {
			return err
		}
	}
	return nil
}

// validateLegs rejects negative legs before anything is posted.
func validateLegs(legs []domain.PaymentLeg) error {
	for _, leg := range legs {
		if leg.AccountID == "" {
			return apperrors.NewValidationError("payment account is required")
		}
		if leg.Amount.IsNegative() {
			return apperrors.NewValidationError("payment amount must not be negative")
		}
	}
	return nil
}

// mapPayableError translates payable rule violations into application errors.
func mapPayableError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNegativePayment):
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	case errors.Is(err, domain.ErrOverpayment), errors.Is(err, domain.ErrPartialSettlement):
		return fmt.Errorf("%w: %s", apperrors.ErrConflict, err.Error())
	default:
		return err
	}
}

// applyPickup settles payable with legs at pickup. Paying something when
// nothing is owed is refused.
func applyPickup(payable *domain.Payable, legs []domain.PaymentLeg) error {
	total := domain.SumPaymentLegs(legs)
	if !payable.HasDebt && total.IsPositive() {
		return apperrors.NewConflictError("nothing is owed, pickup takes no payment")
	}
	return mapPayableError(payable.SettleAtPickup(total))
}
