package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/SscSPs/cargo_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(id string) domain.Account {
	return domain.Account{
		AccountID:    id,
		Name:         "Cash " + id,
		AccountType:  domain.AccountCash,
		CurrencyCode: domain.CurrencyMAD,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields("tester", time.Now()),
	}
}

func newTxn(id, accountID, ref string, at time.Time) domain.FinancialTransaction {
	return domain.FinancialTransaction{
		TransactionID:   id,
		AccountID:       accountID,
		TransactionType: domain.Credit,
		Amount:          decimal.NewFromInt(10),
		CurrencyCode:    domain.CurrencyMAD,
		Reference:       ref,
		Category:        domain.CategoryParcelDeposit,
		CreatedBy:       "tester",
		CreatedAt:       at,
	}
}

func TestWithinTransaction_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveAccount(ctx, newAccount("a")))

	boom := errors.New("boom")
	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, store.SaveAccount(ctx, newAccount("b")))
		require.NoError(t, store.DeleteAccount(ctx, "a"))

		// Inside the unit the writes are visible
		_, err := store.FindAccountByID(ctx, "b")
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.FindAccountByID(ctx, "a")
	assert.NoError(t, err, "deleted account must come back after rollback")
	_, err = store.FindAccountByID(ctx, "b")
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "saved account must vanish after rollback")
}

func TestWithinTransaction_NestedUnitJoinsOuter(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		inner := store.WithinTransaction(ctx, func(ctx context.Context) error {
			return store.SaveAccount(ctx, newAccount("inner"))
		})
		require.NoError(t, inner)
		return errors.New("outer fails")
	})
	require.Error(t, err)

	_, err = store.FindAccountByID(ctx, "inner")
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "inner writes roll back with the outer unit")
}

func TestWithinTransaction_UncommittedWritesAreInvisible(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	inside := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error)
	go func() {
		done <- store.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := store.SaveAccount(ctx, newAccount("pending")); err != nil {
				return err
			}
			close(inside)
			<-release
			return nil
		})
	}()

	<-inside
	_, err := store.FindAccountByID(ctx, "pending")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	close(release)
	require.NoError(t, <-done)

	_, err = store.FindAccountByID(ctx, "pending")
	assert.NoError(t, err)
}

func TestWithinTransaction_SerializesUnits(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveAccount(ctx, newAccount("a")))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.WithinTransaction(ctx, func(ctx context.Context) error {
				acc, err := store.FindAccountByID(ctx, "a")
				if err != nil {
					return err
				}
				return store.UpdateCurrentBalance(ctx, "a", acc.CurrentBalance.Add(decimal.NewFromInt(1)), "tester", time.Now())
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	acc, err := store.FindAccountByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, acc.CurrentBalance.Equal(decimal.NewFromInt(50)), "got %s", acc.CurrentBalance)
}

func TestSaveTransaction_DuplicateReference(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now()

	require.NoError(t, store.SaveTransaction(ctx, newTxn("t1", "a", "TXN-20261014-0001", now)))
	err := store.SaveTransaction(ctx, newTxn("t2", "a", "TXN-20261014-0001", now))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	assert.Equal(t, apperrors.KindConflict, apperrors.Kind(err))
}

func TestListTransactionsByAccount_Pagination(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	base := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)

	ids := []string{"t1", "t2", "t3", "t4", "t5"}
	for i, id := range ids {
		ref := domain.TransactionReferencePattern(base).Format(i + 1)
		require.NoError(t, store.SaveTransaction(ctx, newTxn(id, "a", ref, base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, store.SaveTransaction(ctx, newTxn("other", "b", "TXN-20261014-0099", base)))

	page1, next, err := store.ListTransactionsByAccount(ctx, "a", domain.TransactionFilter{Limit: 2})
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, []string{"t5", "t4"}, txnIDs(page1))

	page2, next, err := store.ListTransactionsByAccount(ctx, "a", domain.TransactionFilter{Limit: 2, NextToken: next})
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, []string{"t3", "t2"}, txnIDs(page2))

	page3, next, err := store.ListTransactionsByAccount(ctx, "a", domain.TransactionFilter{Limit: 2, NextToken: next})
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, []string{"t1"}, txnIDs(page3))

	from := base.Add(time.Minute)
	to := base.Add(3 * time.Minute)
	ranged, _, err := store.ListTransactionsByAccount(ctx, "a", domain.TransactionFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, []string{"t3", "t2"}, txnIDs(ranged), "From is inclusive, To is exclusive")

	bad := "%%%"
	_, _, err = store.ListTransactionsByAccount(ctx, "a", domain.TransactionFilter{NextToken: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLockReferences_FiltersByScopeAndPrefix(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	day := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveTransaction(ctx, newTxn("t1", "a", "TXN-20261014-0007", day)))
	require.NoError(t, store.SaveTransaction(ctx, newTxn("t2", "a", "TXN-20261013-0042", day)))
	require.NoError(t, store.SaveClient(ctx, domain.Client{ClientID: "c1", ClientCode: "CLI-BUS-004", Kind: domain.ClientBusiness}))

	refs, err := store.LockReferences(ctx, domain.TransactionReferencePattern(day))
	require.NoError(t, err)
	assert.Equal(t, []string{"TXN-20261014-0007"}, refs)

	refs, err = store.LockReferences(ctx, domain.ClientCodePattern(domain.ClientBusiness))
	require.NoError(t, err)
	assert.Equal(t, []string{"CLI-BUS-004"}, refs)

	refs, err = store.LockReferences(ctx, domain.ClientCodePattern(domain.ClientExpress))
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestOrders_ItemsAreCopied(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	order := domain.BusinessOrder{
		OrderID:   "o1",
		Reference: "CMD-BUS-0001",
		Items:     []domain.OrderItem{{ItemID: "i1", Quantity: 1, UnitPrice: decimal.NewFromInt(5)}},
	}
	require.NoError(t, store.SaveOrder(ctx, order))
	order.Items[0].Quantity = 99

	stored, err := store.FindOrderByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Items[0].Quantity)

	assert.ErrorIs(t, store.SaveOrder(ctx, domain.BusinessOrder{OrderID: "o2", Reference: "CMD-BUS-0001"}), apperrors.ErrDuplicate)
}

func txnIDs(txns []domain.FinancialTransaction) []string {
	ids := make([]string, len(txns))
	for i, txn := range txns {
		ids[i] = txn.TransactionID
	}
	return ids
}
