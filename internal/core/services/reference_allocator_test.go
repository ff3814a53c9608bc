package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/SscSPs/cargo_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReferenceRepository is a mock type for the ReferenceRepository interface
type MockReferenceRepository struct {
	mock.Mock
}

func (m *MockReferenceRepository) LockReferences(ctx context.Context, pattern domain.ReferencePattern) ([]string, error) {
	args := m.Called(ctx, pattern)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func TestReferenceAllocator_NextSuffix(t *testing.T) {
	day := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	pattern := domain.TransactionReferencePattern(day)
	repo := new(MockReferenceRepository)
	repo.On("LockReferences", mock.Anything, pattern).
		Return([]string{"TXN-20260314-0007", "TXN-20260314-0012", "TXN-20260314-garbage"}, nil).Once()

	allocator := services.NewReferenceAllocator(repo, 0)
	var persisted string
	ref, err := allocator.Allocate(context.Background(), pattern, func(_ context.Context, reference string) error {
		persisted = reference
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "TXN-20260314-0013", ref)
	assert.Equal(t, ref, persisted)
	repo.AssertExpectations(t)
}

func TestReferenceAllocator_RetriesOnCollision(t *testing.T) {
	pattern := domain.OrderReferencePattern()
	repo := new(MockReferenceRepository)
	repo.On("LockReferences", mock.Anything, pattern).Return([]string{"CMD-BUS-0001"}, nil).Once()
	repo.On("LockReferences", mock.Anything, pattern).Return([]string{"CMD-BUS-0001", "CMD-BUS-0002"}, nil).Once()

	allocator := services.NewReferenceAllocator(repo, 0)
	var tried []string
	ref, err := allocator.Allocate(context.Background(), pattern, func(_ context.Context, reference string) error {
		tried = append(tried, reference)
		if reference == "CMD-BUS-0002" {
			return apperrors.ErrDuplicate
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "CMD-BUS-0003", ref)
	assert.Equal(t, []string{"CMD-BUS-0002", "CMD-BUS-0003"}, tried)
	repo.AssertExpectations(t)
}

func TestReferenceAllocator_Exhausted(t *testing.T) {
	pattern := domain.ClientCodePattern(domain.ClientBusiness)
	repo := new(MockReferenceRepository)
	repo.On("LockReferences", mock.Anything, pattern).Return([]string{}, nil)

	allocator := services.NewReferenceAllocator(repo, 0)
	attempts := 0
	_, err := allocator.Allocate(context.Background(), pattern, func(context.Context, string) error {
		attempts++
		return apperrors.ErrDuplicate
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrRetryExhausted)
	assert.Equal(t, apperrors.KindInternal, apperrors.Kind(err))
	assert.Equal(t, services.DefaultReferenceAttempts, attempts)
	repo.AssertNumberOfCalls(t, "LockReferences", services.DefaultReferenceAttempts)
}

func TestReferenceAllocator_StopsOnOtherErrors(t *testing.T) {
	pattern := domain.ProductSKUPattern("mad")
	boom := errors.New("disk full")

	t.Run("persist error", func(t *testing.T) {
		repo := new(MockReferenceRepository)
		repo.On("LockReferences", mock.Anything, pattern).Return([]string{}, nil).Once()
		allocator := services.NewReferenceAllocator(repo, 5)

		_, err := allocator.Allocate(context.Background(), pattern, func(context.Context, string) error { return boom })
		assert.ErrorIs(t, err, boom)
		repo.AssertExpectations(t)
	})

	t.Run("lock error", func(t *testing.T) {
		repo := new(MockReferenceRepository)
		repo.On("LockReferences", mock.Anything, pattern).Return(nil, boom).Once()
		allocator := services.NewReferenceAllocator(repo, 5)

		_, err := allocator.Allocate(context.Background(), pattern, func(context.Context, string) error {
			t.Fatal("persist must not run")
			return nil
		})
		assert.ErrorIs(t, err, boom)
	})
}
