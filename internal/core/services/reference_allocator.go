package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
)

// DefaultReferenceAttempts bounds the allocation loop of a single reference.
const DefaultReferenceAttempts = 100

// ReferenceAllocator hands out human-readable sequence numbers. Each attempt
// locks the references of the scope, takes the highest numeric suffix, and
// tries to persist the next one; a uniqueness collision starts a new attempt.
// Numbers are not guaranteed to be gap-free.
type ReferenceAllocator struct {
	BaseService
	refs        portsrepo.ReferenceRepository
	maxAttempts int
}

// NewReferenceAllocator creates an allocator over repo. maxAttempts <= 0 means DefaultReferenceAttempts.
func NewReferenceAllocator(repo portsrepo.ReferenceRepository, maxAttempts int, options ...Option) *ReferenceAllocator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultReferenceAttempts
	}
	return &ReferenceAllocator{
		BaseService: newBaseService(options),
		refs:        repo,
		maxAttempts: maxAttempts,
	}
}

// Allocate finds the next reference of pattern and calls persist with it.
// persist must return an error matching apperrors.ErrDuplicate when the
// reference is already taken, and must leave the unit usable when it does.
func (a *ReferenceAllocator) Allocate(ctx context.Context, pattern domain.ReferencePattern, persist func(ctx context.Context, reference string) error) (string, error) {
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		existing, err := a.refs.LockReferences(ctx, pattern)
		if err != nil {
			a.LogError(ctx, err, "Failed to lock references", slog.String("prefix", pattern.Prefix))
			return "", err
		}

		reference := pattern.Format(pattern.MaxSuffix(existing) + 1)
		err = persist(ctx, reference)
		if err == nil {
			return reference, nil
		}
		if !errors.Is(err, apperrors.ErrDuplicate) {
			return "", err
		}
		a.LogDebug(ctx, "Reference collision, retrying",
			slog.String("reference", reference),
			slog.Int("attempt", attempt))
	}

	err := fmt.Errorf("%w: no free reference for %s after %d attempts", apperrors.ErrRetryExhausted, pattern.Prefix, a.maxAttempts)
	a.LogError(ctx, err, "Reference allocation exhausted", slog.String("scope", string(pattern.Scope)))
	return "", err
}
