package repositories

import (
	"context"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
)

// ReferenceRepository exposes the existing references of a scope so the next
// one can be derived from their maximum suffix.
type ReferenceRepository interface {
	// LockReferences returns every reference of pattern's scope starting with
	// pattern's prefix, locking the matching rows until the unit ends.
	LockReferences(ctx context.Context, pattern domain.ReferencePattern) ([]string, error)
}
