package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/cargo_ledger/internal/core/domain"
)

// LockReferences scans the references of a scope. Units are serialized, so
// the scan itself is the lock.
func (s *Store) LockReferences(ctx context.Context, pattern domain.ReferencePattern) ([]string, error) {
	refs := make([]string, 0)
	keep := func(ref string) {
		if strings.HasPrefix(ref, pattern.Prefix) {
			refs = append(refs, ref)
		}
	}
	err := s.view(ctx, func(st *state) error {
		switch pattern.Scope {
		case domain.ScopeTransaction:
			for _, txn := range st.txns {
				keep(txn.Reference)
			}
		case domain.ScopeOrder:
			for _, order := range st.orders {
				keep(order.Reference)
			}
		case domain.ScopeParcel:
			for _, parcel := range st.parcels {
				keep(parcel.Reference)
			}
		case domain.ScopeClient:
			for _, client := range st.clients {
				keep(client.ClientCode)
			}
		case domain.ScopeProduct:
			for _, product := range st.products {
				keep(product.SKU)
			}
		default:
			return fmt.Errorf("unknown reference scope %q", pattern.Scope)
		}
		return nil
	})
	return refs, err
}
