package repositories

import (
	"context"
)

// ReportingRepository defines operations for retrieving report data
type ReportingRepository interface {
	CategoryTotalsReader

	// CountInDebt returns how many active orders and parcels are in debt.
	CountInDebt(ctx context.Context) (orders int, parcels int, err error)
}
