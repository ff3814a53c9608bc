package domain

import "github.com/shopspring/decimal"

// CostKind says what a cost is attached to.
type CostKind string

const (
	CostConvoy CostKind = "convoy"
	CostTrip   CostKind = "trip"
	CostWave   CostKind = "wave"
)

// IsValid reports whether k is a known cost kind.
func (k CostKind) IsValid() bool {
	return k == CostConvoy || k == CostTrip || k == CostWave
}

// Category returns the ledger category of the debit paired with a cost of this kind.
func (k CostKind) Category() Category {
	switch k {
	case CostConvoy:
		return CategoryConvoyCost
	case CostTrip:
		return CategoryTripCost
	default:
		return CategoryWaveCost
	}
}

// RelatedKind returns the related-entity kind recorded on the paired debit.
func (k CostKind) RelatedKind() RelatedKind {
	switch k {
	case CostConvoy:
		return RelatedConvoyCost
	case CostTrip:
		return RelatedTripCost
	default:
		return RelatedWaveCost
	}
}

// Cost is a convoy, trip or wave expense. Each cost is paired 1:1 with a
// debit transaction on AccountID.
type Cost struct {
	CostID        string          `json:"costID"`
	Kind          CostKind        `json:"kind"`
	OwnerID       string          `json:"ownerID"` // Leg ID for convoy/trip costs, wave ID for wave costs
	AccountID     string          `json:"accountID"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyCode  string          `json:"currencyCode"`
	Label         string          `json:"label"`
	Description   string          `json:"description"`
	TransactionID string          `json:"transactionID"`
	AuditFields
}
