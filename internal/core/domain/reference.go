package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ReferenceScope names a family of human-readable sequence numbers.
type ReferenceScope string

const (
	ScopeTransaction ReferenceScope = "transaction"
	ScopeOrder       ReferenceScope = "order"
	ScopeParcel      ReferenceScope = "parcel"
	ScopeClient      ReferenceScope = "client"
	ScopeProduct     ReferenceScope = "product"
)

// ReferencePattern is a prefix plus a zero-padded numeric suffix.
type ReferencePattern struct {
	Scope  ReferenceScope
	Prefix string
	Width  int
}

// Format renders the reference with sequence number n.
func (p ReferencePattern) Format(n int) string {
	return fmt.Sprintf("%s%0*d", p.Prefix, p.Width, n)
}

// Suffix extracts the numeric suffix of ref. It returns false when ref does
// not start with the prefix or the remainder is not all digits.
func (p ReferencePattern) Suffix(ref string) (int, bool) {
	digits, ok := strings.CutPrefix(ref, p.Prefix)
	if !ok || digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MaxSuffix returns the largest numeric suffix among refs, or 0.
func (p ReferencePattern) MaxSuffix(refs []string) int {
	max := 0
	for _, ref := range refs {
		if n, ok := p.Suffix(ref); ok && n > max {
			max = n
		}
	}
	return max
}

// TransactionReferencePattern is TXN-YYYYMMDD-NNNN, scoped per day.
func TransactionReferencePattern(day time.Time) ReferencePattern {
	return ReferencePattern{Scope: ScopeTransaction, Prefix: "TXN-" + day.Format("20060102") + "-", Width: 4}
}

// OrderReferencePattern is CMD-BUS-NNNN.
func OrderReferencePattern() ReferencePattern {
	return ReferencePattern{Scope: ScopeOrder, Prefix: "CMD-BUS-", Width: 4}
}

// ParcelReferencePattern is EXP-PARCEL-YYYYMMDD-NNNN, scoped per day.
func ParcelReferencePattern(day time.Time) ReferencePattern {
	return ReferencePattern{Scope: ScopeParcel, Prefix: "EXP-PARCEL-" + day.Format("20060102") + "-", Width: 4}
}

// ClientCodePattern is CLI-{BUS|EXP|BOTH}-NNN.
func ClientCodePattern(kind ClientKind) ReferencePattern {
	return ReferencePattern{Scope: ScopeClient, Prefix: "CLI-" + string(kind) + "-", Width: 3}
}

// ProductSKUPattern is PROD-{CUR}-NNNN.
func ProductSKUPattern(currency string) ReferencePattern {
	return ReferencePattern{Scope: ScopeProduct, Prefix: "PROD-" + NormalizeCurrency(currency) + "-", Width: 4}
}
