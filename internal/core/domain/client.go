package domain

import "github.com/shopspring/decimal"

// ClientKind says which activity a client takes part in.
type ClientKind string

const (
	ClientBusiness ClientKind = "BUS"
	ClientExpress  ClientKind = "EXP"
	ClientBoth     ClientKind = "BOTH"
)

// IsValid reports whether k is a known client kind.
func (k ClientKind) IsValid() bool {
	return k == ClientBusiness || k == ClientExpress || k == ClientBoth
}

// Client is a customer of the business or express activity.
type Client struct {
	ClientID   string     `json:"clientID"`
	ClientCode string     `json:"clientCode"` // CLI-{BUS|EXP|BOTH}-NNN
	Name       string     `json:"name"`
	Phone      string     `json:"phone"`
	Kind       ClientKind `json:"kind"`
	AuditFields
}

// Product is a catalogue item sold through business orders.
type Product struct {
	ProductID    string          `json:"productID"`
	SKU          string          `json:"sku"` // PROD-{CUR}-NNNN
	Name         string          `json:"name"`
	CurrencyCode string          `json:"currencyCode"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	AuditFields
}
