package domain

import (
	"github.com/shopspring/decimal"
)

// OrderStatus drives the business order workflow. It is orthogonal to the payment state.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderInTransit OrderStatus = "in_transit"
	OrderArrived   OrderStatus = "arrived"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// IsDeletable reports whether an order in this status may be deleted along with its ledger rows.
func (s OrderStatus) IsDeletable() bool {
	return s == OrderPending || s == OrderCancelled
}

// ItemsEditable reports whether line items may still change.
func (s OrderStatus) ItemsEditable() bool {
	return s == OrderPending || s == OrderConfirmed
}

// IsSettled reports whether the order has left the active workflow.
func (s OrderStatus) IsSettled() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// OrderItem is a line of a business order.
type OrderItem struct {
	ItemID      string          `json:"itemID"`
	ProductID   string          `json:"productID"` // Empty when the line is not tied to a catalogue product
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// ComputeLineTotal sets LineTotal to Quantity * UnitPrice rounded to 2 places.
func (i *OrderItem) ComputeLineTotal() {
	i.LineTotal = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
}

// BusinessOrder is a bulk order shipped in a business wave.
type BusinessOrder struct {
	OrderID   string      `json:"orderID"`
	Reference string      `json:"reference"` // CMD-BUS-NNNN
	ClientID  string      `json:"clientID"`
	WaveID    string      `json:"waveID"`
	ConvoyID  string      `json:"convoyID"` // Empty until assigned to a convoy
	Status    OrderStatus `json:"status"`
	Notes     string      `json:"notes"`
	Items     []OrderItem `json:"items"`
	Payable
	AuditFields
}

// ItemsTotal returns the sum of all line totals.
func ItemsTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal)
	}
	return total.Round(2)
}

// OrderFilter narrows ListOrders. Zero values are ignored.
type OrderFilter struct {
	ClientID string
	WaveID   string
	ConvoyID string
	Status   *OrderStatus
	InDebt   *bool
	Limit    int
	Offset   int
}
