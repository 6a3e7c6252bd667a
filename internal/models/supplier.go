package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierQuote is one supplier's offer for one item: unit price,
// availability and delivery terms. Quotes are keyed to items by ItemName.
type SupplierQuote struct {
	SupplierID      uuid.UUID       `json:"supplier_id"`
	SupplierName    string          `json:"supplier_name"`
	ItemName        string          `json:"item_name"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	IsAvailable     bool            `json:"is_available"`
	LeadTimeDays    *int            `json:"lead_time_days,omitempty"`
	MinimumOrderQty *int            `json:"minimum_order_quantity,omitempty"`
}
