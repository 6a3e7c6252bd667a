package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem is one row of the server-sourced catalog. Name is the
// natural key and never changes after creation.
type InventoryItem struct {
	Name         string     `json:"item_name"`
	Quantity     int        `json:"quantity"`
	Group        string     `json:"group,omitempty"`
	ReorderPoint int        `json:"reorder_point"`
	LocationID   *uuid.UUID `json:"location_id,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type AdjustmentType string

const (
	AdjustmentIncrease AdjustmentType = "increase"
	AdjustmentDecrease AdjustmentType = "decrease"
)

type AdjustmentReason string

const (
	ReasonDamaged  AdjustmentReason = "damaged"
	ReasonExpired  AdjustmentReason = "expired"
	ReasonRecount  AdjustmentReason = "recount"
	ReasonReceived AdjustmentReason = "received"
	ReasonSold     AdjustmentReason = "sold"
	ReasonReturned AdjustmentReason = "returned"
	ReasonLost     AdjustmentReason = "lost"
)

// StockAdjustment records a manual quantity correction against an item.
// Quantity is always positive; direction is carried by Type.
type StockAdjustment struct {
	ItemName string           `json:"item_name"`
	Type     AdjustmentType   `json:"adjustment_type"`
	Quantity int              `json:"quantity"`
	Reason   AdjustmentReason `json:"reason"`
}

// ValidReason reports whether reason is one of the known adjustment reasons.
func ValidReason(reason AdjustmentReason) bool {
	switch reason {
	case ReasonDamaged, ReasonExpired, ReasonRecount, ReasonReceived, ReasonSold, ReasonReturned, ReasonLost:
		return true
	}
	return false
}
