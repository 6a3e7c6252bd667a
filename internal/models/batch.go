package models

import (
	"time"

	"github.com/google/uuid"
)

type BatchStatus string

const (
	BatchActive      BatchStatus = "active"
	BatchExpired     BatchStatus = "expired"
	BatchRecalled    BatchStatus = "recalled"
	BatchQuarantined BatchStatus = "quarantined"
	BatchSoldOut     BatchStatus = "sold_out"
)

type Batch struct {
	ID          uuid.UUID   `json:"id"`
	BatchNumber string      `json:"batch_number"`
	ItemName    string      `json:"item_name"`
	ExpiryDate  *time.Time  `json:"expiry_date,omitempty"`
	Status      BatchStatus `json:"status"`
}

// ValidBatchStatus reports whether status is one of the known batch states.
func ValidBatchStatus(status BatchStatus) bool {
	switch status {
	case BatchActive, BatchExpired, BatchRecalled, BatchQuarantined, BatchSoldOut:
		return true
	}
	return false
}
