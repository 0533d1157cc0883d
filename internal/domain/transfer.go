package domain

import (
	"time"
)

type Transfer struct {
	ID                  uint      `json:"id" gorm:"primaryKey"`
	Timestamp           time.Time `json:"timestamp" gorm:"autoCreateTime;index"`
	Amount              float64   `json:"amount" gorm:"not null"`
	Currency            string    `json:"currency" gorm:"not null"`
	SourceBranchID      uint      `json:"source_branch_id" gorm:"not null;index"`
	DestinationBranchID uint      `json:"destination_branch_id" gorm:"not null"`
	RecordedBy          *string   `json:"recorded_by,omitempty"`
	OriginalText        *string   `json:"original_text,omitempty"`
}

// TransferRecordedEvent is published to the message queue after a transfer
// row is committed.
type TransferRecordedEvent struct {
	EventID     string    `json:"event_id"`
	TransferID  uint      `json:"transfer_id"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	RecordedAt  time.Time `json:"recorded_at"`
}
