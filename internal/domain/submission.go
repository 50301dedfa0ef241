package domain

import (
	"encoding/json"
	"time"
)

type SubmissionStatus string

const (
	SubmissionStatusPending   SubmissionStatus = "PENDING"
	SubmissionStatusDelivered SubmissionStatus = "DELIVERED"
	SubmissionStatusFailed    SubmissionStatus = "FAILED"
)

// Submission is a finalized draft queued for delivery to the hotel backend.
type Submission struct {
	ID             int32            `json:"id"`
	IdempotencyKey string           `json:"idempotency_key"`
	PanelID        string           `json:"panel_id"`
	BookingID      *string          `json:"booking_id,omitempty"` // set for edits, or once the backend assigns one
	Payload        json.RawMessage  `json:"payload"`
	Status         SubmissionStatus `json:"status"`
	Attempts       int32            `json:"attempts"`
	LastError      string           `json:"last_error,omitempty"`
	CreatedOn      time.Time        `json:"created_on"`
	UpdatedOn      time.Time        `json:"updated_on"`
	DeliveredOn    *time.Time       `json:"delivered_on,omitempty"`
}

func (s *Submission) IsDelivered() bool {
	return s.Status == SubmissionStatusDelivered
}
