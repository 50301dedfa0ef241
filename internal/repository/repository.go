package repository

import (
	"context"
	"errors"

	"hoteldesk-panel/internal/domain"
)

var ErrSubmissionNotFound = errors.New("submission not found")

type SubmissionRepository interface {
	// Create inserts a pending submission. A repeated idempotency key returns
	// the existing row instead of inserting a second one.
	Create(ctx context.Context, s *domain.Submission) error
	GetByID(ctx context.Context, id int32) (*domain.Submission, error)
	// ListPending returns undelivered submissions with fewer than maxAttempts attempts, oldest first
	ListPending(ctx context.Context, limit, maxAttempts int) ([]domain.Submission, error)
	MarkDelivered(ctx context.Context, id int32, bookingID string) error
	MarkFailed(ctx context.Context, id int32, reason string) error
}
