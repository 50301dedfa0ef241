package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hoteldesk-panel/internal/backend"
	"hoteldesk-panel/internal/domain"
	"hoteldesk-panel/internal/logger"
	"hoteldesk-panel/internal/metrics"
	"hoteldesk-panel/internal/repository"

	"github.com/google/uuid"
)

type SubmissionOptions struct {
	HotelID     string
	BatchSize   int
	MaxAttempts int
}

type submissionService struct {
	repo     repository.SubmissionRepository
	bookings BookingWriter
	opts     SubmissionOptions
	metrics  *metrics.Metrics
}

func NewSubmissionService(repo repository.SubmissionRepository, bookings BookingWriter, opts SubmissionOptions, m *metrics.Metrics) SubmissionService {
	return &submissionService{
		repo:     repo,
		bookings: bookings,
		opts:     opts,
		metrics:  m,
	}
}

// Submit queues a finalized draft and attempts delivery right away. A failed
// delivery leaves the submission queued for the delivery job.
func (s *submissionService) Submit(ctx context.Context, panelID string, draft domain.Draft) (*domain.Submission, error) {
	payload, err := json.Marshal(backend.NewBookingPayload(s.opts.HotelID, draft))
	if err != nil {
		return nil, fmt.Errorf("encode booking payload: %w", err)
	}

	sub := &domain.Submission{
		// Same panel and same content yield the same key, so a repeated submit is a no-op.
		IdempotencyKey: uuid.NewSHA1(uuid.NameSpaceOID, append([]byte(panelID+":"), payload...)).String(),
		PanelID:        panelID,
		Payload:        payload,
		Status:         domain.SubmissionStatusPending,
	}
	if draft.IsExisting() {
		id := draft.ID
		sub.BookingID = &id
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("queue submission: %w", err)
	}
	if sub.IsDelivered() {
		return sub, nil
	}

	if err := s.Deliver(ctx, sub); err != nil {
		logger.Warn("Booking delivery deferred", "submissionID", sub.ID, "panel_id", panelID, "error", err)
	}
	return sub, nil
}

// Deliver sends one submission to the backend and records the outcome
func (s *submissionService) Deliver(ctx context.Context, sub *domain.Submission) error {
	var bookingID string
	var err error
	if sub.BookingID != nil && *sub.BookingID != "" {
		bookingID = *sub.BookingID
		err = s.bookings.UpdateBooking(ctx, bookingID, sub.Payload)
	} else {
		bookingID, err = s.bookings.CreateBooking(ctx, sub.Payload)
	}

	now := time.Now().UTC()
	sub.Attempts++
	sub.UpdatedOn = now

	if err != nil {
		s.metrics.SubmissionDelivery(false)
		sub.Status = domain.SubmissionStatusFailed
		sub.LastError = err.Error()
		if markErr := s.repo.MarkFailed(ctx, sub.ID, err.Error()); markErr != nil {
			logger.Error("Failed to record delivery failure", "submissionID", sub.ID, "error", markErr)
		}
		return fmt.Errorf("deliver submission %d: %w", sub.ID, err)
	}

	s.metrics.SubmissionDelivery(true)
	sub.Status = domain.SubmissionStatusDelivered
	sub.LastError = ""
	sub.DeliveredOn = &now
	if bookingID != "" {
		sub.BookingID = &bookingID
	}
	if err := s.repo.MarkDelivered(ctx, sub.ID, bookingID); err != nil {
		return fmt.Errorf("record delivery of submission %d: %w", sub.ID, err)
	}
	logger.Info("Booking delivered", "submissionID", sub.ID, "bookingID", bookingID)
	return nil
}

// DeliverPending retries queued submissions that have attempts left
func (s *submissionService) DeliverPending(ctx context.Context) (int, int, error) {
	pending, err := s.repo.ListPending(ctx, s.opts.BatchSize, s.opts.MaxAttempts)
	if err != nil {
		return 0, 0, err
	}

	delivered, failed := 0, 0
	for i := range pending {
		if ctx.Err() != nil {
			return delivered, failed, ctx.Err()
		}
		if err := s.Deliver(ctx, &pending[i]); err != nil {
			failed++
			continue
		}
		delivered++
	}
	return delivered, failed, nil
}

func (s *submissionService) Get(ctx context.Context, id int32) (*domain.Submission, error) {
	return s.repo.GetByID(ctx, id)
}
