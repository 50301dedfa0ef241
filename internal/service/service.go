package service

import (
	"context"
	"encoding/json"
	"errors"

	"hoteldesk-panel/internal/domain"
)

var (
	ErrPanelNotFound  = errors.New("panel not found")
	ErrPanelClosed    = errors.New("panel is closed")
	ErrCompanionIndex = errors.New("companion index out of range")
)

// ReferenceSource lists the option data a booking panel needs
type ReferenceSource interface {
	ListUnits(ctx context.Context) ([]domain.Unit, error)
	ListGuests(ctx context.Context) ([]domain.Guest, error)
	ListOptions(ctx context.Context, kind domain.ReferenceKind) ([]domain.Option, error)
}

// PricingCalculator is the backend's rental calculation endpoint
type PricingCalculator interface {
	CalculateRent(ctx context.Context, req domain.PricingRequest) (*domain.PricingQuote, error)
}

// EntityWriter persists units and guests created from inside a booking panel
type EntityWriter interface {
	CreateUnit(ctx context.Context, unit domain.Unit) (*domain.Unit, error)
	UpdateUnit(ctx context.Context, unit domain.Unit) (*domain.Unit, error)
	CreateGuest(ctx context.Context, guest domain.Guest) (*domain.Guest, error)
	UpdateGuest(ctx context.Context, guest domain.Guest) (*domain.Guest, error)
}

// BookingWriter persists finalized bookings
type BookingWriter interface {
	CreateBooking(ctx context.Context, payload json.RawMessage) (string, error)
	UpdateBooking(ctx context.Context, bookingID string, payload json.RawMessage) error
}

type ReferenceService interface {
	// Load fetches every reference list. Lists that fail to load are left empty.
	Load(ctx context.Context) domain.ReferenceData
}

// SaveFunc receives a finalized draft from a panel
type SaveFunc func(ctx context.Context, panelID string, draft domain.Draft) (*domain.Submission, error)

type SubmissionService interface {
	Submit(ctx context.Context, panelID string, draft domain.Draft) (*domain.Submission, error)
	Deliver(ctx context.Context, s *domain.Submission) error
	DeliverPending(ctx context.Context) (delivered, failed int, err error)
	Get(ctx context.Context, id int32) (*domain.Submission, error)
}
