package service

import (
	"context"
	"encoding/json"

	"hoteldesk-panel/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockReferenceSource
type MockReferenceSource struct {
	mock.Mock
}

func (m *MockReferenceSource) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Unit), args.Error(1)
}
func (m *MockReferenceSource) ListGuests(ctx context.Context) ([]domain.Guest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Guest), args.Error(1)
}
func (m *MockReferenceSource) ListOptions(ctx context.Context, kind domain.ReferenceKind) ([]domain.Option, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Option), args.Error(1)
}

// MockPricing
type MockPricing struct {
	mock.Mock
}

func (m *MockPricing) CalculateRent(ctx context.Context, req domain.PricingRequest) (*domain.PricingQuote, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PricingQuote), args.Error(1)
}

// MockEntities
type MockEntities struct {
	mock.Mock
}

func (m *MockEntities) CreateUnit(ctx context.Context, unit domain.Unit) (*domain.Unit, error) {
	args := m.Called(ctx, unit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}
func (m *MockEntities) UpdateUnit(ctx context.Context, unit domain.Unit) (*domain.Unit, error) {
	args := m.Called(ctx, unit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Unit), args.Error(1)
}
func (m *MockEntities) CreateGuest(ctx context.Context, guest domain.Guest) (*domain.Guest, error) {
	args := m.Called(ctx, guest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Guest), args.Error(1)
}
func (m *MockEntities) UpdateGuest(ctx context.Context, guest domain.Guest) (*domain.Guest, error) {
	args := m.Called(ctx, guest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Guest), args.Error(1)
}

// MockBookingWriter
type MockBookingWriter struct {
	mock.Mock
}

func (m *MockBookingWriter) CreateBooking(ctx context.Context, payload json.RawMessage) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}
func (m *MockBookingWriter) UpdateBooking(ctx context.Context, bookingID string, payload json.RawMessage) error {
	args := m.Called(ctx, bookingID, payload)
	return args.Error(0)
}

// MockSubmissionRepo
type MockSubmissionRepo struct {
	mock.Mock
}

func (m *MockSubmissionRepo) Create(ctx context.Context, s *domain.Submission) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockSubmissionRepo) GetByID(ctx context.Context, id int32) (*domain.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}
func (m *MockSubmissionRepo) ListPending(ctx context.Context, limit, maxAttempts int) ([]domain.Submission, error) {
	args := m.Called(ctx, limit, maxAttempts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Submission), args.Error(1)
}
func (m *MockSubmissionRepo) MarkDelivered(ctx context.Context, id int32, bookingID string) error {
	args := m.Called(ctx, id, bookingID)
	return args.Error(0)
}
func (m *MockSubmissionRepo) MarkFailed(ctx context.Context, id int32, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

// staticRefs serves a fixed reference snapshot
type staticRefs struct {
	data domain.ReferenceData
}

func (s staticRefs) Load(ctx context.Context) domain.ReferenceData {
	return s.data.Clone()
}
