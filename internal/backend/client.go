package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hoteldesk-panel/internal/domain"
	"hoteldesk-panel/internal/logger"
)

const serviceName = "hotel-backend"

// Client talks to the hotel's REST backend
type Client struct {
	baseURL    string
	hotelID    string
	apiToken   string
	httpClient *http.Client
}

// NewClient creates a backend client scoped to one hotel
func NewClient(baseURL, hotelID, apiToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		hotelID:  hotelID,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) HotelID() string {
	return c.hotelID
}

func (c *Client) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	records, err := list[unitRecord](ctx, c, "ListUnits", c.hotelPath("units"))
	if err != nil {
		return nil, err
	}
	units := make([]domain.Unit, 0, len(records))
	for _, r := range records {
		units = append(units, r.toDomain())
	}
	return units, nil
}

func (c *Client) ListGuests(ctx context.Context) ([]domain.Guest, error) {
	records, err := list[guestRecord](ctx, c, "ListGuests", c.hotelPath("guests"))
	if err != nil {
		return nil, err
	}
	guests := make([]domain.Guest, 0, len(records))
	for _, r := range records {
		guests = append(guests, r.toDomain())
	}
	return guests, nil
}

// ListOptions fetches one of the plain id/name option lists
func (c *Client) ListOptions(ctx context.Context, kind domain.ReferenceKind) ([]domain.Option, error) {
	records, err := list[optionRecord](ctx, c, "ListOptions", c.hotelPath(string(kind)))
	if err != nil {
		return nil, err
	}
	opts := make([]domain.Option, 0, len(records))
	for _, r := range records {
		opts = append(opts, domain.Option{ID: string(r.ID), Name: r.Name})
	}
	return opts, nil
}

// CalculateRent asks the backend's rental calculation endpoint to price a draft
func (c *Client) CalculateRent(ctx context.Context, req domain.PricingRequest) (*domain.PricingQuote, error) {
	var quote domain.PricingQuote
	err := c.call(ctx, "CalculateRent", http.MethodPost, c.hotelPath("reservations", "calculate-rent"), req, &quote,
		"unit_id", req.UnitID, "rental_type", req.RentalType)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (c *Client) CreateUnit(ctx context.Context, unit domain.Unit) (*domain.Unit, error) {
	var out unitRecord
	if err := c.call(ctx, "CreateUnit", http.MethodPost, c.hotelPath("units"), unitFromDomain(unit), &out); err != nil {
		return nil, err
	}
	saved := out.toDomain()
	return &saved, nil
}

func (c *Client) UpdateUnit(ctx context.Context, unit domain.Unit) (*domain.Unit, error) {
	var out unitRecord
	if err := c.call(ctx, "UpdateUnit", http.MethodPut, c.hotelPath("units", unit.ID), unitFromDomain(unit), &out, "unit_id", unit.ID); err != nil {
		return nil, err
	}
	saved := out.toDomain()
	if saved.ID == "" {
		saved.ID = unit.ID
	}
	return &saved, nil
}

func (c *Client) CreateGuest(ctx context.Context, guest domain.Guest) (*domain.Guest, error) {
	var out guestRecord
	if err := c.call(ctx, "CreateGuest", http.MethodPost, c.hotelPath("guests"), guestFromDomain(guest), &out); err != nil {
		return nil, err
	}
	saved := out.toDomain()
	return &saved, nil
}

func (c *Client) UpdateGuest(ctx context.Context, guest domain.Guest) (*domain.Guest, error) {
	var out guestRecord
	if err := c.call(ctx, "UpdateGuest", http.MethodPut, c.hotelPath("guests", guest.ID), guestFromDomain(guest), &out, "guest_id", guest.ID); err != nil {
		return nil, err
	}
	saved := out.toDomain()
	if saved.ID == "" {
		saved.ID = guest.ID
	}
	return &saved, nil
}

// CreateBooking posts a serialized BookingPayload and returns the new booking ID
func (c *Client) CreateBooking(ctx context.Context, payload json.RawMessage) (string, error) {
	var out BookingResult
	if err := c.call(ctx, "CreateBooking", http.MethodPost, c.hotelPath("bookings"), payload, &out); err != nil {
		return "", err
	}
	return string(out.ID), nil
}

// UpdateBooking replaces an existing booking with a serialized BookingPayload
func (c *Client) UpdateBooking(ctx context.Context, bookingID string, payload json.RawMessage) error {
	return c.call(ctx, "UpdateBooking", http.MethodPut, c.hotelPath("bookings", bookingID), payload, nil, "booking_id", bookingID)
}

func (c *Client) hotelPath(parts ...string) string {
	escaped := make([]string, 0, len(parts)+2)
	escaped = append(escaped, "hotels", url.PathEscape(c.hotelID))
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return "/" + strings.Join(escaped, "/")
}

// call performs one request and logs its outcome. Calls abandoned because the
// caller's context ended are not reported as failures.
func (c *Client) call(ctx context.Context, op, method, path string, body, out any, args ...any) error {
	logger.ExternalServiceCall(serviceName, op, append([]any{"method", method, "path", path}, args...)...)

	err := c.do(ctx, method, path, body, out)
	if err != nil && ctx.Err() != nil {
		logger.Debug("External service call abandoned", "service", serviceName, "operation", op, "reason", ctx.Err())
		return err
	}
	logger.ExternalServiceResult(serviceName, op, err, args...)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// decode below
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", ErrNotFound, method, path)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%w: %s", ErrRejected, errorMessage(resp))
	default:
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, errorMessage(resp))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}

func errorMessage(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Message != "" {
		return er.Message
	}
	if len(body) == 0 {
		return http.StatusText(resp.StatusCode)
	}
	return strings.TrimSpace(string(body))
}

// list fetches a collection that the backend returns either as a flat array
// or wrapped in a data/items/results envelope.
func list[T any](ctx context.Context, c *Client, op, path string) ([]T, error) {
	var raw json.RawMessage
	if err := c.call(ctx, op, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[T](raw)
}

func decodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: failed to decode list: %v", ErrInvalidResponse, err)
		}
		return items, nil
	}

	var p page
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: failed to decode page: %v", ErrInvalidResponse, err)
	}
	for _, inner := range []json.RawMessage{p.Data, p.Items, p.Results} {
		inner = bytes.TrimSpace(inner)
		if len(inner) > 0 && inner[0] == '[' {
			return decodeList[T](inner)
		}
	}
	return nil, fmt.Errorf("%w: response is neither a list nor a page", ErrInvalidResponse)
}
