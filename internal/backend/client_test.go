package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hoteldesk-panel/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "7", "token-abc", 2*time.Second)
}

func TestClient_ListUnits(t *testing.T) {
	t.Run("Flat array", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/hotels/7/units", r.URL.Path)
			assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
			w.Write([]byte(`[{"id":"u1","unitNumber":"101","price":"250.50","dailyPrice":300}]`))
		})

		units, err := c.ListUnits(context.Background())
		require.NoError(t, err)
		require.Len(t, units, 1)
		assert.Equal(t, "u1", units[0].ID)
		assert.Equal(t, "101", units[0].UnitNumber)
		assert.True(t, decimal.RequireFromString("250.5").Equal(units[0].Price))
		assert.True(t, decimal.NewFromInt(300).Equal(units[0].DailyPrice))
	})

	t.Run("Paginated with numeric ids", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":[{"id":12,"unitNumber":"204"}],"total":1}`))
		})

		units, err := c.ListUnits(context.Background())
		require.NoError(t, err)
		require.Len(t, units, 1)
		assert.Equal(t, "12", units[0].ID)
	})

	t.Run("Server error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"code":502,"message":"upstream down"}`))
		})

		_, err := c.ListUnits(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidResponse)
		assert.Contains(t, err.Error(), "upstream down")
	})
}

func TestClient_ListOptions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hotels/7/relationships", r.URL.Path)
		w.Write([]byte(`{"items":[{"id":1,"name":"Spouse"},{"id":"2","name":"Child"}]}`))
	})

	opts, err := c.ListOptions(context.Background(), domain.ReferenceRelationships)
	require.NoError(t, err)
	assert.Equal(t, []domain.Option{{ID: "1", Name: "Spouse"}, {ID: "2", Name: "Child"}}, opts)
}

func TestClient_CalculateRent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/hotels/7/reservations/calculate-rent", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u1", body["unitId"])
		assert.Equal(t, "percent", body["discountType"])
		assert.NotContains(t, body, "reservationId")

		w.Write([]byte(`{"checkOutDate":"2024-05-04","total":"970","amount":1000}`))
	})

	quote, err := c.CalculateRent(context.Background(), domain.PricingRequest{
		HotelID:       "7",
		RentalType:    domain.RentalTypeDaily,
		CheckInDate:   "2024-05-01",
		Duration:      3,
		UnitID:        "u1",
		Rent:          decimal.NewFromInt(1000),
		DiscountType:  "percent",
		DiscountValue: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	require.NotNil(t, quote.CheckOutDate)
	assert.Equal(t, "2024-05-04", *quote.CheckOutDate)
	assert.True(t, decimal.NewFromInt(970).Equal(*quote.Total))
	assert.Nil(t, quote.Rent)
}

func TestClient_CalculateRent_Cancelled(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.CalculateRent(ctx, domain.PricingRequest{UnitID: "u1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrInternal)
}

func TestClient_SaveGuest(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/hotels/7/guests", r.URL.Path)
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.NotContains(t, body, "id")
			assert.Equal(t, "Ada Lovelace", body["fullName"])
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":55,"fullName":"Ada Lovelace"}`))
		})

		g, err := c.CreateGuest(context.Background(), domain.Guest{FullName: "Ada Lovelace"})
		require.NoError(t, err)
		assert.Equal(t, "55", g.ID)
	})

	t.Run("Update rejected", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/hotels/7/guests/g1", r.URL.Path)
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message":"phone already used"}`))
		})

		_, err := c.UpdateGuest(context.Background(), domain.Guest{ID: "g1", FullName: "X"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRejected)
		assert.Contains(t, err.Error(), "phone already used")
	})
}

func TestClient_Bookings(t *testing.T) {
	payload := json.RawMessage(`{"guestName":"g1","unitName":"u1"}`)

	t.Run("Create returns id", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/hotels/7/bookings", r.URL.Path)
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, string(payload), string(body))
			w.Write([]byte(`{"id":"b-9"}`))
		})

		id, err := c.CreateBooking(context.Background(), payload)
		require.NoError(t, err)
		assert.Equal(t, "b-9", id)
	})

	t.Run("Update not found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		err := c.UpdateBooking(context.Background(), "b-1", payload)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Update no content", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			w.WriteHeader(http.StatusNoContent)
		})

		assert.NoError(t, c.UpdateBooking(context.Background(), "b-1", payload))
	})
}

func TestNewBookingPayload(t *testing.T) {
	d := domain.Draft{
		ID:         "b1",
		Guest:      domain.Selection{ID: "g1", Label: "Ada"},
		Unit:       domain.Selection{ID: "u1", Label: "101"},
		RentalType: domain.RentalTypeDaily,
		Rent:       decimal.NewFromInt(1000),
		Companions: 1,
		CompanionsData: []domain.Companion{
			{GuestID: "g2", GuestName: "Bob", Relationship: "Spouse"},
		},
	}

	p := NewBookingPayload("7", d)
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "g1", out["guestName"])
	assert.Equal(t, "u1", out["unitName"])
	assert.Equal(t, "7", out["hotelId"])
	assert.Equal(t, "1000", out["rent"])
	companions := out["companionsData"].([]any)
	require.Len(t, companions, 1)
	assert.Equal(t, "g2", companions[0].(map[string]any)["guestId"])
}

func TestDecodeList_Invalid(t *testing.T) {
	_, err := decodeList[optionRecord](json.RawMessage(`{"total":0}`))
	assert.ErrorIs(t, err, ErrInvalidResponse)

	items, err := decodeList[optionRecord](json.RawMessage(`null`))
	assert.NoError(t, err)
	assert.Empty(t, items)
}
