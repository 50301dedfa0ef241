package backend

import (
	"bytes"
	"encoding/json"

	"hoteldesk-panel/internal/domain"

	"github.com/shopspring/decimal"
)

// ErrorResponse is the backend's error body
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// flexID accepts identifiers sent either as JSON strings or numbers
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	*f = flexID(data)
	return nil
}

// page covers the paginated envelopes the list endpoints may return
type page struct {
	Data    json.RawMessage `json:"data"`
	Items   json.RawMessage `json:"items"`
	Results json.RawMessage `json:"results"`
}

type unitRecord struct {
	ID           flexID          `json:"id,omitempty"`
	UnitNumber   string          `json:"unitNumber"`
	Name         string          `json:"name"`
	UnitType     string          `json:"unitType"`
	Floor        string          `json:"floor"`
	Status       string          `json:"status"`
	Price        decimal.Decimal `json:"price"`
	DailyPrice   decimal.Decimal `json:"dailyPrice"`
	HourlyPrice  decimal.Decimal `json:"hourlyPrice"`
	MonthlyPrice decimal.Decimal `json:"monthlyPrice"`
}

func (r unitRecord) toDomain() domain.Unit {
	return domain.Unit{
		ID:           string(r.ID),
		UnitNumber:   r.UnitNumber,
		Name:         r.Name,
		UnitType:     r.UnitType,
		Floor:        r.Floor,
		Status:       r.Status,
		Price:        r.Price,
		DailyPrice:   r.DailyPrice,
		HourlyPrice:  r.HourlyPrice,
		MonthlyPrice: r.MonthlyPrice,
	}
}

func unitFromDomain(u domain.Unit) unitRecord {
	return unitRecord{
		ID:           flexID(u.ID),
		UnitNumber:   u.UnitNumber,
		Name:         u.Name,
		UnitType:     u.UnitType,
		Floor:        u.Floor,
		Status:       u.Status,
		Price:        u.Price,
		DailyPrice:   u.DailyPrice,
		HourlyPrice:  u.HourlyPrice,
		MonthlyPrice: u.MonthlyPrice,
	}
}

type guestRecord struct {
	ID          flexID `json:"id,omitempty"`
	FullName    string `json:"fullName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Nationality string `json:"nationality"`
	IDType      string `json:"idType"`
	IDNumber    string `json:"idNumber"`
	GuestType   string `json:"guestType"`
}

func (r guestRecord) toDomain() domain.Guest {
	return domain.Guest{
		ID:          string(r.ID),
		FullName:    r.FullName,
		Phone:       r.Phone,
		Email:       r.Email,
		Nationality: r.Nationality,
		IDType:      r.IDType,
		IDNumber:    r.IDNumber,
		GuestType:   r.GuestType,
	}
}

func guestFromDomain(g domain.Guest) guestRecord {
	return guestRecord{
		ID:          flexID(g.ID),
		FullName:    g.FullName,
		Phone:       g.Phone,
		Email:       g.Email,
		Nationality: g.Nationality,
		IDType:      g.IDType,
		IDNumber:    g.IDNumber,
		GuestType:   g.GuestType,
	}
}

type optionRecord struct {
	ID   flexID `json:"id,omitempty"`
	Name string `json:"name"`
}

type companionRecord struct {
	GuestID      string `json:"guestId"`
	GuestName    string `json:"guestName"`
	Relationship string `json:"relationship"`
	Notes        string `json:"notes,omitempty"`
}

// BookingPayload is the booking body the backend persists. GuestName and
// UnitName carry canonical IDs.
type BookingPayload struct {
	ID             string            `json:"id,omitempty"`
	HotelID        string            `json:"hotelId"`
	GuestName      string            `json:"guestName"`
	UnitName       string            `json:"unitName"`
	CheckInDate    string            `json:"checkInDate"`
	CheckOutDate   string            `json:"checkOutDate"`
	RentalType     string            `json:"rentalType"`
	Duration       int               `json:"duration"`
	Price          decimal.Decimal   `json:"price"`
	Rent           decimal.Decimal   `json:"rent"`
	Discount       decimal.Decimal   `json:"discount"`
	DiscountType   string            `json:"discountType,omitempty"`
	Tax            decimal.Decimal   `json:"tax"`
	TotalOrders    decimal.Decimal   `json:"totalOrders"`
	Payments       decimal.Decimal   `json:"payments"`
	Value          decimal.Decimal   `json:"value"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	Total          decimal.Decimal   `json:"total"`
	Balance        decimal.Decimal   `json:"balance"`
	Source         string            `json:"source,omitempty"`
	Reason         string            `json:"reason,omitempty"`
	GuestType      string            `json:"guestType,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	Companions     int               `json:"companions"`
	CompanionsData []companionRecord `json:"companionsData"`
	ReceiptIDs     []string          `json:"receipts,omitempty"`
	InvoiceIDs     []string          `json:"invoices,omitempty"`
	OrderIDs       []string          `json:"orders,omitempty"`
}

// NewBookingPayload converts a finalized draft into the backend booking body
func NewBookingPayload(hotelID string, d domain.Draft) BookingPayload {
	companions := make([]companionRecord, 0, len(d.CompanionsData))
	for _, c := range d.CompanionsData {
		companions = append(companions, companionRecord{
			GuestID:      c.GuestID,
			GuestName:    c.GuestName,
			Relationship: c.Relationship,
			Notes:        c.Notes,
		})
	}

	return BookingPayload{
		ID:             d.ID,
		HotelID:        hotelID,
		GuestName:      d.Guest.ID,
		UnitName:       d.Unit.ID,
		CheckInDate:    d.CheckInDate,
		CheckOutDate:   d.CheckOutDate,
		RentalType:     string(d.RentalType),
		Duration:       d.Duration,
		Price:          d.Price,
		Rent:           d.Rent,
		Discount:       d.Discount,
		DiscountType:   string(d.DiscountType),
		Tax:            d.Tax,
		TotalOrders:    d.TotalOrders,
		Payments:       d.Payments,
		Value:          d.Value,
		Subtotal:       d.Subtotal,
		Total:          d.Total,
		Balance:        d.Balance,
		Source:         d.Source,
		Reason:         d.Reason,
		GuestType:      d.GuestType,
		Notes:          d.Notes,
		Companions:     d.Companions,
		CompanionsData: companions,
		ReceiptIDs:     d.ReceiptIDs,
		InvoiceIDs:     d.InvoiceIDs,
		OrderIDs:       d.OrderIDs,
	}
}

// BookingResult is what the backend returns after persisting a booking
type BookingResult struct {
	ID flexID `json:"id,omitempty"`
}
