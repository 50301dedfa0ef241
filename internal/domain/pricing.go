package domain

import "github.com/shopspring/decimal"

// PricingRequest asks the backend to calculate the rental for a draft.
type PricingRequest struct {
	HotelID       string          `json:"hotelId"`
	RentalType    RentalType      `json:"rentalType"`
	CheckInDate   string          `json:"checkInDate"`
	CheckOutDate  string          `json:"checkOutDate,omitempty"`
	Duration      int             `json:"duration"`
	UnitID        string          `json:"unitId"`
	Rent          decimal.Decimal `json:"rent"`
	DiscountType  string          `json:"discountType,omitempty"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	ReservationID string          `json:"reservationId,omitempty"`
}

// PricingQuote is the backend's answer. Nil fields were omitted by the backend.
type PricingQuote struct {
	CheckOutDate *string          `json:"checkOutDate,omitempty"`
	Rent         *decimal.Decimal `json:"rent,omitempty"`
	Discount     *decimal.Decimal `json:"discount,omitempty"`
	Subtotal     *decimal.Decimal `json:"subtotal,omitempty"`
	Tax          *decimal.Decimal `json:"tax,omitempty"`
	Total        *decimal.Decimal `json:"total,omitempty"`
	Balance      *decimal.Decimal `json:"balance,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
}

// ApplyTo overwrites the draft fields the quote carries.
func (q PricingQuote) ApplyTo(d *Draft) {
	if q.CheckOutDate != nil && *q.CheckOutDate != "" {
		d.CheckOutDate = *q.CheckOutDate
	}
	set := func(dst *decimal.Decimal, src *decimal.Decimal) {
		if src != nil {
			*dst = *src
		}
	}
	set(&d.Rent, q.Rent)
	set(&d.Discount, q.Discount)
	set(&d.Tax, q.Tax)
	q.ApplyDerived(d)
}

// ApplyDerived overwrites only the ledger figures the quote carries. The
// backend's figures win over a local recalculation.
func (q PricingQuote) ApplyDerived(d *Draft) {
	for _, f := range []struct {
		dst *decimal.Decimal
		src *decimal.Decimal
	}{
		{&d.Value, q.Amount},
		{&d.Subtotal, q.Subtotal},
		{&d.Total, q.Total},
		{&d.Balance, q.Balance},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
}

// PricingDiscountType maps the panel's discount type to the pricing
// endpoint's vocabulary. Unknown types are omitted.
func PricingDiscountType(t DiscountType) string {
	switch t {
	case DiscountTypePercentage:
		return "percent"
	case DiscountTypeFixed:
		return "fixed"
	}
	return ""
}
