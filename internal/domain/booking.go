package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type RentalType string

const (
	RentalTypeDaily   RentalType = "daily"
	RentalTypeHourly  RentalType = "hourly"
	RentalTypeMonthly RentalType = "monthly"
)

func (t RentalType) Valid() bool {
	switch t {
	case RentalTypeDaily, RentalTypeHourly, RentalTypeMonthly:
		return true
	}
	return false
}

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Selection is a reference picked in the panel. ID is empty until the label
// has been matched against a loaded reference list.
type Selection struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func (s Selection) IsZero() bool {
	return s.ID == "" && s.Label == ""
}

func (s Selection) Resolved() bool {
	return s.ID != ""
}

type Companion struct {
	GuestID      string `json:"guest_id" validate:"required"`
	GuestName    string `json:"guest_name"`
	Relationship string `json:"relationship" validate:"required"`
	Notes        string `json:"notes"`
}

// Draft is the in-progress booking edited by a panel session.
type Draft struct {
	ID           string     `json:"id,omitempty"`
	Guest        Selection  `json:"guest"`
	Unit         Selection  `json:"unit"`
	CheckInDate  string     `json:"check_in_date"`
	CheckOutDate string     `json:"check_out_date"`
	RentalType   RentalType `json:"rental_type"`
	Duration     int        `json:"duration"`

	Price        decimal.Decimal `json:"price"`
	Rent         decimal.Decimal `json:"rent"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType DiscountType    `json:"discount_type"`
	Tax          decimal.Decimal `json:"tax"`
	TotalOrders  decimal.Decimal `json:"total_orders"`
	Payments     decimal.Decimal `json:"payments"`

	// Derived by the ledger recalculation or the pricing service
	Value    decimal.Decimal `json:"value"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
	Balance  decimal.Decimal `json:"balance"`

	Source    string `json:"source"`
	Reason    string `json:"reason"`
	GuestType string `json:"guest_type"`
	Notes     string `json:"notes"`

	Companions     int         `json:"companions"`
	CompanionsData []Companion `json:"companions_data,omitempty"`

	ReceiptIDs []string `json:"receipt_ids,omitempty"`
	InvoiceIDs []string `json:"invoice_ids,omitempty"`
	OrderIDs   []string `json:"order_ids,omitempty"`
}

// UnmarshalJSON decodes the money fields as Amount, so a template with a
// blank or mistyped figure opens with zero there the same way a patch does.
func (d *Draft) UnmarshalJSON(data []byte) error {
	type plain Draft
	aux := struct {
		*plain
		Price       Amount `json:"price"`
		Rent        Amount `json:"rent"`
		Discount    Amount `json:"discount"`
		Tax         Amount `json:"tax"`
		TotalOrders Amount `json:"total_orders"`
		Payments    Amount `json:"payments"`
		Value       Amount `json:"value"`
		Subtotal    Amount `json:"subtotal"`
		Total       Amount `json:"total"`
		Balance     Amount `json:"balance"`
	}{
		plain:       (*plain)(d),
		Price:       Amount{d.Price},
		Rent:        Amount{d.Rent},
		Discount:    Amount{d.Discount},
		Tax:         Amount{d.Tax},
		TotalOrders: Amount{d.TotalOrders},
		Payments:    Amount{d.Payments},
		Value:       Amount{d.Value},
		Subtotal:    Amount{d.Subtotal},
		Total:       Amount{d.Total},
		Balance:     Amount{d.Balance},
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.Price = aux.Price.Decimal
	d.Rent = aux.Rent.Decimal
	d.Discount = aux.Discount.Decimal
	d.Tax = aux.Tax.Decimal
	d.TotalOrders = aux.TotalOrders.Decimal
	d.Payments = aux.Payments.Decimal
	d.Value = aux.Value.Decimal
	d.Subtotal = aux.Subtotal.Decimal
	d.Total = aux.Total.Decimal
	d.Balance = aux.Balance.Decimal
	return nil
}

func (d Draft) IsExisting() bool {
	return d.ID != ""
}

// Clone returns a copy that shares no slices with d.
func (d Draft) Clone() Draft {
	c := d
	c.CompanionsData = cloneSlice(d.CompanionsData)
	c.ReceiptIDs = cloneSlice(d.ReceiptIDs)
	c.InvoiceIDs = cloneSlice(d.InvoiceIDs)
	c.OrderIDs = cloneSlice(d.OrderIDs)
	return c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// DraftPatch carries the fields a single edit changes. Nil fields are untouched.
// Guest and Unit hold whatever the selector produced: an ID or a display label.
type DraftPatch struct {
	Guest        *string       `json:"guest,omitempty"`
	Unit         *string       `json:"unit,omitempty"`
	CheckInDate  *string       `json:"check_in_date,omitempty"`
	CheckOutDate *string       `json:"check_out_date,omitempty"`
	RentalType   *RentalType   `json:"rental_type,omitempty"`
	Duration     *int          `json:"duration,omitempty"`
	Price        *Amount       `json:"price,omitempty"`
	Rent         *Amount       `json:"rent,omitempty"`
	Discount     *Amount       `json:"discount,omitempty"`
	DiscountType *DiscountType `json:"discount_type,omitempty"`
	Tax          *Amount       `json:"tax,omitempty"`
	TotalOrders  *Amount       `json:"total_orders,omitempty"`
	Payments     *Amount       `json:"payments,omitempty"`
	Source       *string       `json:"source,omitempty"`
	Reason       *string       `json:"reason,omitempty"`
	GuestType    *string       `json:"guest_type,omitempty"`
	Notes        *string       `json:"notes,omitempty"`
	ReceiptIDs   []string      `json:"receipt_ids,omitempty"`
	InvoiceIDs   []string      `json:"invoice_ids,omitempty"`
	OrderIDs     []string      `json:"order_ids,omitempty"`
}

// ScheduleChanged reports whether the patch touches a field the rental
// duration is derived from.
func (p DraftPatch) ScheduleChanged() bool {
	return p.CheckInDate != nil || p.CheckOutDate != nil || p.RentalType != nil
}

// ApplyScalars copies every non-selection field of p into d.
func (p DraftPatch) ApplyScalars(d *Draft) {
	if p.CheckInDate != nil {
		d.CheckInDate = *p.CheckInDate
	}
	if p.CheckOutDate != nil {
		d.CheckOutDate = *p.CheckOutDate
	}
	if p.RentalType != nil {
		d.RentalType = *p.RentalType
	}
	if p.Duration != nil {
		d.Duration = *p.Duration
	}
	if p.Price != nil {
		d.Price = p.Price.Decimal
	}
	if p.Rent != nil {
		d.Rent = p.Rent.Decimal
	}
	if p.Discount != nil {
		d.Discount = p.Discount.Decimal
	}
	if p.DiscountType != nil {
		d.DiscountType = *p.DiscountType
	}
	if p.Tax != nil {
		d.Tax = p.Tax.Decimal
	}
	if p.TotalOrders != nil {
		d.TotalOrders = p.TotalOrders.Decimal
	}
	if p.Payments != nil {
		d.Payments = p.Payments.Decimal
	}
	if p.Source != nil {
		d.Source = *p.Source
	}
	if p.Reason != nil {
		d.Reason = *p.Reason
	}
	if p.GuestType != nil {
		d.GuestType = *p.GuestType
	}
	if p.Notes != nil {
		d.Notes = *p.Notes
	}
	if p.ReceiptIDs != nil {
		d.ReceiptIDs = cloneSlice(p.ReceiptIDs)
	}
	if p.InvoiceIDs != nil {
		d.InvoiceIDs = cloneSlice(p.InvoiceIDs)
	}
	if p.OrderIDs != nil {
		d.OrderIDs = cloneSlice(p.OrderIDs)
	}
}
