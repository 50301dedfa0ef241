package domain

import "github.com/shopspring/decimal"

type ReferenceKind string

const (
	ReferenceUnits         ReferenceKind = "units"
	ReferenceGuests        ReferenceKind = "guests"
	ReferenceRentalTypes   ReferenceKind = "rental-types"
	ReferenceDiscountTypes ReferenceKind = "discount-types"
	ReferenceSources       ReferenceKind = "sources"
	ReferenceReasons       ReferenceKind = "reasons"
	ReferenceRelationships ReferenceKind = "relationships"
)

// OptionKinds are the reference lists served as plain id/name options.
var OptionKinds = []ReferenceKind{
	ReferenceRentalTypes,
	ReferenceDiscountTypes,
	ReferenceSources,
	ReferenceReasons,
	ReferenceRelationships,
}

type Unit struct {
	ID           string          `json:"id"`
	UnitNumber   string          `json:"unit_number" validate:"required"`
	Name         string          `json:"name"`
	UnitType     string          `json:"unit_type"`
	Floor        string          `json:"floor"`
	Status       string          `json:"status"`
	Price        decimal.Decimal `json:"price"`
	DailyPrice   decimal.Decimal `json:"daily_price"`
	HourlyPrice  decimal.Decimal `json:"hourly_price"`
	MonthlyPrice decimal.Decimal `json:"monthly_price"`
}

// PriceFor returns the unit's rate for the rental type, falling back to the
// base price when no specific rate is set.
func (u Unit) PriceFor(t RentalType) decimal.Decimal {
	var p decimal.Decimal
	switch t {
	case RentalTypeDaily:
		p = u.DailyPrice
	case RentalTypeHourly:
		p = u.HourlyPrice
	case RentalTypeMonthly:
		p = u.MonthlyPrice
	}
	if p.IsZero() {
		return u.Price
	}
	return p
}

// Label is the text a unit selector shows.
func (u Unit) Label() string {
	if u.UnitNumber != "" {
		return u.UnitNumber
	}
	return u.Name
}

type Guest struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name" validate:"required"`
	Phone       string `json:"phone"`
	Email       string `json:"email" validate:"omitempty,email"`
	Nationality string `json:"nationality"`
	IDType      string `json:"id_type"`
	IDNumber    string `json:"id_number"`
	GuestType   string `json:"guest_type"`
}

type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ReferenceData is the snapshot of option lists a panel session works with.
type ReferenceData struct {
	Units         []Unit   `json:"units"`
	Guests        []Guest  `json:"guests"`
	RentalTypes   []Option `json:"rental_types"`
	DiscountTypes []Option `json:"discount_types"`
	Sources       []Option `json:"sources"`
	Reasons       []Option `json:"reasons"`
	Relationships []Option `json:"relationships"`
}

func (r ReferenceData) Clone() ReferenceData {
	return ReferenceData{
		Units:         cloneSlice(r.Units),
		Guests:        cloneSlice(r.Guests),
		RentalTypes:   cloneSlice(r.RentalTypes),
		DiscountTypes: cloneSlice(r.DiscountTypes),
		Sources:       cloneSlice(r.Sources),
		Reasons:       cloneSlice(r.Reasons),
		Relationships: cloneSlice(r.Relationships),
	}
}

// SetOptions stores an option list by kind. Unknown kinds are ignored.
func (r *ReferenceData) SetOptions(kind ReferenceKind, opts []Option) {
	switch kind {
	case ReferenceRentalTypes:
		r.RentalTypes = opts
	case ReferenceDiscountTypes:
		r.DiscountTypes = opts
	case ReferenceSources:
		r.Sources = opts
	case ReferenceReasons:
		r.Reasons = opts
	case ReferenceRelationships:
		r.Relationships = opts
	}
}
