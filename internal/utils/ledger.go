package utils

import (
	"github.com/shopspring/decimal"

	"hoteldesk-panel/internal/domain"
)

// LedgerInput holds the booking figures the financial ledger is derived from
type LedgerInput struct {
	Rent           decimal.Decimal
	Discount       decimal.Decimal
	Tax            decimal.Decimal
	TotalOrders    decimal.Decimal
	Payments       decimal.Decimal
	CompanionCount int
}

// LedgerOutput holds the derived ledger figures
type LedgerOutput struct {
	Value      decimal.Decimal
	Subtotal   decimal.Decimal
	Total      decimal.Decimal
	Balance    decimal.Decimal
	Companions int
}

// RecalculateLedger derives the ledger:
//
//	value    = rent
//	subtotal = value - discount
//	total    = subtotal + tax + totalOrders
//	balance  = payments - total
func RecalculateLedger(in LedgerInput) LedgerOutput {
	value := in.Rent
	subtotal := value.Sub(in.Discount)
	total := subtotal.Add(in.Tax).Add(in.TotalOrders)
	return LedgerOutput{
		Value:      value,
		Subtotal:   subtotal,
		Total:      total,
		Balance:    in.Payments.Sub(total),
		Companions: in.CompanionCount,
	}
}

// RecalculateDraft writes the derived ledger back into the draft
func RecalculateDraft(d *domain.Draft, companionCount int) {
	out := RecalculateLedger(LedgerInput{
		Rent:           d.Rent,
		Discount:       d.Discount,
		Tax:            d.Tax,
		TotalOrders:    d.TotalOrders,
		Payments:       d.Payments,
		CompanionCount: companionCount,
	})
	d.Value = out.Value
	d.Subtotal = out.Subtotal
	d.Total = out.Total
	d.Balance = out.Balance
	d.Companions = out.Companions
}
