package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hoteldesk-panel/internal/domain"
	"hoteldesk-panel/internal/metrics"
	"hoteldesk-panel/internal/utils"
)

// pricingKey identifies the combination of fields that drives a pricing request
func pricingKey(d domain.Draft) string {
	return fmt.Sprintf("%s|%s|%d|%s/%s|%s|%s|%s|%s",
		d.CheckInDate, d.RentalType, d.Duration, d.Unit.ID, d.Unit.Label,
		d.Rent.String(), d.Discount.String(), d.DiscountType, d.CheckOutDate)
}

// pricingRequestLocked builds the request for the current draft. It reports
// false when check-in, rental type, duration, rent or a resolvable unit is missing.
func (p *Panel) pricingRequestLocked() (domain.PricingRequest, bool) {
	d := p.draft
	if d.CheckInDate == "" || !d.RentalType.Valid() || d.Duration <= 0 || !d.Rent.IsPositive() {
		return domain.PricingRequest{}, false
	}
	unit, ok := ResolveSelection(domain.ReferenceUnits, p.refs, d.Unit)
	if !ok {
		return domain.PricingRequest{}, false
	}

	return domain.PricingRequest{
		HotelID:       p.deps.HotelID,
		RentalType:    d.RentalType,
		CheckInDate:   d.CheckInDate,
		CheckOutDate:  d.CheckOutDate,
		Duration:      d.Duration,
		UnitID:        unit.ID,
		Rent:          d.Rent,
		DiscountType:  domain.PricingDiscountType(d.DiscountType),
		DiscountValue: d.Discount,
		ReservationID: d.ID,
	}, true
}

// syncPricingLocked replaces the live pricing request when a trigger field
// changed since the last request was issued or applied.
func (p *Panel) syncPricingLocked() {
	key := pricingKey(p.draft)
	if key == p.lastTrigger {
		return
	}
	p.lastTrigger = key
	p.cancelPricingLocked()

	req, ok := p.pricingRequestLocked()
	if !ok || p.deps.Pricing == nil {
		p.calculating = false
		return
	}

	p.generation++
	gen := p.generation
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	p.calculating = true
	p.calcErr = ""
	p.deps.Metrics.PricingRequest(metrics.PricingIssued)
	p.log.Debug("Pricing request issued", "generation", gen, "unitID", req.UnitID, "rentalType", req.RentalType, "duration", req.Duration)

	p.inflight.Add(1)
	go p.runPricing(ctx, gen, req, done)
}

func (p *Panel) runPricing(ctx context.Context, gen uint64, req domain.PricingRequest, done chan struct{}) {
	defer p.inflight.Done()
	defer close(done)

	start := time.Now()
	quote, err := p.deps.Pricing.CalculateRent(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation || p.closed || ctx.Err() != nil {
		p.deps.Metrics.PricingRequest(metrics.PricingStale)
		p.log.Debug("Stale pricing response discarded", "generation", gen, "current", p.generation)
		return
	}

	p.cancel()
	p.cancel = nil
	p.done = nil
	p.calculating = false
	p.deps.Metrics.PricingLatency(time.Since(start))

	if err == nil && quote == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		p.calcErr = fmt.Sprintf("Failed to calculate rent: %v", err)
		p.deps.Metrics.PricingRequest(metrics.PricingFailed)
		p.log.Warn("Pricing request failed", "generation", gen, "error", err)
		return
	}

	quote.ApplyTo(&p.draft)
	utils.RecalculateDraft(&p.draft, len(p.companions))
	quote.ApplyDerived(&p.draft)
	// The applied response becomes the new baseline so it does not trigger itself.
	p.lastTrigger = pricingKey(p.draft)
	p.touchLocked()
	p.deps.Metrics.PricingRequest(metrics.PricingApplied)
	p.log.Debug("Pricing response applied", "generation", gen, "total", p.draft.Total.String())
}

// cancelPricingLocked aborts the live request, if any. Its response, should it
// still arrive, is discarded by the generation check.
func (p *Panel) cancelPricingLocked() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	p.cancel = nil
	p.done = nil
	p.generation++
	p.deps.Metrics.PricingRequest(metrics.PricingCancelled)
}

// AwaitPricing blocks until no pricing request is live or ctx ends
func (p *Panel) AwaitPricing(ctx context.Context) error {
	for {
		p.mu.Lock()
		done := p.done
		p.mu.Unlock()
		if done == nil {
			return nil
		}

		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
