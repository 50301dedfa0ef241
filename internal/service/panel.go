package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"hoteldesk-panel/internal/domain"
	"hoteldesk-panel/internal/logger"
	"hoteldesk-panel/internal/metrics"
	"hoteldesk-panel/internal/utils"
)

// EditorMode selects how a nested unit or guest editor opens
type EditorMode string

const (
	EditorAdd  EditorMode = "add"
	EditorEdit EditorMode = "edit"
	EditorView EditorMode = "view"
)

// PanelDeps are the collaborators shared by every panel session
type PanelDeps struct {
	HotelID  string
	Pricing  PricingCalculator
	Entities EntityWriter
	OnSave   SaveFunc
	Metrics  *metrics.Metrics
}

// PanelState is what the host UI renders for a session
type PanelState struct {
	ID               string             `json:"id"`
	Draft            domain.Draft       `json:"draft"`
	Companions       []domain.Companion `json:"companions"`
	Calculating      bool               `json:"calculating"`
	CalculationError string             `json:"calculation_error,omitempty"`
	Editing          bool               `json:"editing"`
}

// CompanionInput is the nested companion modal's form
type CompanionInput struct {
	GuestID      string `json:"guest_id"`
	Relationship string `json:"relationship"`
	Notes        string `json:"notes"`
}

// Panel is one open booking panel. All methods are safe for concurrent use.
type Panel struct {
	id   string
	deps PanelDeps
	log  *slog.Logger

	mu           sync.Mutex
	draft        domain.Draft
	refs         domain.ReferenceData
	companions   []domain.Companion
	calcErr      string
	calculating  bool
	closed       bool
	lastActivity time.Time

	// pricing sync: generation identifies the live request, anything older is stale
	generation  uint64
	cancel      context.CancelFunc
	done        chan struct{}
	lastTrigger string
	inflight    sync.WaitGroup // pricing goroutines, drained by PanelManager.CloseAll
}

// OpenPanel starts a session on a private copy of template
func OpenPanel(id string, template domain.Draft, refs domain.ReferenceData, deps PanelDeps) *Panel {
	p := &Panel{
		id:           id,
		deps:         deps,
		log:          logger.WithPanel(id),
		draft:        template.Clone(),
		refs:         refs.Clone(),
		companions:   cloneCompanions(template.CompanionsData),
		lastActivity: time.Now(),
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.draft.Guest = p.resolveOrKeep(domain.ReferenceGuests, p.draft.Guest)
	p.draft.Unit = p.resolveOrKeep(domain.ReferenceUnits, p.draft.Unit)
	if p.draft.Duration <= 0 {
		p.deriveDurationLocked()
	}
	p.afterChangeLocked()

	p.log.Info("Booking panel opened", "editing", p.draft.IsExisting(), "units", len(p.refs.Units), "guests", len(p.refs.Guests))
	return p
}

func (p *Panel) ID() string {
	return p.id
}

func (p *Panel) LastActivity() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastActivity
}

// State returns a snapshot of the session
func (p *Panel) State() (PanelState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return PanelState{}, ErrPanelClosed
	}
	return p.stateLocked(), nil
}

// References returns the session's reference lists
func (p *Panel) References() (domain.ReferenceData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return domain.ReferenceData{}, ErrPanelClosed
	}
	return p.refs.Clone(), nil
}

// Update applies one edit to the draft, recalculates the ledger and, when a
// pricing trigger changed, replaces the live pricing request.
func (p *Panel) Update(patch domain.DraftPatch) (PanelState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return PanelState{}, ErrPanelClosed
	}

	var res domain.ValidationResult
	if patch.RentalType != nil && *patch.RentalType != "" && !patch.RentalType.Valid() {
		res.Add("rental_type", fmt.Sprintf("unknown rental type %q", *patch.RentalType))
	}
	if patch.Duration != nil && *patch.Duration < 0 {
		res.Add("duration", "must not be negative")
	}
	if err := res.Err(); err != nil {
		return PanelState{}, err
	}

	patch.ApplyScalars(&p.draft)
	if patch.Guest != nil {
		p.draft.Guest = selectionFromInput(domain.ReferenceGuests, p.refs, *patch.Guest)
	}
	if patch.Unit != nil {
		p.draft.Unit = selectionFromInput(domain.ReferenceUnits, p.refs, *patch.Unit)
	}
	if patch.ScheduleChanged() && patch.Duration == nil {
		p.deriveDurationLocked()
	}

	p.afterChangeLocked()
	return p.stateLocked(), nil
}

// AddCompanion appends a companion. Guest and relationship are required.
func (p *Panel) AddCompanion(in CompanionInput) (PanelState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return PanelState{}, ErrPanelClosed
	}

	c := domain.Companion{
		GuestID:      in.GuestID,
		Relationship: in.Relationship,
		Notes:        in.Notes,
	}
	if sel, ok := ResolveSelection(domain.ReferenceGuests, p.refs, domain.Selection{ID: in.GuestID}); ok {
		c.GuestID = sel.ID
		c.GuestName = sel.Label
	}
	if err := domain.Validate(c).Err(); err != nil {
		return PanelState{}, err
	}

	p.companions = append(p.companions, c)
	p.afterChangeLocked()
	return p.stateLocked(), nil
}

// RemoveCompanion deletes the companion at index
func (p *Panel) RemoveCompanion(index int) (PanelState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return PanelState{}, ErrPanelClosed
	}
	if index < 0 || index >= len(p.companions) {
		return PanelState{}, fmt.Errorf("%w: %d", ErrCompanionIndex, index)
	}

	p.companions = append(p.companions[:index:index], p.companions[index+1:]...)
	p.afterChangeLocked()
	return p.stateLocked(), nil
}

// UnitEditor returns the record a nested unit editor should open with
func (p *Panel) UnitEditor(mode EditorMode) (domain.Unit, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return domain.Unit{}, ErrPanelClosed
	}

	switch mode {
	case EditorAdd:
		return domain.Unit{}, nil
	case EditorEdit, EditorView:
		if p.draft.Unit.IsZero() {
			return domain.Unit{}, selectionRequired("unit", "select a unit first")
		}
		sel, ok := ResolveSelection(domain.ReferenceUnits, p.refs, p.draft.Unit)
		if !ok {
			return domain.Unit{}, selectionRequired("unit", "selected unit is not in the unit list")
		}
		u, _ := findUnit(p.refs.Units, sel.ID)
		return u, nil
	default:
		return domain.Unit{}, selectionRequired("mode", fmt.Sprintf("unknown editor mode %q", mode))
	}
}

// GuestEditor returns the record a nested guest editor should open with
func (p *Panel) GuestEditor(mode EditorMode) (domain.Guest, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return domain.Guest{}, ErrPanelClosed
	}

	switch mode {
	case EditorAdd:
		return domain.Guest{}, nil
	case EditorEdit, EditorView:
		if p.draft.Guest.IsZero() {
			return domain.Guest{}, selectionRequired("guest", "select a guest first")
		}
		sel, ok := ResolveSelection(domain.ReferenceGuests, p.refs, p.draft.Guest)
		if !ok {
			return domain.Guest{}, selectionRequired("guest", "selected guest is not in the guest list")
		}
		g, _ := findGuest(p.refs.Guests, sel.ID)
		return g, nil
	default:
		return domain.Guest{}, selectionRequired("mode", fmt.Sprintf("unknown editor mode %q", mode))
	}
}

// SaveUnit creates or updates a unit through the backend, merges it into the
// unit list, selects it and copies its price into the draft.
func (p *Panel) SaveUnit(ctx context.Context, unit domain.Unit) (PanelState, error) {
	if err := domain.Validate(unit).Err(); err != nil {
		return PanelState{}, err
	}
	if err := p.checkOpen(); err != nil {
		return PanelState{}, err
	}

	var saved *domain.Unit
	var err error
	if unit.ID == "" {
		saved, err = p.deps.Entities.CreateUnit(ctx, unit)
	} else {
		saved, err = p.deps.Entities.UpdateUnit(ctx, unit)
	}
	if err != nil {
		p.log.Error("Failed to save unit", "unitID", unit.ID, "error", err)
		return PanelState{}, fmt.Errorf("save unit: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return PanelState{}, ErrPanelClosed
	}

	p.refs.Units = mergeRecord(p.refs.Units, *saved, unit.ID != "", func(u domain.Unit) string { return u.ID })
	p.draft.Unit = domain.Selection{ID: saved.ID, Label: saved.Label()}
	if price := saved.PriceFor(p.draft.RentalType); !price.IsZero() {
		p.draft.Price = price
		p.draft.Rent = price
	}
	p.log.Info("Unit saved from booking panel", "unitID", saved.ID, "created", unit.ID == "")

	p.afterChangeLocked()
	return p.stateLocked(), nil
}

// SaveGuest creates or updates a guest through the backend, merges it into
// the guest list and selects it.
func (p *Panel) SaveGuest(ctx context.Context, guest domain.Guest) (PanelState, error) {
	if err := domain.Validate(guest).Err(); err != nil {
		return PanelState{}, err
	}
	if err := p.checkOpen(); err != nil {
		return PanelState{}, err
	}

	var saved *domain.Guest
	var err error
	if guest.ID == "" {
		saved, err = p.deps.Entities.CreateGuest(ctx, guest)
	} else {
		saved, err = p.deps.Entities.UpdateGuest(ctx, guest)
	}
	if err != nil {
		p.log.Error("Failed to save guest", "guestID", guest.ID, "error", err)
		return PanelState{}, fmt.Errorf("save guest: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return PanelState{}, ErrPanelClosed
	}

	p.refs.Guests = mergeRecord(p.refs.Guests, *saved, guest.ID != "", func(g domain.Guest) string { return g.ID })
	p.draft.Guest = domain.Selection{ID: saved.ID, Label: saved.FullName}
	p.log.Info("Guest saved from booking panel", "guestID", saved.ID, "created", guest.ID == "")

	p.afterChangeLocked()
	return p.stateLocked(), nil
}

// Submit resolves the guest and unit to canonical IDs, attaches the
// companions and hands the finalized draft to the save callback. A guest or
// unit that cannot be resolved blocks the save.
func (p *Panel) Submit(ctx context.Context) (*domain.Submission, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPanelClosed
	}

	var res domain.ValidationResult
	guest, ok := ResolveSelection(domain.ReferenceGuests, p.refs, p.draft.Guest)
	if !ok {
		res.Add("guest", unresolvedMessage("guest", p.draft.Guest))
	}
	unit, ok := ResolveSelection(domain.ReferenceUnits, p.refs, p.draft.Unit)
	if !ok {
		res.Add("unit", unresolvedMessage("unit", p.draft.Unit))
	}
	if !res.OK() {
		p.mu.Unlock()
		return nil, res.Err()
	}

	p.draft.Guest = guest
	p.draft.Unit = unit
	p.afterChangeLocked()

	final := p.draft.Clone()
	final.CompanionsData = cloneCompanions(p.companions)
	final.Companions = len(p.companions)
	p.touchLocked()
	p.mu.Unlock()

	if p.deps.OnSave == nil {
		return nil, errors.New("panel has no save handler")
	}
	sub, err := p.deps.OnSave(ctx, p.id, final)
	if err != nil {
		p.log.Error("Booking save failed", "error", err)
		return nil, err
	}
	p.log.Info("Booking submitted", "submissionID", sub.ID, "status", sub.Status)
	return sub, nil
}

// Close discards the draft and cancels any live pricing request
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.cancelPricingLocked()
	p.calculating = false
	p.draft = domain.Draft{}
	p.companions = nil
	p.refs = domain.ReferenceData{}
	p.log.Info("Booking panel closed")
}

func (p *Panel) checkOpen() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPanelClosed
	}
	p.touchLocked()
	return nil
}

func (p *Panel) touchLocked() {
	p.lastActivity = time.Now()
}

func (p *Panel) stateLocked() PanelState {
	return PanelState{
		ID:               p.id,
		Draft:            p.draft.Clone(),
		Companions:       cloneCompanions(p.companions),
		Calculating:      p.calculating,
		CalculationError: p.calcErr,
		Editing:          p.draft.IsExisting(),
	}
}

// afterChangeLocked reruns the ledger and the pricing sync
func (p *Panel) afterChangeLocked() {
	p.touchLocked()
	utils.RecalculateDraft(&p.draft, len(p.companions))
	p.syncPricingLocked()
}

func (p *Panel) deriveDurationLocked() {
	n, err := utils.RentalDuration(p.draft.RentalType, p.draft.CheckInDate, p.draft.CheckOutDate)
	if err != nil {
		p.log.Debug("Rental duration not derived", "error", err)
		return
	}
	if n > 0 {
		p.draft.Duration = n
	}
}

func (p *Panel) resolveOrKeep(kind domain.ReferenceKind, sel domain.Selection) domain.Selection {
	if sel.IsZero() {
		return sel
	}
	if resolved, ok := ResolveSelection(kind, p.refs, sel); ok {
		return resolved
	}
	return sel
}

func selectionRequired(field, msg string) error {
	var res domain.ValidationResult
	res.Add(field, msg)
	return res.Err()
}

func unresolvedMessage(what string, sel domain.Selection) string {
	if sel.IsZero() {
		return "is required"
	}
	v := sel.Label
	if v == "" {
		v = sel.ID
	}
	return fmt.Sprintf("%s %q was not found", what, v)
}

func cloneCompanions(in []domain.Companion) []domain.Companion {
	out := make([]domain.Companion, len(in))
	copy(out, in)
	return out
}

// mergeRecord replaces an edited record in place or prepends a new one
func mergeRecord[T any](list []T, rec T, edited bool, id func(T) string) []T {
	if edited {
		for i := range list {
			if id(list[i]) == id(rec) {
				out := make([]T, len(list))
				copy(out, list)
				out[i] = rec
				return out
			}
		}
	}
	out := make([]T, 0, len(list)+1)
	out = append(out, rec)
	return append(out, list...)
}
