package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"hoteldesk-panel/internal/domain"
	"hoteldesk-panel/internal/logger"
	"hoteldesk-panel/internal/service"

	"github.com/gorilla/mux"
)

// PanelHandler exposes booking panel sessions to the desk UI
type PanelHandler struct {
	panels      *service.PanelManager
	pricingWait time.Duration
}

func NewPanelHandler(panels *service.PanelManager, pricingWait time.Duration) *PanelHandler {
	return &PanelHandler{panels: panels, pricingWait: pricingWait}
}

type openPanelRequest struct {
	Template domain.Draft `json:"template"`
}

type unitEditorResponse struct {
	Mode service.EditorMode `json:"mode"`
	Unit domain.Unit        `json:"unit"`
}

type guestEditorResponse struct {
	Mode  service.EditorMode `json:"mode"`
	Guest domain.Guest       `json:"guest"`
}

func (h *PanelHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openPanelRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p := h.panels.Open(r.Context(), req.Template)
	if op, err := OperatorFromContext(r.Context()); err == nil {
		logger.Info("Booking panel opened", "panel_id", p.ID(), "operatorID", op.OperatorID, "bookingID", req.Template.ID)
	}

	state, err := p.State()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

func (h *PanelHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.panel(w, r)
	if !ok {
		return
	}
	h.respondState(w, r, p)
}

func (h *PanelHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.panels.Close(mux.Vars(r)["panelId"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Patch applies one edit. With ?wait=true the response is held until the
// pricing request it triggered settles or the wait timeout passes.
func (h *PanelHandler) Patch(w http.ResponseWriter, r *http.Request) {
	p, ok := h.panel(w, r)
	if !ok {
		return
	}

	var patch domain.DraftPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	state, err := p.Update(patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait && state.Calculating {
		ctx, cancel := context.WithTimeout(r.Context(), h.pricingWait)
		defer cancel()
		if err := p.AwaitPricing(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			writeError(w, r, err)
			return
		}
		h.respondState(w, r, p)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *PanelHandler) References(w http.ResponseWriter, r *http.Request) {
	p, ok := h.panel(w, r)
	if !ok {
		return
	}
	refs, err := p.References()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, refs)
}

func (h *PanelHandler) AddCompanion(w http.ResponseWriter, r *http.Request) {
	p, ok := h.panel(w, r)
	if !ok {
		return
	}

	var in service.CompanionInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	state, err := p.AddCompanion(in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *PanelHandler) RemoveCompanion(w http.ResponseWriter, r *http.Request) {
	p, ok := h.panel(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", service.ErrCompanionIndex, err))
		return
	}
	state, err := p.RemoveCompanion(index)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *PanelHandler) UnitEditor(w http.ResponseWriter, r *http.Request) {
	p, ok := h.panel(w, r)
	if !ok {
		return
	}
	mode := editorMode(r)
	unit, err := p.UnitEditor(mode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, unitEditorResponse{Mode: mode, Unit: unit})
}

func (h *PanelHandler) SaveUnit(w http.ResponseWriter, r *http.Request) {
	p, ok := h.panel(w, r)
	if !ok {
		return
	}

	var unit domain.Unit
	if err := decodeBody(r, &unit); err != nil {
		writeError(w, r, err)
		return
	}
	state, err := p.SaveUnit(r.Context(), unit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *PanelHandler) GuestEditor(w http.ResponseWriter, r *http.Request) {
	p, ok := h.panel(w, r)
	if !ok {
		return
	}
	mode := editorMode(r)
	guest, err := p.GuestEditor(mode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, guestEditorResponse{Mode: mode, Guest: guest})
}

func (h *PanelHandler) SaveGuest(w http.ResponseWriter, r *http.Request) {
	p, ok := h.panel(w, r)
	if !ok {
		return
	}

	var guest domain.Guest
	if err := decodeBody(r, &guest); err != nil {
		writeError(w, r, err)
		return
	}
	state, err := p.SaveGuest(r.Context(), guest)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Submit finalizes the booking. A delivered submission answers 201, a queued
// one 202.
func (h *PanelHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sub, err := h.panels.Submit(r.Context(), mux.Vars(r)["panelId"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := http.StatusAccepted
	if sub.IsDelivered() {
		status = http.StatusCreated
	}
	writeJSON(w, status, sub)
}

func (h *PanelHandler) panel(w http.ResponseWriter, r *http.Request) (*service.Panel, bool) {
	p, err := h.panels.Get(mux.Vars(r)["panelId"])
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return p, true
}

func (h *PanelHandler) respondState(w http.ResponseWriter, r *http.Request, p *service.Panel) {
	state, err := p.State()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func editorMode(r *http.Request) service.EditorMode {
	if mode := r.URL.Query().Get("mode"); mode != "" {
		return service.EditorMode(mode)
	}
	return service.EditorAdd
}
