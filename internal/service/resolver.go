package service

import (
	"strings"

	"hoteldesk-panel/internal/domain"
)

// ResolveSelection matches a selection against the loaded reference list of
// the given kind and returns it with its canonical ID and display label.
// The ID is tried first, then the label. Guests match on ID, full name or
// phone; units on ID, unit number or name. Unknown kinds never match.
func ResolveSelection(kind domain.ReferenceKind, refs domain.ReferenceData, sel domain.Selection) (domain.Selection, bool) {
	for _, v := range []string{sel.ID, sel.Label} {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		switch kind {
		case domain.ReferenceUnits:
			if u, ok := findUnit(refs.Units, v); ok {
				return domain.Selection{ID: u.ID, Label: u.Label()}, true
			}
		case domain.ReferenceGuests:
			if g, ok := findGuest(refs.Guests, v); ok {
				return domain.Selection{ID: g.ID, Label: g.FullName}, true
			}
		}
	}
	return sel, false
}

// selectionFromInput turns a selector value that may be an ID or a label into
// a selection, resolved when the list knows it.
func selectionFromInput(kind domain.ReferenceKind, refs domain.ReferenceData, value string) domain.Selection {
	value = strings.TrimSpace(value)
	if value == "" {
		return domain.Selection{}
	}
	sel, _ := ResolveSelection(kind, refs, domain.Selection{Label: value})
	return sel
}

func findUnit(units []domain.Unit, v string) (domain.Unit, bool) {
	for _, u := range units {
		if u.ID == v {
			return u, true
		}
	}
	for _, u := range units {
		if u.UnitNumber == v || u.Name == v {
			return u, true
		}
	}
	return domain.Unit{}, false
}

func findGuest(guests []domain.Guest, v string) (domain.Guest, bool) {
	for _, g := range guests {
		if g.ID == v {
			return g, true
		}
	}
	for _, g := range guests {
		if g.FullName == v || (g.Phone != "" && g.Phone == v) {
			return g, true
		}
	}
	return domain.Guest{}, false
}
