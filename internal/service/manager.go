package service

import (
	"context"
	"sync"
	"time"

	"hoteldesk-panel/internal/domain"
	"hoteldesk-panel/internal/logger"

	"github.com/google/uuid"
)

// PanelManager owns the open booking panel sessions
type PanelManager struct {
	refs ReferenceService
	deps PanelDeps

	mu     sync.RWMutex
	panels map[string]*Panel
}

func NewPanelManager(refs ReferenceService, deps PanelDeps) *PanelManager {
	return &PanelManager{
		refs:   refs,
		deps:   deps,
		panels: make(map[string]*Panel),
	}
}

// Open loads the reference lists and starts a session on a copy of template
func (m *PanelManager) Open(ctx context.Context, template domain.Draft) *Panel {
	refs := m.refs.Load(ctx)
	p := OpenPanel(uuid.NewString(), template, refs, m.deps)

	m.mu.Lock()
	m.panels[p.ID()] = p
	n := len(m.panels)
	m.mu.Unlock()

	m.deps.Metrics.SetOpenPanels(n)
	return p
}

func (m *PanelManager) Get(id string) (*Panel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.panels[id]
	if !ok {
		return nil, ErrPanelNotFound
	}
	return p, nil
}

func (m *PanelManager) Close(id string) error {
	m.mu.Lock()
	p, ok := m.panels[id]
	delete(m.panels, id)
	n := len(m.panels)
	m.mu.Unlock()

	if !ok {
		return ErrPanelNotFound
	}
	p.Close()
	m.deps.Metrics.SetOpenPanels(n)
	return nil
}

// Submit finalizes a panel's booking and closes the panel once it is saved
func (m *PanelManager) Submit(ctx context.Context, id string) (*domain.Submission, error) {
	p, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	sub, err := p.Submit(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.Close(id); err != nil {
		logger.Warn("Submitted panel already closed", "panel_id", id)
	}
	return sub, nil
}

// SweepIdle closes sessions without activity for longer than ttl
func (m *PanelManager) SweepIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	m.mu.RLock()
	var idle []string
	for id, p := range m.panels {
		if p.LastActivity().Before(cutoff) {
			idle = append(idle, id)
		}
	}
	m.mu.RUnlock()

	closed := 0
	for _, id := range idle {
		if m.Close(id) == nil {
			closed++
		}
	}
	return closed
}

func (m *PanelManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.panels)
}

// CloseAll closes every session, cancelling their pricing requests, and
// waits for the cancelled requests to return.
func (m *PanelManager) CloseAll() {
	m.mu.Lock()
	panels := m.panels
	m.panels = make(map[string]*Panel)
	m.mu.Unlock()

	for _, p := range panels {
		p.Close()
	}
	for _, p := range panels {
		p.inflight.Wait()
	}
	m.deps.Metrics.SetOpenPanels(0)
}
