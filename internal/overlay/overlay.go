// Package overlay owns the visibility of the widget's overlay surfaces.
// Each surface is governed by exactly one boolean signal held here;
// rendering derives from that signal and nothing else, so no second
// styling source can ever disagree with it.
package overlay

import (
	"sync"
	"time"
)

// SurfaceID identifies one overlay surface.
type SurfaceID string

const (
	Panel         SurfaceID = "panel"
	ReadingGuide  SurfaceID = "reading-guide"
	StructureMap  SurfaceID = "structure-map"
	ShortcutGuide SurfaceID = "shortcut-guide"
	ConsentBanner SurfaceID = "consent-banner"
)

// Surfaces lists every overlay surface in a fixed order.
var Surfaces = []SurfaceID{Panel, ReadingGuide, StructureMap, ShortcutGuide, ConsentBanner}

// known reports whether id names a real surface.
func known(id SurfaceID) bool {
	for _, s := range Surfaces {
		if s == id {
			return true
		}
	}
	return false
}

// Manager tracks surface visibility. Surfaces are independent; opening
// one never implicitly closes another. A fresh manager starts with
// every surface hidden.
//
// The mutex exists only because auto-dismiss timers fire on their own
// goroutine; all interactive mutation arrives on a single event path.
type Manager struct {
	mu      sync.Mutex
	visible map[SurfaceID]bool
	order   []SurfaceID // open order, last entry is topmost

	// gen invalidates scheduled auto-dismissals: any open or close
	// bumps the surface generation, so a timer armed before the change
	// finds a stale generation and does nothing.
	gen    map[SurfaceID]uint64
	timers map[SurfaceID]*time.Timer
}

// NewManager returns a manager with all surfaces hidden.
func NewManager() *Manager {
	return &Manager{
		visible: make(map[SurfaceID]bool),
		gen:     make(map[SurfaceID]uint64),
		timers:  make(map[SurfaceID]*time.Timer),
	}
}

// Open makes a surface visible. Opening an already-visible surface is a
// no-op (the surface keeps its position in the stacking order).
func (m *Manager) Open(id SurfaceID) {
	if !known(id) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen[id]++
	if m.visible[id] {
		return
	}
	m.visible[id] = true
	m.order = append(m.order, id)
}

// Close hides a surface. Closing an already-hidden surface is a no-op.
// Every close path in the widget, the explicit control and the escape
// key alike, funnels through here.
func (m *Manager) Close(id SurfaceID) {
	if !known(id) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeLocked(id)
}

func (m *Manager) closeLocked(id SurfaceID) {
	m.gen[id]++
	if !m.visible[id] {
		return
	}
	delete(m.visible, id)
	for i, s := range m.order {
		if s == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Toggle flips a surface between hidden and visible.
func (m *Manager) Toggle(id SurfaceID) {
	if m.IsOpen(id) {
		m.Close(id)
	} else {
		m.Open(id)
	}
}

// IsOpen reports the surface's single visibility signal.
func (m *Manager) IsOpen(id SurfaceID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible[id]
}

// Topmost returns the most recently opened surface still visible.
func (m *Manager) Topmost() (SurfaceID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.order) == 0 {
		return "", false
	}
	return m.order[len(m.order)-1], true
}

// CloseTopmost closes the most recently opened visible surface and
// reports whether anything was open.
func (m *Manager) CloseTopmost() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.order) == 0 {
		return false
	}
	m.closeLocked(m.order[len(m.order)-1])
	return true
}

// Visibility returns a snapshot of every surface's signal, hidden
// surfaces included.
func (m *Manager) Visibility() map[SurfaceID]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := make(map[SurfaceID]bool, len(Surfaces))
	for _, s := range Surfaces {
		snap[s] = m.visible[s]
	}
	return snap
}

// ScheduleAutoDismiss arms a timer that closes the surface after d,
// unless the surface is closed or reopened first; either invalidates
// the pending timer, so a stale dismissal can never close a surface the
// visitor just reopened.
func (m *Manager) ScheduleAutoDismiss(id SurfaceID, d time.Duration) {
	if !known(id) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.visible[id] {
		return
	}
	if t := m.timers[id]; t != nil {
		t.Stop()
	}
	armed := m.gen[id]
	m.timers[id] = time.AfterFunc(d, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.gen[id] != armed {
			return
		}
		m.closeLocked(id)
	})
}

// Stop cancels all pending auto-dismiss timers.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.timers {
		t.Stop()
		delete(m.timers, id)
	}
}
