// Package prefstore is the single source of truth for a visitor's
// feature state and consent decision. All mutation goes through Store;
// every other component reads derived views and never caches beyond a
// single render pass.
package prefstore

import (
	"context"

	"go.uber.org/zap"

	"github.com/accesskit/accesskit/internal/consent"
	"github.com/accesskit/accesskit/internal/feature"
)

// Backend durably persists feature values and the consent record for
// one (site, visitor) pair.
type Backend interface {
	LoadState(ctx context.Context) (feature.State, error)
	// SaveFeature persists one feature value. A value equal to the
	// catalog default removes the stored entry instead: absence and
	// default are the same thing on disk too.
	SaveFeature(ctx context.Context, id feature.ID, v feature.Value, isDefault bool) error
	ClearFeatures(ctx context.Context) error
	LoadConsent(ctx context.Context) (consent.Record, bool, error)
	SaveConsent(ctx context.Context, rec consent.Record) error
}

// Store mediates all preference and consent access. When the backend
// fails the store silently downgrades to session-only memory: feature
// toggles keep working, they just no longer survive a reload.
// Accessibility features must not become inoperable merely because
// storage is blocked.
type Store struct {
	backend  Backend
	log      *zap.Logger
	degraded bool

	state   feature.State
	consent *consent.Record
}

// New loads the visitor's persisted state through backend. A load
// failure yields a working store over defaults for the session.
func New(ctx context.Context, backend Backend, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{backend: backend, log: log, state: feature.State{}}

	st, err := backend.LoadState(ctx)
	if err != nil {
		s.degrade("loading preferences", err)
	} else if st != nil {
		s.state = st
	}

	rec, ok, err := backend.LoadConsent(ctx)
	if err != nil {
		s.degrade("loading consent", err)
	} else if ok {
		s.consent = &rec
	}

	return s
}

// Get returns the effective value of a feature, the catalog default
// when nothing is stored.
func (s *Store) Get(id feature.ID) feature.Value {
	return s.state.Get(id)
}

// Set validates and stores a feature value. Out-of-range percents are
// clamped, never rejected; setting a feature to its default removes the
// stored entry. The write is persisted synchronously; persistence
// failure degrades to memory and is not surfaced to the caller.
func (s *Store) Set(ctx context.Context, id feature.ID, v feature.Value) {
	def, ok := feature.Lookup(id)
	if !ok {
		return
	}
	s.state.Set(id, v)
	if s.degraded {
		return
	}
	nv := def.Normalize(v)
	if err := s.backend.SaveFeature(ctx, id, nv, nv == def.Default); err != nil {
		s.degrade("saving preference", err)
	}
}

// Reset returns every feature to its default and clears persisted
// entries. The consent record is untouched.
func (s *Store) Reset(ctx context.Context) {
	s.state = feature.State{}
	if s.degraded {
		return
	}
	if err := s.backend.ClearFeatures(ctx); err != nil {
		s.degrade("clearing preferences", err)
	}
}

// State returns a copy of the explicitly set feature values.
func (s *Store) State() feature.State {
	return s.state.Clone()
}

// Consent returns the stored consent record, if any.
func (s *Store) Consent() (consent.Record, bool) {
	if s.consent == nil {
		return consent.Record{}, false
	}
	return *s.consent, true
}

// SetConsent records an explicit visitor decision under the given
// schema version (zero for the global schema) and persists it.
func (s *Store) SetConsent(ctx context.Context, decision consent.Decision, version int) consent.Record {
	rec := consent.New(decision, version)
	s.consent = &rec
	if !s.degraded {
		if err := s.backend.SaveConsent(ctx, rec); err != nil {
			s.degrade("saving consent", err)
		}
	}
	return rec
}

// Degraded reports whether the store has fallen back to session-only
// memory.
func (s *Store) Degraded() bool { return s.degraded }

func (s *Store) degrade(op string, err error) {
	if s.degraded {
		return
	}
	s.degraded = true
	s.log.Warn("preference storage unavailable, continuing in memory",
		zap.String("op", op), zap.Error(err))
}
