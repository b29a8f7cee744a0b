package prefstore

import (
	"context"

	"github.com/accesskit/accesskit/internal/consent"
	"github.com/accesskit/accesskit/internal/feature"
)

// MemoryBackend keeps preferences in process memory. It backs tests and
// the session-only mode used when durable storage is unavailable.
type MemoryBackend struct {
	state      feature.State
	consent    *consent.Record
	loadErr    error
	saveErr    error
	consentErr error
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{state: feature.State{}}
}

// FailLoads makes subsequent loads return err (test hook).
func (b *MemoryBackend) FailLoads(err error) { b.loadErr = err }

// FailSaves makes subsequent feature saves return err (test hook).
func (b *MemoryBackend) FailSaves(err error) { b.saveErr = err }

// FailConsent makes subsequent consent saves return err (test hook).
func (b *MemoryBackend) FailConsent(err error) { b.consentErr = err }

func (b *MemoryBackend) LoadState(context.Context) (feature.State, error) {
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	return b.state.Clone(), nil
}

func (b *MemoryBackend) SaveFeature(_ context.Context, id feature.ID, v feature.Value, isDefault bool) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	if isDefault {
		delete(b.state, id)
		return nil
	}
	b.state[id] = v
	return nil
}

func (b *MemoryBackend) ClearFeatures(context.Context) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	b.state = feature.State{}
	return nil
}

func (b *MemoryBackend) LoadConsent(context.Context) (consent.Record, bool, error) {
	if b.loadErr != nil {
		return consent.Record{}, false, b.loadErr
	}
	if b.consent == nil {
		return consent.Record{}, false, nil
	}
	return *b.consent, true, nil
}

func (b *MemoryBackend) SaveConsent(_ context.Context, rec consent.Record) error {
	if b.consentErr != nil {
		return b.consentErr
	}
	b.consent = &rec
	return nil
}
