package prefstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/accesskit/accesskit/internal/consent"
	"github.com/accesskit/accesskit/internal/db"
	"github.com/accesskit/accesskit/internal/feature"
)

// SQLiteBackend persists one visitor's preferences in the shared
// accesskit database, keyed by (site, visitor).
type SQLiteBackend struct {
	db        *db.DB
	siteID    string
	visitorID string
}

// NewSQLiteBackend returns a backend scoped to the given site and
// visitor.
func NewSQLiteBackend(database *db.DB, siteID, visitorID string) *SQLiteBackend {
	return &SQLiteBackend{db: database, siteID: siteID, visitorID: visitorID}
}

// LoadState reads every stored feature value for the visitor. Rows
// holding values that no longer validate against the catalog are
// skipped rather than failing the whole load.
func (b *SQLiteBackend) LoadState(ctx context.Context) (feature.State, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT feature_id, value FROM preferences
		WHERE site_id = ? AND visitor_id = ?`, b.siteID, b.visitorID)
	if err != nil {
		return nil, fmt.Errorf("querying preferences: %w", err)
	}
	defer rows.Close()

	state := feature.State{}
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scanning preference: %w", err)
		}
		var v feature.Value
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			continue
		}
		state.Set(feature.ID(id), v)
	}
	return state, rows.Err()
}

// SaveFeature upserts one feature value, or deletes the row when the
// value is the catalog default.
func (b *SQLiteBackend) SaveFeature(ctx context.Context, id feature.ID, v feature.Value, isDefault bool) error {
	if isDefault {
		_, err := b.db.ExecContext(ctx, `
			DELETE FROM preferences
			WHERE site_id = ? AND visitor_id = ? AND feature_id = ?`,
			b.siteID, b.visitorID, string(id))
		if err != nil {
			return fmt.Errorf("deleting preference: %w", err)
		}
		return nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling preference: %w", err)
	}

	_, err = b.db.ExecContext(ctx, `
		INSERT INTO preferences (site_id, visitor_id, feature_id, value, updated_at)
		VALUES (?, ?, ?, ?, datetime('now'))
		ON CONFLICT(site_id, visitor_id, feature_id) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		b.siteID, b.visitorID, string(id), string(raw))
	if err != nil {
		return fmt.Errorf("upserting preference: %w", err)
	}
	return nil
}

// ClearFeatures removes every stored feature value for the visitor.
func (b *SQLiteBackend) ClearFeatures(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, `
		DELETE FROM preferences WHERE site_id = ? AND visitor_id = ?`,
		b.siteID, b.visitorID)
	if err != nil {
		return fmt.Errorf("clearing preferences: %w", err)
	}
	return nil
}

// LoadConsent reads the visitor's consent record, reporting absence
// without error.
func (b *SQLiteBackend) LoadConsent(ctx context.Context) (consent.Record, bool, error) {
	var (
		decision string
		version  int
		decided  string
	)
	err := b.db.QueryRowContext(ctx, `
		SELECT decision, version, decided_at FROM consent_records
		WHERE site_id = ? AND visitor_id = ?`, b.siteID, b.visitorID).
		Scan(&decision, &version, &decided)
	if err == sql.ErrNoRows {
		return consent.Record{}, false, nil
	}
	if err != nil {
		return consent.Record{}, false, fmt.Errorf("querying consent: %w", err)
	}

	rec := consent.Record{Decision: consent.Decision(decision), Version: version}
	if t, parseErr := time.Parse(time.RFC3339, decided); parseErr == nil {
		rec.Timestamp = t
	} else if t, parseErr := time.Parse(time.DateTime, decided); parseErr == nil {
		rec.Timestamp = t
	}
	return rec, true, nil
}

// SaveConsent upserts the visitor's consent record.
func (b *SQLiteBackend) SaveConsent(ctx context.Context, rec consent.Record) error {
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO consent_records (site_id, visitor_id, decision, version, decided_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(site_id, visitor_id) DO UPDATE SET
			decision = excluded.decision,
			version = excluded.version,
			decided_at = excluded.decided_at`,
		b.siteID, b.visitorID, string(rec.Decision), rec.Version,
		rec.Timestamp.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upserting consent: %w", err)
	}
	return nil
}
