package site

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/accesskit/accesskit/internal/db"
)

// Store provides CRUD operations for registered sites.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create inserts a new site. If s.ID is empty a UUID is generated. The
// (possibly generated) ID is returned.
func (st *Store) Create(ctx context.Context, s Site) (string, error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	include, err := json.Marshal(emptyToSlice(s.IncludePaths))
	if err != nil {
		return "", fmt.Errorf("marshalling include paths: %w", err)
	}
	exclude, err := json.Marshal(emptyToSlice(s.ExcludePaths))
	if err != nil {
		return "", fmt.Errorf("marshalling exclude paths: %w", err)
	}

	enabled := 0
	if s.Enabled {
		enabled = 1
	}

	_, err = st.db.ExecContext(ctx, `
		INSERT INTO sites (id, name, origin, include_paths, exclude_paths, enabled, consent_version)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Origin, string(include), string(exclude), enabled, s.ConsentVersion,
	)
	if err != nil {
		return "", fmt.Errorf("inserting site: %w", err)
	}
	return s.ID, nil
}

// GetByID retrieves a single site.
func (st *Store) GetByID(ctx context.Context, id string) (*Site, error) {
	row := st.db.QueryRowContext(ctx, `
		SELECT id, name, origin, include_paths, exclude_paths, enabled, consent_version, created_at, updated_at
		FROM sites WHERE id = ?`, id)
	return scanSite(row)
}

// List returns every registered site, newest first.
func (st *Store) List(ctx context.Context) ([]Site, error) {
	rows, err := st.db.QueryContext(ctx, `
		SELECT id, name, origin, include_paths, exclude_paths, enabled, consent_version, created_at, updated_at
		FROM sites ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying sites: %w", err)
	}
	defer rows.Close()

	var result []Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

// SetEnabled flips delivery for a site.
func (st *Store) SetEnabled(ctx context.Context, id string, enabled bool) error {
	v := 0
	if enabled {
		v = 1
	}
	res, err := st.db.ExecContext(ctx, `
		UPDATE sites SET enabled = ?, updated_at = datetime('now') WHERE id = ?`, v, id)
	if err != nil {
		return fmt.Errorf("updating site: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("site %s not found", id)
	}
	return nil
}

// Update rewrites a site's mutable fields.
func (st *Store) Update(ctx context.Context, s Site) error {
	include, err := json.Marshal(emptyToSlice(s.IncludePaths))
	if err != nil {
		return fmt.Errorf("marshalling include paths: %w", err)
	}
	exclude, err := json.Marshal(emptyToSlice(s.ExcludePaths))
	if err != nil {
		return fmt.Errorf("marshalling exclude paths: %w", err)
	}

	enabled := 0
	if s.Enabled {
		enabled = 1
	}

	res, err := st.db.ExecContext(ctx, `
		UPDATE sites SET name = ?, origin = ?, include_paths = ?, exclude_paths = ?,
			enabled = ?, consent_version = ?, updated_at = datetime('now')
		WHERE id = ?`,
		s.Name, s.Origin, string(include), string(exclude), enabled, s.ConsentVersion, s.ID)
	if err != nil {
		return fmt.Errorf("updating site: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("site %s not found", s.ID)
	}
	return nil
}

// Delete removes a site.
func (st *Store) Delete(ctx context.Context, id string) error {
	res, err := st.db.ExecContext(ctx, "DELETE FROM sites WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting site: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("site %s not found", id)
	}
	return nil
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSite(sc scanner) (*Site, error) {
	var (
		s                        Site
		includeJSON, excludeJSON string
		enabled                  int
		created, updated         string
	)
	err := sc.Scan(&s.ID, &s.Name, &s.Origin, &includeJSON, &excludeJSON,
		&enabled, &s.ConsentVersion, &created, &updated)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("site not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scanning site: %w", err)
	}

	s.Enabled = enabled != 0
	if err := json.Unmarshal([]byte(includeJSON), &s.IncludePaths); err != nil {
		s.IncludePaths = nil
	}
	if err := json.Unmarshal([]byte(excludeJSON), &s.ExcludePaths); err != nil {
		s.ExcludePaths = nil
	}
	if t, parseErr := time.Parse(time.DateTime, created); parseErr == nil {
		s.CreatedAt = t
	}
	if t, parseErr := time.Parse(time.DateTime, updated); parseErr == nil {
		s.UpdatedAt = t
	}
	return &s, nil
}

func emptyToSlice(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
