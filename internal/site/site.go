// Package site is the registry of host sites the widget is delivered
// to: their identifiers, allowed origins and the URL paths the widget
// runs on.
package site

import (
	"path"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Site is one registered host site.
type Site struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Origin string `json:"origin"`
	// IncludePaths are glob patterns (with ** support) for URL paths
	// the widget activates on. Empty means everywhere.
	IncludePaths []string `json:"include_paths"`
	// ExcludePaths are glob patterns for URL paths the widget stays
	// off. Exclusion wins over inclusion.
	ExcludePaths []string `json:"exclude_paths"`
	Enabled      bool     `json:"enabled"`
	// ConsentVersion, when positive, overrides the global consent
	// schema version for this site.
	ConsentVersion int       `json:"consent_version,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// MatchesPath reports whether the widget runs on the given URL path.
func (s Site) MatchesPath(p string) bool {
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if matchesAny(p, s.ExcludePaths) {
		return false
	}
	if len(s.IncludePaths) == 0 {
		return true
	}
	return matchesAny(p, s.IncludePaths)
}

// matchesAny checks p against each glob pattern. It uses doublestar for
// ** support; invalid patterns never match.
func matchesAny(p string, patterns []string) bool {
	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(pattern, "/")
		if ok, err := doublestar.Match(pattern, p); err == nil && ok {
			return true
		}
	}
	return false
}
