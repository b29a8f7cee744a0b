// Package consent models the visitor's data-collection decision and the
// optional fire-and-forget reporting of that decision to a remote
// collector.
package consent

import "time"

// SchemaVersion is the current consent schema. A stored record carrying
// an older version no longer counts as a decision, which re-triggers
// the banner on the next load.
const SchemaVersion = 2

// Decision is the visitor's answer to the consent banner.
type Decision string

const (
	Accepted Decision = "accepted"
	Rejected Decision = "rejected"
	Partial  Decision = "partial"
)

// Valid reports whether d is a recognized decision.
func (d Decision) Valid() bool {
	switch d {
	case Accepted, Rejected, Partial:
		return true
	}
	return false
}

// Record is a stored consent decision. It is created on the first
// explicit visitor decision and read on every load; the widget never
// rewrites it on its own.
type Record struct {
	Decision  Decision  `json:"decision"`
	Timestamp time.Time `json:"timestamp"`
	Version   int       `json:"version"`
}

// RequiredVersion resolves the effective schema version for a site.
// A site may pin a version above the global one (after changing what
// it collects, say); the effective version is never below the global
// schema. Zero means no site override.
func RequiredVersion(siteVersion int) int {
	if siteVersion > SchemaVersion {
		return siteVersion
	}
	return SchemaVersion
}

// New returns a record for decision stamped with the effective schema
// version. Pass zero to stamp the global schema.
func New(decision Decision, version int) Record {
	return Record{
		Decision:  decision,
		Timestamp: time.Now().UTC(),
		Version:   RequiredVersion(version),
	}
}

// CurrentFor reports whether the record counts as a decision under the
// given schema version. Records under an older version behave like
// absent ones.
func (r Record) CurrentFor(version int) bool {
	return r.Decision.Valid() && r.Version >= version
}

// Current reports whether the record is current under the global
// schema.
func (r Record) Current() bool {
	return r.CurrentFor(SchemaVersion)
}
