package consent

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDecisionValid(t *testing.T) {
	for _, d := range []Decision{Accepted, Rejected, Partial} {
		if !d.Valid() {
			t.Errorf("%s should be valid", d)
		}
	}
	for _, d := range []Decision{"", "yes", "ACCEPTED"} {
		if d.Valid() {
			t.Errorf("%q should be invalid", d)
		}
	}
}

func TestNewRecordCurrent(t *testing.T) {
	rec := New(Accepted, 0)
	if !rec.Current() {
		t.Error("freshly created record must be current")
	}
	if rec.Version != SchemaVersion {
		t.Errorf("version = %d, want %d", rec.Version, SchemaVersion)
	}
	if rec.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestOutdatedRecordNotCurrent(t *testing.T) {
	rec := New(Accepted, 0)
	rec.Version = SchemaVersion - 1
	if rec.Current() {
		t.Error("record under an older schema must behave like an absent one")
	}
}

func TestInvalidDecisionNotCurrent(t *testing.T) {
	rec := Record{Decision: "maybe", Version: SchemaVersion}
	if rec.Current() {
		t.Error("record with an unknown decision must not count")
	}
}

func TestRequiredVersion(t *testing.T) {
	if got := RequiredVersion(0); got != SchemaVersion {
		t.Errorf("RequiredVersion(0) = %d, want global %d", got, SchemaVersion)
	}
	if got := RequiredVersion(SchemaVersion - 1); got != SchemaVersion {
		t.Errorf("site version below global must floor at %d, got %d", SchemaVersion, got)
	}
	if got := RequiredVersion(SchemaVersion + 3); got != SchemaVersion+3 {
		t.Errorf("RequiredVersion(%d) = %d", SchemaVersion+3, got)
	}
}

func TestNewStampsEffectiveVersion(t *testing.T) {
	rec := New(Accepted, SchemaVersion+2)
	if rec.Version != SchemaVersion+2 {
		t.Errorf("version = %d, want %d", rec.Version, SchemaVersion+2)
	}
	if !rec.CurrentFor(SchemaVersion + 2) {
		t.Error("record must be current under the version it was stamped with")
	}
}

func TestCurrentForSiteBump(t *testing.T) {
	// A site raising its required version obsoletes a record that is
	// still current under the global schema.
	rec := New(Accepted, 0)
	if !rec.Current() {
		t.Fatal("record should be current globally")
	}
	if rec.CurrentFor(SchemaVersion + 1) {
		t.Error("globally current record must not satisfy a higher site version")
	}
}

func TestReporterDelivers(t *testing.T) {
	got := make(chan report, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p report
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode: %v", err)
		}
		got <- p
	}))
	defer srv.Close()

	rep := NewReporter(srv.URL, nil)
	rec := New(Rejected, 0)
	rep.Report("site-1", "visitor-1", rec)

	select {
	case p := <-got:
		if p.SiteID != "site-1" || p.VisitorID != "visitor-1" {
			t.Errorf("payload = %+v", p)
		}
		if p.Decision != Rejected || p.Version != SchemaVersion {
			t.Errorf("payload = %+v", p)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("report never arrived")
	}
}

func TestReporterEmptyEndpointDisabled(t *testing.T) {
	rep := NewReporter("", nil)
	// Must not panic or block.
	rep.Report("site-1", "visitor-1", New(Accepted, 0))
}

func TestReporterFailureDoesNotBlock(t *testing.T) {
	rep := NewReporter("http://127.0.0.1:1/nowhere", nil)
	done := make(chan struct{})
	go func() {
		rep.Report("site-1", "visitor-1", New(Accepted, 0))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Report blocked on an unreachable collector")
	}
}
