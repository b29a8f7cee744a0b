package consent

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Reporter notifies a remote collector of consent decisions. Reporting
// is strictly best-effort: the collector being down, slow or missing
// must never delay banner dismissal or feature operation, so Report
// returns immediately and failures are swallowed.
type Reporter struct {
	endpoint string
	client   *http.Client
	log      *zap.Logger
}

// NewReporter returns a reporter posting to endpoint. An empty endpoint
// disables reporting entirely.
func NewReporter(endpoint string, log *zap.Logger) *Reporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reporter{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 3 * time.Second},
		log:      log,
	}
}

// report is the wire payload sent to the collector.
type report struct {
	SiteID    string    `json:"site_id"`
	VisitorID string    `json:"visitor_id"`
	Decision  Decision  `json:"decision"`
	Timestamp time.Time `json:"timestamp"`
	Version   int       `json:"version"`
}

// Report sends rec for the given site and visitor in the background.
func (r *Reporter) Report(siteID, visitorID string, rec Record) {
	if r.endpoint == "" {
		return
	}
	go r.send(report{
		SiteID:    siteID,
		VisitorID: visitorID,
		Decision:  rec.Decision,
		Timestamp: rec.Timestamp,
		Version:   rec.Version,
	})
}

func (r *Reporter) send(p report) {
	body, err := json.Marshal(p)
	if err != nil {
		r.log.Debug("consent report marshal failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		r.log.Debug("consent report request failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Debug("consent report delivery failed", zap.Error(err))
		return
	}
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		r.log.Debug("consent report rejected", zap.Int("status", resp.StatusCode))
	}
}
