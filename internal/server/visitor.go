package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/accesskit/accesskit/internal/consent"
	"github.com/accesskit/accesskit/internal/feature"
	"github.com/accesskit/accesskit/internal/overlay"
	"github.com/accesskit/accesskit/internal/shortcut"
	"github.com/accesskit/accesskit/internal/widget"
)

// registerVisitorRoutes mounts the per-visitor state API the loader
// drives. GET /frame marks a page load and starts a fresh widget
// session; every other operation runs against the live session.
func (s *Server) registerVisitorRoutes(r chi.Router) {
	r.Route("/api/sites/{siteID}/visitors/{visitorID}", func(r chi.Router) {
		r.Get("/frame", s.handleFrame)
		r.Put("/features/{featureID}", s.handleSetFeature)
		r.Post("/features/{featureID}/toggle", s.handleToggleFeature)
		r.Post("/surfaces/{surfaceID}/open", s.handleSurface("open"))
		r.Post("/surfaces/{surfaceID}/close", s.handleSurface("close"))
		r.Post("/surfaces/{surfaceID}/toggle", s.handleSurface("toggle"))
		r.Post("/consent", s.handleConsent)
		r.Post("/keys", s.handleKeys)
		r.Post("/banner/show", s.handleShowBanner)
		r.Post("/reset", s.handleReset)
	})
}

func visitorParams(r *http.Request) (string, string) {
	return chi.URLParam(r, "siteID"), chi.URLParam(r, "visitorID")
}

// pagePath is the host-page path the loader attaches to every call, so
// the site's path rules apply even when a session has to be rebuilt
// mid-visit.
func pagePath(r *http.Request) string {
	return r.URL.Query().Get("page")
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	siteID, visitorID := visitorParams(r)
	var frame widget.Frame
	s.withSession(r.Context(), siteID, visitorID, pagePath(r), true, func(c *widget.Controller) {
		frame = c.Render()
	})
	writeJSON(w, http.StatusOK, frame)
}

func (s *Server) handleSetFeature(w http.ResponseWriter, r *http.Request) {
	siteID, visitorID := visitorParams(r)
	featureID := feature.ID(chi.URLParam(r, "featureID"))

	if _, ok := feature.Lookup(featureID); !ok {
		http.Error(w, "unknown feature", http.StatusNotFound)
		return
	}

	var v feature.Value
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var frame widget.Frame
	s.withSession(r.Context(), siteID, visitorID, pagePath(r), false, func(c *widget.Controller) {
		c.SetFeature(r.Context(), featureID, v)
		frame = c.Render()
	})

	s.publish(siteID, liveEvent{Type: "feature", VisitorID: visitorID, Feature: string(featureID), Frame: &frame})
	writeJSON(w, http.StatusOK, frame)
}

func (s *Server) handleToggleFeature(w http.ResponseWriter, r *http.Request) {
	siteID, visitorID := visitorParams(r)
	featureID := feature.ID(chi.URLParam(r, "featureID"))

	if _, ok := feature.Lookup(featureID); !ok {
		http.Error(w, "unknown feature", http.StatusNotFound)
		return
	}

	var frame widget.Frame
	s.withSession(r.Context(), siteID, visitorID, pagePath(r), false, func(c *widget.Controller) {
		c.ToggleFeature(r.Context(), featureID)
		frame = c.Render()
	})

	s.publish(siteID, liveEvent{Type: "feature", VisitorID: visitorID, Feature: string(featureID), Frame: &frame})
	writeJSON(w, http.StatusOK, frame)
}

func (s *Server) handleSurface(op string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		siteID, visitorID := visitorParams(r)
		surfaceID := overlay.SurfaceID(chi.URLParam(r, "surfaceID"))

		var frame widget.Frame
		s.withSession(r.Context(), siteID, visitorID, pagePath(r), false, func(c *widget.Controller) {
			switch op {
			case "open":
				c.OpenSurface(surfaceID)
			case "close":
				c.CloseSurface(surfaceID)
			case "toggle":
				c.ToggleSurface(surfaceID)
			}
			frame = c.Render()
		})

		s.publish(siteID, liveEvent{Type: "surface", VisitorID: visitorID, Surface: string(surfaceID), Frame: &frame})
		writeJSON(w, http.StatusOK, frame)
	}
}

func (s *Server) handleConsent(w http.ResponseWriter, r *http.Request) {
	siteID, visitorID := visitorParams(r)

	var body struct {
		Decision consent.Decision `json:"decision"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !body.Decision.Valid() {
		http.Error(w, "decision must be accepted, rejected or partial", http.StatusBadRequest)
		return
	}

	var frame widget.Frame
	s.withSession(r.Context(), siteID, visitorID, pagePath(r), false, func(c *widget.Controller) {
		c.SetConsent(r.Context(), body.Decision)
		frame = c.Render()
	})

	s.publish(siteID, liveEvent{Type: "consent", VisitorID: visitorID, Frame: &frame})
	writeJSON(w, http.StatusOK, frame)
}

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	siteID, visitorID := visitorParams(r)

	var ev shortcut.KeyEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var (
		frame   widget.Frame
		handled bool
	)
	s.withSession(r.Context(), siteID, visitorID, pagePath(r), false, func(c *widget.Controller) {
		handled = c.Key(r.Context(), ev)
		frame = c.Render()
	})

	if handled {
		s.publish(siteID, liveEvent{Type: "key", VisitorID: visitorID, Frame: &frame})
	}
	writeJSON(w, http.StatusOK, struct {
		Handled bool         `json:"handled"`
		Frame   widget.Frame `json:"frame"`
	}{Handled: handled, Frame: frame})
}

func (s *Server) handleShowBanner(w http.ResponseWriter, r *http.Request) {
	siteID, visitorID := visitorParams(r)

	var frame widget.Frame
	s.withSession(r.Context(), siteID, visitorID, pagePath(r), false, func(c *widget.Controller) {
		c.ShowBanner()
		frame = c.Render()
	})
	writeJSON(w, http.StatusOK, frame)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	siteID, visitorID := visitorParams(r)

	var frame widget.Frame
	s.withSession(r.Context(), siteID, visitorID, pagePath(r), false, func(c *widget.Controller) {
		c.ResetAll(r.Context())
		frame = c.Render()
	})

	s.publish(siteID, liveEvent{Type: "reset", VisitorID: visitorID, Frame: &frame})
	writeJSON(w, http.StatusOK, frame)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
