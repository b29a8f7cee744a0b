package server

import (
	"context"
	"sync"
	"time"

	"github.com/accesskit/accesskit/internal/prefstore"
	"github.com/accesskit/accesskit/internal/widget"
)

// sessionTTL is how long an idle widget session is kept before its
// overlay state is discarded. Feature and consent state live in the
// store and are unaffected by eviction.
const sessionTTL = 30 * time.Minute

type sessionKey struct {
	site    string
	visitor string
}

// session is one live widget instance. The widget engine is driven by
// discrete events from a single visitor; the mutex serializes the rare
// case of overlapping requests so that read-modify-write against the
// store stays within one handler invocation at a time.
type session struct {
	mu       sync.Mutex
	c        *widget.Controller
	lastSeen time.Time
}

type sessionCache struct {
	mu sync.Mutex
	m  map[sessionKey]*session
}

func newSessionCache() *sessionCache {
	return &sessionCache{m: make(map[sessionKey]*session)}
}

// reset discards any existing session and installs a fresh controller.
// A page load maps here: reloads always create a fresh widget instance
// with every overlay hidden.
func (sc *sessionCache) reset(key sessionKey, c *widget.Controller) *session {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if old, ok := sc.m[key]; ok {
		old.c.Close()
	}
	s := &session{c: c, lastSeen: time.Now()}
	sc.m[key] = s
	sc.sweepLocked()
	return s
}

// get returns the live session for key, if one exists and has not
// expired.
func (sc *sessionCache) get(key sessionKey) (*session, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	s, ok := sc.m[key]
	if !ok {
		return nil, false
	}
	if time.Since(s.lastSeen) > sessionTTL {
		s.c.Close()
		delete(sc.m, key)
		return nil, false
	}
	s.lastSeen = time.Now()
	return s, true
}

// sweepLocked drops expired sessions. Called opportunistically under
// the cache lock.
func (sc *sessionCache) sweepLocked() {
	now := time.Now()
	for key, s := range sc.m {
		if now.Sub(s.lastSeen) > sessionTTL {
			s.c.Close()
			delete(sc.m, key)
		}
	}
}

// withSession runs fn against the visitor's live controller, creating a
// session first if none exists. pagePath is the host-page path the
// loader reports; the site's path rules are checked whenever a
// controller is built. The controller is locked for the duration of fn.
func (s *Server) withSession(ctx context.Context, siteID, visitorID, pagePath string, fresh bool, fn func(c *widget.Controller)) {
	key := sessionKey{site: siteID, visitor: visitorID}

	var sess *session
	if fresh {
		sess = s.sessions.reset(key, s.buildController(ctx, siteID, visitorID, pagePath))
	} else {
		var ok bool
		sess, ok = s.sessions.get(key)
		if !ok {
			sess = s.sessions.reset(key, s.buildController(ctx, siteID, visitorID, pagePath))
		}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	fn(sess.c)
}

// buildController constructs the widget for the request's site and
// visitor. An unknown or disabled site, or a page path the site's
// rules keep the widget off, yields an inert controller, not an error:
// delivery degrades, it never throws into the host page.
func (s *Server) buildController(ctx context.Context, siteID, visitorID, pagePath string) *widget.Controller {
	st, err := s.sites.GetByID(ctx, siteID)
	if err != nil {
		return widget.NewInert("unknown site "+siteID, s.log)
	}
	if !st.Enabled {
		return widget.NewInert("site "+siteID+" disabled", s.log)
	}
	if !st.MatchesPath(pagePath) {
		return widget.NewInert("path "+pagePath+" excluded for site "+siteID, s.log)
	}

	backend := prefstore.NewSQLiteBackend(s.db, siteID, visitorID)
	store := prefstore.New(ctx, backend, s.log)

	return widget.New(widget.Params{
		SiteID:           siteID,
		VisitorID:        visitorID,
		Store:            store,
		Reporter:         s.reporter,
		ConsentVersion:   st.ConsentVersion,
		GuideAutoDismiss: s.cfg.GuideAutoDismiss,
		Logger:           s.log,
	})
}
