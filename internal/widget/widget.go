// Package widget wires the accessibility engine together. Controller is
// the only component whose effects are visible to the host page: every
// input path (pointer, keyboard, API) funnels through it into the
// preference store, and every render derives fresh from that store.
package widget

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/accesskit/accesskit/internal/consent"
	"github.com/accesskit/accesskit/internal/effects"
	"github.com/accesskit/accesskit/internal/feature"
	"github.com/accesskit/accesskit/internal/isolation"
	"github.com/accesskit/accesskit/internal/overlay"
	"github.com/accesskit/accesskit/internal/prefstore"
	"github.com/accesskit/accesskit/internal/shortcut"
)

// Frame is one complete document patch: everything the thin client
// applier needs to bring the host page in line with the current state.
// Applying a frame fully replaces the previous one; nothing accumulates.
type Frame struct {
	// Filter is the composed CSS filter chain for the page. Empty when
	// every feature sits at its default.
	Filter string `json:"filter"`
	// PageSelector is where Filter is applied. It structurally
	// excludes the widget root.
	PageSelector string `json:"page_selector"`
	// Classes are the active root classes in canonical catalog order.
	Classes []string `json:"classes"`
	// Vars carries CSS custom properties for percent features rendered
	// through classes (font scale, line height).
	Vars map[string]string `json:"vars,omitempty"`
	// Overlays is the visibility signal of every surface.
	Overlays map[overlay.SurfaceID]bool `json:"overlays"`
	// IsolationCSS establishes the widget root's rendering boundary.
	IsolationCSS string `json:"isolation_css"`
}

// Params configures a controller.
type Params struct {
	SiteID    string
	VisitorID string
	Store     *prefstore.Store
	// Reporter, when set, receives consent decisions fire-and-forget.
	Reporter *consent.Reporter
	// RootID overrides the widget root element ID.
	RootID string
	// ConsentVersion is the site's consent schema override; zero uses
	// the global schema. Stored records below the effective version no
	// longer count as decisions.
	ConsentVersion int
	// GuideAutoDismiss, when positive, auto-hides the shortcut guide
	// after the given duration unless the visitor interacts first.
	GuideAutoDismiss time.Duration
	Logger           *zap.Logger
}

// Controller coordinates state for one widget instance. Exactly one
// live controller exists per page load; the host page sees only the
// narrow capability surface these methods form, never internal state.
type Controller struct {
	siteID    string
	visitorID string

	store          *prefstore.Store
	overlays       *overlay.Manager
	keys           *shortcut.Handler
	boundary       isolation.Boundary
	reporter       *consent.Reporter
	consentVersion int

	guideAutoDismiss time.Duration
	log              *zap.Logger
	inert            bool
}

// New constructs a live controller. Every overlay starts hidden; the
// consent banner is then opened iff no consent record current under
// the site's effective schema exists, so a visitor who already decided
// never sees it again.
func New(p Params) *Controller {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c := &Controller{
		siteID:           p.SiteID,
		visitorID:        p.VisitorID,
		store:            p.Store,
		overlays:         overlay.NewManager(),
		keys:             shortcut.NewHandler(),
		boundary:         isolation.Protect(p.RootID),
		reporter:         p.Reporter,
		consentVersion:   consent.RequiredVersion(p.ConsentVersion),
		guideAutoDismiss: p.GuideAutoDismiss,
		log:              log,
	}

	if rec, ok := c.store.Consent(); !ok || !rec.CurrentFor(c.consentVersion) {
		c.overlays.Open(overlay.ConsentBanner)
	}

	return c
}

// NewInert returns a disabled controller: every operation is a no-op
// and Render yields an empty frame. This is the degraded form used when
// initialization cannot complete (unknown site, missing mount point);
// the failure is logged here once and never raised into host code.
func NewInert(reason string, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	log.Warn("widget disabled", zap.String("reason", reason))
	return &Controller{inert: true, log: log}
}

// Inert reports whether the controller is disabled.
func (c *Controller) Inert() bool { return c.inert }

// SetFeature validates and stores a feature value. Out-of-range numeric
// input clamps to the nearest bound; the engine can never be put into
// an unrenderable state through here.
func (c *Controller) SetFeature(ctx context.Context, id feature.ID, v feature.Value) {
	if c.inert {
		return
	}
	c.store.Set(ctx, id, v)
}

// ToggleFeature flips an on/off feature. Non-toggle features are left
// alone.
func (c *Controller) ToggleFeature(ctx context.Context, id feature.ID) {
	if c.inert {
		return
	}
	def, ok := feature.Lookup(id)
	if !ok || def.Kind != feature.KindToggle {
		return
	}
	cur := c.store.Get(id)
	c.store.Set(ctx, id, feature.Toggle(!cur.On))
}

// OpenSurface shows an overlay surface. Opening the shortcut guide arms
// its auto-dismiss timer when one is configured.
func (c *Controller) OpenSurface(id overlay.SurfaceID) {
	if c.inert {
		return
	}
	c.overlays.Open(id)
	if id == overlay.ShortcutGuide && c.guideAutoDismiss > 0 {
		c.overlays.ScheduleAutoDismiss(id, c.guideAutoDismiss)
	}
}

// CloseSurface hides an overlay surface.
func (c *Controller) CloseSurface(id overlay.SurfaceID) {
	if c.inert {
		return
	}
	c.overlays.Close(id)
}

// ToggleSurface flips an overlay surface.
func (c *Controller) ToggleSurface(id overlay.SurfaceID) {
	if c.inert {
		return
	}
	if c.overlays.IsOpen(id) {
		c.CloseSurface(id)
	} else {
		c.OpenSurface(id)
	}
}

// IsOpen reports a surface's visibility signal.
func (c *Controller) IsOpen(id overlay.SurfaceID) bool {
	if c.inert {
		return false
	}
	return c.overlays.IsOpen(id)
}

// ShowBanner reopens the consent banner. This is the re-entry point the
// host page global exposes so the widget can be driven without a
// reload.
func (c *Controller) ShowBanner() {
	if c.inert {
		return
	}
	c.overlays.Open(overlay.ConsentBanner)
}

// SetConsent records an explicit decision, dismisses the banner and
// reports the decision in the background. Reporting failure never
// blocks dismissal.
func (c *Controller) SetConsent(ctx context.Context, decision consent.Decision) {
	if c.inert || !decision.Valid() {
		return
	}
	rec := c.store.SetConsent(ctx, decision, c.consentVersion)
	c.overlays.Close(overlay.ConsentBanner)
	if c.reporter != nil {
		c.reporter.Report(c.siteID, c.visitorID, rec)
	}
}

// ResetAll returns every feature to its default.
func (c *Controller) ResetAll(ctx context.Context) {
	if c.inert {
		return
	}
	c.store.Reset(ctx)
}

// Key feeds a keyboard event through the shortcut handler and executes
// the resulting action. It reports whether the widget consumed the
// event; an unconsumed event belongs to the host page.
func (c *Controller) Key(ctx context.Context, ev shortcut.KeyEvent) bool {
	if c.inert {
		return false
	}
	_, anyOpen := c.overlays.Topmost()
	action, handled := c.keys.Handle(ev, anyOpen)
	if !handled {
		return false
	}

	switch action.Kind {
	case shortcut.KindCloseTopmost:
		c.overlays.CloseTopmost()
	case shortcut.KindToggleSurface:
		c.ToggleSurface(action.Surface)
	case shortcut.KindToggleFeature:
		c.ToggleFeature(ctx, action.Feature)
	case shortcut.KindCycleFocus:
		// Focus movement happens in the applier; consuming the event
		// is the controller's whole contribution.
	}
	return true
}

// Close releases pending timers.
func (c *Controller) Close() {
	if c.inert {
		return
	}
	c.overlays.Stop()
}

// Render derives the complete document patch from current state. It is
// idempotent: rendering the same state twice yields identical frames,
// and each frame replaces the previous one wholesale.
func (c *Controller) Render() Frame {
	if c.inert {
		return Frame{}
	}

	state := c.store.State()
	expr := effects.Compose(state)

	var classes []string
	vars := map[string]string{}
	for _, def := range feature.All() {
		if def.Class == "" {
			continue
		}
		v := state.Get(def.ID)
		if def.IsDefault(v) {
			continue
		}
		switch def.Kind {
		case feature.KindMode:
			classes = append(classes, def.Class+"-"+v.Mode)
		case feature.KindPercent:
			classes = append(classes, def.Class)
			vars["--"+def.Class] = strconv.Itoa(v.Percent) + "%"
		default:
			classes = append(classes, def.Class)
		}
	}
	if len(vars) == 0 {
		vars = nil
	}

	return Frame{
		Filter:       expr.String(),
		PageSelector: c.boundary.PageSelector,
		Classes:      classes,
		Vars:         vars,
		Overlays:     c.overlays.Visibility(),
		IsolationCSS: c.boundary.Stylesheet,
	}
}

// ChromeFilter is the filter computed for the widget's own chrome. It
// is empty no matter what the page expression contains.
func (c *Controller) ChromeFilter() string {
	if c.inert {
		return ""
	}
	return c.boundary.ChromeExpression(effects.Compose(c.store.State())).String()
}

// ActiveFeatures lists the features currently departing from default,
// in canonical order. Used by the panel surface and the live channel.
func (c *Controller) ActiveFeatures() []feature.ID {
	if c.inert {
		return nil
	}
	state := c.store.State()
	var ids []feature.ID
	for _, def := range feature.All() {
		if _, ok := state[def.ID]; ok {
			ids = append(ids, def.ID)
		}
	}
	return ids
}
