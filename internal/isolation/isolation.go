// Package isolation keeps the widget's own chrome out of reach of the
// page-wide effects the widget applies. The guard does not fight host
// stylesheets with high-specificity overrides; it establishes a
// separate rendering context for the widget root and aims every
// composed effect at a page selector that structurally excludes it.
package isolation

import (
	"fmt"

	"github.com/accesskit/accesskit/internal/effects"
)

// DefaultRootID is the element ID the loader script gives the widget
// root it mounts into the host page.
const DefaultRootID = "accesskit-root"

// Boundary is the rendering-context boundary for one widget root.
type Boundary struct {
	// RootID is the widget root element's ID.
	RootID string
	// PageSelector is where composed filter expressions are applied.
	// It matches every top-level element of the page except the widget
	// root, so the root is never inside a filtered subtree and cannot
	// inherit the widget's own effects, high-contrast included.
	PageSelector string
	// Stylesheet is the CSS block that establishes the boundary.
	Stylesheet string
}

// Protect returns the boundary for the given widget root. An empty
// rootID falls back to DefaultRootID.
func Protect(rootID string) Boundary {
	if rootID == "" {
		rootID = DefaultRootID
	}

	pageSelector := fmt.Sprintf("body > :not(#%s)", rootID)

	// isolation: isolate gives the root its own stacking and paint
	// context; filter: none resets anything a host rule tries to
	// inherit into it. The fixed position keeps the root out of any
	// transformed containing block the page may create.
	stylesheet := fmt.Sprintf(`#%[1]s {
  isolation: isolate;
  filter: none;
  position: fixed;
  z-index: 2147483647;
}
#%[1]s, #%[1]s * {
  all: revert-layer;
}`, rootID)

	return Boundary{
		RootID:       rootID,
		PageSelector: pageSelector,
		Stylesheet:   stylesheet,
	}
}

// ChromeExpression is the effect expression computed for the widget's
// own chrome. It is empty by construction, whatever the page-wide
// expression says: the chrome opts out of the engine, it does not
// cancel itself back to neutral.
func (b Boundary) ChromeExpression(effects.Expression) effects.Expression {
	return effects.Expression{}
}
