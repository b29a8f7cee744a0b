package server

import (
	"net/http"
	"text/template"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/accesskit/accesskit/internal/isolation"
)

// loaderTmpl is the embeddable loader served to host pages. It mounts
// the widget root, exposes the namespaced global and drives the state
// API; all decisions stay server-side in the engine.
var loaderTmpl = template.Must(template.New("loader").Parse(`(function () {
  "use strict";
  var SITE = "{{.SiteID}}";
  var API = "{{.APIBase}}";
  var ROOT_ID = "{{.RootID}}";

  function visitorID() {
    try {
      var k = "accesskit:visitor";
      var v = window.localStorage.getItem(k);
      if (!v) {
        v = ([1e7] + -1e3 + -4e3 + -8e3 + -1e11).replace(/[018]/g, function (c) {
          return (c ^ (crypto.getRandomValues(new Uint8Array(1))[0] & (15 >> (c / 4)))).toString(16);
        });
        window.localStorage.setItem(k, v);
      }
      return v;
    } catch (e) {
      return "session-" + Math.random().toString(36).slice(2);
    }
  }

  var VISITOR = visitorID();
  var base = API + "/api/sites/" + SITE + "/visitors/" + VISITOR;
  var PAGE = "?page=" + encodeURIComponent(window.location.pathname);

  function apply(frame) {
    if (!frame) return;
    var style = document.getElementById(ROOT_ID + "-style");
    if (!style) {
      style = document.createElement("style");
      style.id = ROOT_ID + "-style";
      document.head.appendChild(style);
    }
    var css = frame.isolation_css + "\n";
    if (frame.filter) {
      css += frame.page_selector + " { filter: " + frame.filter + "; }\n";
    }
    if (frame.vars) {
      var vars = "";
      for (var k in frame.vars) vars += k + ": " + frame.vars[k] + ";";
      css += ":root { " + vars + " }\n";
    }
    style.textContent = css;
    document.documentElement.className = document.documentElement.className
      .split(/\s+/).filter(function (c) { return c.indexOf("ak-") !== 0; })
      .concat(frame.classes || []).join(" ").trim();
    for (var surface in frame.overlays) {
      var el = document.querySelector("[data-ak-surface='" + surface + "']");
      if (el) el.hidden = !frame.overlays[surface];
    }
  }

  function call(method, path, body) {
    return fetch(base + path + PAGE, {
      method: method,
      headers: { "Content-Type": "application/json" },
      body: body ? JSON.stringify(body) : undefined
    }).then(function (r) { return r.ok ? r.json() : null; }).then(apply)
      .catch(function () {});
  }

  window.AccessKit = {
    showBanner: function () { return call("POST", "/banner/show"); },
    setFeature: function (id, v) { return call("PUT", "/features/" + id, v); },
    toggleSurface: function (id) { return call("POST", "/surfaces/" + id + "/toggle"); },
    setConsent: function (d) { return call("POST", "/consent", { decision: d }); },
    reset: function () { return call("POST", "/reset"); }
  };

  document.addEventListener("keydown", function (ev) {
    var t = ev.target;
    var editable = t && (t.isContentEditable ||
      t.tagName === "INPUT" || t.tagName === "TEXTAREA" || t.tagName === "SELECT");
    call("POST", "/keys", { key: ev.key, alt: ev.altKey, editable_target: !!editable });
  });

  call("GET", "/frame");
})();
`))

// stubLoader is delivered for unknown or disabled sites: the script tag
// must never break a host page, so delivery degrades to a no-op widget
// instead of an error response.
const stubLoader = `(function () {
  "use strict";
  var noop = function () {};
  window.AccessKit = { showBanner: noop, setFeature: noop, toggleSurface: noop, setConsent: noop, reset: noop };
})();
`

type loaderData struct {
	SiteID  string
	APIBase string
	RootID  string
}

// requestScheme derives the external scheme of the request, honoring a
// reverse proxy's X-Forwarded-Proto so the loader calls back on the
// origin the host page actually reached.
func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// handleLoader serves the embeddable loader for a site. It is static
// per site and marked cacheable.
func (s *Server) handleLoader(w http.ResponseWriter, r *http.Request) {
	siteID := chi.URLParam(r, "siteID")

	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")

	st, err := s.sites.GetByID(r.Context(), siteID)
	if err != nil || !st.Enabled {
		s.log.Info("loader request for unknown or disabled site", zap.String("site", siteID))
		w.Write([]byte(stubLoader))
		return
	}

	data := loaderData{
		SiteID:  st.ID,
		APIBase: requestScheme(r) + "://" + r.Host,
		RootID:  isolation.DefaultRootID,
	}
	if err := loaderTmpl.Execute(w, data); err != nil {
		s.log.Warn("loader render failed", zap.Error(err))
	}
}
