package middleware

import (
	"context"
	"net/http"
	"net/url"

	"lendworks-web/internal/api"
	"lendworks-web/internal/domain"
	"lendworks-web/internal/observability"
	"lendworks-web/internal/routegate"
	"lendworks-web/internal/session"
)

// ProfileFetcher resolves the profile for the current access token, used
// when the gate reports Pending.
type ProfileFetcher func(ctx context.Context) (domain.Profile, error)

// Gate enforces a page's role requirement on every navigation.
//
// RedirectToLogin becomes a 303 to /login carrying the intended
// destination. Pending triggers one profile fetch and a re-evaluation, per
// the gate's contract that the caller re-checks once the role is known.
// Forbidden renders an inline 403 so the user keeps their context.
func Gate(mgr *session.Manager, fetch ProfileFetcher, req routegate.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := routegate.Evaluate(mgr.Snapshot(), req, r.URL.RequestURI())

			if decision.Outcome == routegate.Pending {
				profile, err := fetch(r.Context())
				if err != nil {
					if api.IsUnauthorized(err) {
						// Refresh already ran and failed; the session is gone.
						redirectToLogin(w, r, decision.Destination)
						return
					}
					observability.FromContext(r.Context()).Error("profile fetch failed",
						"error", err.Error())
					http.Error(w, "Profile temporarily unavailable, please retry", http.StatusBadGateway)
					return
				}
				mgr.SetProfile(profile)
				decision = routegate.Evaluate(mgr.Snapshot(), req, r.URL.RequestURI())
			}

			switch decision.Outcome {
			case routegate.Allow:
				next.ServeHTTP(w, r)
			case routegate.RedirectToLogin:
				redirectToLogin(w, r, decision.Destination)
			default:
				renderForbidden(w)
			}
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, destination string) {
	target := "/login"
	if destination != "" && destination != "/login" {
		target += "?next=" + url.QueryEscape(destination)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func renderForbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	w.Write([]byte(`<!doctype html><html><head><title>Not authorized</title></head>` +
		`<body><h1>403 &mdash; Not authorized</h1>` +
		`<p>Your account does not have access to this page.</p>` +
		`<p><a href="/">Back to the marketplace</a></p></body></html>`))
}
