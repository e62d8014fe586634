// Package routegate decides whether the current session may enter a page.
// It is deliberately free of HTTP concerns: callers map its outcomes to
// redirects, inline 403 views, or a profile re-fetch.
package routegate

import "lendworks-web/internal/domain"

// Outcome is the gate's verdict for one navigation.
type Outcome int

const (
	// Allow admits the navigation.
	Allow Outcome = iota
	// RedirectToLogin means no access token is present. The decision
	// carries the intended destination so login can return the user there.
	RedirectToLogin
	// Pending means a token is present but the role is not yet known
	// (profile still hydrating). Not a denial: the caller re-evaluates
	// once the profile arrives.
	Pending
	// Forbidden means the user is authenticated but the role does not
	// satisfy the requirement. Rendered inline, never as a redirect.
	Forbidden
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case Pending:
		return "pending"
	case Forbidden:
		return "forbidden"
	}
	return "unknown"
}

// Requirement is a page's role declaration. An empty AllowedRoles admits any
// authenticated session.
type Requirement struct {
	AllowedRoles []domain.Role
}

// AnyAuthenticated is the requirement for pages open to every signed-in user.
var AnyAuthenticated = Requirement{}

// Roles builds a requirement restricted to the given roles.
func Roles(roles ...domain.Role) Requirement {
	return Requirement{AllowedRoles: roles}
}

// Decision is the outcome plus the destination the user was heading to,
// kept so a login redirect can bounce back.
type Decision struct {
	Outcome     Outcome
	Destination string
}

// Evaluate applies the gate's checks in order: unauthenticated, role
// pending, role mismatch, allow. A session without an access token is
// unauthenticated no matter what profile data lingers in storage.
func Evaluate(sess domain.Session, req Requirement, destination string) Decision {
	if !sess.Authenticated() {
		return Decision{Outcome: RedirectToLogin, Destination: destination}
	}
	if len(req.AllowedRoles) == 0 {
		return Decision{Outcome: Allow, Destination: destination}
	}
	if sess.Profile == nil {
		return Decision{Outcome: Pending, Destination: destination}
	}
	for _, role := range req.AllowedRoles {
		if sess.Profile.Role == role {
			return Decision{Outcome: Allow, Destination: destination}
		}
	}
	return Decision{Outcome: Forbidden, Destination: destination}
}
