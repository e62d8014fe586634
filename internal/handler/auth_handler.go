package handler

import (
	"net/http"
	"net/url"
	"strings"

	"lendworks-web/internal/api"
	"lendworks-web/internal/domain"
	"lendworks-web/internal/observability"
)

// AuthHandler serves the login, registration, logout and profile pages.
type AuthHandler struct {
	client   *api.Client
	renderer *Renderer
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(client *api.Client, renderer *Renderer) *AuthHandler {
	return &AuthHandler{client: client, renderer: renderer}
}

func init() {
	registerTemplate("login", `
<h1>Log in</h1>
<form method="post" action="/login">
<input type="hidden" name="next" value="{{.Data}}">
<p><label>Email <input type="email" name="email" required></label></p>
<p><label>Password <input type="password" name="password" required></label></p>
<button type="submit">Log in</button>
</form>
<p>No account yet? <a href="/register">Register</a>.</p>`)

	registerTemplate("register", `
<h1>Register</h1>
<form method="post" action="/register">
<p><label>Full name <input type="text" name="fullName" required></label></p>
<p><label>Email <input type="email" name="email" required></label></p>
<p><label>Password <input type="password" name="password" required></label></p>
<p><label>Role
<select name="role">
<option value="Borrower">Borrower</option>
<option value="Lender">Lender</option>
</select>
</label></p>
<button type="submit">Create account</button>
</form>`)

	registerTemplate("me", `
<h1>My profile</h1>
<table>
<tr><th>Name</th><td>{{.Data.FullName}}</td></tr>
<tr><th>Email</th><td>{{.Data.Email}}</td></tr>
<tr><th>Role</th><td>{{.Data.Role}}</td></tr>
{{if .Data.CreditScore}}<tr><th>Credit score</th><td>{{.Data.CreditScore}}</td></tr>{{end}}
{{if .Data.RiskTier}}<tr><th>Risk tier</th><td>{{.Data.RiskTier}}</td></tr>{{end}}
</table>
{{if eq .Data.Role "Borrower"}}<p><a href="/borrower/risk">View my risk summary</a></p>{{end}}`)
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.render(w, r, "login", page{
		Title: "Log in",
		Data:  sanitizeNext(r.URL.Query().Get("next")),
	})
}

// Login exchanges the submitted credentials for a session and bounces the
// user back to where they were headed.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	next := sanitizeNext(r.PostFormValue("next"))

	profile, err := h.client.SignIn(r.Context(), email, password)
	if err != nil {
		msg := "Login failed. Check your email and password."
		if !api.IsUnauthorized(err) {
			msg = errorMessage(r.Context(), err)
		}
		h.renderer.render(w, r, "login", page{Title: "Log in", Error: msg, Data: next})
		return
	}

	observability.FromContext(r.Context()).Info("user logged in",
		"user_id", profile.ID, "role", string(profile.Role))

	if next == "" {
		next = homeFor(profile.Role)
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// RegisterForm renders the registration page.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.render(w, r, "register", page{Title: "Register"})
}

// Register creates the account, then sends the user to the login page.
// Registration issues no tokens, so there is nothing to install here.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	role, ok := domain.ParseRole(r.PostFormValue("role"))
	if !ok || role == domain.RoleAdmin {
		h.renderer.render(w, r, "register", page{Title: "Register", Error: "Pick a valid role."})
		return
	}

	req := domain.RegisterRequest{
		FullName: strings.TrimSpace(r.PostFormValue("fullName")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Role:     role,
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		h.renderer.render(w, r, "register", page{Title: "Register", Error: "All fields are required."})
		return
	}

	if _, err := h.client.Register(r.Context(), req); err != nil {
		h.renderer.render(w, r, "register", page{Title: "Register", Error: errorMessage(r.Context(), err)})
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Logout clears the session and returns to the public landing page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.client.SignOut()
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Me renders the authenticated user's profile, freshly fetched.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.client.Me(r.Context())
	if err != nil {
		snap := h.client.Session().Snapshot()
		if snap.Profile == nil {
			h.renderer.render(w, r, "me", page{Title: "My profile", Error: errorMessage(r.Context(), err), Data: domain.Profile{}})
			return
		}
		profile = *snap.Profile
	} else {
		h.client.Session().SetProfile(profile)
	}
	h.renderer.render(w, r, "me", page{Title: "My profile", Data: profile})
}

// sanitizeNext keeps redirect targets inside this site.
func sanitizeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	if _, err := url.Parse(next); err != nil {
		return ""
	}
	return next
}

// refererPath reduces a referer URL to an on-site path, or "" when the
// referer is absent or points elsewhere.
func refererPath(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return sanitizeNext(u.RequestURI())
}

// homeFor picks the landing page for a role after login.
func homeFor(role domain.Role) string {
	switch role {
	case domain.RoleBorrower:
		return "/borrower"
	case domain.RoleLender:
		return "/lender"
	case domain.RoleAdmin:
		return "/admin/loans"
	}
	return "/"
}
