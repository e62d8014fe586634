package handler

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"lendworks-web/internal/api"
	"lendworks-web/internal/domain"
	"lendworks-web/internal/observability"
)

// page is the data every view renders with: chrome (title, nav state) plus
// the page-specific payload.
type page struct {
	Title   string
	Profile *domain.Profile
	Unread  int
	Error   string
	Notice  string
	Data    any
}

const layoutHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} - LendWorks</title>
<style>
body{font-family:sans-serif;margin:0}
nav{background:#1f2937;color:#fff;padding:.75rem 1.5rem;display:flex;gap:1rem;align-items:center}
nav a{color:#d1d5db;text-decoration:none}
nav a:hover{color:#fff}
nav .badge{background:#dc2626;border-radius:9999px;padding:0 .45rem;font-size:.8rem}
main{padding:1.5rem;max-width:64rem;margin:0 auto}
table{border-collapse:collapse;width:100%}
th,td{border:1px solid #e5e7eb;padding:.4rem .6rem;text-align:left}
.error{background:#fef2f2;border:1px solid #dc2626;color:#991b1b;padding:.6rem;margin-bottom:1rem}
.notice{background:#f0fdf4;border:1px solid #16a34a;color:#166534;padding:.6rem;margin-bottom:1rem}
form.inline{display:inline}
</style>
</head>
<body>
<nav>
<a href="/">LendWorks</a>
{{if .Profile}}
  {{if eq .Profile.Role "Borrower"}}<a href="/borrower">My loans</a><a href="/loans/apply">Apply</a>{{end}}
  {{if eq .Profile.Role "Lender"}}<a href="/loans/open">Open loans</a><a href="/lender">My fundings</a><a href="/lender/portfolio">Portfolio</a><a href="/lender/transactions">Transactions</a>{{end}}
  {{if eq .Profile.Role "Admin"}}<a href="/loans/open">Open loans</a><a href="/admin/users">Users</a><a href="/admin/loans">All loans</a><a href="/admin/maintenance">Maintenance</a>{{end}}
  <a href="/notifications">Notifications{{if gt .Unread 0}} <span class="badge">{{.Unread}}</span>{{end}}</a>
  <a href="/me">{{.Profile.FullName}}</a>
  <form class="inline" method="post" action="/logout"><button type="submit">Log out</button></form>
{{else}}
  <a href="/login">Log in</a>
  <a href="/register">Register</a>
{{end}}
</nav>
<main>
{{if .Error}}<div class="error">{{.Error}}</div>{{end}}
{{if .Notice}}<div class="notice">{{.Notice}}</div>{{end}}
{{template "content" .}}
</main>
</body>
</html>`

var templates = map[string]*template.Template{}

func registerTemplate(name, content string) {
	t := template.Must(template.New("layout").Parse(layoutHTML))
	template.Must(t.New("content").Parse(content))
	templates[name] = t
}

// Renderer wires view rendering to the session and API client so every
// page shares the same nav chrome.
type Renderer struct {
	client *api.Client
}

// NewRenderer creates the shared page renderer.
func NewRenderer(client *api.Client) *Renderer {
	return &Renderer{client: client}
}

func (rd *Renderer) render(w http.ResponseWriter, r *http.Request, name string, p page) {
	snap := rd.client.Session().Snapshot()
	p.Profile = snap.Profile

	// Best effort: a failing badge count never blocks the page.
	if snap.Authenticated() {
		if unread, err := rd.client.UnreadNotifications(r.Context()); err == nil {
			p.Unread = unread
		}
	}

	t, ok := templates[name]
	if !ok {
		http.Error(w, "template not found: "+name, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout", p); err != nil {
		observability.FromContext(r.Context()).Error("template render failed",
			"template", name, "error", err.Error())
	}
}

// errorMessage turns an API failure into user-facing text. Transient
// failures keep the user on the page with a retry hint; the session
// lifecycle errors never reach here (the gate and transport absorb them).
func errorMessage(ctx context.Context, err error) string {
	var ae *api.Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	observability.FromContext(ctx).Warn("backend call failed", "error", err.Error())
	return "The marketplace is temporarily unavailable. Please try again."
}
