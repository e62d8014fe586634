package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"lendworks-web/internal/api"
	"lendworks-web/internal/domain"
	"lendworks-web/internal/observability"
)

// AdminHandler serves the moderation views: user roster, loan report and
// the maintenance page.
type AdminHandler struct {
	client   *api.Client
	renderer *Renderer
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(client *api.Client, renderer *Renderer) *AdminHandler {
	return &AdminHandler{client: client, renderer: renderer}
}

func init() {
	registerTemplate("admin_users", `
<h1>Users</h1>
<form method="get" action="/admin/users">
<input type="text" name="search" placeholder="Name or email" value="{{.Data.Query.Search}}">
<select name="role">
<option value="">All roles</option>
<option value="Borrower" {{if eq .Data.Query.Role "Borrower"}}selected{{end}}>Borrower</option>
<option value="Lender" {{if eq .Data.Query.Role "Lender"}}selected{{end}}>Lender</option>
<option value="Admin" {{if eq .Data.Query.Role "Admin"}}selected{{end}}>Admin</option>
</select>
<button type="submit">Search</button>
</form>
{{if not .Data.Result.Items}}<p>No users match.</p>{{else}}
<table>
<tr><th>Name</th><th>Email</th><th>Role</th><th>Status</th><th></th></tr>
{{range .Data.Result.Items}}
<tr>
<td>{{.FullName}}</td>
<td>{{.Email}}</td>
<td>{{.Role}}</td>
<td>{{if .IsActive}}Active{{else}}Deactivated{{end}}</td>
<td>
<form class="inline" method="post" action="/admin/users/{{.ID}}/status">
<input type="hidden" name="isActive" value="{{if .IsActive}}false{{else}}true{{end}}">
<button type="submit">{{if .IsActive}}Deactivate{{else}}Activate{{end}}</button>
</form>
</td>
</tr>
{{end}}
</table>
<p>{{.Data.Result.Total}} users, page {{.Data.Result.Page}}</p>
{{end}}`)

	registerTemplate("admin_loans", `
<h1>All loans</h1>
{{if not .Data}}<p>No loans on the books.</p>{{else}}
<table>
<tr><th>Loan</th><th>Borrower</th><th>Amount</th><th>Funded</th><th>Status</th><th></th></tr>
{{range .Data}}
<tr>
<td>{{.LoanID}}</td>
<td>{{.BorrowerID}}</td>
<td>{{printf "%.2f" .Amount}}</td>
<td>{{printf "%.2f" .FundedAmount}}</td>
<td>{{.Status}}</td>
<td>
{{if eq .Status "Pending"}}
<form class="inline" method="post" action="/admin/loans/{{.LoanID}}/approve"><button type="submit">Approve</button></form>
<form class="inline" method="post" action="/admin/loans/{{.LoanID}}/reject">
<input type="text" name="reason" placeholder="Reason" required>
<button type="submit">Reject</button>
</form>
{{end}}
{{if eq .Status "Funded"}}
<form class="inline" method="post" action="/admin/loans/{{.LoanID}}/disburse"><button type="submit">Disburse</button></form>
{{end}}
</td>
</tr>
{{end}}
</table>
{{end}}`)

	registerTemplate("admin_maintenance", `
<h1>Maintenance</h1>
<form method="post" action="/admin/maintenance/check-overdue">
<button type="submit">Check overdue repayments</button>
</form>`)
}

type adminUsersView struct {
	Query  domain.UserQuery
	Result domain.Paginated[domain.AdminUser]
}

// Users renders the paged, filterable roster.
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	q := domain.UserQuery{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
	}
	if role, ok := domain.ParseRole(r.URL.Query().Get("role")); ok {
		q.Role = role
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		q.Page = page
	}

	result, err := h.client.Users(r.Context(), q)
	view := adminUsersView{Query: q, Result: result}
	if err != nil {
		h.renderer.render(w, r, "admin_users", page{Title: "Users", Error: errorMessage(r.Context(), err), Data: view})
		return
	}
	h.renderer.render(w, r, "admin_users", page{Title: "Users", Data: view})
}

// SetUserStatus flips an account between active and deactivated.
func (h *AdminHandler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	userID := chi.URLParam(r, "userID")
	active := r.PostFormValue("isActive") == "true"

	if err := h.client.SetUserStatus(r.Context(), userID, active); err != nil {
		h.renderer.render(w, r, "admin_users", page{Title: "Users", Error: errorMessage(r.Context(), err), Data: adminUsersView{}})
		return
	}
	observability.FromContext(r.Context()).Info("user status changed",
		"target_user", userID, "active", active)
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// Loans renders the full loan report.
func (h *AdminHandler) Loans(w http.ResponseWriter, r *http.Request) {
	report, err := h.client.LoanReport(r.Context())
	if err != nil {
		h.renderer.render(w, r, "admin_loans", page{Title: "All loans", Error: errorMessage(r.Context(), err)})
		return
	}
	h.renderer.render(w, r, "admin_loans", page{Title: "All loans", Data: report})
}

// ApproveLoan approves a pending loan.
func (h *AdminHandler) ApproveLoan(w http.ResponseWriter, r *http.Request) {
	h.moderateLoan(w, r, func(loanID string) error {
		return h.client.ApproveLoan(r.Context(), loanID)
	})
}

// RejectLoan rejects a pending loan with the submitted reason.
func (h *AdminHandler) RejectLoan(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	reason := strings.TrimSpace(r.PostFormValue("reason"))
	h.moderateLoan(w, r, func(loanID string) error {
		return h.client.RejectLoan(r.Context(), loanID, reason)
	})
}

// DisburseLoan releases funds for a funded loan.
func (h *AdminHandler) DisburseLoan(w http.ResponseWriter, r *http.Request) {
	h.moderateLoan(w, r, func(loanID string) error {
		return h.client.DisburseLoan(r.Context(), loanID)
	})
}

func (h *AdminHandler) moderateLoan(w http.ResponseWriter, r *http.Request, action func(loanID string) error) {
	loanID := chi.URLParam(r, "loanID")
	if err := action(loanID); err != nil {
		h.renderer.render(w, r, "admin_loans", page{Title: "All loans", Error: errorMessage(r.Context(), err)})
		return
	}
	http.Redirect(w, r, "/admin/loans", http.StatusSeeOther)
}

// Maintenance renders the maintenance actions page.
func (h *AdminHandler) Maintenance(w http.ResponseWriter, r *http.Request) {
	h.renderer.render(w, r, "admin_maintenance", page{Title: "Maintenance"})
}

// CheckOverdue triggers the overdue-repayment sweep.
func (h *AdminHandler) CheckOverdue(w http.ResponseWriter, r *http.Request) {
	count, err := h.client.CheckOverdueRepayments(r.Context())
	if err != nil {
		h.renderer.render(w, r, "admin_maintenance", page{Title: "Maintenance", Error: errorMessage(r.Context(), err)})
		return
	}
	h.renderer.render(w, r, "admin_maintenance", page{
		Title:  "Maintenance",
		Notice: strconv.Itoa(count) + " repayments flagged overdue",
	})
}
