package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"lendworks-web/internal/api"
	"lendworks-web/internal/domain"
)

// LoanHandler serves the borrower-facing loan pages and the open-loan
// marketplace view shared by lenders and admins.
type LoanHandler struct {
	client   *api.Client
	renderer *Renderer
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(client *api.Client, renderer *Renderer) *LoanHandler {
	return &LoanHandler{client: client, renderer: renderer}
}

func init() {
	registerTemplate("open_loans", `
<h1>Open loans</h1>
{{if not .Data}}<p>No loans are open for funding right now.</p>{{else}}
<table>
<tr><th>Loan</th><th>Amount</th><th>Funded</th><th>Duration</th><th>Purpose</th><th></th></tr>
{{range .Data}}
<tr>
<td>{{.LoanID}}</td>
<td>{{printf "%.2f" .Amount}}</td>
<td>{{printf "%.2f" .FundedAmount}}</td>
<td>{{.DurationInMonths}} months</td>
<td>{{.Purpose}}</td>
<td>
<form class="inline" method="post" action="/fundings/{{.LoanID}}">
<input type="number" name="amount" min="1" step="0.01" placeholder="Amount" required>
<button type="submit">Fund</button>
</form>
</td>
</tr>
{{end}}
</table>
{{end}}`)

	registerTemplate("borrower_dashboard", `
<h1>My loans</h1>
{{if not .Data}}<p>You have no loans yet. <a href="/loans/apply">Apply for one</a>.</p>{{else}}
<table>
<tr><th>Loan</th><th>Amount</th><th>Funded</th><th>Duration</th><th>Purpose</th><th>Status</th><th></th></tr>
{{range .Data}}
<tr>
<td>{{.LoanID}}</td>
<td>{{printf "%.2f" .Amount}}</td>
<td>{{printf "%.2f" .FundedAmount}}</td>
<td>{{.DurationInMonths}} months</td>
<td>{{.Purpose}}</td>
<td>{{.Status}}</td>
<td><a href="/loans/{{.LoanID}}/repayments">Repayments</a></td>
</tr>
{{end}}
</table>
{{end}}`)

	registerTemplate("apply_loan", `
<h1>Apply for a loan</h1>
<form method="post" action="/loans/apply">
<p><label>Amount <input type="number" name="amount" min="1" step="0.01" required></label></p>
<p><label>Duration (months) <input type="number" name="durationInMonths" min="1" max="360" required></label></p>
<p><label>Purpose
<select name="purpose">
{{range .Data}}<option value="{{.Value}}">{{.Name}}</option>{{end}}
</select>
</label></p>
<button type="submit">Submit application</button>
</form>`)

	registerTemplate("repayments", `
<h1>Repayments for loan {{.Data.LoanID}}</h1>
{{if not .Data.Repayments}}<p>No repayment schedule yet.</p>{{else}}
<table>
<tr><th>Due</th><th>Amount</th><th>Status</th><th></th></tr>
{{range .Data.Repayments}}
<tr>
<td>{{.DueDateUtc}}</td>
<td>{{printf "%.2f" .Amount}}</td>
<td>{{.Status}}{{if .IsOverdue}} (overdue){{end}}</td>
<td>
{{if not .PaidAtUtc}}
<form class="inline" method="post" action="/repayments/{{.ID}}/pay"><button type="submit">Pay</button></form>
{{else}}Paid {{.PaidAtUtc}}{{end}}
</td>
</tr>
{{end}}
</table>
{{end}}`)

	registerTemplate("risk_summary", `
<h1>My risk summary</h1>
<table>
<tr><th>Credit score</th><td>{{.Data.CreditScore}}</td></tr>
<tr><th>Risk tier</th><td>{{.Data.RiskTier}}</td></tr>
<tr><th>Active loans</th><td>{{.Data.ActiveLoans}}</td></tr>
<tr><th>Overdue repayments</th><td>{{.Data.OverdueCount}}</td></tr>
<tr><th>Total borrowed</th><td>{{printf "%.2f" .Data.TotalBorrowed}}</td></tr>
</table>`)
}

// OpenLoans lists the marketplace's fundable loans.
func (h *LoanHandler) OpenLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.client.OpenLoans(r.Context())
	if err != nil {
		h.renderer.render(w, r, "open_loans", page{Title: "Open loans", Error: errorMessage(r.Context(), err)})
		return
	}
	h.renderer.render(w, r, "open_loans", page{Title: "Open loans", Data: loans})
}

// BorrowerDashboard lists the borrower's loan history.
func (h *LoanHandler) BorrowerDashboard(w http.ResponseWriter, r *http.Request) {
	loans, err := h.client.MyLoans(r.Context())
	if err != nil {
		h.renderer.render(w, r, "borrower_dashboard", page{Title: "My loans", Error: errorMessage(r.Context(), err)})
		return
	}
	h.renderer.render(w, r, "borrower_dashboard", page{Title: "My loans", Data: loans})
}

// ApplyForm renders the application form with the purpose metadata.
func (h *LoanHandler) ApplyForm(w http.ResponseWriter, r *http.Request) {
	purposes, err := h.client.LoanPurposes(r.Context())
	if err != nil {
		h.renderer.render(w, r, "apply_loan", page{Title: "Apply", Error: errorMessage(r.Context(), err), Data: []domain.LoanPurpose{}})
		return
	}
	h.renderer.render(w, r, "apply_loan", page{Title: "Apply", Data: purposes})
}

// Apply submits the application and lands on the borrower dashboard.
func (h *LoanHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	amount, err := strconv.ParseFloat(r.PostFormValue("amount"), 64)
	months, merr := strconv.Atoi(r.PostFormValue("durationInMonths"))
	purpose := strings.TrimSpace(r.PostFormValue("purpose"))
	if err != nil || merr != nil || amount <= 0 || months <= 0 || purpose == "" {
		h.renderer.render(w, r, "apply_loan", page{Title: "Apply", Error: "Fill in a valid amount, duration and purpose.", Data: []domain.LoanPurpose{}})
		return
	}

	app := domain.LoanApplication{Amount: amount, DurationInMonths: months, Purpose: purpose}
	if _, err := h.client.ApplyForLoan(r.Context(), app); err != nil {
		h.renderer.render(w, r, "apply_loan", page{Title: "Apply", Error: errorMessage(r.Context(), err), Data: []domain.LoanPurpose{}})
		return
	}
	http.Redirect(w, r, "/borrower", http.StatusSeeOther)
}

type repaymentsView struct {
	LoanID     string
	Repayments []domain.Repayment
}

// Repayments lists a loan's schedule.
func (h *LoanHandler) Repayments(w http.ResponseWriter, r *http.Request) {
	loanID := chi.URLParam(r, "loanID")
	repayments, err := h.client.LoanRepayments(r.Context(), loanID)
	view := repaymentsView{LoanID: loanID, Repayments: repayments}
	if err != nil {
		h.renderer.render(w, r, "repayments", page{Title: "Repayments", Error: errorMessage(r.Context(), err), Data: view})
		return
	}
	h.renderer.render(w, r, "repayments", page{Title: "Repayments", Data: view})
}

// PayRepayment settles one installment and reloads the schedule.
func (h *LoanHandler) PayRepayment(w http.ResponseWriter, r *http.Request) {
	repaymentID := chi.URLParam(r, "repaymentID")
	if err := h.client.PayRepayment(r.Context(), repaymentID); err != nil {
		h.renderer.render(w, r, "borrower_dashboard", page{Title: "My loans", Error: errorMessage(r.Context(), err)})
		return
	}
	back := refererPath(r.Referer())
	if back == "" {
		back = "/borrower"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// Fund commits the lender's amount to a loan.
func (h *LoanHandler) Fund(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	loanID := chi.URLParam(r, "loanID")
	amount, err := strconv.ParseFloat(r.PostFormValue("amount"), 64)
	if err != nil || amount <= 0 {
		h.renderer.render(w, r, "open_loans", page{Title: "Open loans", Error: "Enter a valid amount."})
		return
	}
	if err := h.client.FundLoan(r.Context(), loanID, amount); err != nil {
		h.renderer.render(w, r, "open_loans", page{Title: "Open loans", Error: errorMessage(r.Context(), err)})
		return
	}
	http.Redirect(w, r, "/loans/open", http.StatusSeeOther)
}

// RiskSummary shows the borrower their own risk profile.
func (h *LoanHandler) RiskSummary(w http.ResponseWriter, r *http.Request) {
	snap := h.client.Session().Snapshot()
	if snap.Profile == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	summary, err := h.client.RiskSummary(r.Context(), snap.Profile.ID)
	if err != nil {
		h.renderer.render(w, r, "risk_summary", page{Title: "Risk summary", Error: errorMessage(r.Context(), err), Data: domain.RiskSummary{}})
		return
	}
	h.renderer.render(w, r, "risk_summary", page{Title: "Risk summary", Data: summary})
}
