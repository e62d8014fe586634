package handler

import (
	"net/http"
	"strconv"

	"lendworks-web/internal/api"
	"lendworks-web/internal/domain"
)

// LenderHandler serves the lender dashboard, portfolio and transaction views.
type LenderHandler struct {
	client   *api.Client
	renderer *Renderer
}

// NewLenderHandler creates a new lender handler
func NewLenderHandler(client *api.Client, renderer *Renderer) *LenderHandler {
	return &LenderHandler{client: client, renderer: renderer}
}

func init() {
	registerTemplate("lender_dashboard", `
<h1>My fundings</h1>
{{if not .Data}}<p>You have not funded any loans yet. <a href="/loans/open">Browse open loans</a>.</p>{{else}}
<table>
<tr><th>Loan</th><th>Amount</th><th>Funded at</th><th>Loan status</th></tr>
{{range .Data}}
<tr><td>{{.LoanID}}</td><td>{{printf "%.2f" .Amount}}</td><td>{{.FundedAtUtc}}</td><td>{{.LoanStatus}}</td></tr>
{{end}}
</table>
{{end}}`)

	registerTemplate("portfolio", `
<h1>Portfolio</h1>
<table>
<tr><th>Invested</th><th>Outstanding</th><th>Repaid</th><th>Earnings</th></tr>
<tr>
<td>{{printf "%.2f" .Data.Totals.Invested}}</td>
<td>{{printf "%.2f" .Data.Totals.Outstanding}}</td>
<td>{{printf "%.2f" .Data.Totals.Repaid}}</td>
<td>{{printf "%.2f" .Data.Totals.Earnings}}</td>
</tr>
</table>
<h2>Positions</h2>
{{if not .Data.Positions}}<p>No positions.</p>{{else}}
<table>
<tr><th>Loan</th><th>Borrower</th><th>Invested</th><th>Outstanding</th><th>Status</th></tr>
{{range .Data.Positions}}
<tr><td>{{.LoanID}}</td><td>{{.BorrowerID}}</td><td>{{printf "%.2f" .Invested}}</td><td>{{printf "%.2f" .Outstanding}}</td><td>{{.Status}}</td></tr>
{{end}}
</table>
{{end}}`)

	registerTemplate("transactions", `
<h1>Transactions</h1>
<form method="get" action="/lender/transactions">
<label>From <input type="date" name="from" value="{{.Data.Query.From}}"></label>
<label>To <input type="date" name="to" value="{{.Data.Query.To}}"></label>
<label>Loan <input type="text" name="loanId" value="{{.Data.Query.LoanID}}"></label>
<button type="submit">Filter</button>
</form>
{{if not .Data.Result.Items}}<p>No transactions for this filter.</p>{{else}}
<table>
<tr><th>When</th><th>Loan</th><th>Borrower</th><th>Type</th><th>Amount</th></tr>
{{range .Data.Result.Items}}
<tr><td>{{.OccurredAtUtc}}</td><td>{{.LoanID}}</td><td>{{.BorrowerID}}</td><td>{{.Type}}</td><td>{{printf "%.2f" .Amount}}</td></tr>
{{end}}
</table>
<p>{{.Data.Result.Total}} transactions, page {{.Data.Result.Page}}</p>
{{end}}`)
}

// Dashboard lists the lender's stakes.
func (h *LenderHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	fundings, err := h.client.MyFundings(r.Context())
	if err != nil {
		h.renderer.render(w, r, "lender_dashboard", page{Title: "My fundings", Error: errorMessage(r.Context(), err)})
		return
	}
	h.renderer.render(w, r, "lender_dashboard", page{Title: "My fundings", Data: fundings})
}

// Portfolio shows aggregate positions.
func (h *LenderHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.client.Portfolio(r.Context())
	if err != nil {
		h.renderer.render(w, r, "portfolio", page{Title: "Portfolio", Error: errorMessage(r.Context(), err), Data: domain.Portfolio{}})
		return
	}
	h.renderer.render(w, r, "portfolio", page{Title: "Portfolio", Data: portfolio})
}

type transactionsView struct {
	Query  domain.TransactionQuery
	Result domain.Paginated[domain.LenderTransaction]
}

// Transactions pages the lender's history with the query filters applied.
func (h *LenderHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	q := domain.TransactionQuery{
		From:       r.URL.Query().Get("from"),
		To:         r.URL.Query().Get("to"),
		LoanID:     r.URL.Query().Get("loanId"),
		BorrowerID: r.URL.Query().Get("borrowerId"),
	}
	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		q.Page = page
	}

	result, err := h.client.Transactions(r.Context(), q)
	view := transactionsView{Query: q, Result: result}
	if err != nil {
		h.renderer.render(w, r, "transactions", page{Title: "Transactions", Error: errorMessage(r.Context(), err), Data: view})
		return
	}
	h.renderer.render(w, r, "transactions", page{Title: "Transactions", Data: view})
}
