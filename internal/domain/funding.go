package domain

// Funding is a lender's stake in a loan, as listed by GET /api/fundings/my
type Funding struct {
	ID          string  `json:"id"`
	LoanID      string  `json:"loanId"`
	Amount      float64 `json:"amount"`
	FundedAtUtc string  `json:"fundedAtUtc"`
	LoanStatus  string  `json:"loanStatus"`
}

// PortfolioTotals aggregates a lender's positions
type PortfolioTotals struct {
	Invested    float64 `json:"invested"`
	Outstanding float64 `json:"outstanding"`
	Repaid      float64 `json:"repaid"`
	Earnings    float64 `json:"earnings"`
}

// PortfolioPosition is one loan's slice of a lender portfolio
type PortfolioPosition struct {
	LoanID      string  `json:"loanId"`
	BorrowerID  string  `json:"borrowerId"`
	Invested    float64 `json:"invested"`
	Outstanding float64 `json:"outstanding"`
	Status      string  `json:"status"`
}

// Portfolio is the payload of GET /api/lenders/portfolio
type Portfolio struct {
	Totals    PortfolioTotals     `json:"totals"`
	Positions []PortfolioPosition `json:"positions"`
}

// LenderTransaction is one row of GET /api/lenders/transactions
type LenderTransaction struct {
	ID            string  `json:"id"`
	LoanID        string  `json:"loanId"`
	BorrowerID    string  `json:"borrowerId"`
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	OccurredAtUtc string  `json:"occurredAtUtc"`
}

// TransactionQuery filters and pages GET /api/lenders/transactions
type TransactionQuery struct {
	From       string
	To         string
	LoanID     string
	BorrowerID string
	Page       int
	PageSize   int
}
