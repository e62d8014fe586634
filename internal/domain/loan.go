package domain

import "errors"

var ErrLoanNotFound = errors.New("loan not found")

// LoanSummary is a marketplace loan as listed by GET /api/loans/open
// and the borrower history endpoints
type LoanSummary struct {
	LoanID           string  `json:"loanId"`
	BorrowerID       string  `json:"borrowerId"`
	Amount           float64 `json:"amount"`
	FundedAmount     float64 `json:"fundedAmount"`
	DurationInMonths int     `json:"durationInMonths"`
	Purpose          string  `json:"purpose"`
	Status           string  `json:"status"`
}

// LoanApplication is the payload for POST /api/loans
type LoanApplication struct {
	Amount           float64 `json:"amount"`
	DurationInMonths int     `json:"durationInMonths"`
	Purpose          string  `json:"purpose"`
}

// Repayment is a scheduled installment on a loan
type Repayment struct {
	ID         string  `json:"id"`
	LoanID     string  `json:"loanId"`
	Amount     float64 `json:"amount"`
	DueDateUtc string  `json:"dueDateUtc"`
	PaidAtUtc  *string `json:"paidAtUtc,omitempty"`
	Status     string  `json:"status"`
	IsOverdue  bool    `json:"isOverdue"`
}

// LoanPurpose is a metadata entry from GET /api/metadata/loan-purposes,
// normalized to a name/value pair regardless of the wire shape
type LoanPurpose struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RiskSummary is a borrower's risk profile from GET /api/borrowers/{id}/risk-summary
type RiskSummary struct {
	BorrowerID    string  `json:"borrowerId"`
	CreditScore   int     `json:"creditScore"`
	RiskTier      string  `json:"riskTier"`
	ActiveLoans   int     `json:"activeLoans"`
	OverdueCount  int     `json:"overdueCount"`
	TotalBorrowed float64 `json:"totalBorrowed"`
}
