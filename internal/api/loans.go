package api

import (
	"context"
	"fmt"
	"net/url"

	"lendworks-web/internal/domain"
)

// OpenLoans lists loans currently open for funding.
func (c *Client) OpenLoans(ctx context.Context) ([]domain.LoanSummary, error) {
	var loans []domain.LoanSummary
	if err := c.get(ctx, "/api/loans/open", nil, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// MyLoans lists the authenticated borrower's loan history.
func (c *Client) MyLoans(ctx context.Context) ([]domain.LoanSummary, error) {
	var loans []domain.LoanSummary
	if err := c.get(ctx, "/api/loans/my", nil, &loans); err != nil {
		return nil, err
	}
	return loans, nil
}

// ApplyForLoan submits a loan application and returns the new loan id.
func (c *Client) ApplyForLoan(ctx context.Context, app domain.LoanApplication) (string, error) {
	var loanID string
	if err := c.post(ctx, "/api/loans", app, &loanID); err != nil {
		return "", err
	}
	return loanID, nil
}

// LoanRepayments lists the repayment schedule of a loan.
func (c *Client) LoanRepayments(ctx context.Context, loanID string) ([]domain.Repayment, error) {
	var repayments []domain.Repayment
	path := fmt.Sprintf("/api/loans/%s/repayments", url.PathEscape(loanID))
	if err := c.get(ctx, path, nil, &repayments); err != nil {
		return nil, err
	}
	return repayments, nil
}

// PayRepayment settles one repayment installment.
func (c *Client) PayRepayment(ctx context.Context, repaymentID string) error {
	path := fmt.Sprintf("/api/repayments/%s/pay", url.PathEscape(repaymentID))
	return c.post(ctx, path, nil, nil)
}

// LoanPurposes fetches the loan-purpose metadata, normalizing both wire
// shapes (bare strings or name/value objects) to name/value pairs.
func (c *Client) LoanPurposes(ctx context.Context) ([]domain.LoanPurpose, error) {
	var raw []any
	if err := c.get(ctx, "/api/metadata/loan-purposes", nil, &raw); err != nil {
		return nil, err
	}

	purposes := make([]domain.LoanPurpose, 0, len(raw))
	for _, entry := range raw {
		switch v := entry.(type) {
		case string:
			purposes = append(purposes, domain.LoanPurpose{Name: v, Value: v})
		case map[string]any:
			name, _ := v["name"].(string)
			value := fmt.Sprint(v["value"])
			purposes = append(purposes, domain.LoanPurpose{Name: name, Value: value})
		}
	}
	return purposes, nil
}
