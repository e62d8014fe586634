package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"lendworks-web/internal/domain"
)

// FundLoan commits amount toward an open loan on behalf of the lender.
func (c *Client) FundLoan(ctx context.Context, loanID string, amount float64) error {
	path := fmt.Sprintf("/api/fundings/%s", url.PathEscape(loanID))
	return c.post(ctx, path, map[string]float64{"amount": amount}, nil)
}

// MyFundings lists the authenticated lender's stakes.
func (c *Client) MyFundings(ctx context.Context) ([]domain.Funding, error) {
	var fundings []domain.Funding
	if err := c.get(ctx, "/api/fundings/my", nil, &fundings); err != nil {
		return nil, err
	}
	return fundings, nil
}

// Portfolio fetches the lender's aggregate positions.
func (c *Client) Portfolio(ctx context.Context) (domain.Portfolio, error) {
	var p domain.Portfolio
	if err := c.get(ctx, "/api/lenders/portfolio", nil, &p); err != nil {
		return domain.Portfolio{}, err
	}
	return p, nil
}

// Transactions pages through the lender's transaction history.
func (c *Client) Transactions(ctx context.Context, q domain.TransactionQuery) (domain.Paginated[domain.LenderTransaction], error) {
	params := url.Values{}
	if q.From != "" {
		params.Set("from", q.From)
	}
	if q.To != "" {
		params.Set("to", q.To)
	}
	if q.LoanID != "" {
		params.Set("loanId", q.LoanID)
	}
	if q.BorrowerID != "" {
		params.Set("borrowerId", q.BorrowerID)
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 25
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(pageSize))

	var result domain.Paginated[domain.LenderTransaction]
	if err := c.get(ctx, "/api/lenders/transactions", params, &result); err != nil {
		return domain.Paginated[domain.LenderTransaction]{}, err
	}
	return result, nil
}

// RiskSummary fetches a borrower's risk profile.
func (c *Client) RiskSummary(ctx context.Context, borrowerID string) (domain.RiskSummary, error) {
	var rs domain.RiskSummary
	path := fmt.Sprintf("/api/borrowers/%s/risk-summary", url.PathEscape(borrowerID))
	if err := c.get(ctx, path, nil, &rs); err != nil {
		return domain.RiskSummary{}, err
	}
	return rs, nil
}
