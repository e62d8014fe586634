package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"lendworks-web/internal/domain"
)

// Users pages through the user roster for moderation.
func (c *Client) Users(ctx context.Context, q domain.UserQuery) (domain.Paginated[domain.AdminUser], error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 25
	}
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	sortDir := q.SortDir
	if sortDir == "" {
		sortDir = "desc"
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("search", q.Search)
	params.Set("sortBy", sortBy)
	params.Set("sortDir", sortDir)
	if q.Role != "" {
		params.Set("role", string(q.Role))
	}
	// Omitting isActive means the backend returns active and inactive users.
	if q.IsActive != nil {
		params.Set("isActive", strconv.FormatBool(*q.IsActive))
	}

	var result domain.Paginated[domain.AdminUser]
	if err := c.get(ctx, "/api/admin/users", params, &result); err != nil {
		return domain.Paginated[domain.AdminUser]{}, err
	}
	return result, nil
}

// SetUserStatus activates or deactivates an account.
func (c *Client) SetUserStatus(ctx context.Context, userID string, active bool) error {
	path := fmt.Sprintf("/api/admin/users/%s/status", url.PathEscape(userID))
	return c.put(ctx, path, map[string]bool{"isActive": active}, nil)
}

// ApproveLoan approves a pending loan.
func (c *Client) ApproveLoan(ctx context.Context, loanID string) error {
	path := fmt.Sprintf("/api/admin/loans/%s/approve", url.PathEscape(loanID))
	return c.post(ctx, path, nil, nil)
}

// RejectLoan rejects a pending loan with a reason.
func (c *Client) RejectLoan(ctx context.Context, loanID, reason string) error {
	path := fmt.Sprintf("/api/admin/loans/%s/reject", url.PathEscape(loanID))
	return c.post(ctx, path, map[string]string{"reason": reason}, nil)
}

// DisburseLoan releases funds for a fully funded loan.
func (c *Client) DisburseLoan(ctx context.Context, loanID string) error {
	path := fmt.Sprintf("/api/loans/%s/disburse", url.PathEscape(loanID))
	return c.post(ctx, path, nil, nil)
}

// LoanReport lists every loan for the admin report view.
func (c *Client) LoanReport(ctx context.Context) ([]domain.LoanReport, error) {
	var report []domain.LoanReport
	if err := c.get(ctx, "/api/admin/reports/loans", nil, &report); err != nil {
		return nil, err
	}
	return report, nil
}

// CheckOverdueRepayments triggers the overdue sweep and returns how many
// repayments were flagged.
func (c *Client) CheckOverdueRepayments(ctx context.Context) (int, error) {
	var count int
	if err := c.post(ctx, "/api/admin/repayments/check-overdue", nil, &count); err != nil {
		return 0, err
	}
	return count, nil
}
