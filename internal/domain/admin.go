package domain

// Paginated wraps a paged backend listing
type Paginated[T any] struct {
	Total    int `json:"total"`
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// AdminUser is one row of the admin user listing
type AdminUser struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	IsActive     bool   `json:"isActive"`
	CreatedAtUtc string `json:"createdAtUtc,omitempty"`
}

// UserQuery pages, filters and sorts GET /api/admin/users.
// Zero values fall back to the backend defaults applied in the client.
type UserQuery struct {
	Page     int
	PageSize int
	Search   string
	Role     Role  // empty = all roles
	IsActive *bool // nil = active and inactive
	SortBy   string
	SortDir  string
}

// LoanReport is one row of GET /api/admin/reports/loans
type LoanReport struct {
	LoanID       string  `json:"loanId"`
	BorrowerID   string  `json:"borrowerId"`
	Amount       float64 `json:"amount"`
	FundedAmount float64 `json:"fundedAmount"`
	Status       string  `json:"status"`
	CreatedAtUtc string  `json:"createdAtUtc"`
}
