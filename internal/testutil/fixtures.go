package testutil

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"lendworks-web/internal/domain"
)

// Counter for generating unique IDs
var idCounter atomic.Int64

func nextID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, idCounter.Add(1))
}

// NewTestProfile creates a profile fixture with the given role.
func NewTestProfile(role domain.Role) domain.Profile {
	id := nextID("user")
	return domain.Profile{
		ID:       id,
		FullName: "Test " + string(role),
		Email:    id + "@example.com",
		Role:     role,
	}
}

// NewTestTokens creates a full token set fixture.
func NewTestTokens() domain.TokenSet {
	return domain.TokenSet{
		AccessToken:        nextID("access"),
		AccessTokenExpiry:  "2030-01-01T00:00:00Z",
		RefreshToken:       nextID("refresh"),
		RefreshTokenExpiry: "2030-06-01T00:00:00Z",
	}
}

// NewTestLoan creates an open loan fixture.
func NewTestLoan() domain.LoanSummary {
	return domain.LoanSummary{
		LoanID:           nextID("loan"),
		BorrowerID:       nextID("borrower"),
		Amount:           5000,
		FundedAmount:     1250,
		DurationInMonths: 12,
		Purpose:          "HomeImprovement",
		Status:           "Open",
	}
}

// Envelope wraps data in the backend's standard response envelope.
func Envelope(data any) []byte {
	payload, err := json.Marshal(map[string]any{
		"success": true,
		"data":    data,
	})
	if err != nil {
		panic(err)
	}
	return payload
}
