package domain

import (
	"errors"
	"time"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrTokenMissing    = errors.New("token missing in login response")
)

// Role is the marketplace role carried by a user profile
type Role string

const (
	RoleBorrower Role = "Borrower"
	RoleLender   Role = "Lender"
	RoleAdmin    Role = "Admin"
)

// ParseRole validates a role string from the backend or a form post
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleBorrower, RoleLender, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Profile is the authenticated user's identity as served by GET /api/users/me
type Profile struct {
	ID          string  `json:"id"`
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	Role        Role    `json:"role"`
	CreditScore *int    `json:"creditScore,omitempty"`
	RiskTier    *string `json:"riskTier,omitempty"`
	KYCVerified *bool   `json:"kycVerified,omitempty"`
}

// TokenSet is the credential material minted by login or refresh.
// Expiries are kept as the raw RFC3339 strings the backend sends, matching
// the persisted layout; absent fields are empty strings.
type TokenSet struct {
	AccessToken        string
	AccessTokenExpiry  string
	RefreshToken       string
	RefreshTokenExpiry string
}

// Session is the full authenticated state of the process: credential
// material plus the profile, when known.
type Session struct {
	TokenSet
	Profile *Profile
}

// Authenticated reports whether the session holds an access token.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// RefreshTokenExpired reports whether the stored refresh-token expiry is
// parseable and already in the past. An absent or unparseable expiry is
// treated as not expired; the backend's 401 is the authority.
func (s Session) RefreshTokenExpired(now time.Time) bool {
	if s.RefreshTokenExpiry == "" {
		return false
	}
	exp, err := time.Parse(time.RFC3339, s.RefreshTokenExpiry)
	if err != nil {
		return false
	}
	return exp.Before(now)
}

// RegisterRequest is the payload for POST /api/auth/register
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}
