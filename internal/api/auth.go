package api

import (
	"context"
	"encoding/json"
	"fmt"

	"lendworks-web/internal/domain"
)

// tokenPayload is the structured shape of login/refresh responses. Some
// backend paths return just the JWT as a bare string instead; that shape is
// accepted as an access-token-only update.
type tokenPayload struct {
	Token                    string          `json:"token"`
	TokenExpiresAtUtc        string          `json:"tokenExpiresAtUtc"`
	RefreshToken             string          `json:"refreshToken"`
	RefreshTokenExpiresAtUtc string          `json:"refreshTokenExpiresAtUtc"`
	Profile                  *domain.Profile `json:"profile"`
}

func decodeTokenPayload(payload []byte) (domain.TokenSet, *domain.Profile, error) {
	var raw json.RawMessage
	if err := decodePayload(payload, &raw); err != nil {
		return domain.TokenSet{}, nil, fmt.Errorf("decode token response: %w", err)
	}

	var bare string
	if err := json.Unmarshal(raw, &bare); err == nil {
		if bare == "" {
			return domain.TokenSet{}, nil, domain.ErrTokenMissing
		}
		return domain.TokenSet{AccessToken: bare}, nil, nil
	}

	var p tokenPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.TokenSet{}, nil, fmt.Errorf("decode token response: %w", err)
	}
	if p.Token == "" {
		return domain.TokenSet{}, nil, domain.ErrTokenMissing
	}
	return domain.TokenSet{
		AccessToken:        p.Token,
		AccessTokenExpiry:  p.TokenExpiresAtUtc,
		RefreshToken:       p.RefreshToken,
		RefreshTokenExpiry: p.RefreshTokenExpiresAtUtc,
	}, p.Profile, nil
}

// Login exchanges credentials for a token set and, when the backend embeds
// it, the user's profile.
func (c *Client) Login(ctx context.Context, email, password string) (domain.TokenSet, *domain.Profile, error) {
	var raw json.RawMessage
	err := c.post(ctx, "/api/auth/login", map[string]any{
		"login": map[string]string{"email": email, "password": password},
	}, &raw)
	if err != nil {
		return domain.TokenSet{}, nil, err
	}
	return decodeTokenPayload(raw)
}

// Register creates an account and returns the new user id. The caller still
// logs in afterwards; registration issues no tokens.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (string, error) {
	var userID string
	if err := c.post(ctx, "/api/auth/register", map[string]any{"registration": req}, &userID); err != nil {
		return "", err
	}
	return userID, nil
}

// Me fetches the profile for the current access token.
func (c *Client) Me(ctx context.Context) (domain.Profile, error) {
	var p domain.Profile
	if err := c.get(ctx, "/api/users/me", nil, &p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// SignIn runs the full login flow: exchange credentials, install the
// session, and fetch the profile when the login response did not carry one.
func (c *Client) SignIn(ctx context.Context, email, password string) (domain.Profile, error) {
	tokens, profile, err := c.Login(ctx, email, password)
	if err != nil {
		return domain.Profile{}, err
	}
	c.session.SetFromLogin(tokens, profile)

	if profile == nil {
		p, err := c.Me(ctx)
		if err != nil {
			return domain.Profile{}, fmt.Errorf("fetch profile after login: %w", err)
		}
		c.session.SetProfile(p)
		return p, nil
	}
	return *profile, nil
}

// SignOut destroys the session locally. The backend keeps no client state.
func (c *Client) SignOut() {
	c.session.Clear()
}
