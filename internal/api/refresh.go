package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"lendworks-web/internal/domain"
	"lendworks-web/internal/observability"
	"lendworks-web/internal/session"

	"golang.org/x/sync/singleflight"
)

// ErrRefreshExhausted means the refresh token was absent, expired or
// rejected. The session has already been cleared when this is returned.
var ErrRefreshExhausted = errors.New("refresh token exhausted")

// refresher exchanges the refresh token for a new access token. Concurrent
// callers share one in-flight exchange through the singleflight group: no
// two refresh calls ever overlap, and every joiner observes the same
// outcome.
type refresher struct {
	baseURL string
	http    *http.Client // bare client, no auth transport
	session *session.Manager
	group   singleflight.Group
}

// Refresh returns a freshly minted access token, joining an in-flight
// exchange when one exists.
func (r *refresher) Refresh(ctx context.Context) (string, error) {
	v, err, _ := r.group.Do("refresh", func() (any, error) {
		return r.exchange(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (r *refresher) exchange(ctx context.Context) (string, error) {
	snap := r.session.Snapshot()
	if snap.RefreshToken == "" || snap.RefreshTokenExpired(r.session.Now()) {
		r.session.Clear()
		observability.TokenRefreshTotal.WithLabelValues("exhausted").Inc()
		return "", ErrRefreshExhausted
	}

	tokens, err := r.callRefresh(ctx, snap.RefreshToken)
	if err != nil {
		r.session.Clear()
		observability.TokenRefreshTotal.WithLabelValues("failed").Inc()
		observability.FromContext(ctx).Warn("token refresh failed, session cleared", "error", err.Error())
		return "", err
	}

	r.session.SetFromRefresh(tokens)
	observability.TokenRefreshTotal.WithLabelValues("success").Inc()
	return tokens.AccessToken, nil
}

// callRefresh performs the network exchange. It is detached from the
// faulting request's context: a refresh in flight always runs to
// completion, because unrelated requests may be waiting on its result.
func (r *refresher) callRefresh(ctx context.Context, refreshToken string) (domain.TokenSet, error) {
	body, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return domain.TokenSet{}, fmt.Errorf("encode refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		context.WithoutCancel(ctx),
		http.MethodPost,
		r.baseURL+"/api/auth/refresh",
		bytes.NewReader(body),
	)
	if err != nil {
		return domain.TokenSet{}, fmt.Errorf("create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return domain.TokenSet{}, fmt.Errorf("refresh call: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return domain.TokenSet{}, fmt.Errorf("read refresh response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return domain.TokenSet{}, &Error{Status: resp.StatusCode, Message: envelopeMessage(payload)}
	}

	ts, _, err := decodeTokenPayload(payload)
	if err != nil {
		return domain.TokenSet{}, err
	}
	return ts, nil
}
