package api

import (
	"context"
	"net/http"

	"lendworks-web/internal/observability"
	"lendworks-web/internal/session"
)

// authTransport injects the session's bearer token immediately before
// transmission and drives the refresh protocol on a 401. A request is
// retried at most once, ever: the retry happens inline here, so a second
// 401 can only propagate to the caller.
//
// The transport itself performs no storage writes; all session mutation
// happens inside the refresher.
type authTransport struct {
	base    http.RoundTripper
	session *session.Manager
	refresh func(ctx context.Context) (string, error)
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	attempt := req.Clone(req.Context())
	if token := t.session.AccessToken(); token != "" {
		attempt.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base.RoundTrip(attempt)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	token, refreshErr := t.refresh(req.Context())
	if refreshErr != nil {
		// Refresh exhausted: the session is already cleared, the caller
		// gets the original 401.
		return resp, nil
	}

	retry, ok := t.rewind(req)
	if !ok {
		return resp, nil
	}
	retry.Header.Set("Authorization", "Bearer "+token)

	resp.Body.Close()
	observability.AuthRetriesTotal.Inc()
	return t.base.RoundTrip(retry)
}

// rewind clones req for the single resend. Requests with a body must be
// replayable through GetBody; client.do always builds them that way.
func (t *authTransport) rewind(req *http.Request) (*http.Request, bool) {
	retry := req.Clone(req.Context())
	if req.Body == nil {
		return retry, true
	}
	if req.GetBody == nil {
		return nil, false
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, false
	}
	retry.Body = body
	return retry, true
}
