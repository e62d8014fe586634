package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"lendworks-web/internal/domain"
	"lendworks-web/internal/session"
	"lendworks-web/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backendStub simulates the marketplace API for transport tests. It accepts
// exactly one bearer token at a time and rotates it through the refresh
// endpoint.
type backendStub struct {
	mu           sync.Mutex
	validToken   string
	refreshDelay time.Duration
	refreshCalls atomic.Int64
	loanHits     atomic.Int64
	refreshFails bool
}

func (b *backendStub) currentToken() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.validToken
}

func (b *backendStub) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		b.refreshCalls.Add(1)
		time.Sleep(b.refreshDelay)
		if b.refreshFails {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"success":false,"message":"refresh token revoked"}`))
			return
		}
		b.mu.Lock()
		b.validToken = "T2"
		b.mu.Unlock()
		w.Write(testutil.Envelope(map[string]string{"token": "T2"}))
	})
	mux.HandleFunc("GET /api/loans/open", func(w http.ResponseWriter, r *http.Request) {
		b.loanHits.Add(1)
		if r.Header.Get("Authorization") != "Bearer "+b.currentToken() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write(testutil.Envelope([]domain.LoanSummary{testutil.NewTestLoan()}))
	})
	mux.HandleFunc("POST /api/loans", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+b.currentToken() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, _ := io.ReadAll(r.Body)
		var app domain.LoanApplication
		if err := json.Unmarshal(body, &app); err != nil || app.Amount == 0 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"message":"body lost on retry"}`))
			return
		}
		w.Write(testutil.Envelope(map[string]string{"loanId": "loan-1"}))
	})
	return mux
}

func newStubClient(t *testing.T, stub *backendStub, tokens domain.TokenSet) (*Client, *testutil.MemStore) {
	t.Helper()
	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	store := testutil.NewMemStore()
	mgr := session.NewManager(store, nil)
	mgr.SetFromLogin(tokens, nil)
	return NewClient(srv.URL, mgr), store
}

func TestTransport_InjectsBearerToken(t *testing.T) {
	stub := &backendStub{validToken: "T1"}
	c, _ := newStubClient(t, stub, testutil.NewTestTokens())
	c.Session().SetFromRefresh(domain.TokenSet{AccessToken: "T1"})

	var loans []domain.LoanSummary
	require.NoError(t, c.get(context.Background(), "/api/loans/open", nil, &loans))
	assert.Len(t, loans, 1)
	assert.EqualValues(t, 1, stub.loanHits.Load())
	assert.EqualValues(t, 0, stub.refreshCalls.Load())
}

func TestTransport_RefreshesOnceOn401(t *testing.T) {
	stub := &backendStub{validToken: "T2"} // T1 is already stale
	tokens := testutil.NewTestTokens()
	tokens.AccessToken = "T1"
	c, _ := newStubClient(t, stub, tokens)

	var loans []domain.LoanSummary
	require.NoError(t, c.get(context.Background(), "/api/loans/open", nil, &loans))

	assert.Len(t, loans, 1)
	assert.EqualValues(t, 1, stub.refreshCalls.Load())
	assert.EqualValues(t, 2, stub.loanHits.Load(), "original attempt plus exactly one retry")
	assert.Equal(t, "T2", c.Session().AccessToken())
}

func TestTransport_ReplaysBodyOnRetry(t *testing.T) {
	stub := &backendStub{validToken: "T2"}
	tokens := testutil.NewTestTokens()
	tokens.AccessToken = "T1"
	c, _ := newStubClient(t, stub, tokens)

	app := domain.LoanApplication{Amount: 5000, DurationInMonths: 12, Purpose: "HomeImprovement"}
	var result map[string]string
	require.NoError(t, c.post(context.Background(), "/api/loans", app, &result))
	assert.Equal(t, "loan-1", result["loanId"])
}

func TestTransport_ConcurrentRequestsShareOneRefresh(t *testing.T) {
	stub := &backendStub{validToken: "T2", refreshDelay: 50 * time.Millisecond}
	tokens := testutil.NewTestTokens()
	tokens.AccessToken = "T1"
	c, _ := newStubClient(t, stub, tokens)

	const parallel = 8
	var wg sync.WaitGroup
	errs := make([]error, parallel)
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var loans []domain.LoanSummary
			errs[i] = c.get(context.Background(), "/api/loans/open", nil, &loans)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "request %d", i)
	}
	assert.EqualValues(t, 1, stub.refreshCalls.Load(), "one exchange shared by all waiters")
}

func TestTransport_RefreshFailureClearsSessionAndReturns401(t *testing.T) {
	stub := &backendStub{validToken: "T2", refreshFails: true}
	tokens := testutil.NewTestTokens()
	tokens.AccessToken = "T1"
	c, store := newStubClient(t, stub, tokens)

	err := c.get(context.Background(), "/api/loans/open", nil, nil)

	assert.True(t, IsUnauthorized(err), "caller sees the original 401, got %v", err)
	assert.EqualValues(t, 1, stub.refreshCalls.Load())
	assert.EqualValues(t, 1, stub.loanHits.Load(), "no retry without a fresh token")
	assert.Equal(t, 0, store.Len(), "failed refresh wipes persisted state")
	assert.Empty(t, c.Session().AccessToken())
}

func TestTransport_ExhaustedRefreshTokenSkipsNetworkExchange(t *testing.T) {
	stub := &backendStub{validToken: "T2"}
	c, store := newStubClient(t, stub, domain.TokenSet{AccessToken: "T1"})

	err := c.get(context.Background(), "/api/loans/open", nil, nil)

	assert.True(t, IsUnauthorized(err))
	assert.EqualValues(t, 0, stub.refreshCalls.Load(), "no refresh token, no exchange")
	assert.Equal(t, 0, store.Len())
}

func TestTransport_ExpiredRefreshTokenIsExhausted(t *testing.T) {
	stub := &backendStub{validToken: "T2"}
	tokens := testutil.NewTestTokens()
	tokens.AccessToken = "T1"
	tokens.RefreshTokenExpiry = "2020-01-01T00:00:00Z"
	c, store := newStubClient(t, stub, tokens)

	err := c.get(context.Background(), "/api/loans/open", nil, nil)

	assert.True(t, IsUnauthorized(err))
	assert.EqualValues(t, 0, stub.refreshCalls.Load())
	assert.Equal(t, 0, store.Len())
}

func TestTransport_SecondConsecutive401IsNotRetried(t *testing.T) {
	// The refresh succeeds but the backend still rejects the new token.
	// The retry budget is one; the second 401 surfaces to the caller.
	var hits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.Write(testutil.Envelope(map[string]string{"token": "T2"}))
	})
	mux.HandleFunc("GET /api/loans/open", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mgr := session.NewManager(testutil.NewMemStore(), nil)
	mgr.SetFromLogin(testutil.NewTestTokens(), nil)
	c := NewClient(srv.URL, mgr)

	err := c.get(context.Background(), "/api/loans/open", nil, nil)

	assert.True(t, IsUnauthorized(err))
	assert.EqualValues(t, 2, hits.Load(), "exactly one retry, never a loop")
}

func TestTransport_UnauthenticatedRequestHasNoAuthorizationHeader(t *testing.T) {
	var sawAuth atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			sawAuth.Store(true)
		}
		w.Write(testutil.Envelope([]string{"Education"}))
	}))
	defer srv.Close()

	mgr := session.NewManager(testutil.NewMemStore(), nil)
	c := NewClient(srv.URL, mgr)

	require.NoError(t, c.Ping(context.Background()))
	assert.False(t, sawAuth.Load())
}

func TestTransport_RefreshSurvivesCallerCancellation(t *testing.T) {
	refreshed := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "refreshToken") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write(testutil.Envelope(map[string]string{"token": "T2"}))
		close(refreshed)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mgr := session.NewManager(testutil.NewMemStore(), nil)
	mgr.SetFromLogin(testutil.NewTestTokens(), nil)

	ref := &refresher{baseURL: srv.URL, http: srv.Client(), session: mgr}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	token, err := ref.Refresh(ctx)
	require.NoError(t, err, "a cancelled caller must not abort the exchange")
	assert.Equal(t, "T2", token)

	select {
	case <-refreshed:
	case <-time.After(time.Second):
		t.Fatal("refresh endpoint was never reached")
	}
	assert.Equal(t, "T2", mgr.AccessToken())
}
