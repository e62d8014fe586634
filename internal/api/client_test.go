package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"lendworks-web/internal/domain"
	"lendworks-web/internal/session"
	"lendworks-web/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeatureClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	mgr := session.NewManager(testutil.NewMemStore(), nil)
	mgr.SetFromLogin(testutil.NewTestTokens(), nil)
	return NewClient(srv.URL, mgr)
}

func TestLoanPurposes_NormalizesWireShapes(t *testing.T) {
	tests := []struct {
		name string
		body []byte
		want []domain.LoanPurpose
	}{
		{
			name: "bare strings",
			body: testutil.Envelope([]string{"Education", "HomeImprovement"}),
			want: []domain.LoanPurpose{
				{Name: "Education", Value: "Education"},
				{Name: "HomeImprovement", Value: "HomeImprovement"},
			},
		},
		{
			name: "name value objects",
			body: testutil.Envelope([]map[string]any{
				{"name": "Education", "value": 0},
				{"name": "HomeImprovement", "value": 1},
			}),
			want: []domain.LoanPurpose{
				{Name: "Education", Value: "0"},
				{Name: "HomeImprovement", Value: "1"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newFeatureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write(tt.body)
			}))
			got, err := c.LoanPurposes(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUsers_QueryDefaultsAndFilters(t *testing.T) {
	var seen url.Values
	c := newFeatureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Query()
		w.Write(testutil.Envelope(domain.Paginated[domain.AdminUser]{Total: 0}))
	}))

	_, err := c.Users(context.Background(), domain.UserQuery{})
	require.NoError(t, err)
	assert.Equal(t, "1", seen.Get("page"))
	assert.Equal(t, "25", seen.Get("pageSize"))
	assert.Equal(t, "createdAt", seen.Get("sortBy"))
	assert.Equal(t, "desc", seen.Get("sortDir"))
	assert.False(t, seen.Has("role"))
	assert.False(t, seen.Has("isActive"))

	inactive := false
	_, err = c.Users(context.Background(), domain.UserQuery{
		Page:     3,
		Search:   "doe",
		Role:     domain.RoleLender,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "3", seen.Get("page"))
	assert.Equal(t, "doe", seen.Get("search"))
	assert.Equal(t, "Lender", seen.Get("role"))
	assert.Equal(t, "false", seen.Get("isActive"))
}

func TestTransactions_QueryDefaults(t *testing.T) {
	var seen url.Values
	c := newFeatureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Query()
		w.Write(testutil.Envelope(domain.Paginated[domain.LenderTransaction]{}))
	}))

	_, err := c.Transactions(context.Background(), domain.TransactionQuery{LoanID: "loan-9"})
	require.NoError(t, err)
	assert.Equal(t, "1", seen.Get("page"))
	assert.Equal(t, "25", seen.Get("pageSize"))
	assert.Equal(t, "loan-9", seen.Get("loanId"))
	assert.False(t, seen.Has("from"))
	assert.False(t, seen.Has("to"))
}

func TestCheckOverdueRepayments(t *testing.T) {
	c := newFeatureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/admin/repayments/check-overdue", r.URL.Path)
		w.Write(testutil.Envelope(3))
	}))

	count, err := c.CheckOverdueRepayments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestUnreadNotifications_CountsUnreadOnly(t *testing.T) {
	c := newFeatureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(testutil.Envelope([]domain.Notification{
			{ID: "n1", IsRead: false},
			{ID: "n2", IsRead: true},
			{ID: "n3", IsRead: false},
		}))
	}))

	unread, err := c.UnreadNotifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, unread)
}

func TestError_MessageRendering(t *testing.T) {
	withMsg := &Error{Status: 404, Message: "Loan not found"}
	assert.Equal(t, "backend returned 404: Loan not found", withMsg.Error())
	bare := &Error{Status: 502}
	assert.Equal(t, "backend returned status 502", bare.Error())
}

func TestPathEscaping(t *testing.T) {
	var path string
	c := newFeatureClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
		w.Write(testutil.Envelope(map[string]any{}))
	}))

	require.NoError(t, c.PayRepayment(context.Background(), "rep/../1"))
	assert.Equal(t, "/api/repayments/rep%2F..%2F1/pay", path)
}
