package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mstgnz/gopos/infra/config"
	"github.com/mstgnz/gopos/infra/middle"
	"github.com/mstgnz/gopos/installment"
	"github.com/mstgnz/gopos/provider"
	_ "github.com/mstgnz/gopos/provider/all"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-key"

type emptyCatalog struct{}

func (emptyCatalog) ActiveBanks(ctx context.Context) ([]installment.Bank, error) { return nil, nil }
func (emptyCatalog) BankByID(ctx context.Context, id int64) (installment.Bank, bool, error) {
	return installment.Bank{}, false, nil
}
func (emptyCatalog) BankByBIN(ctx context.Context, bin string) (installment.Bank, bool, error) {
	return installment.Bank{}, false, nil
}
func (emptyCatalog) Deactivated(ctx context.Context, bin, bankCode string) (bool, error) {
	return false, nil
}
func (emptyCatalog) InstallmentConfigs(ctx context.Context, bankID int64) ([]installment.Config, error) {
	return nil, nil
}
func (emptyCatalog) Restrictions(ctx context.Context, bankID int64, categoryIDs []int64) ([]installment.Restriction, error) {
	return nil, nil
}
func (emptyCatalog) Ping(ctx context.Context) error             { return nil }
func (emptyCatalog) BankCount(ctx context.Context) (int, error) { return 0, nil }

type approveAll struct{}

func (approveAll) Execute(ctx context.Context, cfg provider.BankConfig, tx provider.Transaction) (*provider.Outcome, error) {
	return &provider.Outcome{Kind: tx.Kind(), Result: &provider.TransactionResult{Success: true}}, nil
}

func newTestServer(t *testing.T, limiter *middle.RateLimiter) *httptest.Server {
	t.Helper()
	cfg := &config.AppConfig{
		APIKey:         testAPIKey,
		Environment:    "test",
		AllowedOrigins: []string{"https://shop.test"},
	}
	srv := httptest.NewServer(New(Deps{
		Config:       cfg,
		Orchestrator: approveAll{},
		Installments: installment.NewEngine(emptyCatalog{}),
		Catalog:      emptyCatalog{},
		Gateways:     provider.DefaultRegistry,
		RateLimiter:  limiter,
		AccessLog:    zerolog.New(io.Discard),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, method, url, body, apiKey string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		apiKey     string
		wantStatus int
	}{
		{"health_is_public", http.MethodGet, "/health", "", "", http.StatusOK},
		{"metrics_is_public", http.MethodGet, "/metrics", "", "", http.StatusOK},
		{"v1_requires_auth", http.MethodGet, "/v1/gateways", "", "", http.StatusUnauthorized},
		{"v1_rejects_wrong_key", http.MethodGet, "/v1/gateways", "", "wrong", http.StatusUnauthorized},
		{"gateways", http.MethodGet, "/v1/gateways", "", testAPIKey, http.StatusOK},
		{"gateway_validate", http.MethodPost, "/v1/gateways/validate", `{"gateway_type": "posnet"}`, testAPIKey, http.StatusOK},
		{"installments", http.MethodPost, "/v1/installments", `{"amount": 100}`, testAPIKey, http.StatusOK},
		{"installments_test", http.MethodGet, "/v1/installments/test?amount=100", "", testAPIKey, http.StatusOK},
		{"bin_known", http.MethodGet, "/v1/installments/bin/450634", "", testAPIKey, http.StatusOK},
		{"bin_unknown", http.MethodGet, "/v1/installments/bin/999999", "", testAPIKey, http.StatusNotFound},
		{"transactions", http.MethodPost, "/v1/transactions", `{"action": "check_status", "bank_config": {"gateway_type": "posnet"}, "order_id": "1"}`, testAPIKey, http.StatusOK},
		{"order_logs_without_audit", http.MethodGet, "/v1/transactions/ORD-1/logs", "", testAPIKey, http.StatusServiceUnavailable},
		{"not_found", http.MethodGet, "/nope", "", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, tt.method, srv.URL+tt.path, tt.body, tt.apiKey)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

// deadlineRecorder approves every call and keeps the request deadline
type deadlineRecorder struct {
	remaining time.Duration
}

func (d *deadlineRecorder) Execute(ctx context.Context, cfg provider.BankConfig, tx provider.Transaction) (*provider.Outcome, error) {
	if deadline, ok := ctx.Deadline(); ok {
		d.remaining = time.Until(deadline)
	}
	return &provider.Outcome{Kind: tx.Kind(), Result: &provider.TransactionResult{Success: true}}, nil
}

func TestRoutes_RequestTimeoutOutlastsConnector(t *testing.T) {
	tests := []struct {
		name      string
		connector time.Duration
	}{
		{"default", 30 * time.Second},
		{"minute", 60 * time.Second},
		{"slow_bank", 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orch := &deadlineRecorder{}
			api := New(Deps{
				Config:       &config.AppConfig{APIKey: testAPIKey, Environment: "test", ConnectorTimeout: tt.connector},
				Orchestrator: orch,
				Installments: installment.NewEngine(emptyCatalog{}),
				Catalog:      emptyCatalog{},
				Gateways:     provider.DefaultRegistry,
				AccessLog:    zerolog.New(io.Discard),
			})

			req := httptest.NewRequest(http.MethodPost, "/v1/transactions", strings.NewReader(
				`{"action": "check_status", "bank_config": {"gateway_type": "posnet"}, "order_id": "1"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+testAPIKey)
			rec := httptest.NewRecorder()
			api.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Greater(t, orch.remaining, tt.connector)
		})
	}
}

func TestRoutes_Headers(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := doRequest(t, http.MethodGet, srv.URL+"/health", "", "")
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestRoutes_RequiresJSON(t *testing.T) {
	srv := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/transactions", strings.NewReader("action=cancel"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+testAPIKey)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestRoutes_RateLimit(t *testing.T) {
	limiter := middle.NewRateLimiter(2)
	t.Cleanup(limiter.Stop)
	srv := newTestServer(t, limiter)

	for i := 0; i < 2; i++ {
		resp := doRequest(t, http.MethodGet, srv.URL+"/health", "", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp := doRequest(t, http.MethodGet, srv.URL+"/health", "", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestRoutes_CORSPreflight(t *testing.T) {
	srv := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/v1/transactions", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://shop.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "https://shop.test", resp.Header.Get("Access-Control-Allow-Origin"))
}
