package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/gopos/infra/opensearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAuditReader struct {
	logs    []opensearch.TransactionLog
	err     error
	orderID string
}

func (m *mockAuditReader) GetOrderTransactions(ctx context.Context, orderID string) ([]opensearch.TransactionLog, error) {
	m.orderID = orderID
	return m.logs, m.err
}

func getOrderLogs(h *AuditHandler, orderID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/transactions/order/logs", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("order_id", orderID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h.OrderLogs(rec, req)
	return rec
}

func TestAuditHandler_OrderLogs(t *testing.T) {
	reader := &mockAuditReader{logs: []opensearch.TransactionLog{
		{OrderID: "ORD-1", GatewayType: "akbank_pos", Action: "auth_non_secure", Outcome: "approved", Success: true},
		{OrderID: "ORD-1", GatewayType: "akbank_pos", Action: "refund", Outcome: "declined", ErrorCode: "05"},
	}}

	rec := getOrderLogs(NewAuditHandler(reader), "ORD-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ORD-1", reader.orderID)

	var logs []opensearch.TransactionLog
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &logs))
	require.Len(t, logs, 2)
	assert.Equal(t, "refund", logs[1].Action)
	assert.Equal(t, "05", logs[1].ErrorCode)
}

func TestAuditHandler_OrderLogsErrors(t *testing.T) {
	tests := []struct {
		name       string
		reader     AuditReader
		orderID    string
		wantStatus int
	}{
		{"empty_order_id", &mockAuditReader{}, " ", http.StatusBadRequest},
		{"no_reader", nil, "ORD-1", http.StatusServiceUnavailable},
		{"logging_disabled", &mockAuditReader{err: opensearch.ErrDisabled}, "ORD-1", http.StatusServiceUnavailable},
		{"search_fails", &mockAuditReader{err: errors.New("opensearch search error: [500]")}, "ORD-1", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := getOrderLogs(NewAuditHandler(tt.reader), tt.orderID)

			assert.Equal(t, tt.wantStatus, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			assert.NotContains(t, env.Error, "[500]")
		})
	}
}

func TestAuditHandler_OrderLogsEmpty(t *testing.T) {
	rec := getOrderLogs(NewAuditHandler(&mockAuditReader{}), "ORD-404")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(decodeEnvelope(t, rec).Data))
}
