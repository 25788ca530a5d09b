package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mstgnz/gopos/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAccount struct {
	provider.BaseAccount
}

func (testAccount) Credentials() map[string]string {
	return map[string]string{"clientId": "100"}
}

func newConnector(t *testing.T, handler http.HandlerFunc) provider.Connector {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f := New(Config{URL: srv.URL, Timeout: 2 * time.Second})
	account := testAccount{BaseAccount: provider.BaseAccount{Gateway: "estv3_pos", Bank: "isbank", PaymentModel: provider.Model3DPay, Language: "tr"}}
	conn, err := f.NewConnector(account, provider.BankConfig{Environment: "test"})
	require.NoError(t, err)
	return conn
}

func prepared(t *testing.T, conn provider.Connector, kind provider.TransactionKind) {
	t.Helper()
	order, err := provider.NewOrder(provider.OrderParams{
		ID:          "ORD-1",
		Amount:      decimal.RequireFromString("1000"),
		Installment: 3,
		SelectedTotalAmount: func() *decimal.Decimal {
			d := decimal.RequireFromString("1015")
			return &d
		}(),
		SuccessURL: "https://shop/ok",
		FailURL:    "https://shop/fail",
	})
	require.NoError(t, err)
	require.NoError(t, conn.Prepare(order, kind))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestPay_RelaysRequest(t *testing.T) {
	var got map[string]any
	conn := newConnector(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"status":"approved","order_id":"ORD-1","auth_code":"A1","host_ref":12345678901234567}}`)
	})
	prepared(t, conn, provider.KindAuthNonSecure)

	card, err := provider.NewCard("4111111111111111", "12", "2030", "123", "Test")
	require.NoError(t, err)
	raw, err := conn.Pay(context.Background(), card)

	require.NoError(t, err)
	assert.Equal(t, "approved", raw["status"])
	assert.Equal(t, json.Number("12345678901234567"), raw["host_ref"])

	assert.Equal(t, "non_secure_payment", got["action"])
	assert.Equal(t, "ORD-1", got["order_id"])
	assert.Equal(t, 1015.0, got["amount"])
	assert.Equal(t, "TRY", got["currency"])
	assert.Equal(t, 949.0, got["currency_code"])
	assert.Equal(t, 3.0, got["installment"])
	cardJSON := got["card"].(map[string]any)
	assert.Equal(t, "4111111111111111", cardJSON["number"])
	bank := got["bank_config"].(map[string]any)
	assert.Equal(t, "estv3_pos", bank["gateway_type"])
	assert.Equal(t, "3d_pay", bank["payment_model"])
	assert.Equal(t, "test", bank["environment"])
	assert.Equal(t, map[string]any{"clientId": "100"}, bank["credentials"])
}

func TestBuild3DForm(t *testing.T) {
	conn := newConnector(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "create_3d_form", req["action"])
		assert.Equal(t, "https://bank/3d", req["gateway_url"])
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"inputs":{"oid":"ORD-1","hash":"abc"}}}`)
	})
	prepared(t, conn, provider.KindAuth3DSInit)

	form, err := conn.Build3DForm(context.Background(), "https://bank/3d", provider.Card{Number: "4111111111111111"})

	require.NoError(t, err)
	assert.Equal(t, "https://bank/3d", form.GatewayURL)
	assert.Equal(t, "POST", form.Method)
	assert.Equal(t, "abc", form.Inputs["hash"])
}

func TestComplete3D_CallbackVerification(t *testing.T) {
	conn := newConnector(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"success":false,"error":"hash mismatch","error_type":"callback_verification"}`)
	})
	prepared(t, conn, provider.KindAuth3DSCallback)

	_, err := conn.Complete3D(context.Background(), map[string]string{"mdStatus": "1"})

	var cerr *provider.CallbackVerificationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "hash mismatch", cerr.Reason)
}

func TestCancel_ServiceFailure(t *testing.T) {
	conn := newConnector(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"success":false,"error":"bank unreachable"}`)
	})
	prepared(t, conn, provider.KindCancel)

	_, err := conn.Cancel(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bank unreachable")
}

func TestRefund_MalformedResponse(t *testing.T) {
	conn := newConnector(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `<html>oops</html>`)
	})
	prepared(t, conn, provider.KindRefund)

	_, err := conn.Refund(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

func TestStatus_ContextDeadline(t *testing.T) {
	conn := newConnector(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	prepared(t, conn, provider.KindStatus)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := conn.Status(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestConnector_RequiresPrepare(t *testing.T) {
	conn := newConnector(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("must not be called")
	})

	_, err := conn.Cancel(context.Background())
	assert.Error(t, err)

	prepared(t, conn, provider.KindRefund)
	_, err = conn.Cancel(context.Background())
	assert.Error(t, err)
}

func TestFactory_RequiresURL(t *testing.T) {
	_, err := New(Config{}).NewConnector(testAccount{}, provider.BankConfig{})
	assert.Error(t, err)
}
