package provider

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubConnector records calls and returns canned responses
type stubConnector struct {
	prepared   []TransactionKind
	calls      []string
	response   RawResponse
	form       *FormData
	err        error
	prepareErr error
	block      bool
	gotURL     string
	gotData    map[string]string
	gotCard    Card
}

func (s *stubConnector) Prepare(order Order, kind TransactionKind) error {
	s.prepared = append(s.prepared, kind)
	return s.prepareErr
}

func (s *stubConnector) wait(ctx context.Context) error {
	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.err
}

func (s *stubConnector) Build3DForm(ctx context.Context, gatewayURL string, card Card) (*FormData, error) {
	s.calls = append(s.calls, "build_3d_form")
	s.gotURL = gatewayURL
	s.gotCard = card
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.form, nil
}

func (s *stubConnector) Pay(ctx context.Context, card Card) (RawResponse, error) {
	s.calls = append(s.calls, "pay")
	s.gotCard = card
	return s.response, s.wait(ctx)
}

func (s *stubConnector) Complete3D(ctx context.Context, payload map[string]string) (RawResponse, error) {
	s.calls = append(s.calls, "complete_3d")
	s.gotData = payload
	return s.response, s.wait(ctx)
}

func (s *stubConnector) Cancel(ctx context.Context) (RawResponse, error) {
	s.calls = append(s.calls, "cancel")
	return s.response, s.wait(ctx)
}

func (s *stubConnector) Refund(ctx context.Context) (RawResponse, error) {
	s.calls = append(s.calls, "refund")
	return s.response, s.wait(ctx)
}

func (s *stubConnector) Status(ctx context.Context) (RawResponse, error) {
	s.calls = append(s.calls, "status")
	return s.response, s.wait(ctx)
}

func stubFactory(conn *stubConnector) ConnectorFactory {
	return ConnectorFactoryFunc(func(account Account, cfg BankConfig) (Connector, error) {
		return conn, nil
	})
}

func testConfig() BankConfig {
	return BankConfig{
		GatewayType: "test_pos",
		BankCode:    "testbank",
		Username:    "api",
		Password:    "secret",
		Endpoints: Endpoints{
			Gateway3D:     "https://bank.test/3d",
			Gateway3DHost: "https://bank.test/3d-host",
		},
	}
}

func testOrder(t *testing.T) Order {
	t.Helper()
	order, err := NewOrder(OrderParams{
		ID:         "ORD-1",
		Amount:     decimal.RequireFromString("100.00"),
		Currency:   CurrencyTRY,
		SuccessURL: "https://shop.test/ok",
		FailURL:    "https://shop.test/fail",
	})
	require.NoError(t, err)
	return order
}

func testCard(t *testing.T) Card {
	t.Helper()
	card, err := NewCard("4111111111111111", "12", "2030", "123", "Test User")
	require.NoError(t, err)
	return card
}

func TestOrchestrator_NonSecureApproved(t *testing.T) {
	conn := &stubConnector{response: RawResponse{"status": "approved", "order_id": "X1", "auth_code": "A1"}}
	orch := NewOrchestrator(stubFactory(conn), WithRegistry(newTestRegistry()))

	outcome, err := orch.Execute(context.Background(), testConfig(), AuthNonSecure{Order: testOrder(t), Card: testCard(t)})

	require.NoError(t, err)
	require.NotNil(t, outcome.Result)
	assert.True(t, outcome.Result.Success)
	assert.Equal(t, "X1", *outcome.Result.OrderID)
	assert.Equal(t, "A1", *outcome.Result.AuthCode)
	assert.Nil(t, outcome.Result.ErrorCode)
	assert.Nil(t, outcome.Result.ErrorMessage)
	assert.Equal(t, []TransactionKind{KindAuthNonSecure}, conn.prepared)
	assert.Equal(t, []string{"pay"}, conn.calls)
	assert.Equal(t, "4111111111111111", conn.gotCard.Number)
}

func TestOrchestrator_DeclineIsNotAnError(t *testing.T) {
	conn := &stubConnector{response: RawResponse{"status": "declined", "error_code": "05", "error_message": "Do not honour"}}
	orch := NewOrchestrator(stubFactory(conn), WithRegistry(newTestRegistry()))

	outcome, err := orch.Execute(context.Background(), testConfig(), AuthNonSecure{Order: testOrder(t), Card: testCard(t)})

	require.NoError(t, err)
	assert.False(t, outcome.Result.Success)
	assert.Equal(t, "05", *outcome.Result.ErrorCode)
}

func TestOrchestrator_3DSInit(t *testing.T) {
	form := &FormData{GatewayURL: "https://bank.test/3d", Method: "POST", Inputs: map[string]string{"oid": "ORD-1"}}
	conn := &stubConnector{form: form}
	orch := NewOrchestrator(stubFactory(conn), WithRegistry(newTestRegistry()))

	outcome, err := orch.Execute(context.Background(), testConfig(), Auth3DSInit{Order: testOrder(t), Card: testCard(t)})

	require.NoError(t, err)
	assert.Equal(t, form, outcome.Form)
	assert.Nil(t, outcome.Result)
	assert.Equal(t, "https://bank.test/3d", conn.gotURL)
	assert.Equal(t, []TransactionKind{KindAuth3DSInit}, conn.prepared)
}

func TestOrchestrator_3DSInitHostModel(t *testing.T) {
	conn := &stubConnector{form: &FormData{}}
	orch := NewOrchestrator(stubFactory(conn), WithRegistry(newTestRegistry()))
	cfg := testConfig()
	cfg.PaymentModel = "3d_host"

	_, err := orch.Execute(context.Background(), cfg, Auth3DSInit{Order: testOrder(t), Card: testCard(t)})

	require.NoError(t, err)
	assert.Equal(t, "https://bank.test/3d-host", conn.gotURL)
}

func TestOrchestrator_3DSInitMissingEndpoint(t *testing.T) {
	conn := &stubConnector{form: &FormData{}}
	orch := NewOrchestrator(stubFactory(conn), WithRegistry(newTestRegistry()))
	cfg := testConfig()
	cfg.Endpoints = Endpoints{}

	_, err := orch.Execute(context.Background(), cfg, Auth3DSInit{Order: testOrder(t), Card: testCard(t)})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "gateway_3d", verr.Field)
	assert.Empty(t, conn.calls)
}

func TestOrchestrator_3DSCallback(t *testing.T) {
	conn := &stubConnector{response: RawResponse{"status": "approved", "oid": "ORD-1", "AuthCode": "P1"}}
	orch := NewOrchestrator(stubFactory(conn), WithRegistry(newTestRegistry()))
	payload := map[string]string{"mdStatus": "1", "oid": "ORD-1"}

	outcome, err := orch.Execute(context.Background(), testConfig(), Auth3DSCallback{Order: testOrder(t), Payload: payload})

	require.NoError(t, err)
	assert.True(t, outcome.Result.Success)
	assert.Equal(t, "P1", *outcome.Result.AuthCode)
	assert.Equal(t, payload, conn.gotData)
}

func TestOrchestrator_CancelRefundStatus(t *testing.T) {
	order, err := NewMinimalOrder("ORD-1", decimal.RequireFromString("100"), CurrencyTRY)
	require.NoError(t, err)

	tests := []struct {
		tx   Transaction
		call string
	}{
		{CancelTx{Order: order}, "cancel"},
		{RefundTx{Order: order}, "refund"},
		{StatusTx{Order: order}, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.call, func(t *testing.T) {
			conn := &stubConnector{response: RawResponse{"status": "approved"}}
			orch := NewOrchestrator(stubFactory(conn), WithRegistry(newTestRegistry()))

			outcome, err := orch.Execute(context.Background(), testConfig(), tt.tx)

			require.NoError(t, err)
			assert.True(t, outcome.Result.Success)
			assert.Equal(t, []string{tt.call}, conn.calls)
			assert.Equal(t, []TransactionKind{tt.tx.Kind()}, conn.prepared)
		})
	}
}

func TestOrchestrator_ValidationShortCircuits(t *testing.T) {
	order := testOrder(t)
	zeroAmount, err := NewMinimalOrder("ORD-1", decimal.Zero, CurrencyTRY)
	require.NoError(t, err)

	tests := []struct {
		name  string
		tx    Transaction
		field string
	}{
		{"missing card", AuthNonSecure{Order: order}, "card"},
		{"missing order", AuthNonSecure{Card: testCard(t)}, "order_id"},
		{"missing callback", Auth3DSCallback{Order: order}, "callback_data"},
		{"zero refund", RefundTx{Order: zeroAmount}, "amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &stubConnector{}
			orch := NewOrchestrator(stubFactory(conn), WithRegistry(newTestRegistry()))

			outcome, err := orch.Execute(context.Background(), testConfig(), tt.tx)

			assert.Nil(t, outcome)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Empty(t, conn.prepared)
		})
	}
}

func TestOrchestrator_UnsupportedGateway(t *testing.T) {
	tests := []struct {
		name        string
		gatewayType string
		label       string
	}{
		{"unknown", "unknown_type", UnsupportedGatewayLabel},
		{"random", "gw-8f3a1c2e-" + strings.Repeat("x", 40), UnsupportedGatewayLabel},
		{"empty", "", UnsupportedGatewayLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events []TransactionEvent
			obs := ObserverFunc(func(ctx context.Context, e TransactionEvent) {
				events = append(events, e)
			})
			conn := &stubConnector{}
			orch := NewOrchestrator(stubFactory(conn), WithRegistry(newTestRegistry()), WithObserver(obs))
			cfg := testConfig()
			cfg.GatewayType = tt.gatewayType

			_, err := orch.Execute(context.Background(), cfg, AuthNonSecure{Order: testOrder(t), Card: testCard(t)})

			var uerr *UnsupportedGatewayError
			require.True(t, errors.As(err, &uerr))
			assert.Empty(t, conn.prepared)
			require.Len(t, events, 1)
			assert.Equal(t, tt.label, events[0].GatewayType)
			assert.Equal(t, "error", events[0].Outcome())
		})
	}
}

func TestOrchestrator_TransportFailure(t *testing.T) {
	conn := &stubConnector{err: errors.New("connection refused")}
	orch := NewOrchestrator(stubFactory(conn), WithRegistry(newTestRegistry()))

	outcome, err := orch.Execute(context.Background(), testConfig(), AuthNonSecure{Order: testOrder(t), Card: testCard(t)})

	assert.Nil(t, outcome)
	var berr *BankCommunicationError
	require.True(t, errors.As(err, &berr))
	assert.False(t, berr.Timeout)
	assert.Equal(t, "test_pos", berr.GatewayType)
	assert.Equal(t, []string{"pay"}, conn.calls)
}

func TestOrchestrator_Timeout(t *testing.T) {
	conn := &stubConnector{block: true}
	orch := NewOrchestrator(stubFactory(conn), WithRegistry(newTestRegistry()), WithTimeout(20*time.Millisecond))

	_, err := orch.Execute(context.Background(), testConfig(), AuthNonSecure{Order: testOrder(t), Card: testCard(t)})

	var berr *BankCommunicationError
	require.True(t, errors.As(err, &berr))
	assert.True(t, berr.Timeout)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.False(t, errors.Is(err, ErrCanceled))
}

func TestOrchestrator_CallerCancellation(t *testing.T) {
	conn := &stubConnector{block: true}
	orch := NewOrchestrator(stubFactory(conn), WithRegistry(newTestRegistry()))
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	outcome, err := orch.Execute(ctx, testConfig(), AuthNonSecure{Order: testOrder(t), Card: testCard(t)})

	assert.Nil(t, outcome)
	assert.True(t, errors.Is(err, ErrCanceled))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestOrchestrator_AlreadyCanceled(t *testing.T) {
	conn := &stubConnector{}
	orch := NewOrchestrator(stubFactory(conn), WithRegistry(newTestRegistry()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := orch.Execute(ctx, testConfig(), AuthNonSecure{Order: testOrder(t), Card: testCard(t)})

	assert.True(t, errors.Is(err, ErrCanceled))
	assert.Empty(t, conn.prepared)
}

func TestOrchestrator_CallbackVerificationFromConnector(t *testing.T) {
	conn := &stubConnector{err: &CallbackVerificationError{GatewayType: "test_pos", Reason: "bad hash"}}
	orch := NewOrchestrator(stubFactory(conn), WithRegistry(newTestRegistry()))

	_, err := orch.Execute(context.Background(), testConfig(), Auth3DSCallback{Order: testOrder(t), Payload: map[string]string{"a": "b"}})

	var cerr *CallbackVerificationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "bad hash", cerr.Reason)
}

func TestOrchestrator_EmptyResponse(t *testing.T) {
	conn := &stubConnector{}
	orch := NewOrchestrator(stubFactory(conn), WithRegistry(newTestRegistry()))

	_, err := orch.Execute(context.Background(), testConfig(), AuthNonSecure{Order: testOrder(t), Card: testCard(t)})

	var berr *BankCommunicationError
	require.True(t, errors.As(err, &berr))
}

func TestOrchestrator_PrepareFailure(t *testing.T) {
	conn := &stubConnector{prepareErr: errors.New("bad order")}
	orch := NewOrchestrator(stubFactory(conn), WithRegistry(newTestRegistry()))

	_, err := orch.Execute(context.Background(), testConfig(), AuthNonSecure{Order: testOrder(t), Card: testCard(t)})

	require.Error(t, err)
	assert.Empty(t, conn.calls)
}

func TestOrchestrator_Observer(t *testing.T) {
	var (
		mu     sync.Mutex
		events []TransactionEvent
	)
	obs := ObserverFunc(func(ctx context.Context, e TransactionEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	})
	conn := &stubConnector{response: RawResponse{"status": "declined", "error_code": "51"}}
	orch := NewOrchestrator(stubFactory(conn), WithRegistry(newTestRegistry()), WithObserver(obs))

	_, err := orch.Execute(context.Background(), testConfig(), AuthNonSecure{Order: testOrder(t), Card: testCard(t)})
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, "test_pos", events[0].GatewayType)
	assert.Equal(t, KindAuthNonSecure, events[0].Kind)
	assert.Equal(t, "ORD-1", events[0].OrderID)
	assert.Equal(t, "declined", events[0].Outcome())
	assert.Equal(t, "51", events[0].ErrorCode)
}
