package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/mstgnz/gopos/infra/logger"
)

// DefaultBankTimeout bounds every connector call
const DefaultBankTimeout = 30 * time.Second

// UnsupportedGatewayLabel is the event gateway type of calls naming a gateway
// the registry does not know
const UnsupportedGatewayLabel = "unsupported"

// Outcome is the result of one orchestration call. Form is set for
// Auth3DSInit, Result for every other kind.
type Outcome struct {
	Kind   TransactionKind
	Form   *FormData
	Result *TransactionResult
}

// TransactionEvent describes a finished orchestration call. It carries no
// card or credential data.
type TransactionEvent struct {
	GatewayType string
	BankCode    string
	Kind        TransactionKind
	OrderID     string
	Success     bool
	ErrorCode   string
	Err         error
	Duration    time.Duration
}

// Outcome returns "approved", "declined" or "error"
func (e TransactionEvent) Outcome() string {
	switch {
	case e.Err != nil:
		return "error"
	case e.Success:
		return "approved"
	default:
		return "declined"
	}
}

// Observer is notified after each orchestration call
type Observer interface {
	ObserveTransaction(ctx context.Context, event TransactionEvent)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(ctx context.Context, event TransactionEvent)

func (f ObserverFunc) ObserveTransaction(ctx context.Context, event TransactionEvent) {
	f(ctx, event)
}

// Orchestrator drives a transaction through resolve, prepare, execute and
// normalize. It holds no per-transaction state and is safe for concurrent use.
type Orchestrator struct {
	registry   *Registry
	connectors ConnectorFactory
	timeout    time.Duration
	observers  []Observer
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithRegistry replaces the default registry
func WithRegistry(r *Registry) Option {
	return func(o *Orchestrator) { o.registry = r }
}

// WithTimeout sets the bound applied to each bank call
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithObserver adds an observer
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) { o.observers = append(o.observers, obs) }
}

// NewOrchestrator creates an orchestrator using the given connector factory
func NewOrchestrator(connectors ConnectorFactory, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry:   DefaultRegistry,
		connectors: connectors,
		timeout:    DefaultBankTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Execute runs tx against the bank described by cfg. A call yields either one
// Outcome or one error, never both.
func (o *Orchestrator) Execute(ctx context.Context, cfg BankConfig, tx Transaction) (*Outcome, error) {
	start := time.Now()
	outcome, err := o.execute(ctx, cfg, tx)

	event := TransactionEvent{
		GatewayType: o.gatewayLabel(cfg.GatewayType),
		BankCode:    cfg.BankCode,
		Err:         err,
		Duration:    time.Since(start),
	}
	if tx != nil {
		event.Kind = tx.Kind()
		event.OrderID = tx.order().ID()
	}
	if outcome != nil && outcome.Result != nil {
		event.Success = outcome.Result.Success
		if outcome.Result.ErrorCode != nil {
			event.ErrorCode = *outcome.Result.ErrorCode
		}
	} else if outcome != nil && outcome.Form != nil {
		event.Success = true
	}
	o.report(ctx, event)

	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// gatewayLabel keeps caller input out of event labels unless it names a
// registered gateway
func (o *Orchestrator) gatewayLabel(gatewayType string) string {
	gatewayType = strings.TrimSpace(gatewayType)
	if _, err := o.registry.Get(gatewayType); err != nil {
		return UnsupportedGatewayLabel
	}
	return gatewayType
}

func (o *Orchestrator) execute(ctx context.Context, cfg BankConfig, tx Transaction) (*Outcome, error) {
	if err := validateTransaction(tx); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCanceled, err)
	}

	account, err := o.registry.Resolve(cfg.GatewayType, cfg)
	if err != nil {
		return nil, err
	}

	if cb, ok := tx.(Auth3DSCallback); ok {
		if verifier, ok := account.(CallbackVerifier); ok {
			if err := verifier.VerifyCallback(cb.Payload); err != nil {
				return nil, err
			}
		}
	}

	conn, err := o.connectors.NewConnector(account, cfg)
	if err != nil {
		return nil, fmt.Errorf("create %s connector: %w", cfg.GatewayType, err)
	}
	if err := conn.Prepare(tx.order(), tx.Kind()); err != nil {
		return nil, o.classify(ctx, cfg.GatewayType, "prepare", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	outcome := &Outcome{Kind: tx.Kind()}
	var raw RawResponse
	switch t := tx.(type) {
	case Auth3DSInit:
		gatewayURL, err := gateway3DURL(account, cfg)
		if err != nil {
			return nil, err
		}
		form, err := conn.Build3DForm(callCtx, gatewayURL, t.Card)
		if err != nil {
			return nil, o.classify(ctx, cfg.GatewayType, "build_3d_form", err)
		}
		outcome.Form = form
		return outcome, nil
	case Auth3DSCallback:
		raw, err = conn.Complete3D(callCtx, t.Payload)
	case AuthNonSecure:
		raw, err = conn.Pay(callCtx, t.Card)
	case CancelTx:
		raw, err = conn.Cancel(callCtx)
	case RefundTx:
		raw, err = conn.Refund(callCtx)
	case StatusTx:
		raw, err = conn.Status(callCtx)
	default:
		return nil, &UnsupportedActionError{Action: string(tx.Kind())}
	}
	if err != nil {
		return nil, o.classify(ctx, cfg.GatewayType, string(tx.Kind()), err)
	}
	if raw == nil {
		return nil, &BankCommunicationError{GatewayType: cfg.GatewayType, Op: string(tx.Kind()), Err: errors.New("empty bank response")}
	}

	result := Normalize(raw)
	outcome.Result = &result
	return outcome, nil
}

// classify turns a connector error into the error taxonomy. The caller's
// context ending is a cancellation; our own bound expiring is a timeout.
func (o *Orchestrator) classify(ctx context.Context, gatewayType, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrCanceled, ctxErr)
	}

	var (
		verr *ValidationError
		cerr *CallbackVerificationError
		berr *BankCommunicationError
	)
	switch {
	case errors.As(err, &verr), errors.As(err, &cerr), errors.As(err, &berr):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return &BankCommunicationError{GatewayType: gatewayType, Op: op, Timeout: true, Err: err}
	default:
		return &BankCommunicationError{GatewayType: gatewayType, Op: op, Err: err}
	}
}

// gateway3DURL picks the 3-D endpoint matching the account's payment model
func gateway3DURL(account Account, cfg BankConfig) (string, error) {
	if account.Model() == Model3DHost {
		if cfg.Endpoints.Gateway3DHost == "" {
			return "", missingField(cfg.GatewayType, "gateway_3d_host")
		}
		return cfg.Endpoints.Gateway3DHost, nil
	}
	if cfg.Endpoints.Gateway3D == "" {
		return "", missingField(cfg.GatewayType, "gateway_3d")
	}
	return cfg.Endpoints.Gateway3D, nil
}

func (o *Orchestrator) report(ctx context.Context, event TransactionEvent) {
	logCtx := logger.LogContext{
		Gateway:   event.GatewayType,
		RequestID: middleware.GetReqID(ctx),
		Fields: map[string]any{
			"kind":        string(event.Kind),
			"order_id":    event.OrderID,
			"outcome":     event.Outcome(),
			"duration_ms": event.Duration.Milliseconds(),
		},
	}
	switch {
	case event.Err != nil:
		logger.Error("Transaction failed", event.Err, logCtx)
	case !event.Success:
		logCtx.Fields["error_code"] = event.ErrorCode
		logger.Warn("Transaction declined", logCtx)
	default:
		logger.Info("Transaction completed", logCtx)
	}

	for _, obs := range o.observers {
		obs.ObserveTransaction(ctx, event)
	}
}
