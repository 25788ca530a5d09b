// Package bridge implements provider.Connector by relaying each bank call to
// an external bank-connector service over HTTP. The service owns the wire
// protocol of each bank and answers with JSON.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mstgnz/gopos/provider"
)

// ErrorTypeCallbackVerification marks a callback integrity failure reported
// by the connector service
const ErrorTypeCallbackVerification = "callback_verification"

var actions = map[provider.TransactionKind]string{
	provider.KindAuth3DSInit:     "create_3d_form",
	provider.KindAuth3DSCallback: "process_3d_callback",
	provider.KindAuthNonSecure:   "non_secure_payment",
	provider.KindCancel:          "cancel",
	provider.KindRefund:          "refund",
	provider.KindStatus:          "check_status",
}

// Config configures the connector service client
type Config struct {
	URL        string
	Timeout    time.Duration
	Production bool
	Headers    map[string]string
}

// Factory creates bridge connectors. It is safe for concurrent use.
type Factory struct {
	client *provider.ProviderHTTPClient
	url    string
}

// New creates a connector factory for the service at cfg.URL
func New(cfg Config) *Factory {
	httpCfg := provider.CreateHTTPClientConfig("", cfg.Production, cfg.Timeout)
	for k, v := range cfg.Headers {
		httpCfg.DefaultHeaders[k] = v
	}
	return &Factory{
		client: provider.NewProviderHTTPClient(httpCfg),
		url:    cfg.URL,
	}
}

// NewConnector returns a connector bound to account for a single call
func (f *Factory) NewConnector(account provider.Account, cfg provider.BankConfig) (provider.Connector, error) {
	if f.url == "" {
		return nil, errors.New("bank connector url is not configured")
	}
	return &connector{
		client:      f.client,
		url:         f.url,
		account:     account,
		environment: cfg.Environment,
		endpoints:   cfg.Endpoints,
	}, nil
}

type connector struct {
	client      *provider.ProviderHTTPClient
	url         string
	account     provider.Account
	environment string
	endpoints   provider.Endpoints

	order    provider.Order
	kind     provider.TransactionKind
	prepared bool
}

func (c *connector) Prepare(order provider.Order, kind provider.TransactionKind) error {
	if order.IsZero() {
		return errors.New("prepare: order is empty")
	}
	if _, ok := actions[kind]; !ok {
		return &provider.UnsupportedActionError{Action: string(kind)}
	}
	c.order = order
	c.kind = kind
	c.prepared = true
	return nil
}

func (c *connector) Build3DForm(ctx context.Context, gatewayURL string, card provider.Card) (*provider.FormData, error) {
	req, err := c.newRequest(provider.KindAuth3DSInit)
	if err != nil {
		return nil, err
	}
	req.GatewayURL = gatewayURL
	req.Card = newCardPayload(card)

	data, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	var form provider.FormData
	if err := json.Unmarshal(data, &form); err != nil {
		return nil, fmt.Errorf("decode 3d form: %w", err)
	}
	if form.GatewayURL == "" {
		form.GatewayURL = gatewayURL
	}
	if form.Method == "" {
		form.Method = "POST"
	}
	return &form, nil
}

func (c *connector) Pay(ctx context.Context, card provider.Card) (provider.RawResponse, error) {
	req, err := c.newRequest(provider.KindAuthNonSecure)
	if err != nil {
		return nil, err
	}
	req.Card = newCardPayload(card)
	return c.sendRaw(ctx, req)
}

func (c *connector) Complete3D(ctx context.Context, payload map[string]string) (provider.RawResponse, error) {
	req, err := c.newRequest(provider.KindAuth3DSCallback)
	if err != nil {
		return nil, err
	}
	req.CallbackData = payload
	return c.sendRaw(ctx, req)
}

func (c *connector) Cancel(ctx context.Context) (provider.RawResponse, error) {
	req, err := c.newRequest(provider.KindCancel)
	if err != nil {
		return nil, err
	}
	return c.sendRaw(ctx, req)
}

func (c *connector) Refund(ctx context.Context) (provider.RawResponse, error) {
	req, err := c.newRequest(provider.KindRefund)
	if err != nil {
		return nil, err
	}
	return c.sendRaw(ctx, req)
}

func (c *connector) Status(ctx context.Context) (provider.RawResponse, error) {
	req, err := c.newRequest(provider.KindStatus)
	if err != nil {
		return nil, err
	}
	return c.sendRaw(ctx, req)
}

// newRequest checks the prepared kind and builds the common payload
func (c *connector) newRequest(kind provider.TransactionKind) (*request, error) {
	if !c.prepared {
		return nil, errors.New("connector used before prepare")
	}
	if c.kind != kind {
		return nil, fmt.Errorf("connector prepared for %s, called for %s", c.kind, kind)
	}
	return newRequest(actions[kind], c.order, c.account, c.environment, c.endpoints), nil
}

func (c *connector) sendRaw(ctx context.Context, req *request) (provider.RawResponse, error) {
	data, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	var raw provider.RawResponse
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode bank response: %w", err)
	}
	return raw, nil
}

// send posts the request and unwraps the service envelope
func (c *connector) send(ctx context.Context, req *request) (json.RawMessage, error) {
	resp, err := c.client.SendJSON(ctx, &provider.HTTPRequest{
		Method:   "POST",
		Endpoint: c.url,
		Body:     req,
	})

	var statusErr *provider.HTTPStatusError
	if err != nil && !errors.As(err, &statusErr) {
		return nil, err
	}

	var env envelope
	if resp == nil || json.Unmarshal(resp.Body, &env) != nil {
		if err != nil {
			return nil, err
		}
		return nil, errors.New("connector returned a malformed response")
	}

	if !env.Success {
		if env.ErrorType == ErrorTypeCallbackVerification {
			return nil, &provider.CallbackVerificationError{
				GatewayType: c.account.GatewayType(),
				Reason:      env.Error,
			}
		}
		if env.Error == "" {
			env.Error = "connector reported failure"
		}
		return nil, errors.New(env.Error)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, errors.New("connector returned no data")
	}
	return env.Data, nil
}
