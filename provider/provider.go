package provider

import (
	"context"
)

// ConfigField represents a configuration field a gateway type requires
type ConfigField struct {
	Key         string `json:"key"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // "string", "number", "url", "boolean"
	Description string `json:"description"`
	Example     string `json:"example"`
	Pattern     string `json:"pattern,omitempty"`   // regex pattern for validation
	MinLength   int    `json:"minLength,omitempty"` // minimum length for string fields
	MaxLength   int    `json:"maxLength,omitempty"` // maximum length for string fields
}

// Endpoints holds the bank endpoint URLs of a bank config
type Endpoints struct {
	PaymentAPI    string `json:"payment_api,omitempty"`
	Gateway3D     string `json:"gateway_3d,omitempty"`
	Gateway3DHost string `json:"gateway_3d_host,omitempty"`
}

// BankConfig carries the credentials and endpoints of one bank account.
// It is supplied by the caller on every transaction and never persisted.
type BankConfig struct {
	GatewayType  string    `json:"gateway_type" validate:"required"`
	BankCode     string    `json:"bank_code,omitempty"`
	ClientID     string    `json:"client_id,omitempty"`
	MerchantID   string    `json:"merchant_id,omitempty"`
	Username     string    `json:"username,omitempty"`
	Password     string    `json:"password,omitempty"`
	TerminalID   string    `json:"terminal_id,omitempty"`
	StoreKey     string    `json:"store_key,omitempty"`
	PaymentModel string    `json:"payment_model,omitempty"`
	Environment  string    `json:"environment,omitempty"`
	Lang         string    `json:"lang,omitempty"`
	Endpoints    Endpoints `json:"endpoints"`
}

// Map returns the config as a flat key/value map keyed by ConfigField keys
func (c BankConfig) Map() map[string]string {
	m := map[string]string{
		"gateway_type":    c.GatewayType,
		"bank_code":       c.BankCode,
		"client_id":       c.ClientID,
		"merchant_id":     c.MerchantID,
		"username":        c.Username,
		"password":        c.Password,
		"terminal_id":     c.TerminalID,
		"store_key":       c.StoreKey,
		"payment_model":   c.PaymentModel,
		"environment":     c.Environment,
		"lang":            c.Lang,
		"payment_api":     c.Endpoints.PaymentAPI,
		"gateway_3d":      c.Endpoints.Gateway3D,
		"gateway_3d_host": c.Endpoints.Gateway3DHost,
	}
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	return m
}

// Field returns the value of a single config key
func (c BankConfig) Field(key string) string {
	return c.Map()[key]
}

// BankConfigFromMap builds a BankConfig from a flat key/value map
func BankConfigFromMap(m map[string]string) BankConfig {
	return BankConfig{
		GatewayType:  m["gateway_type"],
		BankCode:     m["bank_code"],
		ClientID:     m["client_id"],
		MerchantID:   m["merchant_id"],
		Username:     m["username"],
		Password:     m["password"],
		TerminalID:   m["terminal_id"],
		StoreKey:     m["store_key"],
		PaymentModel: m["payment_model"],
		Environment:  m["environment"],
		Lang:         m["lang"],
		Endpoints: Endpoints{
			PaymentAPI:    m["payment_api"],
			Gateway3D:     m["gateway_3d"],
			Gateway3DHost: m["gateway_3d_host"],
		},
	}
}

// Account is the bank-specific credential object built from a BankConfig.
// It is owned by a single orchestration call.
type Account interface {
	GatewayType() string
	BankCode() string
	Model() PaymentModel
	Lang() string
	// Credentials returns the credential set in the shape the gateway expects
	Credentials() map[string]string
}

// AccountBuilder builds the Account of one gateway type
type AccountBuilder interface {
	GatewayType() string
	RequiredConfig() []ConfigField
	Build(cfg BankConfig) (Account, error)
}

// CallbackVerifier is implemented by accounts that can check the integrity
// of a 3-D Secure callback payload locally.
type CallbackVerifier interface {
	VerifyCallback(payload map[string]string) error
}

// RawResponse is the unmodified bank response
type RawResponse map[string]any

// FormData is the 3-D Secure form the browser posts to the bank
type FormData struct {
	GatewayURL string            `json:"gateway_url"`
	Method     string            `json:"method"`
	Inputs     map[string]string `json:"inputs"`
}

// TransactionResult is the normalized outcome of a bank call
type TransactionResult struct {
	Success      bool        `json:"success"`
	OrderID      *string     `json:"order_id"`
	AuthCode     *string     `json:"auth_code"`
	ErrorCode    *string     `json:"error_code"`
	ErrorMessage *string     `json:"error_message"`
	Response     RawResponse `json:"response"`
}

// Connector implements one bank's wire protocol. Prepare binds the order and
// transaction kind and must precede every execute method. A connector serves
// exactly one orchestration call.
type Connector interface {
	Prepare(order Order, kind TransactionKind) error
	Build3DForm(ctx context.Context, gatewayURL string, card Card) (*FormData, error)
	Pay(ctx context.Context, card Card) (RawResponse, error)
	Complete3D(ctx context.Context, payload map[string]string) (RawResponse, error)
	Cancel(ctx context.Context) (RawResponse, error)
	Refund(ctx context.Context) (RawResponse, error)
	Status(ctx context.Context) (RawResponse, error)
}

// ConnectorFactory creates a connector for a resolved account
type ConnectorFactory interface {
	NewConnector(account Account, cfg BankConfig) (Connector, error)
}

// ConnectorFactoryFunc adapts a function to ConnectorFactory
type ConnectorFactoryFunc func(account Account, cfg BankConfig) (Connector, error)

func (f ConnectorFactoryFunc) NewConnector(account Account, cfg BankConfig) (Connector, error) {
	return f(account, cfg)
}
