package kuveyt

import (
	"github.com/mstgnz/gopos/provider"
)

// GatewayType is the registry identifier of the Kuveyt Türk virtual POS
const GatewayType = "kuveyt_pos"

// Account holds Kuveyt Türk credentials. The terminal id carries the
// customer number the bank assigns to the merchant.
type Account struct {
	provider.BaseAccount
	MerchantID string
	Username   string
	Password   string
	CustomerID string
	StoreKey   string
}

// Credentials returns the credential set in Kuveyt Türk naming
func (a *Account) Credentials() map[string]string {
	return map[string]string{
		"MerchantId": a.MerchantID,
		"UserName":   a.Username,
		"Password":   a.Password,
		"CustomerId": a.CustomerID,
		"StoreKey":   a.StoreKey,
	}
}

type builder struct{}

// NewBuilder returns the Kuveyt Türk account builder
func NewBuilder() provider.AccountBuilder {
	return builder{}
}

func (builder) GatewayType() string { return GatewayType }

func (builder) RequiredConfig() []provider.ConfigField {
	terminalID := provider.FieldTerminalID
	terminalID.Description = "Kuveyt Türk customer number"
	terminalID.Example = "400235"

	return []provider.ConfigField{
		provider.FieldBankCode,
		provider.FieldMerchantID,
		provider.FieldUsername,
		provider.FieldPassword,
		provider.FieldStoreKey,
		provider.FieldPaymentModel,
		terminalID,
	}
}

func (builder) Build(cfg provider.BankConfig) (provider.Account, error) {
	return &Account{
		BaseAccount: provider.NewBaseAccount(GatewayType, cfg),
		MerchantID:  cfg.MerchantID,
		Username:    cfg.Username,
		Password:    cfg.Password,
		CustomerID:  cfg.TerminalID,
		StoreKey:    cfg.StoreKey,
	}, nil
}
