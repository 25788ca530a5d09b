package garanti

import (
	"github.com/mstgnz/gopos/provider"
)

// GatewayType is the registry identifier of the Garanti BBVA virtual POS
const GatewayType = "garanti_pos"

// refund and cancel calls go through the bank's refund user
const refundUsername = "PROVRFN"

// Account holds Garanti credentials
type Account struct {
	provider.BaseAccount
	MerchantID string
	Username   string
	Password   string
	TerminalID string
	StoreKey   string
}

// Credentials returns the credential set in Garanti naming
func (a *Account) Credentials() map[string]string {
	return map[string]string{
		"merchantId":     a.MerchantID,
		"terminalId":     a.TerminalID,
		"provUserId":     a.Username,
		"provUserPass":   a.Password,
		"refundUserId":   refundUsername,
		"storeKey":       a.StoreKey,
		"terminalUserId": a.Username,
	}
}

type builder struct{}

// NewBuilder returns the Garanti account builder
func NewBuilder() provider.AccountBuilder {
	return builder{}
}

func (builder) GatewayType() string { return GatewayType }

func (builder) RequiredConfig() []provider.ConfigField {
	terminalID := provider.FieldTerminalID
	terminalID.Type = "number"
	terminalID.Example = "30691298"
	terminalID.MinLength = 8
	terminalID.MaxLength = 9

	return []provider.ConfigField{
		provider.FieldBankCode,
		provider.FieldMerchantID,
		provider.FieldUsername,
		provider.FieldPassword,
		terminalID,
		provider.FieldPaymentModel,
		provider.FieldStoreKey,
	}
}

func (builder) Build(cfg provider.BankConfig) (provider.Account, error) {
	return &Account{
		BaseAccount: provider.NewBaseAccount(GatewayType, cfg),
		MerchantID:  cfg.MerchantID,
		Username:    cfg.Username,
		Password:    cfg.Password,
		TerminalID:  cfg.TerminalID,
		StoreKey:    cfg.StoreKey,
	}, nil
}
