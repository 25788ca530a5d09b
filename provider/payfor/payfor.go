package payfor

import (
	"github.com/mstgnz/gopos/provider"
)

// GatewayType is the registry identifier of the PayFor gateway
// (QNB Finansbank, Enpara)
const GatewayType = "payfor"

// Account holds PayFor credentials
type Account struct {
	provider.BaseAccount
	MerchantID   string
	UserCode     string
	UserPass     string
	MerchantPass string
}

// Credentials returns the credential set in PayFor naming
func (a *Account) Credentials() map[string]string {
	return map[string]string{
		"MbrId":        "5",
		"MerchantId":   a.MerchantID,
		"UserCode":     a.UserCode,
		"UserPass":     a.UserPass,
		"MerchantPass": a.MerchantPass,
	}
}

type builder struct{}

// NewBuilder returns the PayFor account builder
func NewBuilder() provider.AccountBuilder {
	return builder{}
}

func (builder) GatewayType() string { return GatewayType }

func (builder) RequiredConfig() []provider.ConfigField {
	return []provider.ConfigField{
		provider.FieldBankCode,
		provider.FieldMerchantID,
		provider.FieldUsername,
		provider.FieldPassword,
		provider.FieldPaymentModel,
		provider.FieldStoreKey,
	}
}

func (builder) Build(cfg provider.BankConfig) (provider.Account, error) {
	return &Account{
		BaseAccount:  provider.NewBaseAccount(GatewayType, cfg),
		MerchantID:   cfg.MerchantID,
		UserCode:     cfg.Username,
		UserPass:     cfg.Password,
		MerchantPass: cfg.StoreKey,
	}, nil
}
