package payflex

import (
	"github.com/mstgnz/gopos/provider"
)

// Gateway types served by the PayFlex (Vakıfbank, Ziraat) account shape
const (
	GatewayTypeMPI    = "payflex_mpi"
	GatewayTypeCommon = "payflex_common"
)

// Account holds PayFlex credentials. PayFlex has no user name.
type Account struct {
	provider.BaseAccount
	MerchantID string
	Password   string
	TerminalNo string
}

// Credentials returns the credential set in PayFlex naming
func (a *Account) Credentials() map[string]string {
	return map[string]string{
		"MerchantId":       a.MerchantID,
		"Password":         a.Password,
		"TerminalNo":       a.TerminalNo,
		"ClientIpRequired": "true",
	}
}

// builder is registered twice: the MPI flavor (merchant-side 3-D enrollment)
// and the Common Payment flavor (bank-hosted page) share one credential shape.
type builder struct {
	gatewayType string
}

// NewMPIBuilder returns the PayFlex MPI account builder
func NewMPIBuilder() provider.AccountBuilder {
	return builder{gatewayType: GatewayTypeMPI}
}

// NewCommonBuilder returns the PayFlex Common Payment account builder
func NewCommonBuilder() provider.AccountBuilder {
	return builder{gatewayType: GatewayTypeCommon}
}

func (b builder) GatewayType() string { return b.gatewayType }

func (builder) RequiredConfig() []provider.ConfigField {
	merchantID := provider.FieldMerchantID
	merchantID.Type = "number"
	merchantID.Example = "000100000013506"

	return []provider.ConfigField{
		provider.FieldBankCode,
		merchantID,
		provider.FieldPassword,
		provider.FieldTerminalID,
		provider.FieldPaymentModel,
	}
}

func (b builder) Build(cfg provider.BankConfig) (provider.Account, error) {
	return &Account{
		BaseAccount: provider.NewBaseAccount(b.gatewayType, cfg),
		MerchantID:  cfg.MerchantID,
		Password:    cfg.Password,
		TerminalNo:  cfg.TerminalID,
	}, nil
}
