package posnet

import (
	"github.com/mstgnz/gopos/provider"
)

// GatewayType is the registry identifier of the Yapı Kredi POSNET gateway
const GatewayType = "posnet"

// Account holds POSNET credentials. POSNET has no API password; requests
// are signed with the encryption key.
type Account struct {
	provider.BaseAccount
	MerchantID string
	TerminalID string
	PosnetID   string
	EncKey     string
}

// Credentials returns the credential set in POSNET naming
func (a *Account) Credentials() map[string]string {
	return map[string]string{
		"mid":      a.MerchantID,
		"tid":      a.TerminalID,
		"posnetId": a.PosnetID,
		"encKey":   a.EncKey,
	}
}

type builder struct{}

// NewBuilder returns the POSNET account builder
func NewBuilder() provider.AccountBuilder {
	return builder{}
}

func (builder) GatewayType() string { return GatewayType }

func (builder) RequiredConfig() []provider.ConfigField {
	merchantID := provider.FieldMerchantID
	merchantID.Example = "6706598320"
	username := provider.FieldUsername
	username.Description = "POSNET id"
	username.Example = "27426"
	storeKey := provider.FieldStoreKey
	storeKey.Description = "POSNET encryption key"
	storeKey.Example = "10,10,10,10,10,10,10,10"
	terminalID := provider.FieldTerminalID
	terminalID.Example = "67005551"
	terminalID.MinLength = 8
	terminalID.MaxLength = 8

	return []provider.ConfigField{
		provider.FieldBankCode,
		merchantID,
		username,
		storeKey,
		provider.FieldPaymentModel,
		terminalID,
	}
}

func (builder) Build(cfg provider.BankConfig) (provider.Account, error) {
	return &Account{
		BaseAccount: provider.NewBaseAccount(GatewayType, cfg),
		MerchantID:  cfg.MerchantID,
		TerminalID:  cfg.TerminalID,
		PosnetID:    cfg.Username,
		EncKey:      cfg.StoreKey,
	}, nil
}
