package interpos

import (
	"github.com/mstgnz/gopos/provider"
)

// GatewayType is the registry identifier of the Denizbank InterVPOS gateway
const GatewayType = "interpos"

// Account holds InterPOS credentials. InterPOS needs no store key.
type Account struct {
	provider.BaseAccount
	ShopCode string
	Username string
	Password string
}

// Credentials returns the credential set in InterPOS naming
func (a *Account) Credentials() map[string]string {
	return map[string]string{
		"ShopCode": a.ShopCode,
		"UserCode": a.Username,
		"UserPass": a.Password,
	}
}

type builder struct{}

// NewBuilder returns the InterPOS account builder
func NewBuilder() provider.AccountBuilder {
	return builder{}
}

func (builder) GatewayType() string { return GatewayType }

func (builder) RequiredConfig() []provider.ConfigField {
	clientID := provider.FieldClientID
	clientID.Description = "InterPOS shop code"
	clientID.Example = "3123"

	return []provider.ConfigField{
		provider.FieldBankCode,
		clientID,
		provider.FieldUsername,
		provider.FieldPassword,
	}
}

func (builder) Build(cfg provider.BankConfig) (provider.Account, error) {
	return &Account{
		BaseAccount: provider.NewBaseAccount(GatewayType, cfg),
		ShopCode:    cfg.ClientID,
		Username:    cfg.Username,
		Password:    cfg.Password,
	}, nil
}
