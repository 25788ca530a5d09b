package akbank

import (
	"github.com/mstgnz/gopos/provider"
)

// GatewayType is the registry identifier of the Akbank virtual POS
const GatewayType = "akbank_pos"

// Account holds Akbank credentials. Akbank authenticates with a merchant
// safe id, a terminal safe id and a secret key.
type Account struct {
	provider.BaseAccount
	MerchantSafeID string
	TerminalSafeID string
	SecretKey      string
}

// Credentials returns the credential set in Akbank's naming
func (a *Account) Credentials() map[string]string {
	return map[string]string{
		"merchantSafeId": a.MerchantSafeID,
		"terminalSafeId": a.TerminalSafeID,
		"secretKey":      a.SecretKey,
	}
}

type builder struct{}

// NewBuilder returns the Akbank account builder
func NewBuilder() provider.AccountBuilder {
	return builder{}
}

func (builder) GatewayType() string { return GatewayType }

// RequiredConfig returns the configuration fields required for Akbank
func (builder) RequiredConfig() []provider.ConfigField {
	clientID := provider.FieldClientID
	clientID.Description = "Akbank Merchant Safe ID"
	username := provider.FieldUsername
	username.Description = "Akbank Terminal Safe ID"
	password := provider.FieldPassword
	password.Description = "Akbank Secret Key"

	return []provider.ConfigField{
		provider.FieldBankCode,
		clientID,
		username,
		password,
	}
}

// Build creates the Akbank account. Akbank has no payment model of its own,
// the language is always Turkish.
func (builder) Build(cfg provider.BankConfig) (provider.Account, error) {
	base := provider.NewBaseAccount(GatewayType, cfg)
	base.Language = "tr"
	return &Account{
		BaseAccount:    base,
		MerchantSafeID: cfg.ClientID,
		TerminalSafeID: cfg.Username,
		SecretKey:      cfg.Password,
	}, nil
}
