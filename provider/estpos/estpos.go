package estpos

import (
	"github.com/mstgnz/gopos/provider"
)

// GatewayType is the registry identifier of EST V3 based virtual POS
// (Payten / Asseco: İş Bankası, Ziraat, Halkbank, TEB and others).
const GatewayType = "estv3_pos"

// Account holds EST V3 credentials
type Account struct {
	provider.BaseAccount
	ClientID string
	Username string
	Password string
	StoreKey string
}

// Credentials returns the credential set in EST naming
func (a *Account) Credentials() map[string]string {
	return map[string]string{
		"clientId":     a.ClientID,
		"kullaniciAdi": a.Username,
		"password":     a.Password,
		"storeKey":     a.StoreKey,
	}
}

// VerifyCallback checks the ver3 HASH of a 3-D callback
func (a *Account) VerifyCallback(payload map[string]string) error {
	if !a.Model().Is3D() {
		return nil
	}
	return verifyHash(payload, a.StoreKey)
}

type builder struct{}

// NewBuilder returns the EST V3 account builder
func NewBuilder() provider.AccountBuilder {
	return builder{}
}

func (builder) GatewayType() string { return GatewayType }

func (builder) RequiredConfig() []provider.ConfigField {
	return []provider.ConfigField{
		provider.FieldBankCode,
		provider.FieldClientID,
		provider.FieldUsername,
		provider.FieldPassword,
		provider.FieldPaymentModel,
		provider.FieldStoreKey,
	}
}

func (builder) Build(cfg provider.BankConfig) (provider.Account, error) {
	return &Account{
		BaseAccount: provider.NewBaseAccount(GatewayType, cfg),
		ClientID:    cfg.ClientID,
		Username:    cfg.Username,
		Password:    cfg.Password,
		StoreKey:    cfg.StoreKey,
	}, nil
}
