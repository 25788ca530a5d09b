package provider

// Shared config field definitions. Gateway packages compose their schema
// from these so the same key is described the same way everywhere.
var (
	FieldBankCode = ConfigField{
		Key:         "bank_code",
		Required:    true,
		Type:        "string",
		Description: "Bank identifier used by the connector",
		Example:     "akbank",
		Pattern:     `^[a-z0-9\-_]+$`,
	}
	FieldClientID = ConfigField{
		Key:         "client_id",
		Required:    true,
		Type:        "string",
		Description: "Merchant client id assigned by the bank",
		Example:     "700655000200",
	}
	FieldMerchantID = ConfigField{
		Key:         "merchant_id",
		Required:    true,
		Type:        "string",
		Description: "Merchant (store) number assigned by the bank",
		Example:     "7000679",
	}
	FieldUsername = ConfigField{
		Key:         "username",
		Required:    true,
		Type:        "string",
		Description: "API user name",
		Example:     "ISBANKAPI",
	}
	FieldPassword = ConfigField{
		Key:         "password",
		Required:    true,
		Type:        "string",
		Description: "API user password",
		Example:     "ISBANK07",
	}
	FieldTerminalID = ConfigField{
		Key:         "terminal_id",
		Required:    true,
		Type:        "string",
		Description: "POS terminal number",
		Example:     "30691298",
	}
	FieldStoreKey = ConfigField{
		Key:         "store_key",
		Required:    true,
		Type:        "string",
		Description: "3-D Secure store key used for hashing",
		Example:     "TRPS0200",
	}
	FieldPaymentModel = ConfigField{
		Key:         "payment_model",
		Required:    true,
		Type:        "string",
		Description: "Secure payment model: 3d_secure, 3d_pay, 3d_host or non_secure",
		Example:     "3d_secure",
	}
)

// BaseAccount carries the attributes every gateway account shares
type BaseAccount struct {
	Gateway      string
	Bank         string
	PaymentModel PaymentModel
	Language     string
}

// NewBaseAccount reads the shared attributes from a config
func NewBaseAccount(gatewayType string, cfg BankConfig) BaseAccount {
	lang := cfg.Lang
	if lang == "" {
		lang = "tr"
	}
	return BaseAccount{
		Gateway:      gatewayType,
		Bank:         cfg.BankCode,
		PaymentModel: MapPaymentModel(cfg.PaymentModel),
		Language:     lang,
	}
}

func (a BaseAccount) GatewayType() string { return a.Gateway }
func (a BaseAccount) BankCode() string    { return a.Bank }
func (a BaseAccount) Model() PaymentModel { return a.PaymentModel }
func (a BaseAccount) Lang() string        { return a.Language }
