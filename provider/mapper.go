package provider

import (
	"strings"
)

// Currency is the ISO 4217 numeric code sent to the banks
type Currency int

const (
	CurrencyTRY Currency = 949
	CurrencyUSD Currency = 840
	CurrencyEUR Currency = 978
	CurrencyGBP Currency = 826
)

var currencyCodes = map[string]Currency{
	"TRY": CurrencyTRY,
	"USD": CurrencyUSD,
	"EUR": CurrencyEUR,
	"GBP": CurrencyGBP,
}

// MapCurrency maps an alphabetic currency code to a Currency.
// Unknown codes map to TRY.
func MapCurrency(code string) Currency {
	if c, ok := currencyCodes[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return c
	}
	return CurrencyTRY
}

// Alpha returns the alphabetic code of the currency
func (c Currency) Alpha() string {
	for alpha, code := range currencyCodes {
		if code == c {
			return alpha
		}
	}
	return "TRY"
}

func (c Currency) String() string {
	return c.Alpha()
}

// PaymentModel is the canonical secure payment model of a bank account
type PaymentModel string

const (
	Model3DSecure  PaymentModel = "3d_secure"
	Model3DPay     PaymentModel = "3d_pay"
	Model3DHost    PaymentModel = "3d_host"
	ModelNonSecure PaymentModel = "non_secure"
)

var paymentModels = map[string]PaymentModel{
	"3d_secure":  Model3DSecure,
	"3d_pay":     Model3DPay,
	"3d_host":    Model3DHost,
	"non_secure": ModelNonSecure,
}

// MapPaymentModel maps a configured payment model string to a PaymentModel.
// Unknown or empty values map to Model3DSecure.
func MapPaymentModel(code string) PaymentModel {
	if m, ok := paymentModels[strings.ToLower(strings.TrimSpace(code))]; ok {
		return m
	}
	return Model3DSecure
}

// Is3D reports whether the model requires a 3-D Secure redirect
func (m PaymentModel) Is3D() bool {
	return m != ModelNonSecure
}
