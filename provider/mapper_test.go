package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapCurrency(t *testing.T) {
	tests := []struct {
		input    string
		expected Currency
	}{
		{"TRY", CurrencyTRY},
		{"USD", CurrencyUSD},
		{"EUR", CurrencyEUR},
		{"GBP", CurrencyGBP},
		{"eur", CurrencyEUR},
		{" usd ", CurrencyUSD},
		{"xyz", CurrencyTRY},
		{"", CurrencyTRY},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapCurrency(tt.input))
		})
	}
}

func TestCurrencyCodes(t *testing.T) {
	assert.Equal(t, 949, int(CurrencyTRY))
	assert.Equal(t, 840, int(CurrencyUSD))
	assert.Equal(t, 978, int(CurrencyEUR))
	assert.Equal(t, 826, int(CurrencyGBP))
	assert.Equal(t, "EUR", CurrencyEUR.Alpha())
	assert.Equal(t, "TRY", Currency(1).Alpha())
}

func TestMapPaymentModel(t *testing.T) {
	tests := []struct {
		input    string
		expected PaymentModel
	}{
		{"3d_secure", Model3DSecure},
		{"3d_pay", Model3DPay},
		{"3d_host", Model3DHost},
		{"non_secure", ModelNonSecure},
		{"3D_PAY", Model3DPay},
		{"", Model3DSecure},
		{"regular", Model3DSecure},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapPaymentModel(tt.input))
		})
	}

	assert.True(t, Model3DHost.Is3D())
	assert.False(t, ModelNonSecure.Is3D())
}
