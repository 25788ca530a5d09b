package installment

import "github.com/shopspring/decimal"

// SampleBank is the fixed bank of the sample listing
var SampleBank = Bank{ID: 1, Name: "Test Bankası", Code: "testbank", Active: true}

var sampleRate = decimal.NewFromInt(3)

// SampleInstallments returns a fixed listing used by storefront integrations
// to check rendering: the single payment plus three installments at 3%.
func SampleInstallments(amount decimal.Decimal) []BankInstallments {
	three := NewPlan(amount, 3, sampleRate)
	three.IsCampaign = true

	return []BankInstallments{{
		Bank:         SampleBank.Ref(),
		Installments: []Plan{SinglePayment(amount), three},
	}}
}
