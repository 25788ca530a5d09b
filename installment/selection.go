package installment

import (
	"fmt"

	"github.com/mstgnz/gopos/provider"
	"github.com/shopspring/decimal"
)

// SelectionState describes where a checkout's installment choice stands
type SelectionState string

const (
	StateNotEnoughDigits SelectionState = "not_enough_digits"
	StateBankDetected    SelectionState = "bank_detected"
	StateBankUnknown     SelectionState = "bank_unknown"
)

// Selection tracks the installment choice of one checkout as the card number
// is typed. The original amount never changes; the selected total is derived
// from the chosen plan and falls back to the original amount whenever the
// single payment is chosen or the plans are reset.
type Selection struct {
	originalAmount decimal.Decimal
	bin            string
	state          SelectionState
	bank           *Bank
	plans          []Plan
	selected       *Plan
}

// NewSelection starts a selection for amount
func NewSelection(amount decimal.Decimal) *Selection {
	return &Selection{
		originalAmount: amount,
		state:          StateNotEnoughDigits,
	}
}

// SetCardNumber records the digits typed so far. It returns the BIN to look
// up when one became available or changed; ok is false otherwise. Dropping
// below six digits resets the selection.
func (s *Selection) SetCardNumber(number string) (bin string, ok bool) {
	prefix, enough := BINPrefix(number)
	if !enough {
		s.reset()
		return "", false
	}
	if prefix == s.bin {
		return "", false
	}
	s.reset()
	s.bin = prefix
	return prefix, true
}

// ApplyLookup installs the plans found for the current BIN. A nil bank marks
// the BIN as unknown.
func (s *Selection) ApplyLookup(bank *Bank, plans []Plan) {
	if s.bin == "" {
		return
	}
	s.selected = nil
	s.bank = bank
	s.plans = plans
	if bank == nil {
		s.state = StateBankUnknown
		return
	}
	s.state = StateBankDetected
}

// Select chooses the plan with count installments
func (s *Selection) Select(count int) error {
	if count <= 1 {
		s.selected = nil
		return nil
	}
	for i := range s.plans {
		if s.plans[i].Count == count {
			p := s.plans[i]
			s.selected = &p
			return nil
		}
	}
	return fmt.Errorf("no %d-installment plan available", count)
}

func (s *Selection) reset() {
	s.bin = ""
	s.state = StateNotEnoughDigits
	s.bank = nil
	s.plans = nil
	s.selected = nil
}

func (s *Selection) State() SelectionState { return s.state }

func (s *Selection) Bank() (Bank, bool) {
	if s.bank == nil {
		return Bank{}, false
	}
	return *s.bank, true
}

func (s *Selection) Plans() []Plan { return s.plans }

func (s *Selection) OriginalAmount() decimal.Decimal { return s.originalAmount }

// SelectedCount is the chosen installment count, 1 for the single payment
func (s *Selection) SelectedCount() int {
	if s.selected == nil {
		return 1
	}
	return s.selected.Count
}

// SelectedTotalAmount is the total the customer pays for the current choice
func (s *Selection) SelectedTotalAmount() decimal.Decimal {
	if s.selected == nil {
		return s.originalAmount
	}
	return s.selected.TotalAmount
}

// OrderParams fills the amount fields of an order from the selection. The
// selected total is rounded up to cents so it never falls below the amount.
func (s *Selection) OrderParams(id string, currency provider.Currency) provider.OrderParams {
	params := provider.OrderParams{
		ID:       id,
		Amount:   s.originalAmount,
		Currency: currency,
	}
	if s.selected != nil {
		total := s.selected.TotalAmount.RoundCeil(2)
		params.Installment = s.selected.Count
		params.SelectedTotalAmount = &total
	}
	return params
}
