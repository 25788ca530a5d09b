// Package installment detects the issuing bank from a card BIN and computes
// the installment plans each bank offers for an amount.
//
// The engine is stateless: plans are recomputed from the catalog on every
// lookup and the only process-wide data is the read-only BIN table.
package installment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Lookup results, also used as metric labels
const (
	ResultBank     = "bank"
	ResultFallback = "fallback"
	ResultNone     = "none"
)

var (
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrInvalidBIN    = errors.New("bin must contain digits only")
)

// Catalog is the reference data the engine reads. Implementations must be
// safe for concurrent use.
type Catalog interface {
	ActiveBanks(ctx context.Context) ([]Bank, error)
	BankByID(ctx context.Context, id int64) (Bank, bool, error)
	BankByBIN(ctx context.Context, bin string) (Bank, bool, error)
	// Deactivated reports whether the catalog holds bin in any state, or
	// holds the bank with bankCode as inactive
	Deactivated(ctx context.Context, bin, bankCode string) (bool, error)
	InstallmentConfigs(ctx context.Context, bankID int64) ([]Config, error)
	Restrictions(ctx context.Context, bankID int64, categoryIDs []int64) ([]Restriction, error)
}

// Request is one installment lookup. BIN may be a full or partial card
// number; only its first six digits are used.
type Request struct {
	Amount      decimal.Decimal
	BIN         string
	BankID      int64
	CategoryIDs []int64
}

// BankInstallments is the plan list of one bank
type BankInstallments struct {
	Bank         BankRef `json:"bank"`
	Installments []Plan  `json:"installments"`
}

// Result is the outcome of a lookup
type Result struct {
	Installments []BankInstallments
	Amount       decimal.Decimal
	// Kind is ResultBank, ResultFallback or ResultNone
	Kind string
}

// Engine answers installment lookups against a Catalog
type Engine struct {
	catalog Catalog
	now     func() time.Time
}

// EngineOption configures an Engine
type EngineOption func(*Engine)

// WithClock overrides the clock used for campaign windows
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine over catalog
func NewEngine(catalog Catalog, opts ...EngineOption) *Engine {
	e := &Engine{catalog: catalog, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DetectBIN resolves a 6-digit BIN through the catalog, then the built-in
// table. The built-in table is not consulted for a BIN or bank the catalog
// has turned off.
func (e *Engine) DetectBIN(ctx context.Context, bin string) (Bank, bool, error) {
	if len(bin) != BINLength || !isDigits(bin) {
		return Bank{}, false, nil
	}
	bank, ok, err := e.catalog.BankByBIN(ctx, bin)
	if err != nil {
		return Bank{}, false, fmt.Errorf("lookup bin: %w", err)
	}
	if ok {
		return bank, true, nil
	}

	bank, ok = DetectBank(bin)
	if !ok {
		return Bank{}, false, nil
	}
	off, err := e.catalog.Deactivated(ctx, bin, bank.Code)
	if err != nil {
		return Bank{}, false, fmt.Errorf("lookup bin: %w", err)
	}
	if off {
		return Bank{}, false, nil
	}
	return bank, true, nil
}

// Lookup lists installment plans for req.
//
// A known bank (by id or BIN) yields that bank's full plan list. A 6-digit
// BIN that matches no bank yields every active bank with the single payment
// only. Without a usable BIN every active bank is listed with full plans.
func (e *Engine) Lookup(ctx context.Context, req Request) (*Result, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	digits := digitsOnly(req.BIN)
	if len(digits) != len(stripSeparators(req.BIN)) {
		return nil, ErrInvalidBIN
	}

	if req.BankID > 0 {
		bank, ok, err := e.catalog.BankByID(ctx, req.BankID)
		if err != nil {
			return nil, fmt.Errorf("lookup bank: %w", err)
		}
		if ok {
			return e.forBanks(ctx, req, []Bank{bank}, true, ResultBank)
		}
	}

	if len(digits) >= BINLength {
		bank, ok, err := e.DetectBIN(ctx, digits[:BINLength])
		if err != nil {
			return nil, err
		}
		if ok {
			return e.forBanks(ctx, req, []Bank{bank}, true, ResultBank)
		}

		banks, err := e.catalog.ActiveBanks(ctx)
		if err != nil {
			return nil, fmt.Errorf("list banks: %w", err)
		}
		return e.forBanks(ctx, req, banks, false, ResultFallback)
	}

	banks, err := e.catalog.ActiveBanks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	return e.forBanks(ctx, req, banks, true, ResultNone)
}

func (e *Engine) forBanks(ctx context.Context, req Request, banks []Bank, fullPlans bool, kind string) (*Result, error) {
	today := e.now()
	result := &Result{
		Installments: make([]BankInstallments, 0, len(banks)),
		Amount:       req.Amount,
		Kind:         kind,
	}

	for _, bank := range banks {
		plans := []Plan{SinglePayment(req.Amount)}
		if fullPlans {
			configs, err := e.catalog.InstallmentConfigs(ctx, bank.ID)
			if err != nil {
				return nil, fmt.Errorf("installment configs for bank %d: %w", bank.ID, err)
			}
			plans = ComputePlans(req.Amount, configs, today)

			if len(req.CategoryIDs) > 0 {
				restrictions, err := e.catalog.Restrictions(ctx, bank.ID, req.CategoryIDs)
				if err != nil {
					return nil, fmt.Errorf("restrictions for bank %d: %w", bank.ID, err)
				}
				plans = ApplyRestrictions(plans, restrictions)
			}
		}

		result.Installments = append(result.Installments, BankInstallments{
			Bank:         bank.Ref(),
			Installments: plans,
		})
	}
	return result, nil
}

func stripSeparators(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r != ' ' && r != '-' {
			out = append(out, r)
		}
	}
	return string(out)
}
