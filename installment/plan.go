package installment

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Plan is one installment option. Amounts are kept unrounded and rounded to
// two decimals only when serialized.
type Plan struct {
	Count             int
	InstallmentAmount decimal.Decimal
	TotalAmount       decimal.Decimal
	InterestAmount    decimal.Decimal
	InterestRate      decimal.Decimal
	IsCampaign        bool
}

type planJSON struct {
	Count             int         `json:"installment_count"`
	InstallmentAmount json.Number `json:"installment_amount"`
	TotalAmount       json.Number `json:"total_amount"`
	InterestAmount    json.Number `json:"interest_amount"`
	InterestRate      json.Number `json:"interest_rate"`
	IsCampaign        bool        `json:"is_campaign"`
}

func (p Plan) MarshalJSON() ([]byte, error) {
	return json.Marshal(planJSON{
		Count:             p.Count,
		InstallmentAmount: money(p.InstallmentAmount),
		TotalAmount:       money(p.TotalAmount),
		InterestAmount:    money(p.InterestAmount),
		InterestRate:      money(p.InterestRate),
		IsCampaign:        p.IsCampaign,
	})
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

// SinglePayment is the interest-free one-installment plan
func SinglePayment(amount decimal.Decimal) Plan {
	return Plan{
		Count:             1,
		InstallmentAmount: amount,
		TotalAmount:       amount,
		InterestAmount:    decimal.Zero,
		InterestRate:      decimal.Zero,
	}
}

// NewPlan splits amount raised by rate percent into count installments
func NewPlan(amount decimal.Decimal, count int, rate decimal.Decimal) Plan {
	if count < 1 {
		count = 1
	}
	total := amount
	if rate.IsPositive() {
		total = amount.Mul(decimal.NewFromInt(1).Add(rate.Div(hundred)))
	}
	interest := total.Sub(amount)
	return Plan{
		Count:             count,
		InstallmentAmount: total.Div(decimal.NewFromInt(int64(count))),
		TotalAmount:       total,
		InterestAmount:    interest,
		InterestRate:      rate,
		IsCampaign:        count > 1 && interest.IsZero(),
	}
}

// Config is a bank's configuration for one installment count
type Config struct {
	BankID         int64
	Count          int
	InterestRate   decimal.Decimal
	CommissionRate decimal.Decimal
	MinAmount      decimal.Decimal
	Active         bool
	CampaignActive bool
	CampaignRate   decimal.Decimal
	CampaignStart  *time.Time
	CampaignEnd    *time.Time
}

// EffectiveRate returns the campaign rate when the campaign is active and
// today falls inside its inclusive date window, otherwise the interest rate
func (c Config) EffectiveRate(today time.Time) decimal.Decimal {
	if c.CampaignActive && c.CampaignStart != nil && c.CampaignEnd != nil {
		day := dateOf(today)
		if !day.Before(dateOf(*c.CampaignStart)) && !day.After(dateOf(*c.CampaignEnd)) {
			return c.CampaignRate
		}
	}
	return c.InterestRate
}

// Plan computes this config's plan for amount
func (c Config) Plan(amount decimal.Decimal, today time.Time) Plan {
	return NewPlan(amount, c.Count, c.EffectiveRate(today))
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ComputePlans returns the plans a bank offers for amount, ordered by count.
// The single payment is always first; an active count-1 config replaces the
// default one. Configs that are inactive or whose minimum exceeds amount are
// skipped.
func ComputePlans(amount decimal.Decimal, configs []Config, today time.Time) []Plan {
	sorted := slices.Clone(configs)
	slices.SortStableFunc(sorted, func(a, b Config) int { return a.Count - b.Count })

	plans := []Plan{SinglePayment(amount)}
	seen := map[int]bool{}
	for _, cfg := range sorted {
		if !cfg.Active || cfg.Count < 1 || seen[cfg.Count] {
			continue
		}
		seen[cfg.Count] = true

		if cfg.Count == 1 {
			plans[0] = cfg.Plan(amount, today)
			continue
		}
		if cfg.MinAmount.GreaterThan(amount) {
			continue
		}
		plans = append(plans, cfg.Plan(amount, today))
	}
	return plans
}
