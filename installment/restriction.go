package installment

import (
	"slices"
	"strconv"
	"strings"
)

// Restriction limits a bank's installments for one product category
type Restriction struct {
	BankID              int64
	CategoryID          int64
	MinInstallment      int
	MaxInstallment      int
	InstallmentAllowed  bool
	BlockedInstallments string
}

// Blocked parses the comma-separated blocked counts. An unparsable list
// blocks nothing.
func (r Restriction) Blocked() []int {
	if strings.TrimSpace(r.BlockedInstallments) == "" {
		return nil
	}
	parts := strings.Split(r.BlockedInstallments, ",")
	blocked := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil
		}
		blocked = append(blocked, n)
	}
	return blocked
}

// Allows reports whether count passes the restriction. The single payment
// always passes.
func (r Restriction) Allows(count int) bool {
	if count <= 1 {
		return true
	}
	if !r.InstallmentAllowed {
		return false
	}
	if r.MinInstallment > 0 && count < r.MinInstallment {
		return false
	}
	if r.MaxInstallment > 0 && count > r.MaxInstallment {
		return false
	}
	return !slices.Contains(r.Blocked(), count)
}

// ApplyRestrictions keeps the plans every restriction allows
func ApplyRestrictions(plans []Plan, restrictions []Restriction) []Plan {
	if len(restrictions) == 0 {
		return plans
	}
	out := make([]Plan, 0, len(plans))
	for _, p := range plans {
		allowed := true
		for _, r := range restrictions {
			if !r.Allows(p.Count) {
				allowed = false
				break
			}
		}
		if allowed {
			out = append(out, p)
		}
	}
	return out
}
