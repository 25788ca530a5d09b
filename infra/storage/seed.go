package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/mstgnz/gopos/infra/logger"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Seed is the YAML form of the catalog
type Seed struct {
	Banks []SeedBank `yaml:"banks"`
}

type SeedBank struct {
	ID           int64             `yaml:"id"`
	Name         string            `yaml:"name"`
	Code         string            `yaml:"code"`
	Color        string            `yaml:"color"`
	GatewayType  string            `yaml:"gateway_type"`
	Active       *bool             `yaml:"active"`
	Bins         []SeedBin         `yaml:"bins"`
	Installments []SeedInstallment `yaml:"installments"`
	Restrictions []SeedRestriction `yaml:"restrictions"`
}

type SeedBin struct {
	BIN      string `yaml:"bin"`
	CardType string `yaml:"card_type"`
	Active   *bool  `yaml:"active"`
}

type SeedInstallment struct {
	Count          int    `yaml:"count"`
	InterestRate   string `yaml:"interest_rate"`
	CommissionRate string `yaml:"commission_rate"`
	MinAmount      string `yaml:"min_amount"`
	Active         *bool  `yaml:"active"`
	CampaignActive bool   `yaml:"campaign_active"`
	CampaignRate   string `yaml:"campaign_rate"`
	CampaignStart  string `yaml:"campaign_start"`
	CampaignEnd    string `yaml:"campaign_end"`
}

type SeedRestriction struct {
	CategoryID          int64  `yaml:"category_id"`
	MinInstallment      int    `yaml:"min_installment"`
	MaxInstallment      int    `yaml:"max_installment"`
	InstallmentAllowed  *bool  `yaml:"installment_allowed"`
	BlockedInstallments string `yaml:"blocked_installments"`
}

// LoadSeed reads a YAML catalog file
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes and checks a YAML catalog
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	ids := map[int64]bool{}
	for _, b := range seed.Banks {
		if b.ID <= 0 || b.Name == "" || b.Code == "" {
			return nil, fmt.Errorf("seed bank %q: id, name and code are required", b.Code)
		}
		if ids[b.ID] {
			return nil, fmt.Errorf("seed bank id %d is duplicated", b.ID)
		}
		ids[b.ID] = true

		for _, bin := range b.Bins {
			if len(bin.BIN) != 6 {
				return nil, fmt.Errorf("seed bank %s: bin %q must have 6 digits", b.Code, bin.BIN)
			}
		}
		for _, inst := range b.Installments {
			if inst.Count < 1 || inst.Count > 36 {
				return nil, fmt.Errorf("seed bank %s: installment count %d out of range", b.Code, inst.Count)
			}
			for name, v := range map[string]string{
				"interest_rate":   inst.InterestRate,
				"commission_rate": inst.CommissionRate,
				"min_amount":      inst.MinAmount,
				"campaign_rate":   inst.CampaignRate,
			} {
				if _, err := decimal.NewFromString(zeroIfEmpty(v)); err != nil {
					return nil, fmt.Errorf("seed bank %s: %s of count %d: %w", b.Code, name, inst.Count, err)
				}
			}
			if err := checkDate(inst.CampaignStart); err != nil {
				return nil, fmt.Errorf("seed bank %s: campaign_start: %w", b.Code, err)
			}
			if err := checkDate(inst.CampaignEnd); err != nil {
				return nil, fmt.Errorf("seed bank %s: campaign_end: %w", b.Code, err)
			}
		}
		for _, r := range b.Restrictions {
			if r.MaxInstallment > 0 && r.MinInstallment > r.MaxInstallment {
				return nil, fmt.Errorf("seed bank %s: category %d has min_installment above max_installment", b.Code, r.CategoryID)
			}
		}
	}
	return &seed, nil
}

func checkDate(s string) error {
	if s == "" {
		return nil
	}
	_, err := time.Parse(dateLayout, s)
	return err
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// SeedIfEmpty loads seed into an empty catalog. It reports whether anything
// was written.
func (s *CatalogStore) SeedIfEmpty(ctx context.Context, seed *Seed) (bool, error) {
	n, err := s.BankCount(ctx)
	if err != nil {
		return false, fmt.Errorf("count banks: %w", err)
	}
	if n > 0 || seed == nil || len(seed.Banks) == 0 {
		return false, nil
	}

	err = s.retryOperation(ctx, func() error {
		return s.insertSeed(ctx, seed)
	})
	if err != nil {
		return false, fmt.Errorf("failed to seed catalog: %w", err)
	}

	logger.Info("Catalog seeded", logger.LogContext{Fields: map[string]any{"banks": len(seed.Banks)}})
	return true, nil
}

func (s *CatalogStore) insertSeed(ctx context.Context, seed *Seed) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, b := range seed.Banks {
		if _, err := tx.ExecContext(ctx, s.rebind(`
			INSERT INTO banks (id, name, code, color, gateway_type, active) VALUES (?, ?, ?, ?, ?, ?)`),
			b.ID, b.Name, b.Code, b.Color, b.GatewayType, boolOr(b.Active, true)); err != nil {
			return fmt.Errorf("insert bank %s: %w", b.Code, err)
		}

		for _, bin := range b.Bins {
			if _, err := tx.ExecContext(ctx, s.rebind(`
				INSERT INTO bins (bin, bank_id, card_type, active) VALUES (?, ?, ?, ?)`),
				bin.BIN, b.ID, bin.CardType, boolOr(bin.Active, true)); err != nil {
				return fmt.Errorf("insert bin %s: %w", bin.BIN, err)
			}
		}

		for _, inst := range b.Installments {
			if _, err := tx.ExecContext(ctx, s.rebind(`
				INSERT INTO installment_configs (bank_id, installment_count, interest_rate, commission_rate,
					min_amount, active, campaign_active, campaign_rate, campaign_start, campaign_end)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
				b.ID, inst.Count, zeroIfEmpty(inst.InterestRate), zeroIfEmpty(inst.CommissionRate),
				zeroIfEmpty(inst.MinAmount), boolOr(inst.Active, true), inst.CampaignActive,
				zeroIfEmpty(inst.CampaignRate), nullIfEmpty(inst.CampaignStart), nullIfEmpty(inst.CampaignEnd)); err != nil {
				return fmt.Errorf("insert installment %s/%d: %w", b.Code, inst.Count, err)
			}
		}

		for _, r := range b.Restrictions {
			if _, err := tx.ExecContext(ctx, s.rebind(`
				INSERT INTO category_restrictions (bank_id, category_id, min_installment, max_installment,
					installment_allowed, blocked_installments)
				VALUES (?, ?, ?, ?, ?, ?)`),
				b.ID, r.CategoryID, r.MinInstallment, r.MaxInstallment,
				boolOr(r.InstallmentAllowed, true), r.BlockedInstallments); err != nil {
				return fmt.Errorf("insert restriction %s/%d: %w", b.Code, r.CategoryID, err)
			}
		}
	}

	return tx.Commit()
}
