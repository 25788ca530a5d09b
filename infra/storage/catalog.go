// Package storage keeps the installment catalog (banks, BINs, installment
// configs and category restrictions) in SQL. SQLite and PostgreSQL are
// supported.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mstgnz/gopos/infra/conn"
	"github.com/mstgnz/gopos/infra/logger"
	"github.com/mstgnz/gopos/installment"
	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"
	maxRetries = 3
)

// CatalogStore implements installment.Catalog over SQL. Every method queries
// the database; nothing is cached.
type CatalogStore struct {
	db       *sql.DB
	postgres bool
}

var _ installment.Catalog = (*CatalogStore)(nil)

// NewCatalogStore wraps db and creates the schema if needed
func NewCatalogStore(ctx context.Context, db *conn.DB) (*CatalogStore, error) {
	s := &CatalogStore{db: db.DB, postgres: db.Driver == "postgres"}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *CatalogStore) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS banks (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT NOT NULL UNIQUE,
		color TEXT NOT NULL DEFAULT '',
		gateway_type TEXT NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE TABLE IF NOT EXISTS bins (
		bin TEXT PRIMARY KEY,
		bank_id BIGINT NOT NULL REFERENCES banks(id) ON DELETE CASCADE,
		card_type TEXT NOT NULL DEFAULT '',
		active BOOLEAN NOT NULL DEFAULT TRUE
	);

	CREATE TABLE IF NOT EXISTS installment_configs (
		bank_id BIGINT NOT NULL REFERENCES banks(id) ON DELETE CASCADE,
		installment_count INTEGER NOT NULL,
		interest_rate TEXT NOT NULL DEFAULT '0',
		commission_rate TEXT NOT NULL DEFAULT '0',
		min_amount TEXT NOT NULL DEFAULT '0',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		campaign_active BOOLEAN NOT NULL DEFAULT FALSE,
		campaign_rate TEXT NOT NULL DEFAULT '0',
		campaign_start TEXT,
		campaign_end TEXT,
		PRIMARY KEY (bank_id, installment_count)
	);

	CREATE TABLE IF NOT EXISTS category_restrictions (
		bank_id BIGINT NOT NULL REFERENCES banks(id) ON DELETE CASCADE,
		category_id BIGINT NOT NULL,
		min_installment INTEGER NOT NULL DEFAULT 2,
		max_installment INTEGER NOT NULL DEFAULT 12,
		installment_allowed BOOLEAN NOT NULL DEFAULT TRUE,
		blocked_installments TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (bank_id, category_id)
	);

	CREATE INDEX IF NOT EXISTS idx_bins_bank ON bins(bank_id);
	`

	return s.retryOperation(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query)
		return err
	})
}

// retryOperation retries op while SQLite reports the database as busy
func (s *CatalogStore) retryOperation(ctx context.Context, op func() error) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if !isBusy(err) {
			return err
		}

		lastErr = err
		if attempt == maxRetries {
			break
		}
		// 10ms, 20ms, 40ms
		backoff := time.Duration(10*(1<<attempt)) * time.Millisecond
		logger.Warn("Catalog database busy, retrying", logger.LogContext{Fields: map[string]any{
			"attempt": attempt + 1,
			"backoff": backoff.String(),
		}})
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("operation failed after %d retries, last error: %w", maxRetries+1, lastErr)
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// rebind turns ? placeholders into $n for PostgreSQL
func (s *CatalogStore) rebind(query string) string {
	if !s.postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const bankColumns = `id, name, code, color, gateway_type, active`

func scanBank(row interface{ Scan(...any) error }) (installment.Bank, error) {
	var b installment.Bank
	err := row.Scan(&b.ID, &b.Name, &b.Code, &b.Color, &b.GatewayType, &b.Active)
	return b, err
}

// ActiveBanks lists active banks ordered by id
func (s *CatalogStore) ActiveBanks(ctx context.Context) ([]installment.Bank, error) {
	var banks []installment.Bank
	err := s.retryOperation(ctx, func() error {
		banks = nil
		rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT `+bankColumns+` FROM banks WHERE active = ? ORDER BY id`), true)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			b, err := scanBank(rows)
			if err != nil {
				return err
			}
			banks = append(banks, b)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list banks: %w", err)
	}
	return banks, nil
}

// BankByID returns an active bank by id
func (s *CatalogStore) BankByID(ctx context.Context, id int64) (installment.Bank, bool, error) {
	return s.queryBank(ctx, `SELECT `+bankColumns+` FROM banks WHERE id = ? AND active = ?`, id, true)
}

// BankByBIN returns the active bank owning an active BIN
func (s *CatalogStore) BankByBIN(ctx context.Context, bin string) (installment.Bank, bool, error) {
	return s.queryBank(ctx, `
		SELECT b.id, b.name, b.code, b.color, b.gateway_type, b.active
		FROM bins n JOIN banks b ON b.id = n.bank_id
		WHERE n.bin = ? AND n.active = ? AND b.active = ?`, bin, true, true)
}

// Deactivated reports whether bin has a row in any state, or the bank with
// bankCode exists but is inactive. BankByBIN has already missed when this is
// asked, so a bin row here is an inactive BIN or one of an inactive bank.
func (s *CatalogStore) Deactivated(ctx context.Context, bin, bankCode string) (bool, error) {
	var n int
	err := s.retryOperation(ctx, func() error {
		return s.db.QueryRowContext(ctx, s.rebind(`
			SELECT (SELECT COUNT(*) FROM bins WHERE bin = ?)
			     + (SELECT COUNT(*) FROM banks WHERE code = ? AND active = ?)`),
			bin, bankCode, false).Scan(&n)
	})
	if err != nil {
		return false, fmt.Errorf("failed to check bin state: %w", err)
	}
	return n > 0, nil
}

func (s *CatalogStore) queryBank(ctx context.Context, query string, args ...any) (installment.Bank, bool, error) {
	var (
		bank  installment.Bank
		found bool
	)
	err := s.retryOperation(ctx, func() error {
		b, err := scanBank(s.db.QueryRowContext(ctx, s.rebind(query), args...))
		if errors.Is(err, sql.ErrNoRows) {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		bank, found = b, true
		return nil
	})
	if err != nil {
		return installment.Bank{}, false, fmt.Errorf("failed to load bank: %w", err)
	}
	return bank, found, nil
}

// InstallmentConfigs returns every config of a bank ordered by count.
// Inactive rows are included; the engine skips them.
func (s *CatalogStore) InstallmentConfigs(ctx context.Context, bankID int64) ([]installment.Config, error) {
	query := s.rebind(`
		SELECT bank_id, installment_count, interest_rate, commission_rate, min_amount, active,
		       campaign_active, campaign_rate, campaign_start, campaign_end
		FROM installment_configs
		WHERE bank_id = ?
		ORDER BY installment_count`)

	var configs []installment.Config
	err := s.retryOperation(ctx, func() error {
		configs = nil
		rows, err := s.db.QueryContext(ctx, query, bankID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var (
				c                                  installment.Config
				interest, commission, minAmt, camp string
				start, end                         sql.NullString
			)
			if err := rows.Scan(&c.BankID, &c.Count, &interest, &commission, &minAmt, &c.Active,
				&c.CampaignActive, &camp, &start, &end); err != nil {
				return err
			}
			if c.InterestRate, err = decimal.NewFromString(interest); err != nil {
				return fmt.Errorf("interest_rate of bank %d/%d: %w", c.BankID, c.Count, err)
			}
			if c.CommissionRate, err = decimal.NewFromString(commission); err != nil {
				return fmt.Errorf("commission_rate of bank %d/%d: %w", c.BankID, c.Count, err)
			}
			if c.MinAmount, err = decimal.NewFromString(minAmt); err != nil {
				return fmt.Errorf("min_amount of bank %d/%d: %w", c.BankID, c.Count, err)
			}
			if c.CampaignRate, err = decimal.NewFromString(camp); err != nil {
				return fmt.Errorf("campaign_rate of bank %d/%d: %w", c.BankID, c.Count, err)
			}
			c.CampaignStart = parseDate(start)
			c.CampaignEnd = parseDate(end)
			configs = append(configs, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load installment configs: %w", err)
	}
	return configs, nil
}

// Restrictions returns the restrictions of a bank for the given categories
func (s *CatalogStore) Restrictions(ctx context.Context, bankID int64, categoryIDs []int64) ([]installment.Restriction, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(categoryIDs)+1)
	args = append(args, bankID)
	for _, id := range categoryIDs {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(categoryIDs)), ",")
	query := s.rebind(`
		SELECT bank_id, category_id, min_installment, max_installment, installment_allowed, blocked_installments
		FROM category_restrictions
		WHERE bank_id = ? AND category_id IN (` + placeholders + `)
		ORDER BY category_id`)

	var restrictions []installment.Restriction
	err := s.retryOperation(ctx, func() error {
		restrictions = nil
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var r installment.Restriction
			if err := rows.Scan(&r.BankID, &r.CategoryID, &r.MinInstallment, &r.MaxInstallment,
				&r.InstallmentAllowed, &r.BlockedInstallments); err != nil {
				return err
			}
			restrictions = append(restrictions, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load restrictions: %w", err)
	}
	return restrictions, nil
}

// BankCount returns the number of banks, active or not
func (s *CatalogStore) BankCount(ctx context.Context) (int, error) {
	var n int
	err := s.retryOperation(ctx, func() error {
		return s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM banks`).Scan(&n)
	})
	return n, err
}

// Ping checks the database connection
func (s *CatalogStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func parseDate(v sql.NullString) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, v.String)
	if err != nil {
		return nil
	}
	return &t
}
