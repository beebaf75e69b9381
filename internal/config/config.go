// Package config loads typed application configuration from viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/KeyComponentMFG/every-penny/internal/common"
)

// Tolerances are the matcher's policy constants. The defaults are hand-tuned
// against one shop's transaction patterns; a different business may need
// recalibration, which is why they live in configuration.
type Tolerances struct {
	// ExactAmount is the pass-1 amount tolerance, absorbing representation
	// and rounding error only.
	ExactAmount float64 `mapstructure:"exact_amount"`
	// ApproxAmount is the pass-2 amount tolerance, absorbing tax computed
	// slightly differently between receipt and cleared charge.
	ApproxAmount float64 `mapstructure:"approx_amount"`
	// MaxDayGap is the widest acceptable distance between receipt date and
	// bank posting date, in days.
	MaxDayGap int `mapstructure:"max_day_gap"`
}

// CategoryRule assigns a category when any of its substrings appears in a
// transaction description. Rules are order-sensitive: first match wins.
type CategoryRule struct {
	Category   string   `mapstructure:"category"`
	Substrings []string `mapstructure:"substrings"`
	Kind       string   `mapstructure:"kind"` // "", "deposit" or "debit"
}

// ManualTransaction is a config-supplied transaction used to fill months no
// parsed statement covers.
type ManualTransaction struct {
	Date        string  `mapstructure:"date"` // MM/DD/YYYY
	Description string  `mapstructure:"description"`
	Kind        string  `mapstructure:"kind"`
	Category    string  `mapstructure:"category"`
	Amount      float64 `mapstructure:"amount"`
}

// OverrideMatch selects transactions for an override. Empty fields match
// everything.
type OverrideMatch struct {
	DescContains string   `mapstructure:"desc_contains"`
	DatePrefix   string   `mapstructure:"date_prefix"` // MM/DD/YYYY prefix
	Amount       *float64 `mapstructure:"amount"`
}

// OverrideSplit is one piece of a split override.
type OverrideSplit struct {
	Category string  `mapstructure:"category"`
	Amount   float64 `mapstructure:"amount"`
}

// TransactionOverride recategorizes or splits matching transactions after
// dedup, before partitioning.
type TransactionOverride struct {
	Action   string          `mapstructure:"action"` // "recategorize" or "split"
	Category string          `mapstructure:"category"`
	Match    OverrideMatch   `mapstructure:"match"`
	Splits   []OverrideSplit `mapstructure:"splits"`
}

// Config is the full application configuration.
type Config struct {
	DBPath string `mapstructure:"db_path"`
	// DataDir holds the input files: statements/ for official bank
	// statements, downloads/ for convenience CSV/OFX exports,
	// receipts/<source>/ for order JSON, platform/ for platform CSVs.
	DataDir             string                `mapstructure:"data_dir"`
	FallbackCategory    string                `mapstructure:"fallback_category"`
	Tolerances          Tolerances            `mapstructure:"tolerances"`
	Rules               []CategoryRule        `mapstructure:"category_rules"`
	ReceiptSources      map[string][]string   `mapstructure:"receipt_sources"`
	NoReceiptCategories []string              `mapstructure:"no_receipt_categories"`
	ManualTransactions  []ManualTransaction   `mapstructure:"manual_transactions"`
	Overrides           []TransactionOverride `mapstructure:"transaction_overrides"`
	// ClosingBalances maps "YYYY-MM" to the statement's stated closing
	// balance, checked against the computed ledger.
	ClosingBalances map[string]float64 `mapstructure:"closing_balances"`
	// PlatformReportedBalance is the balance the selling platform displays.
	PlatformReportedBalance float64 `mapstructure:"platform_reported_balance"`
	// PlatformPriorDeposits is payout money that left the platform before
	// the tracked bank account existed.
	PlatformPriorDeposits float64 `mapstructure:"platform_prior_deposits"`
}

// Load builds a Config from the current viper state, applying defaults for
// anything the config file leaves unset.
func Load() (*Config, error) {
	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path", common.ErrMissingConfig)
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir", common.ErrMissingConfig)
	}
	if c.Tolerances.ExactAmount <= 0 || c.Tolerances.ApproxAmount <= 0 {
		return fmt.Errorf("%w: tolerances must be positive", common.ErrInvalidConfig)
	}
	if c.Tolerances.ApproxAmount < c.Tolerances.ExactAmount {
		return fmt.Errorf("%w: approx_amount %.2f below exact_amount %.2f",
			common.ErrInvalidConfig, c.Tolerances.ApproxAmount, c.Tolerances.ExactAmount)
	}
	if c.Tolerances.MaxDayGap <= 0 {
		return fmt.Errorf("%w: max_day_gap must be positive", common.ErrInvalidConfig)
	}
	if c.FallbackCategory == "" {
		return fmt.Errorf("%w: fallback_category must not be empty", common.ErrInvalidConfig)
	}
	for _, o := range c.Overrides {
		switch o.Action {
		case "recategorize", "split":
		default:
			return fmt.Errorf("%w: unknown override action %q", common.ErrInvalidConfig, o.Action)
		}
	}
	return nil
}

// StatementsDir holds official bank statements (priority sources).
func (c *Config) StatementsDir() string { return filepath.Join(c.DataDir, "statements") }

// DownloadsDir holds convenience CSV/OFX exports.
func (c *Config) DownloadsDir() string { return filepath.Join(c.DataDir, "downloads") }

// ReceiptsDir holds per-source subdirectories of order JSON exports.
func (c *Config) ReceiptsDir() string { return filepath.Join(c.DataDir, "receipts") }

// PlatformDir holds selling-platform statement CSVs.
func (c *Config) PlatformDir() string { return filepath.Join(c.DataDir, "platform") }

func setDefaults() {
	viper.SetDefault("db_path", defaultDBPath())
	viper.SetDefault("data_dir", "data")
	viper.SetDefault("fallback_category", "Pending")
	viper.SetDefault("tolerances.exact_amount", 0.02)
	viper.SetDefault("tolerances.approx_amount", 1.50)
	viper.SetDefault("tolerances.max_day_gap", 14)
	viper.SetDefault("no_receipt_categories", []string{
		"Platform Payout", "Platform Fees", "Owner Draw", "Personal",
	})
	viper.SetDefault("category_rules", defaultRules())
	viper.SetDefault("receipt_sources", map[string][]string{
		"Amazon Inventory":    {"amazon-business", "personal-amazon"},
		"Craft Supplies":      {"hobby-lobby"},
		"AliExpress Supplies": {"aliexpress"},
	})
}

// defaultRules mirrors the categorization a small e-commerce operation needs
// out of the box. Order matters; the list is replaceable wholesale from the
// config file.
func defaultRules() []map[string]any {
	return []map[string]any{
		{"category": "Platform Payout", "kind": "deposit", "substrings": []string{"ETSY"}},
		{"category": "Other Deposit", "kind": "deposit", "substrings": []string{""}},
		{"category": "Amazon Inventory", "substrings": []string{"AMAZON MKTPL", "AMZN"}},
		{"category": "Shipping", "substrings": []string{"UPS STORE", "USPS", "WAL MART"}},
		{"category": "Craft Supplies", "substrings": []string{"HOBBYLOBBY", "HOBBY LOBBY", "WESTLAKE HARDWARE"}},
		{"category": "AliExpress Supplies", "substrings": []string{"ALIPAY", "AOWEIKE"}},
		{"category": "Platform Fees", "substrings": []string{"ETSY COM"}},
		{"category": "Owner Draw", "substrings": []string{"VENMO"}},
		{"category": "Business Credit Card", "substrings": []string{"AUTO PYMT"}},
		{"category": "Subscriptions", "substrings": []string{"THANGS"}},
		{"category": "Personal", "substrings": []string{"REASORS", "CHIPOTLE", "WILDFLOWERCAFE", "ANTHROPOLOGIE", "LULULEMON", "QT "}},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "penny.db"
	}
	return filepath.Join(home, ".local", "share", "penny", "penny.db")
}
