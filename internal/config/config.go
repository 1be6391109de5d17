package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"batida"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"batida"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Recon struct {
		// Settlement fee the bank deducts before paying out, in cents.
		// Added to ledger values when building comparison keys.
		FeeCents int64 `envconfig:"RECON_FEE_CENTS" default:"98"`

		// Per-bank overrides, e.g. RECON_BANK_FEE_CENTS="itau:98,sicredi:120".
		BankFeeCents map[string]int64 `envconfig:"RECON_BANK_FEE_CENTS"`
	}
}

// FeeFor returns the settlement fee for a bank, falling back to the
// default when the bank has no override.
func (c *Config) FeeFor(bank string) int64 {
	if fee, ok := c.Recon.BankFeeCents[bank]; ok {
		return fee
	}

	return c.Recon.FeeCents
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
