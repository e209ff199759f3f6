// Package sheets exports the decision ledger to Google Sheets.
package sheets

import (
	"fmt"
	"time"

	"github.com/Veraticus/finsense/internal/common"
)

// DefaultSpreadsheetName names spreadsheets created without an explicit ID.
const DefaultSpreadsheetName = "FinSense Ledger"

// Config holds the configuration for the Google Sheets writer.
type Config struct {
	// OAuth2 credentials. All three are needed unless ServiceAccountPath is set.
	ClientID     string
	ClientSecret string
	RefreshToken string

	ServiceAccountPath string

	// SpreadsheetID targets an existing spreadsheet. When empty a new one
	// named SpreadsheetName is created on every export.
	SpreadsheetID   string
	SpreadsheetName string
	TimeZone        string

	// BatchSize caps the rows sent per values update.
	BatchSize int
	// RetryAttempts counts retries after the first call; 0 disables them.
	RetryAttempts    int
	RetryDelay       time.Duration
	EnableFormatting bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName:  DefaultSpreadsheetName,
		EnableFormatting: true,
		TimeZone:         "America/New_York",
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

// Validate checks that exactly one authentication method is configured and
// the batching and retry settings are usable.
func (c *Config) Validate() error {
	hasOAuth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	hasServiceAccount := c.ServiceAccountPath != ""

	switch {
	case !hasOAuth && !hasServiceAccount:
		return fmt.Errorf("%w: no authentication method configured", common.ErrInvalidConfig)
	case hasOAuth && hasServiceAccount:
		return fmt.Errorf("%w: multiple authentication methods configured; use either OAuth2 or service account", common.ErrInvalidConfig)
	case c.BatchSize <= 0:
		return fmt.Errorf("%w: batch size must be positive", common.ErrInvalidConfig)
	case c.RetryAttempts < 0:
		return fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig)
	case c.RetryDelay < 0:
		return fmt.Errorf("%w: retry delay cannot be negative", common.ErrInvalidConfig)
	}
	return nil
}
