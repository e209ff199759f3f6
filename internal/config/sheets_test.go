package config

import (
	"strings"
	"testing"

	"github.com/Veraticus/finsense/internal/common"
	"github.com/Veraticus/finsense/internal/sheets"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringsReader(s string) *strings.Reader {
	return strings.NewReader(s)
}

func TestLoadSheetsConfig(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "env-client")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "env-secret")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "env-token")
	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_NAME", "")

	v := viper.New()
	v.Set("sheets.client_id", "viper-client")
	v.Set("sheets.enable_formatting", false)
	v.Set("sheets.retry_attempts", 0)

	cfg, err := LoadSheetsConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "viper-client", cfg.ClientID)
	assert.Equal(t, "env-secret", cfg.ClientSecret)
	assert.Equal(t, sheets.DefaultSpreadsheetName, cfg.SpreadsheetName)
	assert.False(t, cfg.EnableFormatting)
	assert.Zero(t, cfg.RetryAttempts)
}

func TestLoadSheetsConfigRequiresCredentials(t *testing.T) {
	for _, env := range []string{
		"GOOGLE_SHEETS_CLIENT_ID", "GOOGLE_SHEETS_CLIENT_SECRET", "GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
	} {
		t.Setenv(env, "")
	}

	_, err := LoadSheetsConfig(viper.New())
	assert.ErrorContains(t, err, "no authentication method configured")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	v := viper.New()
	v.Set("sheets.service_account_path", "/key.json")
	v.Set("sheets.retry_attempts", -1)
	_, err = LoadSheetsConfig(v)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
