package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/finsense/internal/common"
	"github.com/Veraticus/finsense/internal/engine"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	s, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".local/share/finsense/finsense.db"), s.DatabasePath)
	assert.Equal(t, DefaultServerAddr, s.ServerAddr)
	assert.False(t, s.ServerTLS)
	assert.Equal(t, filepath.Join(home, ".local/share/finsense/certs"), s.CertDir)
	assert.Equal(t, engine.DefaultPolicy(), s.Policy)
	assert.Equal(t, "info", s.LogLevel)
	assert.Empty(t, s.FallbackCategory)
}

func TestLoadFromYAML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(stringsReader(`
database:
  path: ":memory:"
policy:
  high_threshold: 0.95
  low_threshold: 0.5
  high_impact_overrides_confidence: false
rules:
  file: /etc/finsense/rules.yaml
  fallback_category: Uncategorized
logging:
  format: json
`)))

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, ":memory:", s.DatabasePath)
	assert.InDelta(t, 0.95, s.Policy.HighThreshold, 1e-9)
	assert.InDelta(t, 0.5, s.Policy.LowThreshold, 1e-9)
	assert.False(t, s.Policy.HighImpactOverridesConfidence)
	assert.Equal(t, "/etc/finsense/rules.yaml", s.RulesFile)
	assert.Equal(t, "Uncategorized", s.FallbackCategory)
	assert.Equal(t, "json", s.LogFormat)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{name: "inverted thresholds", key: "policy.low_threshold", val: 0.95},
		{name: "threshold above one", key: "policy.high_threshold", val: 1.5},
		{name: "bad address", key: "server.addr", val: "localhost"},
		{name: "bad level", key: "logging.level", val: "loud"},
		{name: "bad format", key: "logging.format", val: "xml"},
		{name: "empty database path", key: "database.path", val: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.val)

			_, err := Load(v)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FINSENSE_SERVER_ADDR", "0.0.0.0:9090")

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(KeyReplacer())
	v.AutomaticEnv()

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", s.ServerAddr)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("FINSENSE_TEST_DIR", "/data")
	t.Setenv("FINSENSE_TEST_FILE", "ledger.db")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: ":memory:", want: ":memory:"},
		{in: "~", want: home},
		{in: "~/ledger.db", want: filepath.Join(home, "ledger.db")},
		{in: "$FINSENSE_TEST_DIR/ledger.db", want: "/data/ledger.db"},
		{in: "/abs/ledger.db", want: "/abs/ledger.db"},
		{in: "~/$FINSENSE_TEST_FILE", want: filepath.Join(home, "ledger.db")},
		{in: "$FINSENSE_TEST_UNSET_DIR/ledger.db", want: "/ledger.db"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}
