package config

import (
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/Veraticus/finsense/internal/common"
	"github.com/Veraticus/finsense/internal/engine"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable overrides.
const EnvPrefix = "FINSENSE"

// Default values.
const (
	DefaultDatabasePath = "~/.local/share/finsense/finsense.db"
	DefaultServerAddr   = "127.0.0.1:8080"
	DefaultCertDir      = "~/.local/share/finsense/certs"
)

// Settings are the validated runtime settings.
type Settings struct {
	DatabasePath     string
	ServerAddr       string
	CertDir          string
	CategoriesFile   string
	RulesFile        string
	FallbackCategory string
	LogLevel         string
	LogFormat        string
	Policy           engine.Policy
	ServerTLS        bool
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("server.cert_dir", DefaultCertDir)
	v.SetDefault("policy.high_threshold", engine.DefaultHighThreshold)
	v.SetDefault("policy.low_threshold", engine.DefaultLowThreshold)
	v.SetDefault("policy.high_impact_overrides_confidence", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads settings from v and validates them.
func Load(v *viper.Viper) (Settings, error) {
	SetDefaults(v)

	s := Settings{
		DatabasePath:     ExpandPath(v.GetString("database.path")),
		ServerAddr:       v.GetString("server.addr"),
		ServerTLS:        v.GetBool("server.tls"),
		CertDir:          ExpandPath(v.GetString("server.cert_dir")),
		CategoriesFile:   ExpandPath(v.GetString("categories.file")),
		RulesFile:        ExpandPath(v.GetString("rules.file")),
		FallbackCategory: v.GetString("rules.fallback_category"),
		LogLevel:         v.GetString("logging.level"),
		LogFormat:        v.GetString("logging.format"),
		Policy: engine.Policy{
			HighThreshold:                 v.GetFloat64("policy.high_threshold"),
			LowThreshold:                  v.GetFloat64("policy.low_threshold"),
			HighImpactOverridesConfidence: v.GetBool("policy.high_impact_overrides_confidence"),
		},
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks every setting.
func (s Settings) Validate() error {
	if s.DatabasePath == "" {
		return fmt.Errorf("%w: database.path is empty", common.ErrInvalidConfig)
	}
	if err := s.Policy.Validate(); err != nil {
		return err
	}
	if _, _, err := net.SplitHostPort(s.ServerAddr); err != nil {
		return fmt.Errorf("%w: server.addr %q: %w", common.ErrInvalidConfig, s.ServerAddr, err)
	}
	level, err := common.ParseLevel(s.LogLevel)
	if err != nil {
		return err
	}
	_, err = common.NewHandler(io.Discard, level, s.LogFormat)
	return err
}

// KeyReplacer maps nested keys like server.addr to SERVER_ADDR.
func KeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}
