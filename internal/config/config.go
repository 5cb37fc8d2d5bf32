// Package config loads process configuration from the environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"espresso/internal/domain"
)

// Journal backends.
const (
	JournalMemory   = "memory"
	JournalPostgres = "postgres"
	JournalSQLite   = "sqlite"
)

// Config is the process-wide configuration, read once at startup.
type Config struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	BeansPerEspresso     int     `mapstructure:"beans_per_espresso" yaml:"beans_per_espresso"`
	LitresPerEspresso    float64 `mapstructure:"litres_used_per_espresso" yaml:"litres_used_per_espresso"`
	LitresUsedPerDescale float64 `mapstructure:"litres_used_per_descale" yaml:"litres_used_per_descale"`
	LitresPerDescale     float64 `mapstructure:"litres_per_descale" yaml:"litres_per_descale"`
	BeansContainer       int     `mapstructure:"beans_container" yaml:"beans_container"`
	WaterContainer       float64 `mapstructure:"water_container" yaml:"water_container"`
	WaterSupplyIsMains   bool    `mapstructure:"water_supply_is_mains" yaml:"water_supply_is_mains"`
	LegacyAccounting     bool    `mapstructure:"legacy_accounting" yaml:"legacy_accounting"`

	Journal     string `mapstructure:"journal" yaml:"journal"`
	DatabaseURL string `mapstructure:"database_url" yaml:"-"`
	SQLitePath  string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
}

// envNames maps keys whose environment variable is not simply the upper-cased key.
var envNames = map[string]string{
	"beans_per_espresso": "BEANS_USED_PER_ESPRESSO",
}

// New returns a viper instance with defaults and environment bindings set.
func New() *viper.Viper {
	v := viper.New()
	s := domain.DefaultSettings()

	v.SetDefault("addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("beans_per_espresso", s.BeansPerEspresso)
	v.SetDefault("litres_used_per_espresso", s.LitresPerEspresso)
	v.SetDefault("litres_used_per_descale", s.LitresUsedPerDescale)
	v.SetDefault("litres_per_descale", s.LitresPerDescale)
	v.SetDefault("beans_container", s.BeansCapacity)
	v.SetDefault("water_container", s.WaterCapacity)
	v.SetDefault("water_supply_is_mains", false)
	v.SetDefault("legacy_accounting", s.LegacyAccounting)
	v.SetDefault("journal", JournalMemory)
	v.SetDefault("database_url", "")
	v.SetDefault("sqlite_path", "espresso.db")

	for _, key := range v.AllKeys() {
		name, ok := envNames[key]
		if !ok {
			name = strings.ToUpper(key)
		}
		_ = v.BindEnv(key, name)
	}
	return v
}

// Load reads configuration from the environment and, when path is set, from
// that config file. Environment variables win over the file.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Settings returns the machine constants.
func (c Config) Settings() domain.Settings {
	return domain.Settings{
		BeansPerEspresso:     c.BeansPerEspresso,
		LitresPerEspresso:    c.LitresPerEspresso,
		LitresUsedPerDescale: c.LitresUsedPerDescale,
		LitresPerDescale:     c.LitresPerDescale,
		BeansCapacity:        c.BeansContainer,
		WaterCapacity:        c.WaterContainer,
		LegacyAccounting:     c.LegacyAccounting,
	}
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	errs := []error{c.Settings().Validate()}
	switch c.Journal {
	case JournalMemory:
	case JournalPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres journal"))
		}
	case JournalSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite journal"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown journal %q", c.Journal))
	}
	return errors.Join(errs...)
}
