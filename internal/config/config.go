package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Ledger LedgerConfig
	Grace  GraceConfig
	Output OutputConfig
	Parks  map[string]ParkConfig
}

// LedgerConfig selects the ledger snapshot source.
type LedgerConfig struct {
	Source string // "csv" or "sqlite"
	Path   string
	Table  string // sqlite table name, the worksheet selector
}

// GraceConfig holds late-fee escalation settings. Amounts are cents.
type GraceConfig struct {
	Penalty1Cents int64 `mapstructure:"penalty1_cents"`
	Penalty2Cents int64 `mapstructure:"penalty2_cents"`
	PeriodDays    int   `mapstructure:"period_days"`
}

// OutputConfig holds artifact destination settings.
type OutputConfig struct {
	Dir       string
	EmitEmpty bool `mapstructure:"emit_empty"`
}

// ParkConfig is the static identity of one managed park.
type ParkConfig struct {
	Name         string
	Address      string
	CityZip      string `mapstructure:"city_zip"`
	ManagerPhone string `mapstructure:"manager_phone"`
	Email        string
}

// Load reads configuration from file and env. Env var overrides use prefix LATENOTICES_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("ledger.source", "sqlite")
	v.SetDefault("ledger.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "latenotices", "ledger.db"))
	v.SetDefault("ledger.table", "lots")
	v.SetDefault("grace.penalty1_cents", 5000)
	v.SetDefault("grace.penalty2_cents", 10000)
	v.SetDefault("grace.period_days", 5)
	v.SetDefault("output.dir", "resources")
	v.SetDefault("output.emit_empty", true)

	v.SetDefault("parks.ct.name", "Cross Timbers Mobile Home Park")
	v.SetDefault("parks.ct.address", "4507 West Oak Street")
	v.SetDefault("parks.ct.city_zip", "Palestine, Texas 75801")
	v.SetDefault("parks.ct.manager_phone", "(903)600-0647")
	v.SetDefault("parks.ct.email", "crosstimbersmhp@yahoo.com")

	v.SetDefault("parks.mesa.name", "Mesa Mobile Home Park")
	v.SetDefault("parks.mesa.address", "1118 North Fort Street")
	v.SetDefault("parks.mesa.city_zip", "Palestine, Texas 75801")
	v.SetDefault("parks.mesa.manager_phone", "(903)600-0647")
	v.SetDefault("parks.mesa.email", "mesamhp@yahoo.com")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("LATENOTICES_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "latenotices"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("LATENOTICES")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if c.Ledger.Source != "csv" && c.Ledger.Source != "sqlite" {
		return fmt.Errorf("ledger.source must be csv or sqlite, got %q", c.Ledger.Source)
	}
	if c.Grace.PeriodDays <= 0 {
		return fmt.Errorf("grace.period_days must be positive, got %d", c.Grace.PeriodDays)
	}
	if c.Grace.Penalty1Cents < 0 || c.Grace.Penalty2Cents < 0 {
		return fmt.Errorf("grace penalties must not be negative")
	}
	for code, p := range c.Parks {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("park %q has no name", code)
		}
	}
	return nil
}
