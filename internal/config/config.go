// Package config provides Viper-based configuration loading for the arena
// simulator and its validator service.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/arena/internal/content"
	"github.com/cory-johannsen/arena/internal/game/formula"
)

// EngineConfig holds combat engine settings.
type EngineConfig struct {
	// TurnCap bounds the number of turns before overtime is declared.
	TurnCap int `mapstructure:"turn_cap"`
	// DefaultFormula names the formula adapter used when an encounter
	// does not choose one.
	DefaultFormula string `mapstructure:"default_formula"`
	// Verbose fills the human-readable trace of every result.
	Verbose bool `mapstructure:"verbose"`
}

// ContentConfig names optional directories merged over the embedded catalog.
type ContentConfig struct {
	WeaponsDir    string `mapstructure:"weapons_dir"`
	SkillsDir     string `mapstructure:"skills_dir"`
	PetsDir       string `mapstructure:"pets_dir"`
	ConditionsDir string `mapstructure:"conditions_dir"`
	ScriptsDir    string `mapstructure:"scripts_dir"`
	// ScriptInstructionLimit bounds every Lua hook call; 0 selects the
	// scripting default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// Overrides converts c into catalog load overrides.
func (c ContentConfig) Overrides() content.Overrides {
	return content.Overrides{
		WeaponsDir:    c.WeaponsDir,
		SkillsDir:     c.SkillsDir,
		PetsDir:       c.PetsDir,
		ConditionsDir: c.ConditionsDir,
		ScriptsDir:    c.ScriptsDir,
	}
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is a zap sink URL or path; empty means stderr.
	Output string `mapstructure:"output"`
}

// ValidatorConfig holds settings for the fight validation worker.
type ValidatorConfig struct {
	// PollInterval is the delay between scans for pending fights.
	PollInterval time.Duration `mapstructure:"poll_interval"`
	// BatchSize is the maximum number of fights validated per scan.
	BatchSize int `mapstructure:"batch_size"`
	// ResultTTL is how long a stored fight is kept before it expires.
	ResultTTL time.Duration `mapstructure:"result_ttl"`
}

// Config is the top-level application configuration.
type Config struct {
	Engine    EngineConfig    `mapstructure:"engine"`
	Content   ContentConfig   `mapstructure:"content"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Validator ValidatorConfig `mapstructure:"validator"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateEngine(c.Engine),
		validateContent(c.Content),
		validateDatabase(c.Database),
		validateLogging(c.Logging),
		validateValidator(c.Validator),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateEngine(e EngineConfig) error {
	var errs []string
	if e.TurnCap < 1 {
		errs = append(errs, fmt.Sprintf("engine.turn_cap must be >= 1, got %d", e.TurnCap))
	}
	if _, err := formula.Lookup(e.DefaultFormula); err != nil {
		errs = append(errs, fmt.Sprintf("engine.default_formula must be one of %v, got %q", formula.Names(), e.DefaultFormula))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	if c.ScriptInstructionLimit < 0 {
		return fmt.Errorf("content.script_instruction_limit must be >= 0, got %d", c.ScriptInstructionLimit)
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateValidator(v ValidatorConfig) error {
	var errs []string
	if v.PollInterval <= 0 {
		errs = append(errs, fmt.Sprintf("validator.poll_interval must be > 0, got %s", v.PollInterval))
	}
	if v.BatchSize < 1 {
		errs = append(errs, fmt.Sprintf("validator.batch_size must be >= 1, got %d", v.BatchSize))
	}
	if v.ResultTTL <= 0 {
		errs = append(errs, fmt.Sprintf("validator.result_ttl must be > 0, got %s", v.ResultTTL))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path loads defaults and
// environment overrides only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with ARENA_ prefix
	v.SetEnvPrefix("ARENA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.turn_cap", 200)
	v.SetDefault("engine.default_formula", formula.ParityName)
	v.SetDefault("engine.verbose", false)

	v.SetDefault("content.weapons_dir", "")
	v.SetDefault("content.skills_dir", "")
	v.SetDefault("content.pets_dir", "")
	v.SetDefault("content.conditions_dir", "")
	v.SetDefault("content.scripts_dir", "")
	v.SetDefault("content.script_instruction_limit", 0)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "arena")
	v.SetDefault("database.password", "arena")
	v.SetDefault("database.name", "arena")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "")

	v.SetDefault("validator.poll_interval", "5s")
	v.SetDefault("validator.batch_size", 50)
	v.SetDefault("validator.result_ttl", "720h")
}
