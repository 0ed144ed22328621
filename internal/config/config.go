// Package config provides Viper-based configuration loading for the game binaries.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MONSTERS_GAME_SEED.
const EnvPrefix = "MONSTERS"

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// Enabled turns on saved games and battle records.
	Enabled         bool          `mapstructure:"enabled"`
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
	// Output is "stderr", "stdout" or a file path. The interactive CLI keeps
	// stdout for game text, so it should not log there.
	Output string `mapstructure:"output"`
}

// GameConfig holds battle tuning and new-game settings.
type GameConfig struct {
	CaptureThreshold float64 `mapstructure:"capture_threshold"`
	CaptureBonus     float64 `mapstructure:"capture_bonus"`
	// ToolBonus is the capture bonus granted by consuming a capture net.
	ToolBonus float64 `mapstructure:"tool_bonus"`
	// Seed makes every random draw reproducible; 0 uses crypto randomness.
	Seed        uint64 `mapstructure:"seed"`
	PlayerName  string `mapstructure:"player_name"`
	StartRegion string `mapstructure:"start_region"`
	// StarterMonster joins the party of a new player.
	StarterMonster string `mapstructure:"starter_monster"`
	// HoursPerMove is the survival time that passes on each move.
	HoursPerMove int `mapstructure:"hours_per_move"`
}

// ContentConfig locates the YAML and Lua content.
type ContentConfig struct {
	MonstersDir            string `mapstructure:"monsters_dir"`
	RegionsFile            string `mapstructure:"regions_file"`
	RecipesFile            string `mapstructure:"recipes_file"`
	ScriptsDir             string `mapstructure:"scripts_dir"`
	ScriptInstructionLimit int    `mapstructure:"script_instruction_limit"`
}

// GameServerConfig holds battle service gRPC settings.
type GameServerConfig struct {
	// GRPCHost is the bind/connect address for the gRPC service.
	GRPCHost string `mapstructure:"grpc_host"`
	// GRPCPort is the TCP port for the gRPC service.
	GRPCPort int `mapstructure:"grpc_port"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the "host:port" gRPC address.
func (g GameServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.GRPCHost, g.GRPCPort)
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Game       GameConfig       `mapstructure:"game"`
	Content    ContentConfig    `mapstructure:"content"`
	Database   DatabaseConfig   `mapstructure:"database"`
	GameServer GameServerConfig `mapstructure:"gameserver"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateLogging(c.Logging),
		validateGame(c.Game),
		validateContent(c.Content),
		validateDatabase(c.Database),
		validateGameServer(c.GameServer),
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

func joined(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(errs, "; "))
}

func validateLogging(l LoggingConfig) error {
	var errs []string
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", l.Format))
	}
	if l.Output == "" {
		errs = append(errs, "logging.output must not be empty")
	}
	return joined(errs)
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.CaptureThreshold < 0 || g.CaptureThreshold > 1 {
		errs = append(errs, fmt.Sprintf("game.capture_threshold must be in [0,1], got %v", g.CaptureThreshold))
	}
	if g.CaptureBonus < 0 || g.CaptureBonus > 1 {
		errs = append(errs, fmt.Sprintf("game.capture_bonus must be in [0,1], got %v", g.CaptureBonus))
	}
	if g.ToolBonus < 0 || g.ToolBonus > 1 {
		errs = append(errs, fmt.Sprintf("game.tool_bonus must be in [0,1], got %v", g.ToolBonus))
	}
	if g.PlayerName == "" {
		errs = append(errs, "game.player_name must not be empty")
	}
	if g.HoursPerMove < 0 {
		errs = append(errs, fmt.Sprintf("game.hours_per_move must be >= 0, got %d", g.HoursPerMove))
	}
	return joined(errs)
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.MonstersDir == "" {
		errs = append(errs, "content.monsters_dir must not be empty")
	}
	if c.RegionsFile == "" {
		errs = append(errs, "content.regions_file must not be empty")
	}
	if c.RecipesFile == "" {
		errs = append(errs, "content.recipes_file must not be empty")
	}
	if c.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("content.script_instruction_limit must be >= 0, got %d", c.ScriptInstructionLimit))
	}
	return joined(errs)
}

// validateDatabase only checks connection settings when the database is enabled.
func validateDatabase(d DatabaseConfig) error {
	if !d.Enabled {
		return nil
	}
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
	return joined(errs)
}

func validateGameServer(g GameServerConfig) error {
	var errs []string
	if g.GRPCHost == "" {
		errs = append(errs, "gameserver.grpc_host must not be empty")
	}
	if g.GRPCPort < 1 || g.GRPCPort > 65535 {
		errs = append(errs, fmt.Sprintf("gameserver.grpc_port must be 1-65535, got %d", g.GRPCPort))
	}
	if g.ShutdownTimeout < 0 {
		errs = append(errs, "gameserver.shutdown_timeout must not be negative")
	}
	return joined(errs)
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result. An empty path loads defaults
// and environment overrides only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and MONSTERS_ environment
// overrides applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
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
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("game.capture_threshold", 0.35)
	v.SetDefault("game.capture_bonus", 0.0)
	v.SetDefault("game.tool_bonus", 0.15)
	v.SetDefault("game.seed", 0)
	v.SetDefault("game.player_name", "Aldric")
	v.SetDefault("game.start_region", "")
	v.SetDefault("game.starter_monster", "Squire Hound")
	v.SetDefault("game.hours_per_move", 1)

	v.SetDefault("content.monsters_dir", "content/monsters")
	v.SetDefault("content.regions_file", "content/regions.yaml")
	v.SetDefault("content.recipes_file", "content/recipes.yaml")
	v.SetDefault("content.scripts_dir", "content/scripts")
	v.SetDefault("content.script_instruction_limit", 100000)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "monsters")
	v.SetDefault("database.password", "monsters")
	v.SetDefault("database.name", "monsters")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("gameserver.grpc_host", "127.0.0.1")
	v.SetDefault("gameserver.grpc_port", 50051)
	v.SetDefault("gameserver.shutdown_timeout", "10s")
}
