package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/game-controller/internal/domain/game"
)

// Config holds the settings shared by the game controller binaries.
type Config struct {
	// ServerAddress is the gRPC address of gc-server.
	ServerAddress string `yaml:"server_addr" env:"GC_SERVER_ADDR"`
	// MonitorAddress is the HTTP address of the monitor WebSocket. Empty disables it.
	MonitorAddress string `yaml:"monitor_addr" env:"GC_MONITOR_ADDR"`
	// MonitorOrigins lists browser origins allowed to open the monitor socket.
	MonitorOrigins []string `yaml:"monitor_origins" env:"GC_MONITOR_ORIGINS" envSeparator:","`
	// StateFile is the path to the JSON snapshot of the running game.
	StateFile string `yaml:"state_file" env:"GC_STATE_FILE"`
	// JournalFile is the path to the SQLite action journal. Empty disables it.
	JournalFile string `yaml:"journal_file" env:"GC_JOURNAL_FILE"`
	// Timeout is the duration for network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout" env:"GC_TIMEOUT"`
	// TickInterval is how often the clock loop advances the game timers.
	TickInterval time.Duration `yaml:"tick_interval" env:"GC_TICK_INTERVAL"`
	// LogLevel is the minimum level written by the logger.
	LogLevel string `yaml:"log_level" env:"GC_LOG_LEVEL"`
	// OtelEndpoint is the OTLP/HTTP collector URL. Empty disables tracing.
	OtelEndpoint string `yaml:"otel_endpoint" env:"GC_OTEL_ENDPOINT"`
	// Game holds the match rules.
	Game GameSettings `yaml:"game" envPrefix:"GC_GAME_"`
}

// GameSettings mirrors game.Params in configuration files. Zero durations and
// team sizes mean the default. TimeoutsPerHalf is a pointer because zero
// timeouts is a valid rule.
type GameSettings struct {
	HalfDuration    time.Duration `yaml:"half_duration" env:"HALF_DURATION"`
	ReadyDuration   time.Duration `yaml:"ready_duration" env:"READY_DURATION"`
	TimeoutDuration time.Duration `yaml:"timeout_duration" env:"TIMEOUT_DURATION"`
	PenaltyDuration time.Duration `yaml:"penalty_duration" env:"PENALTY_DURATION"`
	PlayersPerTeam  int           `yaml:"players_per_team" env:"PLAYERS_PER_TEAM"`
	TimeoutsPerHalf *uint         `yaml:"timeouts_per_half,omitempty" env:"TIMEOUTS_PER_HALF"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "game-controller.yaml"

	// DefaultStateFilename is the default filename for the game snapshot.
	DefaultStateFilename = "game-controller-state.json"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultTickInterval is the default clock loop period.
	DefaultTickInterval = 100 * time.Millisecond

	// DefaultFilePermissions is the default file permission for written files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerAddressRequired is returned when server address is missing.
	errServerAddressRequired = errors.New("server address must be provided")
)

// Load reads configuration from path, applies GC_* environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills defaults.
func Validate(cfg *Config) error {
	if cfg.ServerAddress == "" {
		return errServerAddressRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ServerAddress); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	if cfg.MonitorAddress != "" {
		if _, err := net.ResolveTCPAddr("tcp", cfg.MonitorAddress); err != nil {
			return fmt.Errorf("invalid monitor address: %w", err)
		}
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}

	if cfg.StateFile == "" {
		cfg.StateFile = DefaultStateFilename
	}

	if err := cfg.Params().Validate(); err != nil {
		return fmt.Errorf("invalid game settings: %w", err)
	}

	return nil
}

// Params returns the match rules, falling back to defaults for unset values.
func (c *Config) Params() *game.Params {
	params := game.DefaultParams()
	s := c.Game

	if s.HalfDuration != 0 {
		params.HalfDuration = s.HalfDuration
	}

	if s.ReadyDuration != 0 {
		params.ReadyDuration = s.ReadyDuration
	}

	if s.TimeoutDuration != 0 {
		params.TimeoutDuration = s.TimeoutDuration
	}

	if s.PenaltyDuration != 0 {
		params.PenaltyDuration = s.PenaltyDuration
	}

	if s.PlayersPerTeam != 0 {
		params.PlayersPerTeam = s.PlayersPerTeam
	}

	if s.TimeoutsPerHalf != nil {
		params.TimeoutsPerHalf = *s.TimeoutsPerHalf
	}

	return params
}
