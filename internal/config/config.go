package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode           string        `mapstructure:"mode"`
	Port           int           `mapstructure:"port"`
	StaticPath     string        `mapstructure:"static_path"`
	ReadLimit      int64         `mapstructure:"read_limit"`
	PingPeriod     time.Duration `mapstructure:"ping_period"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	SendBuffer     int           `mapstructure:"send_buffer"`
	Secret         string        `mapstructure:"secret"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`

	Room RoomConfig `mapstructure:"room"`
	Chat ChatConfig `mapstructure:"chat"`
	Sync SyncConfig `mapstructure:"sync"`
}

type RoomConfig struct {
	MaxUsers      int    `mapstructure:"max_users"`
	MaxUsersLimit int    `mapstructure:"max_users_limit"`
	CodeLength    int    `mapstructure:"code_length"`
	HostLeave     string `mapstructure:"host_leave"`
}

type ChatConfig struct {
	MaxLength     int `mapstructure:"max_length"`
	HistoryOnJoin int `mapstructure:"history_on_join"`
}

// SyncConfig is handed to clients so every viewer converges the same way.
type SyncConfig struct {
	Tolerance   time.Duration `mapstructure:"tolerance"`
	MinInterval time.Duration `mapstructure:"min_interval"`
	EchoWindow  time.Duration `mapstructure:"echo_window"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("write_wait", "10s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("secret", "change-me")
	v.SetDefault("allowed_origins", []string{"*"})

	v.SetDefault("room.max_users", 20)
	v.SetDefault("room.max_users_limit", 20)
	v.SetDefault("room.code_length", 8)
	v.SetDefault("room.host_leave", "close")

	v.SetDefault("chat.max_length", 500)
	v.SetDefault("chat.history_on_join", 50)

	v.SetDefault("sync.tolerance", "2s")
	v.SetDefault("sync.min_interval", "1s")
	v.SetDefault("sync.echo_window", "1s")
}

// Load reads config/config.<CONFIG_ENV>.yaml on top of the defaults.
// WATCH_* environment variables override both, e.g. WATCH_ROOM_HOST_LEAVE.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("WATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	logger := log.With().Str("module", "config").Logger()
	if err := v.ReadInConfig(); err != nil {
		logger.Warn().Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		logger.Info().Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Info().
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("static", cfg.StaticPath).
		Str("host_leave", cfg.Room.HostLeave).
		Msg("config ready")
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Room.HostLeave {
	case "close", "transfer":
	default:
		return fmt.Errorf("room.host_leave must be close or transfer, got %q", c.Room.HostLeave)
	}
	if c.Room.MaxUsersLimit < 1 {
		return fmt.Errorf("room.max_users_limit must be positive")
	}
	if c.Room.MaxUsers < 1 || c.Room.MaxUsers > c.Room.MaxUsersLimit {
		return fmt.Errorf("room.max_users must be within 1..%d", c.Room.MaxUsersLimit)
	}
	if c.Room.CodeLength < 4 {
		return fmt.Errorf("room.code_length must be at least 4")
	}
	if c.SendBuffer < 1 {
		return fmt.Errorf("send_buffer must be positive")
	}
	if c.PingPeriod <= 0 || c.WriteWait <= 0 {
		return fmt.Errorf("ping_period and write_wait must be positive")
	}
	return nil
}
