package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

// GameConfig carries the tunables of one game profile. Durations are
// configured in milliseconds to match the wire protocol.
type GameConfig struct {
	DefaultRoundDurationMs int `mapstructure:"default_round_duration_ms"`
	MinRoundDurationMs     int `mapstructure:"min_round_duration_ms"`
	MaxRoundDurationMs     int `mapstructure:"max_round_duration_ms"`
	MaxDrawsPerPlayer      int `mapstructure:"max_draws_per_player"`
	TallyDelayMs           int `mapstructure:"tally_delay_ms"`
	CountdownDelayMs       int `mapstructure:"countdown_delay_ms"`
}

func (g GameConfig) DefaultRoundDuration() time.Duration {
	return time.Duration(g.DefaultRoundDurationMs) * time.Millisecond
}

func (g GameConfig) MinRoundDuration() time.Duration {
	return time.Duration(g.MinRoundDurationMs) * time.Millisecond
}

func (g GameConfig) MaxRoundDuration() time.Duration {
	return time.Duration(g.MaxRoundDurationMs) * time.Millisecond
}

// AutoAdvanceDelay is the tally display time plus the visible countdown
// before the next round starts on its own.
func (g GameConfig) AutoAdvanceDelay() time.Duration {
	return time.Duration(g.TallyDelayMs+g.CountdownDelayMs) * time.Millisecond
}

type DatabaseConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":3000")
	viper.SetDefault("server.rpc_address", ":3001")
	viper.SetDefault("server.metrics_address", ":9100")
	viper.SetDefault("game.default_round_duration_ms", 45000)
	viper.SetDefault("game.min_round_duration_ms", 10000)
	viper.SetDefault("game.max_round_duration_ms", 120000)
	viper.SetDefault("game.max_draws_per_player", 3)
	viper.SetDefault("game.tally_delay_ms", 2000)
	viper.SetDefault("game.countdown_delay_ms", 5000)
	viper.SetDefault("database.enabled", false)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		// A missing config file is fine, the defaults above apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	err = viper.Unmarshal(&config)
	return
}
