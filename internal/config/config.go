package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type RoomConfig struct {
	MaxPlayers       int     `mapstructure:"max_players"`
	ProximityRadius  float64 `mapstructure:"proximity_radius"`
	AllowTranslation bool    `mapstructure:"allow_translation"`
}

type ReclaimConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	StaleAfter    time.Duration `mapstructure:"stale_after"`
}

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`
	Room       RoomConfig    `mapstructure:"room"`
	Reclaim    ReclaimConfig `mapstructure:"reclaim"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("room.max_players", 50)
	v.SetDefault("room.proximity_radius", 50.0)
	v.SetDefault("room.allow_translation", true)
	v.SetDefault("reclaim.sweep_interval", "1h")
	v.SetDefault("reclaim.stale_after", "72h")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("config file not found (%s), using defaults\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
