package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Game   GameConfig   `mapstructure:"game"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type GameConfig struct {
	// TickRate is the authoritative simulation rate in ticks per second.
	TickRate int `mapstructure:"tick_rate"`
	// CleanupIntervalSeconds is how often abandoned rooms are swept.
	CleanupIntervalSeconds int `mapstructure:"cleanup_interval_seconds"`
}

// DefaultConfig returns the built-in defaults without touching disk.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddress:    ":3001",
			RPCAddress:     ":3002",
			MetricsAddress: ":9091",
		},
		Game: GameConfig{
			TickRate:               60,
			CleanupIntervalSeconds: 300,
		},
	}
}

// LoadConfig reads config.yaml from path. A missing file is not an error;
// every key has a default so the server can boot bare.
func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":3001")
	viper.SetDefault("server.rpc_address", ":3002")
	viper.SetDefault("server.metrics_address", ":9091")
	viper.SetDefault("game.tick_rate", 60)
	viper.SetDefault("game.cleanup_interval_seconds", 300)

	viper.AutomaticEnv()

	if err = viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, err
		}
	}

	err = viper.Unmarshal(&config)
	return
}
