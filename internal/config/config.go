package config

import (
	"strings"

	"github.com/spf13/viper"
)

const productionEnv = "production"

type Config struct {
	ServerPort  string `mapstructure:"SERVER_PORT"`
	GPXDir      string `mapstructure:"GPX_DIR"`
	StaticDir   string `mapstructure:"STATIC_DIR"`
	AppEnv      string `mapstructure:"APP_ENV"`
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
}

// Production reports whether the built client should be served.
func (c Config) Production() bool {
	return c.AppEnv == productionEnv
}

func Load() Config {
	viper.AutomaticEnv()
	_ = viper.BindEnv("SERVER_PORT", "SERVER_PORT", "PORT")
	_ = viper.BindEnv("APP_ENV", "APP_ENV", "NODE_ENV")
	viper.SetDefault("SERVER_PORT", ":3001")
	viper.SetDefault("GPX_DIR", "gpx-files")
	viper.SetDefault("STATIC_DIR", "client/build")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("CORS_ORIGINS", "*")

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	if cfg.ServerPort != "" && !strings.Contains(cfg.ServerPort, ":") {
		cfg.ServerPort = ":" + cfg.ServerPort
	}
	return cfg
}
