// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"errors"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
// A missing config file is not an error, defaults are used instead.
type Config struct {
	Environment string `mapstructure:"GO_ENV"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	BankName    string `mapstructure:"BANK_NAME"`
}

// Load reads configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("GO_ENV", "production")
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("BANK_NAME", "Bank System Simulator")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}
