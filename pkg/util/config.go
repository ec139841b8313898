package util

import (
	"github.com/spf13/viper"
)

// ReadConfig loads data/routeplanner.yaml (or a copy in the working
// directory). Environment variables prefixed ROUTEPLANNER_ override any
// key in the file.
func ReadConfig() error {
	viper.SetConfigName("routeplanner")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./data/")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("routeplanner")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return WrapErrorf(err, ErrInternalServerError, "util.ReadConfig")
	}
	return nil
}
