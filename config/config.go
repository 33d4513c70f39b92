// Copyright 2025 covisit Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration for the covisit engine and CLI.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Recommend RecommendConfig `mapstructure:"recommend"`
}

// DataConfig describes how to read the interaction table.
type DataConfig struct {
	// UserColumn is the name of the user id column.
	UserColumn string `mapstructure:"user_column" validate:"required"`
	// ItemColumn is the name of the item id column.
	ItemColumn string `mapstructure:"item_column" validate:"required"`
}

// RecommendConfig controls scoring and recommendation.
type RecommendConfig struct {
	// Jobs is the degree of parallelism for pair scoring.
	Jobs int `mapstructure:"jobs" validate:"gte=1"`
	// TopN is the number of recommendations returned per item.
	TopN int `mapstructure:"top_n" validate:"gte=1"`
}

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			UserColumn: "user_id",
			ItemColumn: "item_id",
		},
		Recommend: RecommendConfig{
			Jobs: 2,
			TopN: 10,
		},
	}
}

func setDefault() {
	defaultConfig := GetDefaultConfig()
	viper.SetDefault("data.user_column", defaultConfig.Data.UserColumn)
	viper.SetDefault("data.item_column", defaultConfig.Data.ItemColumn)
	viper.SetDefault("recommend.jobs", defaultConfig.Recommend.Jobs)
	viper.SetDefault("recommend.top_n", defaultConfig.Recommend.TopN)
}

// Validate checks the configuration.
func (config *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.Trace(err)
	}
	if config.Data.UserColumn == config.Data.ItemColumn {
		return errors.NotValidf("identical user and item columns %q", config.Data.UserColumn)
	}
	return nil
}

// LoadConfig loads the configuration from a toml file. An empty path returns
// the default configuration.
func LoadConfig(path string) (*Config, error) {
	setDefault()
	viper.SetConfigType("toml")
	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	// environment variables override file values, e.g. COVISIT_RECOMMEND_JOBS
	viper.SetEnvPrefix("covisit")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, errors.Trace(err)
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &config, nil
}
