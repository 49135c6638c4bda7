/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads service configuration from a JSON file and the
// environment. Every key can be supplied as a KIOSKRADAR_* environment
// variable, so the service runs without a config file at all.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/carverauto/kioskradar/pkg/logger"
	"github.com/carverauto/kioskradar/pkg/treestore"
)

var (
	errTelegramTokenRequired = errors.New("telegram token is required")
	errOwnerIDRequired       = errors.New("telegram owner id is required")
)

const (
	envPrefix     = "KIOSKRADAR"
	envConfigPath = "KIOSKRADAR_CONFIG"

	defaultConfigName = "kioskradar"
	systemConfigDir   = "/etc/kioskradar"
)

// TelegramConfig identifies the bot and the single operator allowed to
// use the dashboard.
type TelegramConfig struct {
	Token   string `json:"token" mapstructure:"token"`
	OwnerID int64  `json:"owner_id" mapstructure:"owner_id"`
}

// OpsConfig configures the health endpoint listener. An empty address
// disables it.
type OpsConfig struct {
	ListenAddr string `json:"listen_addr" mapstructure:"listen_addr"`
}

// Config is the full service configuration.
type Config struct {
	Telegram TelegramConfig   `json:"telegram" mapstructure:"telegram"`
	Store    treestore.Config `json:"store" mapstructure:"store"`
	Ops      OpsConfig        `json:"ops" mapstructure:"ops"`
	Logging  logger.Config    `json:"logging" mapstructure:"logging"`
}

// Load reads the configuration from the given file. When path is empty
// it falls back to $KIOSKRADAR_CONFIG, then to kioskradar.json in the
// working directory or /etc/kioskradar; running without any file is
// fine as long as the environment carries the required keys.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(envConfigPath)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("json")
		v.AddConfigPath(".")
		v.AddConfigPath(systemConfigDir)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError

		// Only an explicitly named file has to exist.
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers every key so environment variables are picked
// up even without a config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.owner_id", 0)
	v.SetDefault("store.backend", "")
	v.SetDefault("store.firebase.credentials_file", "")
	v.SetDefault("store.firebase.database_url", "")
	v.SetDefault("store.nats.url", "")
	v.SetDefault("store.nats.bucket", "")
	v.SetDefault("store.nats.cert_file", "")
	v.SetDefault("store.nats.key_file", "")
	v.SetDefault("store.nats.ca_file", "")
	v.SetDefault("store.nats.server_name", "")
	v.SetDefault("ops.listen_addr", "")
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.debug", false)
	v.SetDefault("logging.output", "")
	v.SetDefault("logging.time_format", "")
}

// Validate ensures the configuration is complete and fills in store
// defaults.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return errTelegramTokenRequired
	}

	if c.Telegram.OwnerID == 0 {
		return errOwnerIDRequired
	}

	return c.Store.Validate()
}
