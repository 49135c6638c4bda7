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

package treestore

import (
	"context"
	"fmt"

	"github.com/carverauto/kioskradar/pkg/logger"
)

// Supported backends.
const (
	BackendFirebase = "firebase"
	BackendNATS     = "nats"
	BackendMemory   = "memory"
)

type Config struct {
	Backend  string         `json:"backend" mapstructure:"backend"`
	Firebase FirebaseConfig `json:"firebase" mapstructure:"firebase"`
	NATS     NATSConfig     `json:"nats" mapstructure:"nats"`
}

type FirebaseConfig struct {
	CredentialsFile string `json:"credentials_file" mapstructure:"credentials_file"`
	DatabaseURL     string `json:"database_url" mapstructure:"database_url"`
}

type NATSConfig struct {
	URL    string `json:"url" mapstructure:"url"`
	Bucket string `json:"bucket" mapstructure:"bucket"`

	// Optional mutual TLS. Either all three files are set or none.
	CertFile   string `json:"cert_file,omitempty" mapstructure:"cert_file"`
	KeyFile    string `json:"key_file,omitempty" mapstructure:"key_file"`
	CAFile     string `json:"ca_file,omitempty" mapstructure:"ca_file"`
	ServerName string `json:"server_name,omitempty" mapstructure:"server_name"`
}

// Secured reports whether the NATS connection should use mutual TLS.
func (c *NATSConfig) Secured() bool {
	return c.CertFile != "" || c.KeyFile != "" || c.CAFile != ""
}

// Validate ensures the configuration is valid and fills in defaults.
func (c *Config) Validate() error {
	if c.Backend == "" {
		c.Backend = BackendFirebase
	}

	switch c.Backend {
	case BackendFirebase:
		return c.validateFirebase()
	case BackendNATS:
		return c.validateNATS()
	case BackendMemory:
		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownBackend, c.Backend)
	}
}

func (c *Config) validateFirebase() error {
	if c.Firebase.CredentialsFile == "" {
		return errCredentialsFileRequired
	}

	if c.Firebase.DatabaseURL == "" {
		return errDatabaseURLRequired
	}

	return nil
}

func (c *Config) validateNATS() error {
	if c.NATS.URL == "" {
		return errNatsURLRequired
	}

	if c.NATS.Secured() {
		if c.NATS.CertFile == "" || c.NATS.KeyFile == "" || c.NATS.CAFile == "" {
			return errNatsTLSIncomplete
		}
	}

	c.setDefaultBucket()

	return nil
}

// setDefaultBucket assigns a default bucket name if none is specified.
func (c *Config) setDefaultBucket() {
	if c.NATS.Bucket == "" {
		c.NATS.Bucket = "kioskradar-tree"
	}
}

// Open validates the configuration and connects the selected backend.
func Open(ctx context.Context, config *Config, log logger.Logger) (Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Backend {
	case BackendFirebase:
		return NewFirebaseStore(ctx, &config.Firebase, log)
	case BackendNATS:
		return NewNATSStore(ctx, &config.NATS, log)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownBackend, config.Backend)
	}
}
