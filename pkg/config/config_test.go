package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/kioskradar/pkg/treestore"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "kioskradar.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `{
		"telegram": {"token": "123:abc", "owner_id": 777000111},
		"store": {"backend": "memory"},
		"ops": {"listen_addr": ":8090"},
		"logging": {"level": "debug"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, int64(777000111), cfg.Telegram.OwnerID)
	assert.Equal(t, treestore.BackendMemory, cfg.Store.Backend)
	assert.Equal(t, ":8090", cfg.Ops.ListenAddr)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadNATSDefaults(t *testing.T) {
	path := writeConfigFile(t, `{
		"telegram": {"token": "123:abc", "owner_id": 1},
		"store": {"backend": "nats", "nats": {"url": "nats://127.0.0.1:4222"}}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Store.NATS.URL)
	assert.Equal(t, "kioskradar-tree", cfg.Store.NATS.Bucket)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfigFile(t, `{"telegram": `)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("KIOSKRADAR_TELEGRAM_TOKEN", "env:token")
	t.Setenv("KIOSKRADAR_TELEGRAM_OWNER_ID", "42")
	t.Setenv("KIOSKRADAR_STORE_BACKEND", "memory")
	t.Setenv("KIOSKRADAR_OPS_LISTEN_ADDR", ":9999")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env:token", cfg.Telegram.Token)
	assert.Equal(t, int64(42), cfg.Telegram.OwnerID)
	assert.Equal(t, treestore.BackendMemory, cfg.Store.Backend)
	assert.Equal(t, ":9999", cfg.Ops.ListenAddr)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `{
		"telegram": {"token": "file:token", "owner_id": 1},
		"store": {"backend": "memory"}
	}`)

	t.Setenv("KIOSKRADAR_TELEGRAM_TOKEN", "env:token")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env:token", cfg.Telegram.Token)
	assert.Equal(t, int64(1), cfg.Telegram.OwnerID)
}

func TestLoadConfigPathFromEnvironment(t *testing.T) {
	path := writeConfigFile(t, `{
		"telegram": {"token": "123:abc", "owner_id": 7},
		"store": {"backend": "memory"}
	}`)

	t.Setenv("KIOSKRADAR_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Telegram.OwnerID)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name: "valid memory backend",
			config: Config{
				Telegram: TelegramConfig{Token: "123:abc", OwnerID: 1},
				Store:    treestore.Config{Backend: treestore.BackendMemory},
			},
		},
		{
			name: "missing token",
			config: Config{
				Telegram: TelegramConfig{OwnerID: 1},
				Store:    treestore.Config{Backend: treestore.BackendMemory},
			},
			wantErr: errTelegramTokenRequired,
		},
		{
			name: "missing owner",
			config: Config{
				Telegram: TelegramConfig{Token: "123:abc"},
				Store:    treestore.Config{Backend: treestore.BackendMemory},
			},
			wantErr: errOwnerIDRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestValidateDelegatesToStore(t *testing.T) {
	cfg := Config{
		Telegram: TelegramConfig{Token: "123:abc", OwnerID: 1},
		Store:    treestore.Config{Backend: "carrier-pigeon"},
	}

	require.Error(t, cfg.Validate())
}
