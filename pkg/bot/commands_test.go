package bot

import (
	"context"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/kioskradar/pkg/dashboard"
	"github.com/carverauto/kioskradar/pkg/treestore"
)

func runCommand(t *testing.T, svc *Service, senderID int64, text string) {
	t.Helper()

	svc.handleUpdate(context.Background(), tgbotapi.Update{Message: commandMessage(senderID, text)})
}

func TestCommandStart(t *testing.T) {
	t.Run("owner gets the dashboard", func(t *testing.T) {
		svc, fake, _ := newSeededService(t)

		runCommand(t, svc, testOwnerID, "/start")

		require.Len(t, fake.screens, 1)
		assert.Contains(t, fake.screens[0].screen.Text, "📊 Dashboard Owner")
		assert.NotEmpty(t, fake.screens[0].screen.Keyboard)
	})

	t.Run("others get the public help", func(t *testing.T) {
		svc, fake, _ := newSeededService(t)

		runCommand(t, svc, testOwnerID+1, "/start")

		require.Len(t, fake.texts, 1)
		assert.Equal(t, "Bot Firebase siap.\nPerintah tersedia:\n/start\n/get <key>\n/list", fake.texts[0].text)
		assert.Empty(t, fake.screens)
	})
}

func TestCommandDashboard(t *testing.T) {
	t.Run("owner gets the dashboard", func(t *testing.T) {
		svc, fake, _ := newSeededService(t)

		runCommand(t, svc, testOwnerID, "/dashboard")

		require.Len(t, fake.screens, 1)
		assert.Contains(t, fake.screens[0].screen.Text, "📊 Dashboard Owner")
	})

	t.Run("others are refused", func(t *testing.T) {
		svc, fake, _ := newSeededService(t)

		runCommand(t, svc, testOwnerID+1, "/dashboard")

		require.Len(t, fake.screens, 1)
		assert.Equal(t, "Dashboard hanya bisa diakses oleh owner bot.", fake.screens[0].screen.Text)
		assert.Empty(t, fake.screens[0].screen.Keyboard)
	})
}

func TestCommandSet(t *testing.T) {
	t.Run("stores the value", func(t *testing.T) {
		svc, fake, store := newSeededService(t)

		runCommand(t, svc, testOwnerID, "/set warna merah jambu")

		require.Len(t, fake.texts, 1)
		assert.Equal(t, "Data disimpan: warna = merah jambu", fake.texts[0].text)

		value, err := store.Get(context.Background(), "warna")
		require.NoError(t, err)
		assert.Equal(t, "merah jambu", value)
	})

	t.Run("slash keys write nested paths", func(t *testing.T) {
		svc, _, store := newSeededService(t)

		runCommand(t, svc, testOwnerID, "/set kiosk-alpha/keterangan Baru")

		value, err := store.Get(context.Background(), "kiosk-alpha/keterangan")
		require.NoError(t, err)
		assert.Equal(t, "Baru", value)
	})

	t.Run("usage on missing arguments", func(t *testing.T) {
		for _, cmd := range []string{"/set", "/set key"} {
			svc, fake, _ := newSeededService(t)

			runCommand(t, svc, testOwnerID, cmd)

			require.Len(t, fake.texts, 1, "command %q", cmd)
			assert.Equal(t, "Format: /set <key> <value>", fake.texts[0].text)
		}
	})

	t.Run("others are refused", func(t *testing.T) {
		svc, fake, store := newSeededService(t)

		runCommand(t, svc, testOwnerID+1, "/set greeting diganti")

		require.Len(t, fake.texts, 1)
		assert.Equal(t, "Anda tidak memiliki izin menggunakan perintah ini.", fake.texts[0].text)

		value, err := store.Get(context.Background(), "greeting")
		require.NoError(t, err)
		assert.Equal(t, "Halo dunia", value)
	})
}

func TestCommandGet(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		want string
	}{
		{
			name: "scalar value",
			cmd:  "/get greeting",
			want: "greeting = Halo dunia",
		},
		{
			name: "record value renders as item count",
			cmd:  "/get aplikasi",
			want: "aplikasi = [object] 1 item",
		},
		{
			name: "nested path",
			cmd:  "/get kiosk-alpha/keterangan",
			want: "kiosk-alpha/keterangan = Kios lantai 1",
		},
		{
			name: "missing key",
			cmd:  "/get ghost",
			want: "Data dengan key 'ghost' tidak ditemukan",
		},
		{
			name: "usage without key",
			cmd:  "/get",
			want: "Format: /get <key>",
		},
		{
			name: "usage with too many arguments",
			cmd:  "/get a b",
			want: "Format: /get <key>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, fake, _ := newSeededService(t)

			runCommand(t, svc, testOwnerID, tt.cmd)

			require.Len(t, fake.texts, 1)
			assert.Equal(t, tt.want, fake.texts[0].text)
		})
	}
}

func TestCommandDelete(t *testing.T) {
	t.Run("removes the key", func(t *testing.T) {
		svc, fake, store := newSeededService(t)

		runCommand(t, svc, testOwnerID, "/delete greeting")

		require.Len(t, fake.texts, 1)
		assert.Equal(t, "Data dengan key 'greeting' dihapus", fake.texts[0].text)

		value, err := store.Get(context.Background(), "greeting")
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("missing keys are reported deleted anyway", func(t *testing.T) {
		svc, fake, _ := newSeededService(t)

		runCommand(t, svc, testOwnerID, "/delete ghost")

		require.Len(t, fake.texts, 1)
		assert.Equal(t, "Data dengan key 'ghost' dihapus", fake.texts[0].text)
	})

	t.Run("usage without key", func(t *testing.T) {
		svc, fake, _ := newSeededService(t)

		runCommand(t, svc, testOwnerID, "/delete")

		require.Len(t, fake.texts, 1)
		assert.Equal(t, "Format: /delete <key>", fake.texts[0].text)
	})
}

func TestCommandList(t *testing.T) {
	t.Run("joins the flat listing", func(t *testing.T) {
		svc, fake, store := newSeededService(t)

		runCommand(t, svc, testOwnerID, "/list")

		root, err := store.Root(context.Background())
		require.NoError(t, err)

		require.Len(t, fake.texts, 1)
		assert.Equal(t, strings.Join(dashboard.FlatListLines(root), "\n"), fake.texts[0].text)
	})

	t.Run("empty tree", func(t *testing.T) {
		svc, fake := newTestService(t, treestore.NewMemoryStore())

		runCommand(t, svc, testOwnerID, "/list")

		require.Len(t, fake.texts, 1)
		assert.Equal(t, "Tidak ada data di Firebase", fake.texts[0].text)
	})

	t.Run("others are refused", func(t *testing.T) {
		svc, fake, _ := newSeededService(t)

		runCommand(t, svc, testOwnerID+1, "/list")

		require.Len(t, fake.texts, 1)
		assert.Equal(t, "Anda tidak memiliki izin menggunakan perintah ini.", fake.texts[0].text)
	})
}

func TestCommandUnknownIgnored(t *testing.T) {
	svc, fake, _ := newSeededService(t)

	runCommand(t, svc, testOwnerID, "/frobnicate")

	assert.Empty(t, fake.texts)
	assert.Empty(t, fake.screens)
	assert.Empty(t, fake.edits)
}
