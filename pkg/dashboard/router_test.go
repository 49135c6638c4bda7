package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/kioskradar/pkg/logger"
	"github.com/carverauto/kioskradar/pkg/models"
	"github.com/carverauto/kioskradar/pkg/treestore"
)

const testOwnerID = int64(777000111)

func newTestRouter(t *testing.T) (*Router, *treestore.MemoryStore) {
	t.Helper()

	store := treestore.NewMemoryStore()
	store.Seed(fixtureTree())

	return NewRouter(store, NewRenderer(store), testOwnerID, logger.NewTestLogger()), store
}

// failingStore returns the same error from every operation.
type failingStore struct {
	err error
}

var _ treestore.Store = (*failingStore)(nil)

func (s *failingStore) Get(context.Context, string) (models.Node, error) { return nil, s.err }
func (s *failingStore) Set(context.Context, string, models.Node) error   { return s.err }
func (s *failingStore) Delete(context.Context, string) error             { return s.err }
func (s *failingStore) Root(context.Context) (models.Record, error)      { return nil, s.err }
func (*failingStore) Close() error                                       { return nil }

func TestRouteDeniesOtherSenders(t *testing.T) {
	router, store := newTestRouter(t)

	screen, pending, err := router.Route(context.Background(), testOwnerID+1, "sound:kiosk-alpha:dev-1")
	require.NoError(t, err)
	require.Nil(t, pending)

	assert.Equal(t, "Dashboard hanya bisa diakses oleh owner bot.", screen.Text)
	assert.Empty(t, screen.Keyboard)

	// The press must not have reached the store.
	value, err := store.Get(context.Background(), "kiosk-alpha/perangkat/dev-1/suara")
	require.NoError(t, err)
	assert.Equal(t, "on", value)
}

func TestRouteFallsBackToDashboard(t *testing.T) {
	router, _ := newTestRouter(t)

	tokens := []string{"refresh", "", "bogus", "bogus:arg", "refresh:extra", "device:a:b:c:d"}

	for _, token := range tokens {
		screen, pending, err := router.Route(context.Background(), testOwnerID, token)
		require.NoError(t, err, "token %q", token)
		require.Nil(t, pending, "token %q", token)
		assert.Contains(t, screen.Text, "📊 Dashboard Owner", "token %q", token)
	}
}

func TestRouteNavigationScreens(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		wantText string
	}{
		{
			name:     "list",
			token:    "list",
			wantText: "📋 Semua data:",
		},
		{
			name:     "apps",
			token:    "apps",
			wantText: "📱 Pilih aplikasi:",
		},
		{
			name:     "app detail",
			token:    "app:kiosk-alpha",
			wantText: "📱 Aplikasi: kiosk-alpha",
		},
		{
			name:     "devices",
			token:    "devices:kiosk-alpha",
			wantText: "📱 Perangkat aplikasi: kiosk-alpha",
		},
		{
			name:     "device detail",
			token:    "device:kiosk-alpha:dev-1",
			wantText: "📱 Perangkat: dev-1",
		},
		{
			name:     "help",
			token:    "help_set",
			wantText: "❕ Panduan tambah data:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter(t)

			screen, pending, err := router.Route(context.Background(), testOwnerID, tt.token)
			require.NoError(t, err)
			require.Nil(t, pending)
			assert.Contains(t, screen.Text, tt.wantText)
		})
	}
}

func TestRouteArmsTextCaptures(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  PendingAction
	}{
		{
			name:  "edit description",
			token: "app_edit_desc:kiosk-alpha",
			want:  PendingAction{Kind: PendingAppField, AppID: "kiosk-alpha", Field: AppFieldDescription},
		},
		{
			name:  "edit pin",
			token: "app_edit_pin:kiosk-alpha",
			want:  PendingAction{Kind: PendingAppField, AppID: "kiosk-alpha", Field: AppFieldPIN},
		},
		{
			name:  "device message",
			token: "msg:kiosk-alpha:dev-1",
			want:  PendingAction{Kind: PendingDeviceMessage, AppID: "kiosk-alpha", DeviceID: "dev-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter(t)

			_, pending, err := router.Route(context.Background(), testOwnerID, tt.token)
			require.NoError(t, err)
			require.NotNil(t, pending)
			assert.Equal(t, tt.want, *pending)
		})
	}
}

// Toggling sound twice lands back on the starting value.
func TestRouteToggleSoundInvolution(t *testing.T) {
	router, store := newTestRouter(t)
	ctx := context.Background()

	screen, pending, err := router.Route(ctx, testOwnerID, "sound:kiosk-alpha:dev-1")
	require.NoError(t, err)
	require.Nil(t, pending)

	// The returned screen already shows the new state.
	assert.Equal(t, "🔊 Suara: off", screen.Keyboard[1][0].Label)

	value, err := store.Get(ctx, "kiosk-alpha/perangkat/dev-1/suara")
	require.NoError(t, err)
	assert.Equal(t, "off", value)

	screen, _, err = router.Route(ctx, testOwnerID, "sound:kiosk-alpha:dev-1")
	require.NoError(t, err)
	assert.Equal(t, "🔊 Suara: on", screen.Keyboard[1][0].Label)

	value, err = store.Get(ctx, "kiosk-alpha/perangkat/dev-1/suara")
	require.NoError(t, err)
	assert.Equal(t, "on", value)
}

func TestRouteToggleSoundDefaultsOff(t *testing.T) {
	router, store := newTestRouter(t)
	ctx := context.Background()

	// dev-2 has no sound value, which counts as off.
	_, _, err := router.Route(ctx, testOwnerID, "sound:kiosk-alpha:dev-2")
	require.NoError(t, err)

	value, err := store.Get(ctx, "kiosk-alpha/perangkat/dev-2/suara")
	require.NoError(t, err)
	assert.Equal(t, "on", value)
}

func TestRouteToggleSoundNormalizesCase(t *testing.T) {
	store := treestore.NewMemoryStore()
	store.Seed(models.Record{
		"kiosk-alpha": models.Record{
			"perangkat": models.Record{
				"dev-1": models.Record{"suara": "ON"},
			},
		},
	})
	router := NewRouter(store, NewRenderer(store), testOwnerID, logger.NewTestLogger())

	_, _, err := router.Route(context.Background(), testOwnerID, "sound:kiosk-alpha:dev-1")
	require.NoError(t, err)

	value, err := store.Get(context.Background(), "kiosk-alpha/perangkat/dev-1/suara")
	require.NoError(t, err)
	assert.Equal(t, "off", value)
}

// Three flash presses walk kedip, on, off and land back at the start.
func TestRouteCycleFlashIdentity(t *testing.T) {
	router, store := newTestRouter(t)
	ctx := context.Background()

	// dev-3 starts at kedip.
	want := []string{"on", "off", "kedip"}

	for _, expected := range want {
		screen, pending, err := router.Route(ctx, testOwnerID, "flash:kiosk-alpha:dev-3")
		require.NoError(t, err)
		require.Nil(t, pending)
		assert.Equal(t, "💡 Flash: "+expected, screen.Keyboard[1][1].Label)

		value, err := store.Get(ctx, "kiosk-alpha/perangkat/dev-3/flash")
		require.NoError(t, err)
		assert.Equal(t, expected, value)
	}
}

func TestRouteCycleFlashFromUnset(t *testing.T) {
	router, store := newTestRouter(t)

	// dev-1 has no flash value, which counts as off, so the first press
	// starts the cycle at kedip.
	_, _, err := router.Route(context.Background(), testOwnerID, "flash:kiosk-alpha:dev-1")
	require.NoError(t, err)

	value, err := store.Get(context.Background(), "kiosk-alpha/perangkat/dev-1/flash")
	require.NoError(t, err)
	assert.Equal(t, "kedip", value)
}

// Walking from the device list into a device mirrors what the operator
// sees: newest bucket first, named devices labeled by name, and the
// detail screen reflecting the stored sound state.
func TestRouteDeviceBrowsing(t *testing.T) {
	router, _ := newTestRouter(t)
	ctx := context.Background()

	screen, _, err := router.Route(ctx, testOwnerID, "devices:kiosk-alpha")
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(screen.Keyboard), 2)
	assert.Equal(t, Button{Label: "Tablet kasir", Action: "device:kiosk-alpha:dev-1"}, screen.Keyboard[0][0])
	assert.Equal(t, Button{Label: "dev-2", Action: "device:kiosk-alpha:dev-2"}, screen.Keyboard[1][0])

	screen, _, err = router.Route(ctx, testOwnerID, screen.Keyboard[0][0].Action)
	require.NoError(t, err)

	assert.Contains(t, screen.Text, "📱 Perangkat: dev-1")
	assert.Contains(t, screen.Text, "Baterai: 80%")
	assert.Equal(t, "🔊 Suara: on", screen.Keyboard[1][0].Label)
}

// Two devices on the same padded-timestamp day: the default devices
// screen opens that day with the newer device first, and toggling the
// first device's unset sound lands as on both in the store and on the
// re-rendered button.
func TestRouteSameDayDevicesToggleFlow(t *testing.T) {
	store := treestore.NewMemoryStore()
	store.Seed(models.Record{
		"A1": models.Record{
			"perangkat": models.Record{
				"D1": models.Record{"waktu": "01/06/2024 10:00:00"},
				"D2": models.Record{"waktu": "01/06/2024 09:00:00"},
			},
		},
	})
	router := NewRouter(store, NewRenderer(store), testOwnerID, logger.NewTestLogger())
	ctx := context.Background()

	screen, _, err := router.Route(ctx, testOwnerID, "devices:A1")
	require.NoError(t, err)

	assert.Contains(t, screen.Text, "Tanggal: 2024-06-01")
	assert.Equal(t, Button{Label: "D1", Action: "device:A1:D1"}, screen.Keyboard[0][0])
	assert.Equal(t, Button{Label: "D2", Action: "device:A1:D2"}, screen.Keyboard[1][0])

	screen, _, err = router.Route(ctx, testOwnerID, "sound:A1:D1")
	require.NoError(t, err)

	assert.Equal(t, "🔊 Suara: on", screen.Keyboard[1][0].Label)

	value, err := store.Get(ctx, "A1/perangkat/D1/suara")
	require.NoError(t, err)
	assert.Equal(t, "on", value)
}

func TestRouteStoreFailure(t *testing.T) {
	boom := errors.New("store down")
	store := &failingStore{err: boom}
	router := NewRouter(store, NewRenderer(store), testOwnerID, logger.NewTestLogger())

	_, pending, err := router.Route(context.Background(), testOwnerID, "refresh")
	require.Error(t, err)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, pending)

	_, _, err = router.Route(context.Background(), testOwnerID, "sound:kiosk-alpha:dev-1")
	require.Error(t, err)
}
