package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/carverauto/kioskradar/pkg/models"
	"github.com/carverauto/kioskradar/pkg/treestore"
)

// Rendering caps. Limits are counted in runes and applied per
// accumulated line, never inside one.
const (
	previewMaxItems   = 5
	previewValueLimit = 80
	previewTextLimit  = 1000

	flatListMaxItems   = 50
	flatListValueLimit = 100
	flatListTextLimit  = 3500

	descriptionPreviewLimit = 300
)

// StoreErrorReply is the message shown to the operator when a screen
// could not be produced because the tree store failed.
const StoreErrorReply = "Terjadi kesalahan saat mengakses penyimpanan. Coba lagi."

// msgAccessDenied is also the full text of the screen a non-operator
// gets when pressing a dashboard button.
const msgAccessDenied = "Dashboard hanya bisa diakses oleh owner bot."

const (
	msgEmptyPreview = "Belum ada data yang tersimpan."
	msgListEmpty    = "📋 Tidak ada data di Firebase."
	msgAppsEmpty    = "Tidak ada data 'aplikasi' di Firebase."
	msgAppsTitle    = "📱 Pilih aplikasi:"
	msgHelp         = "❕ Panduan tambah data:\nGunakan perintah:\n/set <key> <value>\n\nContoh:\n/set greeting Halo dunia"
)

// Button labels.
const (
	btnRefresh      = "🔄 Refresh"
	btnListAll      = "📋 Lihat semua"
	btnApps         = "📱 Aplikasi"
	btnHelp         = "❕ Panduan tambah data"
	btnDevices      = "📱 Perangkat"
	btnEditDesc     = "📝 Ubah keterangan"
	btnEditPIN      = "🔐 Ubah PIN aplikasi"
	btnSendMessage  = "✉️ Kirim pesan"
	btnCancel       = "❌ Batalkan"
	btnOlderDay     = "⬅️ Hari sebelumnya"
	btnNewerDay     = "Hari berikutnya ➡️"
	btnBackApps     = "⬅️ Kembali ke daftar aplikasi"
	btnBackApp      = "⬅️ Kembali ke aplikasi"
	btnBackDevices  = "⬅️ Kembali ke daftar perangkat"
	btnBackDevice   = "⬅️ Kembali ke perangkat"
	btnBackDash     = "📊 Kembali ke dashboard"
	btnBackDashList = "⬅️ Kembali ke dashboard"
)

// Renderer produces screens from the current tree store contents. It
// holds no state of its own: the same store contents and request always
// yield the same screen.
type Renderer struct {
	store treestore.Store
}

// NewRenderer creates a renderer over the given store.
func NewRenderer(store treestore.Store) *Renderer {
	return &Renderer{store: store}
}

// Render produces the screen described by the request.
func (r *Renderer) Render(ctx context.Context, req ScreenRequest) (Screen, error) {
	switch req.Kind {
	case ScreenDashboard:
		return r.renderDashboard(ctx)
	case ScreenList:
		return r.renderList(ctx)
	case ScreenApps:
		return r.renderApps(ctx)
	case ScreenAppDetail:
		return r.renderAppDetail(ctx, req.AppID)
	case ScreenEditDescriptionPrompt:
		return r.renderEditDescription(ctx, req.AppID)
	case ScreenEditPINPrompt:
		return r.renderEditPIN(ctx, req.AppID)
	case ScreenDevices:
		return r.renderDevices(ctx, req.AppID, req.Bucket)
	case ScreenDeviceDetail:
		return r.renderDeviceDetail(ctx, req.AppID, req.DeviceID)
	case ScreenMessagePrompt:
		return renderMessagePrompt(req.AppID, req.DeviceID), nil
	case ScreenHelp:
		return Screen{Text: msgHelp, Keyboard: dashboardKeyboard()}, nil
	case ScreenAccessDenied:
		return Screen{Text: msgAccessDenied}, nil
	default:
		return Screen{}, fmt.Errorf("%w: %d", errUnknownScreen, req.Kind)
	}
}

func (r *Renderer) renderDashboard(ctx context.Context) (Screen, error) {
	root, err := r.store.Root(ctx)
	if err != nil {
		return Screen{}, fmt.Errorf("failed to load tree root: %w", err)
	}

	text := fmt.Sprintf("📊 Dashboard Owner\nTotal data tersimpan: %d\n\nCuplikan data:\n%s\n\nPilih aksi di bawah:",
		len(root), previewText(root))

	return Screen{Text: text, Keyboard: dashboardKeyboard()}, nil
}

func (r *Renderer) renderList(ctx context.Context) (Screen, error) {
	root, err := r.store.Root(ctx)
	if err != nil {
		return Screen{}, fmt.Errorf("failed to load tree root: %w", err)
	}

	if len(root) == 0 {
		return Screen{Text: msgListEmpty, Keyboard: dashboardKeyboard()}, nil
	}

	text := "📋 Semua data:\n" + strings.Join(FlatListLines(root), "\n")

	return Screen{Text: text, Keyboard: dashboardKeyboard()}, nil
}

func (r *Renderer) renderApps(ctx context.Context) (Screen, error) {
	node, err := r.store.Get(ctx, models.RootApps)
	if err != nil {
		return Screen{}, fmt.Errorf("failed to load app index: %w", err)
	}

	apps := models.NormalizeRecord(node)
	if len(apps) == 0 {
		return Screen{Text: msgAppsEmpty, Keyboard: dashboardKeyboard()}, nil
	}

	rows := make([][]Button, 0, len(apps)+1)
	for _, key := range sortedKeys(apps) {
		label := models.FormatScalar(apps[key])
		rows = append(rows, row(Button{Label: label, Action: tokenAppDetail(label)}))
	}

	rows = append(rows, row(Button{Label: btnBackDashList, Action: actDashboard}))

	return Screen{Text: msgAppsTitle, Keyboard: rows}, nil
}

func (r *Renderer) renderAppDetail(ctx context.Context, appID string) (Screen, error) {
	app, err := r.loadApp(ctx, appID)
	if err != nil {
		return Screen{}, err
	}

	if len(app) == 0 {
		return Screen{
			Text: fmt.Sprintf("Data aplikasi '%s' tidak ditemukan di Firebase.", appID),
			Keyboard: [][]Button{
				row(Button{Label: btnBackApps, Action: actApps}),
				row(Button{Label: btnBackDash, Action: actDashboard}),
			},
		}, nil
	}

	return Screen{
		Text: fmt.Sprintf("📱 Aplikasi: %s\nPilih menu di bawah:", appID),
		Keyboard: [][]Button{
			row(Button{Label: btnDevices, Action: tokenDevices(appID)}),
			row(Button{Label: btnEditDesc, Action: tokenEditDescription(appID)}),
			row(Button{Label: btnEditPIN, Action: tokenEditPIN(appID)}),
			row(Button{Label: btnBackApps, Action: actApps}),
			row(Button{Label: btnBackDash, Action: actDashboard}),
		},
	}, nil
}

func (r *Renderer) renderEditDescription(ctx context.Context, appID string) (Screen, error) {
	app, err := r.loadApp(ctx, appID)
	if err != nil {
		return Screen{}, err
	}

	current := ""
	if models.Truthy(app[models.FieldDescription]) {
		current = models.FormatScalar(app[models.FieldDescription])
	}

	preview := truncate(current, descriptionPreviewLimit)
	if preview == "" {
		preview = "(kosong)"
	}

	text := fmt.Sprintf("📝 Ubah keterangan aplikasi: %s\n\nKeterangan saat ini:\n%s\n\nKirim keterangan baru di chat ini.\nAtau klik '❌ Batalkan' untuk kembali tanpa mengubah.",
		appID, preview)

	return Screen{Text: text, Keyboard: cancelKeyboard(appID)}, nil
}

func (r *Renderer) renderEditPIN(ctx context.Context, appID string) (Screen, error) {
	app, err := r.loadApp(ctx, appID)
	if err != nil {
		return Screen{}, err
	}

	pinText := ""
	if app[models.FieldKioskPIN] != nil {
		pinText = models.FormatScalar(app[models.FieldKioskPIN])
	}

	if pinText == "" {
		pinText = "(belum diset)"
	}

	text := fmt.Sprintf("🔐 Ubah PIN aplikasi: %s\n\nPIN saat ini: %s\n\nKirim PIN baru (hanya angka) di chat ini.\nAtau klik '❌ Batalkan' untuk kembali tanpa mengubah.",
		appID, pinText)

	return Screen{Text: text, Keyboard: cancelKeyboard(appID)}, nil
}

func (r *Renderer) renderDevices(ctx context.Context, appID, bucketKey string) (Screen, error) {
	devices, err := r.loadDevices(ctx, appID)
	if err != nil {
		return Screen{}, err
	}

	if len(devices) == 0 {
		return Screen{
			Text: fmt.Sprintf("Tidak ada data perangkat untuk aplikasi '%s'.", appID),
			Keyboard: [][]Button{
				row(Button{Label: btnBackApp, Action: tokenAppDetail(appID)}),
				row(Button{Label: btnBackDash, Action: actDashboard}),
			},
		}, nil
	}

	buckets := GroupDevices(devices)
	idx := SelectBucket(buckets, bucketKey)
	selected := buckets[idx]

	rows := make([][]Button, 0, len(selected.Devices)+3)
	for _, entry := range selected.Devices {
		rows = append(rows, row(Button{
			Label:  deviceLabel(entry),
			Action: tokenDeviceDetail(appID, entry.ID),
		}))
	}

	// Older days sit to the left, newer to the right.
	var pagination []Button
	if idx+1 < len(buckets) {
		pagination = append(pagination, Button{Label: btnOlderDay, Action: tokenDevicesBucket(appID, buckets[idx+1].Key)})
	}

	if idx > 0 {
		pagination = append(pagination, Button{Label: btnNewerDay, Action: tokenDevicesBucket(appID, buckets[idx-1].Key)})
	}

	if len(pagination) > 0 {
		rows = append(rows, pagination)
	}

	rows = append(rows,
		row(Button{Label: btnBackApp, Action: tokenAppDetail(appID)}),
		row(Button{Label: btnBackDash, Action: actDashboard}))

	dateText := selected.Key
	if dateText == UnknownBucket {
		dateText = "Tanggal tidak diketahui"
	}

	text := fmt.Sprintf("📱 Perangkat aplikasi: %s\nTanggal: %s\nPilih perangkat:", appID, dateText)

	return Screen{Text: text, Keyboard: rows}, nil
}

func (r *Renderer) renderDeviceDetail(ctx context.Context, appID, deviceID string) (Screen, error) {
	devices, err := r.loadDevices(ctx, appID)
	if err != nil {
		return Screen{}, err
	}

	device := models.NormalizeRecord(devices[deviceID])

	soundLabel := "off"
	flashLabel := "-"

	var text string

	if len(device) == 0 {
		text = fmt.Sprintf("Data perangkat '%s' untuk aplikasi '%s' tidak ditemukan.", deviceID, appID)
	} else {
		lines := []string{fmt.Sprintf("📱 Perangkat: %s", deviceID)}

		if models.Truthy(device[models.FieldDeviceName]) {
			lines = append(lines, "Nama: "+models.FormatScalar(device[models.FieldDeviceName]))
		}

		// A battery at 0% still renders, so this is a presence check
		// rather than a truthiness one.
		if device[models.FieldBatteryPct] != nil {
			lines = append(lines, "Baterai: "+models.FormatScalar(device[models.FieldBatteryPct])+"%")
		}

		if models.Truthy(device[models.FieldBatteryStatus]) {
			lines = append(lines, "Status baterai: "+models.FormatScalar(device[models.FieldBatteryStatus]))
		}

		when := device[models.FieldTime]
		if !models.Truthy(when) {
			when = device[models.FieldTimeStart]
		}

		if models.Truthy(when) {
			lines = append(lines, "Waktu: "+models.FormatScalar(when))
		}

		lines = append(lines, "", "Pilih menu di bawah:")
		text = strings.Join(lines, "\n")

		if models.Truthy(device[models.FieldSound]) {
			soundLabel = models.FormatScalar(device[models.FieldSound])
		}

		if models.Truthy(device[models.FieldFlash]) {
			flashLabel = models.FormatScalar(device[models.FieldFlash])
		}
	}

	keyboard := [][]Button{
		row(Button{Label: btnSendMessage, Action: tokenMessagePrompt(appID, deviceID)}),
		{
			Button{Label: "🔊 Suara: " + soundLabel, Action: tokenToggleSound(appID, deviceID)},
			Button{Label: "💡 Flash: " + flashLabel, Action: tokenCycleFlash(appID, deviceID)},
		},
		row(Button{Label: btnBackDevices, Action: tokenDevices(appID)}),
		row(Button{Label: btnBackDash, Action: actDashboard}),
	}

	return Screen{Text: text, Keyboard: keyboard}, nil
}

func renderMessagePrompt(appID, deviceID string) Screen {
	text := fmt.Sprintf("📱 Kirim pesan baru untuk perangkat: %s\naplikasi: %s\n\nKirim teks pesan di chat ini, dan pesan akan disimpan sebagai '%s'.",
		deviceID, appID, models.FieldClearMessage)

	return Screen{
		Text: text,
		Keyboard: [][]Button{
			row(Button{Label: btnBackDevice, Action: tokenDeviceDetail(appID, deviceID)}),
			row(Button{Label: btnBackDash, Action: actDashboard}),
		},
	}
}

// loadApp reads one app node and normalizes it to a record.
func (r *Renderer) loadApp(ctx context.Context, appID string) (models.Record, error) {
	node, err := r.store.Get(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to load app %q: %w", appID, err)
	}

	return models.NormalizeRecord(node), nil
}

// loadDevices reads the device record of one app.
func (r *Renderer) loadDevices(ctx context.Context, appID string) (models.Record, error) {
	app, err := r.loadApp(ctx, appID)
	if err != nil {
		return nil, err
	}

	return models.NormalizeRecord(app[models.FieldDevices]), nil
}

// FlatListLines renders the root of the tree as flat "key = value" lines:
// at most 50 entries in key order, scalar values truncated at 100 runes,
// lines accumulated until the 3500 rune cap, and a trailer naming how
// many keys were left out. The /list command and the list screen share
// this output.
func FlatListLines(root models.Record) []string {
	keys := sortedKeys(root)

	shown := keys
	if len(shown) > flatListMaxItems {
		shown = shown[:flatListMaxItems]
	}

	lines := make([]string, 0, len(shown))
	total := 0

	for _, key := range shown {
		line := key + " = " + flatValue(root[key], flatListValueLimit)

		length := utf8.RuneCountInString(line)
		if total+length+1 > flatListTextLimit {
			break
		}

		lines = append(lines, line)
		total += length + 1
	}

	if omitted := len(keys) - len(lines); omitted > 0 {
		lines = append(lines, fmt.Sprintf("... dan %d key lainnya. Gunakan /get <key> untuk melihat detail.", omitted))
	}

	return lines
}

// FlatValue renders a node the way flat listings do, records as an item
// count and scalars as text, without truncation.
func FlatValue(node models.Node) string {
	if record, ok := models.AsRecord(node); ok {
		return fmt.Sprintf("[object] %d item", len(record))
	}

	return models.FormatScalar(node)
}

// previewText renders the dashboard's data snippet: the first five root
// entries, values truncated at 80 runes, whole lines only up to the 1000
// rune cap.
func previewText(root models.Record) string {
	if len(root) == 0 {
		return msgEmptyPreview
	}

	keys := sortedKeys(root)
	if len(keys) > previewMaxItems {
		keys = keys[:previewMaxItems]
	}

	var lines []string

	total := 0

	for _, key := range keys {
		line := key + " = " + flatValue(root[key], previewValueLimit)

		length := utf8.RuneCountInString(line)
		if total+length+1 > previewTextLimit {
			break
		}

		lines = append(lines, line)
		total += length + 1
	}

	return strings.Join(lines, "\n")
}

func flatValue(node models.Node, limit int) string {
	if record, ok := models.AsRecord(node); ok {
		return fmt.Sprintf("[object] %d item", len(record))
	}

	return truncate(models.FormatScalar(node), limit)
}

// truncate cuts a string to limit runes, marking the cut with an
// ellipsis. Counting runes keeps multi-byte text from being split
// mid-character.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit]) + "..."
}

// deviceLabel names a device button: the device name when present, the
// device ID otherwise, and the raw scalar text for malformed entries.
func deviceLabel(entry DeviceEntry) string {
	record, ok := models.AsRecord(entry.Value)
	if !ok {
		return models.FormatScalar(entry.Value)
	}

	if models.Truthy(record[models.FieldDeviceName]) {
		return models.FormatScalar(record[models.FieldDeviceName])
	}

	return entry.ID
}

func dashboardKeyboard() [][]Button {
	return [][]Button{
		{
			Button{Label: btnRefresh, Action: actDashboard},
			Button{Label: btnListAll, Action: actList},
		},
		row(Button{Label: btnApps, Action: actApps}),
		row(Button{Label: btnHelp, Action: actHelp}),
	}
}

func cancelKeyboard(appID string) [][]Button {
	return [][]Button{
		row(Button{Label: btnCancel, Action: tokenAppDetail(appID)}),
	}
}

func row(buttons ...Button) []Button {
	return buttons
}

func sortedKeys(record models.Record) []string {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
