package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/carverauto/kioskradar/pkg/logger"
	"github.com/carverauto/kioskradar/pkg/models"
	"github.com/carverauto/kioskradar/pkg/treestore"
)

// msgPINRejected is the reply to a PIN that is not all digits. The
// pending capture stays armed so the operator can just send again.
const msgPINRejected = "PIN harus berupa angka."

// Dispatcher ties the router, renderer and pending tracker together and
// serializes events per operator: two updates from the same chat are
// never processed concurrently, so a button press and a text reply
// cannot interleave their read-modify-write steps.
type Dispatcher struct {
	store    treestore.Store
	renderer *Renderer
	router   *Router
	tracker  *Tracker
	ownerID  int64
	logger   logger.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewDispatcher wires a dispatcher over the given store for a single
// operator.
func NewDispatcher(store treestore.Store, ownerID int64, log logger.Logger) *Dispatcher {
	renderer := NewRenderer(store)

	return &Dispatcher{
		store:    store,
		renderer: renderer,
		router:   NewRouter(store, renderer, ownerID, log),
		tracker:  NewTracker(),
		ownerID:  ownerID,
		logger:   log,
		locks:    make(map[int64]*sync.Mutex),
	}
}

// Renderer exposes the dispatcher's renderer for callers that need to
// draw a screen outside the button flow, such as the /dashboard command.
func (d *Dispatcher) Renderer() *Renderer {
	return d.renderer
}

// OwnerID returns the operator this dispatcher serves.
func (d *Dispatcher) OwnerID() int64 {
	return d.ownerID
}

// HandleButton processes one button press and returns the screen that
// should replace the message the button was attached to.
func (d *Dispatcher) HandleButton(ctx context.Context, senderID int64, token string) (Screen, error) {
	lock := d.operatorLock(senderID)
	lock.Lock()
	defer lock.Unlock()

	screen, pending, err := d.router.Route(ctx, senderID, token)
	if err != nil {
		return Screen{}, err
	}

	if pending != nil {
		d.tracker.Arm(senderID, *pending)
	}

	return screen, nil
}

// HandleText consumes the operator's pending action with the given text
// and returns the confirmation screen. handled is false when the message
// is not for us: the sender is not the operator, or nothing is pending.
func (d *Dispatcher) HandleText(ctx context.Context, senderID int64, text string) (Screen, bool, error) {
	if senderID != d.ownerID {
		return Screen{}, false, nil
	}

	lock := d.operatorLock(senderID)
	lock.Lock()
	defer lock.Unlock()

	pending, ok := d.tracker.Peek(senderID)
	if !ok {
		return Screen{}, false, nil
	}

	switch pending.Kind {
	case PendingDeviceMessage:
		return d.commitDeviceMessage(ctx, senderID, pending, text)
	case PendingAppField:
		return d.commitAppField(ctx, senderID, pending, text)
	default:
		return Screen{}, false, nil
	}
}

func (d *Dispatcher) commitDeviceMessage(ctx context.Context, senderID int64, pending PendingAction, text string) (Screen, bool, error) {
	if pending.AppID == "" || pending.DeviceID == "" {
		return Screen{}, false, nil
	}

	path := treestore.Path(pending.AppID, models.FieldDevices, pending.DeviceID, models.FieldClearMessage)
	if err := d.store.Set(ctx, path, text); err != nil {
		// The capture stays armed so the operator can resend once the
		// store recovers.
		return Screen{}, true, fmt.Errorf("failed to store device message: %w", err)
	}

	d.tracker.Clear(senderID)

	d.logger.Info().
		Str("app_id", pending.AppID).
		Str("device_id", pending.DeviceID).
		Msg("Stored device message")

	screen, err := d.renderer.Render(ctx, ScreenRequest{
		Kind:     ScreenDeviceDetail,
		AppID:    pending.AppID,
		DeviceID: pending.DeviceID,
	})

	return screen, true, err
}

func (d *Dispatcher) commitAppField(ctx context.Context, senderID int64, pending PendingAction, text string) (Screen, bool, error) {
	if pending.AppID == "" {
		return Screen{}, false, nil
	}

	switch pending.Field {
	case AppFieldDescription:
		if err := d.store.Set(ctx, treestore.Path(pending.AppID, models.FieldDescription), text); err != nil {
			return Screen{}, true, fmt.Errorf("failed to store description: %w", err)
		}
	case AppFieldPIN:
		pin, ok := parsePIN(text)
		if !ok {
			return Screen{Text: msgPINRejected}, true, nil
		}

		if err := d.store.Set(ctx, treestore.Path(pending.AppID, models.FieldKioskPIN), pin); err != nil {
			return Screen{}, true, fmt.Errorf("failed to store PIN: %w", err)
		}
	default:
		return Screen{}, false, nil
	}

	d.tracker.Clear(senderID)

	d.logger.Info().
		Str("app_id", pending.AppID).
		Msg("Updated app field")

	screen, err := d.renderer.Render(ctx, ScreenRequest{Kind: ScreenAppDetail, AppID: pending.AppID})

	return screen, true, err
}

// parsePIN validates and converts a submitted PIN. Only ASCII digits are
// accepted, and the value must fit an int64 since that is what the store
// keeps.
func parsePIN(text string) (int64, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, false
	}

	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	pin, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, false
	}

	return pin, true
}

func (d *Dispatcher) operatorLock(senderID int64) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()

	lock, ok := d.locks[senderID]
	if !ok {
		lock = &sync.Mutex{}
		d.locks[senderID] = lock
	}

	return lock
}
