package dashboard

import "sync"

// PendingKind identifies what a pending text capture will do with the
// operator's next message.
type PendingKind int

const (
	PendingNone PendingKind = iota
	PendingAppField
	PendingDeviceMessage
)

// AppField names the app attribute an app-field capture writes.
type AppField int

const (
	AppFieldDescription AppField = iota
	AppFieldPIN
)

// PendingAction is an armed text capture: the next free-text message from
// the operator is consumed by it.
type PendingAction struct {
	Kind     PendingKind
	AppID    string
	DeviceID string
	Field    AppField
}

// Tracker holds at most one pending action per operator. Arming a new
// action silently replaces the previous one; navigating between screens
// does not clear it.
type Tracker struct {
	mu      sync.Mutex
	pending map[int64]PendingAction
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{pending: make(map[int64]PendingAction)}
}

// Arm records the pending action for an operator, replacing any prior
// one.
func (t *Tracker) Arm(operatorID int64, action PendingAction) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending[operatorID] = action
}

// Peek returns the operator's pending action without consuming it.
func (t *Tracker) Peek(operatorID int64) (PendingAction, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	action, ok := t.pending[operatorID]
	if !ok || action.Kind == PendingNone {
		return PendingAction{}, false
	}

	return action, true
}

// Clear drops the operator's pending action, if any.
func (t *Tracker) Clear(operatorID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.pending, operatorID)
}
