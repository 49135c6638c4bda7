package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerArmPeekClear(t *testing.T) {
	tracker := NewTracker()

	_, ok := tracker.Peek(1)
	assert.False(t, ok)

	armed := PendingAction{Kind: PendingAppField, AppID: "kiosk-alpha", Field: AppFieldPIN}
	tracker.Arm(1, armed)

	got, ok := tracker.Peek(1)
	require.True(t, ok)
	assert.Equal(t, armed, got)

	// Peek does not consume.
	got, ok = tracker.Peek(1)
	require.True(t, ok)
	assert.Equal(t, armed, got)

	tracker.Clear(1)

	_, ok = tracker.Peek(1)
	assert.False(t, ok)
}

func TestTrackerSingleSlot(t *testing.T) {
	tracker := NewTracker()

	tracker.Arm(1, PendingAction{Kind: PendingAppField, AppID: "kiosk-alpha", Field: AppFieldDescription})
	tracker.Arm(1, PendingAction{Kind: PendingDeviceMessage, AppID: "kiosk-alpha", DeviceID: "dev-1"})

	got, ok := tracker.Peek(1)
	require.True(t, ok)
	assert.Equal(t, PendingDeviceMessage, got.Kind)
	assert.Equal(t, "dev-1", got.DeviceID)
}

func TestTrackerPerOperator(t *testing.T) {
	tracker := NewTracker()

	tracker.Arm(1, PendingAction{Kind: PendingAppField, AppID: "kiosk-alpha"})
	tracker.Arm(2, PendingAction{Kind: PendingDeviceMessage, AppID: "kiosk-beta", DeviceID: "dev-9"})

	first, ok := tracker.Peek(1)
	require.True(t, ok)
	assert.Equal(t, PendingAppField, first.Kind)

	second, ok := tracker.Peek(2)
	require.True(t, ok)
	assert.Equal(t, PendingDeviceMessage, second.Kind)

	tracker.Clear(1)

	_, ok = tracker.Peek(1)
	assert.False(t, ok)

	_, ok = tracker.Peek(2)
	assert.True(t, ok)
}

func TestTrackerClearUnknownOperator(t *testing.T) {
	tracker := NewTracker()

	// Clearing an operator that never armed anything is a no-op.
	tracker.Clear(99)

	_, ok := tracker.Peek(99)
	assert.False(t, ok)
}
