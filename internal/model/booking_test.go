package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_NextStatus(t *testing.T) {
	allStatuses := []BookingStatus{
		BookingStatusPending,
		BookingStatusAccepted,
		BookingStatusRejected,
		BookingStatusInProgress,
		BookingStatusCompleted,
		BookingStatusCancelled,
	}
	allActions := []BookingAction{
		ActionAccept,
		ActionReject,
		ActionStart,
		ActionComplete,
		ActionCancel,
	}

	legal := map[BookingStatus]map[BookingAction]BookingStatus{
		BookingStatusPending: {
			ActionAccept: BookingStatusAccepted,
			ActionReject: BookingStatusRejected,
			ActionCancel: BookingStatusCancelled,
		},
		BookingStatusAccepted: {
			ActionStart:    BookingStatusInProgress,
			ActionComplete: BookingStatusCompleted,
			ActionCancel:   BookingStatusCancelled,
		},
		BookingStatusInProgress: {
			ActionComplete: BookingStatusCompleted,
		},
	}

	// Every status/action pair must either match the expected edge or be
	// rejected. This walks the full grid so no edge sneaks in unnoticed.
	for _, status := range allStatuses {
		for _, action := range allActions {
			next, ok := status.NextStatus(action)
			expected, legalEdge := legal[status][action]
			assert.Equal(t, legalEdge, ok, "edge %s + %s", status, action)
			if legalEdge {
				assert.Equal(t, expected, next, "target of %s + %s", status, action)
			}
		}
	}
}

func TestBookingStatus_Terminal(t *testing.T) {
	tests := []struct {
		status   BookingStatus
		terminal bool
	}{
		{BookingStatusPending, false},
		{BookingStatusAccepted, false},
		{BookingStatusInProgress, false},
		{BookingStatusRejected, true},
		{BookingStatusCompleted, true},
		{BookingStatusCancelled, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.terminal, tt.status.Terminal(), "status %s", tt.status)
	}
}

func TestBookingAction_MechanicAction(t *testing.T) {
	assert.True(t, ActionAccept.MechanicAction())
	assert.True(t, ActionReject.MechanicAction())
	assert.True(t, ActionStart.MechanicAction())
	assert.True(t, ActionComplete.MechanicAction())
	assert.False(t, ActionCancel.MechanicAction())
}
