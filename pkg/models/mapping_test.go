package models

import (
	"errors"
	"testing"
)

func TestMappingStatusCanTransition(t *testing.T) {
	tests := []struct {
		from    MappingStatus
		to      MappingStatus
		allowed bool
	}{
		{MappingStatusPendingSync, MappingStatusActive, true},
		{MappingStatusPendingSync, MappingStatusSyncError, true},
		{MappingStatusActive, MappingStatusPendingSync, true},
		{MappingStatusActive, MappingStatusSyncError, true},
		{MappingStatusActive, MappingStatusSuppressed, true},
		{MappingStatusSyncError, MappingStatusActive, true},
		{MappingStatusSyncError, MappingStatusInactive, true},
		{MappingStatusSuppressed, MappingStatusPendingSync, true},
		{MappingStatusSuppressed, MappingStatusActive, false},
		{MappingStatusInactive, MappingStatusPendingSync, true},
		{MappingStatusInactive, MappingStatusActive, false},
		{MappingStatusInactive, MappingStatusSyncError, false},

		// Deletion markers are reachable from every non-terminal state
		{MappingStatusPendingSync, MappingStatusDeletedInPIM, true},
		{MappingStatusActive, MappingStatusDeletedInChannel, true},
		{MappingStatusSyncError, MappingStatusDeletedInPIM, true},
		{MappingStatusSuppressed, MappingStatusDeletedInChannel, true},
		{MappingStatusInactive, MappingStatusDeletedInPIM, true},

		// Terminal states allow nothing
		{MappingStatusDeletedInPIM, MappingStatusPendingSync, false},
		{MappingStatusDeletedInPIM, MappingStatusDeletedInChannel, false},
		{MappingStatusDeletedInChannel, MappingStatusActive, false},
	}

	for _, test := range tests {
		if got := test.from.CanTransition(test.to); got != test.allowed {
			t.Errorf("CanTransition(%s -> %s) = %v, expected %v", test.from, test.to, got, test.allowed)
		}
	}
}

func TestMappingTransition(t *testing.T) {
	m := &Mapping{Status: MappingStatusPendingSync}

	if err := m.Transition(MappingStatusActive); err != nil {
		t.Fatalf("Transition to active failed: %v", err)
	}
	if m.Status != MappingStatusActive {
		t.Fatalf("Status = %s, expected active", m.Status)
	}

	// Same-state transition is a noop, not an error
	if err := m.Transition(MappingStatusActive); err != nil {
		t.Fatalf("same-state Transition failed: %v", err)
	}

	m.Status = MappingStatusDeletedInPIM
	err := m.Transition(MappingStatusPendingSync)
	if err == nil {
		t.Fatal("expected transition out of a terminal state to fail")
	}
	var ite *IllegalTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("error type = %T, expected *IllegalTransitionError", err)
	}
	if ite.From != MappingStatusDeletedInPIM || ite.To != MappingStatusPendingSync {
		t.Errorf("IllegalTransitionError = %v, expected deleted_in_pim -> pending_sync", ite)
	}
	if m.Status != MappingStatusDeletedInPIM {
		t.Errorf("Status mutated on illegal transition: %s", m.Status)
	}
}

func TestMappingVersionHelpers(t *testing.T) {
	m := &Mapping{LocalVersion: 3, LastSyncedLocalVersion: 3, RemoteVersion: 7, LastSyncedRemoteVersion: 6}

	if m.LocalAdvanced() {
		t.Error("LocalAdvanced() = true with equal versions")
	}
	if !m.RemoteAdvanced() {
		t.Error("RemoteAdvanced() = false with a newer remote version")
	}
	if !m.NeverSynced() {
		t.Error("NeverSynced() = false with nil LastSyncedAt")
	}
}
