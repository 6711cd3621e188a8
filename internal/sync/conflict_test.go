package sync

import (
	"testing"
	"time"

	"chansync/pkg/models"
)

func syncedMapping(localVersion, syncedLocal, remoteVersion, syncedRemote int64) *models.Mapping {
	syncedAt := time.Now().Add(-time.Hour)
	return &models.Mapping{
		LocalVersion:            localVersion,
		LastSyncedLocalVersion:  syncedLocal,
		RemoteVersion:           remoteVersion,
		LastSyncedRemoteVersion: syncedRemote,
		LastSyncedAt:            &syncedAt,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		mapping   *models.Mapping
		direction models.SyncDirection
		expected  Classification
	}{
		{
			name:      "never synced defaults to initial push",
			mapping:   &models.Mapping{LocalVersion: 1},
			direction: models.SyncDirectionPIMToChannel,
			expected:  ProceedPush,
		},
		{
			name:      "never synced pull-only imports",
			mapping:   &models.Mapping{},
			direction: models.SyncDirectionChannelToPIM,
			expected:  ProceedPull,
		},
		{
			name:      "never synced bidirectional publishes first",
			mapping:   &models.Mapping{LocalVersion: 1},
			direction: models.SyncDirectionBidirectional,
			expected:  ProceedPush,
		},
		{
			name:      "push direction with local edit",
			mapping:   syncedMapping(5, 4, 2, 2),
			direction: models.SyncDirectionPIMToChannel,
			expected:  ProceedPush,
		},
		{
			name:      "push direction with nothing new",
			mapping:   syncedMapping(4, 4, 3, 2),
			direction: models.SyncDirectionPIMToChannel,
			expected:  StaleNoop,
		},
		{
			name:      "pull direction with remote edit",
			mapping:   syncedMapping(5, 4, 3, 2),
			direction: models.SyncDirectionChannelToPIM,
			expected:  ProceedPull,
		},
		{
			name:      "pull direction with nothing new",
			mapping:   syncedMapping(5, 4, 2, 2),
			direction: models.SyncDirectionChannelToPIM,
			expected:  StaleNoop,
		},
		{
			name:      "bidirectional local only",
			mapping:   syncedMapping(5, 4, 2, 2),
			direction: models.SyncDirectionBidirectional,
			expected:  ProceedPush,
		},
		{
			name:      "bidirectional remote only",
			mapping:   syncedMapping(4, 4, 3, 2),
			direction: models.SyncDirectionBidirectional,
			expected:  ProceedPull,
		},
		{
			name:      "bidirectional both advanced is a conflict",
			mapping:   syncedMapping(5, 4, 3, 2),
			direction: models.SyncDirectionBidirectional,
			expected:  Conflict,
		},
		{
			name:      "bidirectional nothing new",
			mapping:   syncedMapping(4, 4, 2, 2),
			direction: models.SyncDirectionBidirectional,
			expected:  StaleNoop,
		},
	}

	for _, test := range tests {
		got := Classify(test.mapping, test.direction)
		if got != test.expected {
			t.Errorf("%s: Classify() = %s, expected %s", test.name, got, test.expected)
		}
	}
}

func TestResolveByTimestamp(t *testing.T) {
	older := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(5 * time.Minute)

	tests := []struct {
		name     string
		local    *time.Time
		remote   *time.Time
		expected Classification
	}{
		{"remote newer wins pull", &older, &newer, ProceedPull},
		{"local newer wins push", &newer, &older, ProceedPush},
		{"tie keeps local", &older, &older, ProceedPush},
		{"only local marker", &older, nil, ProceedPush},
		{"only remote marker", nil, &older, ProceedPull},
		{"no markers is a noop", nil, nil, StaleNoop},
	}

	for _, test := range tests {
		m := &models.Mapping{LocalUpdatedAt: test.local, RemoteUpdatedAt: test.remote}
		got := ResolveByTimestamp(m)
		if got != test.expected {
			t.Errorf("%s: ResolveByTimestamp() = %s, expected %s", test.name, got, test.expected)
		}
	}
}
