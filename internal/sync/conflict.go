package sync

import (
	"chansync/pkg/models"
)

// Classification of a pending sync operation by the conflict resolver
type Classification string

const (
	ProceedPush Classification = "PROCEED_PUSH"
	ProceedPull Classification = "PROCEED_PULL"
	StaleNoop   Classification = "STALE_NOOP"
	Conflict    Classification = "CONFLICT"
)

// Classify decides whether a sync for the mapping is safe, stale, or
// conflicting, based on which sides advanced since the last successful sync
// and the configured direction.
//
// In PIM_TO_CHANNEL the local side is authoritative and remote observations
// are informational only; CHANNEL_TO_PIM is symmetric. In BIDIRECTIONAL a
// clash of both sides is always surfaced as Conflict, never auto-applied -
// resolution policy is applied downstream, explicitly.
func Classify(m *models.Mapping, direction models.SyncDirection) Classification {
	if m.NeverSynced() {
		if direction == models.SyncDirectionChannelToPIM {
			return ProceedPull
		}
		// initial publish
		return ProceedPush
	}

	local := m.LocalAdvanced()
	remote := m.RemoteAdvanced()

	switch direction {
	case models.SyncDirectionPIMToChannel:
		if !local {
			return StaleNoop
		}
		return ProceedPush
	case models.SyncDirectionChannelToPIM:
		if !remote {
			return StaleNoop
		}
		return ProceedPull
	case models.SyncDirectionBidirectional:
		switch {
		case local && remote:
			return Conflict
		case local:
			return ProceedPush
		case remote:
			return ProceedPull
		default:
			return StaleNoop
		}
	}
	return StaleNoop
}

// ResolveByTimestamp applies the last-writer-wins policy to a conflicted
// mapping, picking the side with the most recent change marker. Ties keep the
// local side: the operator's own edit is the safer default to preserve.
func ResolveByTimestamp(m *models.Mapping) Classification {
	if m.LocalUpdatedAt == nil && m.RemoteUpdatedAt == nil {
		return StaleNoop
	}
	if m.LocalUpdatedAt == nil {
		return ProceedPull
	}
	if m.RemoteUpdatedAt == nil {
		return ProceedPush
	}
	if m.RemoteUpdatedAt.After(*m.LocalUpdatedAt) {
		return ProceedPull
	}
	return ProceedPush
}
