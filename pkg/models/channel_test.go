package models

import "testing"

func TestEffectiveDirection(t *testing.T) {
	tests := []struct {
		name     string
		account  SyncDirection
		mapping  SyncDirection
		expected SyncDirection
	}{
		{"mapping override wins", SyncDirectionPIMToChannel, SyncDirectionBidirectional, SyncDirectionBidirectional},
		{"account default applies", SyncDirectionChannelToPIM, "", SyncDirectionChannelToPIM},
		{"unset falls back to push-only", "", "", SyncDirectionPIMToChannel},
	}

	for _, test := range tests {
		a := &ChannelAccount{SyncDirection: test.account}
		m := &Mapping{SyncDirection: test.mapping}
		if got := a.EffectiveDirection(m); got != test.expected {
			t.Errorf("%s: EffectiveDirection() = %s, expected %s", test.name, got, test.expected)
		}
	}
}

func TestEffectiveConflictPolicy(t *testing.T) {
	a := &ChannelAccount{ConflictPolicy: ConflictPolicyLastWriterWins}
	m := &Mapping{ConflictPolicy: ConflictPolicyManualReview}

	if got := a.EffectiveConflictPolicy(m); got != ConflictPolicyManualReview {
		t.Errorf("EffectiveConflictPolicy() = %s, expected mapping override", got)
	}
	if got := a.EffectiveConflictPolicy(nil); got != ConflictPolicyLastWriterWins {
		t.Errorf("EffectiveConflictPolicy(nil) = %s, expected account default", got)
	}

	unset := &ChannelAccount{}
	if got := unset.EffectiveConflictPolicy(nil); got != ConflictPolicyManualReview {
		t.Errorf("EffectiveConflictPolicy() = %s, expected manual_review default", got)
	}
}
