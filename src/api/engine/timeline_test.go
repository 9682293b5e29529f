package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stake-plus/polkadot-gov-forum/src/api/gov"
	"github.com/stake-plus/polkadot-gov-forum/src/api/indexer"
)

func events(statuses ...string) []indexer.StatusEvent {
	out := make([]indexer.StatusEvent, len(statuses))
	for i, s := range statuses {
		out[i] = indexer.StatusEvent{Status: s, Block: uint64(100 + i)}
	}
	return out
}

func statusNames(events []indexer.StatusEvent) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Status
	}
	return out
}

func TestApplySwapCorrection(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []string
		swapped bool
	}{
		{
			name:    "deposit before deciding is reordered",
			in:      []string{gov.StatusSubmitted, gov.StatusDecisionDepositPlaced, gov.StatusDeciding, gov.StatusConfirmed},
			want:    []string{gov.StatusSubmitted, gov.StatusDeciding, gov.StatusDecisionDepositPlaced, gov.StatusConfirmed},
			swapped: true,
		},
		{
			name:    "already ordered is untouched",
			in:      []string{gov.StatusSubmitted, gov.StatusDeciding, gov.StatusDecisionDepositPlaced, gov.StatusConfirmed},
			want:    []string{gov.StatusSubmitted, gov.StatusDeciding, gov.StatusDecisionDepositPlaced, gov.StatusConfirmed},
			swapped: false,
		},
		{
			name:    "deposit only",
			in:      []string{gov.StatusSubmitted, gov.StatusDecisionDepositPlaced},
			want:    []string{gov.StatusSubmitted, gov.StatusDecisionDepositPlaced},
			swapped: false,
		},
		{
			name:    "deciding only",
			in:      []string{gov.StatusSubmitted, gov.StatusDeciding},
			want:    []string{gov.StatusSubmitted, gov.StatusDeciding},
			swapped: false,
		},
		{
			name:    "deposit at head",
			in:      []string{gov.StatusDecisionDepositPlaced, gov.StatusSubmitted, gov.StatusDeciding},
			want:    []string{gov.StatusSubmitted, gov.StatusDeciding, gov.StatusDecisionDepositPlaced},
			swapped: true,
		},
		{
			name:    "empty",
			in:      nil,
			want:    []string{},
			swapped: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, swapped := ApplySwapCorrection(events(tt.in...))
			assert.Equal(t, tt.swapped, swapped)
			assert.Equal(t, tt.want, statusNames(got))
		})
	}
}

func TestApplySwapCorrectionKeepsEventPayloads(t *testing.T) {
	in := events(gov.StatusSubmitted, gov.StatusDecisionDepositPlaced, gov.StatusDeciding)
	got, swapped := ApplySwapCorrection(in)
	require.True(t, swapped)

	// The deposit event moves with its block number intact.
	assert.Equal(t, uint64(101), got[2].Block)
	assert.Equal(t, gov.StatusDecisionDepositPlaced, got[2].Status)
}

func TestDisplayStatus(t *testing.T) {
	assert.Equal(t, gov.StatusDeciding, DisplayStatus(gov.StatusDecisionDepositPlaced, true))
	assert.Equal(t, gov.StatusDecisionDepositPlaced, DisplayStatus(gov.StatusDecisionDepositPlaced, false))
	assert.Equal(t, gov.StatusConfirmed, DisplayStatus(gov.StatusConfirmed, true))
}

func TestBuildTimelineSingle(t *testing.T) {
	idx := uint64(42)
	p := &indexer.Proposal{
		Type:      gov.ReferendumV2,
		Index:     &idx,
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Events:    events(gov.StatusSubmitted, gov.StatusDecisionDepositPlaced, gov.StatusDeciding),
	}

	entries, swapped := BuildTimeline(p)
	require.Len(t, entries, 1)
	assert.True(t, swapped)
	assert.Equal(t, "42", entries[0].IndexOrHash)
	assert.Equal(t, []string{gov.StatusSubmitted, gov.StatusDeciding, gov.StatusDecisionDepositPlaced},
		statusNames(entries[0].Statuses))
}

func TestBuildTimelineSeedsCreated(t *testing.T) {
	idx := uint64(7)
	created := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	p := &indexer.Proposal{Type: gov.TreasuryProposal, Index: &idx, CreatedAt: created}

	entries, swapped := BuildTimeline(p)
	require.Len(t, entries, 1)
	assert.False(t, swapped)
	require.Len(t, entries[0].Statuses, 1)
	assert.Equal(t, gov.StatusCreated, entries[0].Statuses[0].Status)
	assert.Equal(t, created, entries[0].Statuses[0].Timestamp)
}

func TestBuildTimelineGrouped(t *testing.T) {
	refIdx, treasuryIdx := uint64(200), uint64(55)
	p := &indexer.Proposal{
		Type:  gov.ReferendumV2,
		Index: &refIdx,
		Group: []indexer.GroupMember{
			{
				Type:      gov.TreasuryProposal,
				Index:     &treasuryIdx,
				CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
				Events:    events(gov.StatusCreated),
			},
			{
				Type:      gov.ReferendumV2,
				Index:     &refIdx,
				CreatedAt: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC),
				Events:    events(gov.StatusSubmitted, gov.StatusDecisionDepositPlaced, gov.StatusDeciding),
			},
		},
	}

	entries, swapped := BuildTimeline(p)
	require.Len(t, entries, 2)
	assert.True(t, swapped)

	assert.Equal(t, "55", entries[0].IndexOrHash)
	assert.Equal(t, gov.TreasuryProposal.String(), entries[0].Type)
	assert.Equal(t, []string{gov.StatusCreated}, statusNames(entries[0].Statuses))

	assert.Equal(t, "200", entries[1].IndexOrHash)
	assert.Equal(t, []string{gov.StatusSubmitted, gov.StatusDeciding, gov.StatusDecisionDepositPlaced},
		statusNames(entries[1].Statuses))
}
