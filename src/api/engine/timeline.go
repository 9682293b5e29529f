package engine

import (
	"time"

	"github.com/stake-plus/polkadot-gov-forum/src/api/gov"
	"github.com/stake-plus/polkadot-gov-forum/src/api/indexer"
)

// TimelineEntry is one stage of a proposal's display timeline. Grouped
// proposals produce one entry per member, earliest stage first.
type TimelineEntry struct {
	CreatedAt   time.Time             `json:"created_at"`
	IndexOrHash string                `json:"index_or_hash"`
	Type        string                `json:"type"`
	Statuses    []indexer.StatusEvent `json:"statuses"`
}

// ApplySwapCorrection normalizes the emission-order anomaly where the
// indexer records DecisionDepositPlaced before Deciding (a deposit placed
// mid-deciding). The deposit event is spliced out and reinserted directly
// after Deciding. Only the first such pair is handled; further interleavings
// are left as-is.
func ApplySwapCorrection(events []indexer.StatusEvent) ([]indexer.StatusEvent, bool) {
	d, c := -1, -1
	for i, e := range events {
		switch e.Status {
		case gov.StatusDecisionDepositPlaced:
			if d == -1 {
				d = i
			}
		case gov.StatusDeciding:
			if c == -1 {
				c = i
			}
		}
	}
	if d == -1 || c == -1 || d > c {
		return events, false
	}

	out := make([]indexer.StatusEvent, 0, len(events))
	deposit := events[d]
	out = append(out, events[:d]...)
	out = append(out, events[d+1:]...)
	// After the splice Deciding sits at c-1; inserting at c puts the
	// deposit right behind it.
	out = append(out[:c], append([]indexer.StatusEvent{deposit}, out[c:]...)...)
	return out, true
}

// DisplayStatus overrides the stored current status for display when the
// swap correction fired and the raw status still reads as the deposit event.
// The stored status is untouched.
func DisplayStatus(status string, swapped bool) string {
	if swapped && status == gov.StatusDecisionDepositPlaced {
		return gov.StatusDeciding
	}
	return status
}

// BuildTimeline produces the display timeline for a proposal. Grouped
// proposals yield one entry per member in stage order; ungrouped ones yield
// a single entry from the proposal's own events, seeded with Created when no
// events exist. The second return reports whether any swap correction fired.
func BuildTimeline(p *indexer.Proposal) ([]TimelineEntry, bool) {
	if len(p.Group) > 1 {
		entries := make([]TimelineEntry, 0, len(p.Group))
		swapped := false
		for _, m := range p.Group {
			statuses, s := ApplySwapCorrection(m.Events)
			swapped = swapped || s
			entries = append(entries, TimelineEntry{
				CreatedAt:   m.CreatedAt,
				IndexOrHash: m.ID(),
				Type:        m.Type.String(),
				Statuses:    statuses,
			})
		}
		return entries, swapped
	}

	statuses, swapped := ApplySwapCorrection(p.Events)
	if len(statuses) == 0 {
		statuses = []indexer.StatusEvent{{
			Status:    gov.StatusCreated,
			Timestamp: p.CreatedAt,
		}}
	}
	return []TimelineEntry{{
		CreatedAt:   p.CreatedAt,
		IndexOrHash: p.ID(),
		Type:        p.Type.String(),
		Statuses:    statuses,
	}}, swapped
}
