// FILE: pkg/chatclient/merge.go
package chatclient

import (
	"sort"
	"time"
)

// assistantDedupWindow covers the clock skew between an optimistic local
// timestamp and the server's stored one for the same assistant reply.
const assistantDedupWindow = 10 * time.Second

// MergeTimeline combines the local timeline with the server's canonical
// one. Canonical entries always survive. A local entry is dropped when the
// canonical timeline already represents it:
//
//   - an exact (role, content) match drops it, whatever the role;
//   - a local assistant entry is additionally dropped when any canonical
//     assistant entry sits within ten seconds of it, since the server may
//     store a normalized form of the reply the client rendered;
//   - local system notices with no canonical match are always kept.
//
// The result is sorted by timestamp with a stable sort, so entries sharing
// a timestamp keep their relative order. Merging a timeline with itself
// returns the same timeline.
func MergeTimeline(local, canonical []Message) []Message {
	merged := make([]Message, 0, len(local)+len(canonical))
	merged = append(merged, canonical...)

	for _, lm := range local {
		if hasExactMatch(canonical, lm) {
			continue
		}
		if lm.Role == "assistant" && hasWindowMatch(canonical, lm) {
			continue
		}
		merged = append(merged, lm)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.Before(merged[j].CreatedAt)
	})
	return merged
}

func hasExactMatch(canonical []Message, m Message) bool {
	for _, cm := range canonical {
		if cm.Role == m.Role && cm.Content == m.Content {
			return true
		}
	}
	return false
}

func hasWindowMatch(canonical []Message, m Message) bool {
	for _, cm := range canonical {
		if cm.Role != "assistant" {
			continue
		}
		delta := cm.CreatedAt.Sub(m.CreatedAt)
		if delta < 0 {
			delta = -delta
		}
		if delta <= assistantDedupWindow {
			return true
		}
	}
	return false
}
