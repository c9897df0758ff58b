package chatclient

import (
	"testing"
	"time"
)

func msg(role, content string, at time.Time) Message {
	return Message{Role: role, Content: content, CreatedAt: at}
}

func localMsg(role, content string, at time.Time) Message {
	return Message{Role: role, Content: content, Local: true, CreatedAt: at}
}

func timelinesEqual(a, b []Message) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMergeTimelineIdempotent(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	canonical := []Message{
		msg("assistant", "Hi, how can I help you with the asset inventory?", base),
		msg("user", "mã AB123 còn bao nhiêu?", base.Add(time.Minute)),
		msg("assistant", "Còn 2 chiếc.", base.Add(time.Minute+5*time.Second)),
	}

	merged := MergeTimeline(canonical, canonical)
	if !timelinesEqual(merged, canonical) {
		t.Errorf("merging a timeline with itself changed it:\n%v\n%v", merged, canonical)
	}
}

func TestMergeTimelineConfirmsOptimisticUserMessage(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	local := []Message{
		localMsg("user", "phòng A1-101 có gì?", base),
	}
	canonical := []Message{
		msg("user", "phòng A1-101 có gì?", base.Add(2*time.Second)),
		msg("assistant", "Có 2 máy chiếu.", base.Add(4*time.Second)),
	}

	merged := MergeTimeline(local, canonical)

	if len(merged) != 2 {
		t.Fatalf("expected 2 messages, got %d: %v", len(merged), merged)
	}
	for _, m := range merged {
		if m.Local {
			t.Errorf("expected no local entries to survive, got %v", m)
		}
	}
}

func TestMergeTimelineAssistantWindowDedup(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	// The client rendered a reply whose stored form the server trimmed.
	local := []Message{
		localMsg("assistant", "Còn 2 chiếc.  ", base),
	}
	canonical := []Message{
		msg("assistant", "Còn 2 chiếc.", base.Add(3*time.Second)),
	}

	merged := MergeTimeline(local, canonical)
	if len(merged) != 1 {
		t.Fatalf("expected window dedup to drop the local variant, got %v", merged)
	}
	if merged[0].Content != "Còn 2 chiếc." {
		t.Errorf("expected the canonical form to win, got %q", merged[0].Content)
	}
}

func TestMergeTimelineAssistantOutsideWindowKept(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	local := []Message{
		localMsg("assistant", "Câu trả lời cũ.", base),
	}
	canonical := []Message{
		msg("assistant", "Câu trả lời mới.", base.Add(time.Minute)),
	}

	merged := MergeTimeline(local, canonical)
	if len(merged) != 2 {
		t.Fatalf("expected both assistant messages kept outside the window, got %v", merged)
	}
}

func TestMergeTimelineKeepsLocalSystemNotices(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	local := []Message{
		msg("user", "xin chào", base),
		localMsg("system", "Gửi thất bại, thử lại sau.", base.Add(5*time.Second)),
	}
	canonical := []Message{
		msg("user", "xin chào", base),
	}

	merged := MergeTimeline(local, canonical)
	if len(merged) != 2 {
		t.Fatalf("expected the system notice kept, got %v", merged)
	}
	if merged[1].Role != "system" || !merged[1].Local {
		t.Errorf("expected the local system notice last, got %v", merged[1])
	}
}

func TestMergeTimelineSortsByTimestamp(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	local := []Message{
		localMsg("system", "notice", base.Add(30*time.Second)),
	}
	canonical := []Message{
		msg("user", "first", base),
		msg("assistant", "second", base.Add(10*time.Second)),
		msg("user", "third", base.Add(time.Minute)),
	}

	merged := MergeTimeline(local, canonical)
	want := []string{"first", "second", "notice", "third"}
	for i, content := range want {
		if merged[i].Content != content {
			t.Fatalf("position %d: expected %q, got %q", i, content, merged[i].Content)
		}
	}
}
