package chatclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func sendHandler(t *testing.T, sessionId string, gotHints *[]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/v1/send" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if gotHints != nil {
			hint, _ := body["session_hint"].(string)
			*gotHints = append(*gotHints, hint)
		}

		now := time.Now().UTC()
		chat, _ := body["chat"].(string)
		fmt.Fprintf(w, `{"success":true,"message":"ok","data":{
			"chat_session_id":%q,
			"title":%q,
			"sent":{"role":"user","content":%q,"created_at":%q},
			"reply":{"role":"assistant","content":"Đã ghi nhận.","created_at":%q}
		}}`, sessionId, chat, chat, now.Format(time.RFC3339Nano), now.Add(time.Second).Format(time.RFC3339Nano))
	}
}

func TestSendMessagePromotesProvisionalSession(t *testing.T) {
	durableId := "3b4f2a60-9f6e-4c36-9f6e-2a60f63b4c36"
	var hints []string
	srv := httptest.NewServer(sendHandler(t, durableId, &hints))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token")
	session := client.NewSession()
	provisionalId := session.ID()

	if !strings.HasPrefix(provisionalId, "local-") {
		t.Fatalf("expected a provisional local id, got %q", provisionalId)
	}
	if session.State() != StateProvisional {
		t.Fatalf("expected provisional state, got %s", session.State())
	}

	if err := client.SendMessage(context.Background(), session, "mã AB123 còn bao nhiêu?"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.ID() != durableId {
		t.Errorf("expected durable id %s, got %s", durableId, session.ID())
	}
	if session.State() != StateDurable {
		t.Errorf("expected durable state, got %s", session.State())
	}
	if len(hints) != 1 || hints[0] != provisionalId {
		t.Errorf("expected the provisional id sent as hint, got %v", hints)
	}

	// The cache follows the promotion: old key gone, new key resolves.
	if _, ok := client.Session(provisionalId); ok {
		t.Error("provisional id should no longer resolve")
	}
	if got, ok := client.Session(durableId); !ok || got != session {
		t.Error("durable id should resolve to the same session")
	}

	messages := session.Messages()
	if len(messages) != 2 {
		t.Fatalf("expected user and assistant messages, got %d", len(messages))
	}
	if messages[0].Local {
		t.Error("expected the optimistic message confirmed after send")
	}
	if messages[1].Role != "assistant" {
		t.Errorf("expected the reply appended, got %v", messages[1])
	}
}

func TestSendMessageFailureRevertsToProvisional(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, `{"success":false,"message":"completion provider failure"}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token")
	session := client.NewSession()

	err := client.SendMessage(context.Background(), session, "xin chào")
	if err == nil {
		t.Fatal("expected an error")
	}

	if session.State() != StateProvisional {
		t.Errorf("expected session back to provisional, got %s", session.State())
	}
	messages := session.Messages()
	if len(messages) != 1 || !messages[0].Local {
		t.Errorf("expected the optimistic message kept and still local, got %v", messages)
	}

	// A later retry is allowed.
	if session.State() != StateProvisional {
		t.Errorf("expected retry to be possible, got state %s", session.State())
	}
}

func TestSendMessageSingleFlight(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		fmt.Fprint(w, `{"success":true,"message":"ok","data":{"chat_session_id":"sid","title":"t","sent":null,"reply":null}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token")
	session := client.NewSession()

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- client.SendMessage(context.Background(), session, "first")
	}()

	// Wait until the first send is in flight.
	deadline := time.After(2 * time.Second)
	for {
		session.mu.Lock()
		inFlight := session.inFlight
		session.mu.Unlock()
		if inFlight {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first send never became in-flight")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if err := client.SendMessage(context.Background(), session, "second"); err != ErrSendInFlight {
		t.Errorf("expected ErrSendInFlight, got %v", err)
	}

	once.Do(func() { close(release) })
	if err := <-firstDone; err != nil {
		t.Errorf("first send failed: %v", err)
	}
}

func TestRefreshMergesCanonicalTimeline(t *testing.T) {
	durableId := "4cc0a1de-55aa-4f10-9c2f-8a52c7a9b011"
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/chat/v1/session/") {
			fmt.Fprintf(w, `{"success":true,"message":"ok","data":{
				"id":%q,"title":"phòng A1-101 có gì?",
				"messages":[
					{"role":"user","content":"phòng A1-101 có gì?","created_at":%q},
					{"role":"assistant","content":"Có 2 máy chiếu.","created_at":%q}
				]}}`, durableId, base.Format(time.RFC3339), base.Add(5*time.Second).Format(time.RFC3339))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-token")
	session := &Session{id: durableId, state: StateDurable}
	client.sessions.Set(durableId, session, 0)
	client.RenderLocalError(session, "Mạng chập chờn.")

	if err := client.Refresh(context.Background(), session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	messages := session.Messages()
	if len(messages) != 3 {
		t.Fatalf("expected merged timeline of 3, got %d: %v", len(messages), messages)
	}
	if messages[0].Content != "phòng A1-101 có gì?" {
		t.Errorf("unexpected first message %v", messages[0])
	}
	last := messages[len(messages)-1]
	if last.Role != "system" || !last.Local {
		t.Errorf("expected the local notice to survive the merge, got %v", last)
	}
	if session.Title() != "phòng A1-101 có gì?" {
		t.Errorf("unexpected title %q", session.Title())
	}
}

func TestRefreshProvisionalSessionIsNoop(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-token")
	session := client.NewSession()
	client.RenderLocalError(session, "offline")

	if err := client.Refresh(context.Background(), session); err != nil {
		t.Fatalf("expected no network call for a provisional session, got %v", err)
	}
	if got := len(session.Messages()); got != 1 {
		t.Errorf("expected the local timeline untouched, got %d messages", got)
	}
}
