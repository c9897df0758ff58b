// FILE: pkg/chatclient/session.go
package chatclient

import (
	"sync"
	"time"
)

// SessionState tracks the identity lifecycle of a conversation on the
// client: provisional (local id only), pending (first send in flight),
// durable (server-issued id).
type SessionState int

const (
	StateProvisional SessionState = iota
	StatePending
	StateDurable
)

func (s SessionState) String() string {
	switch s {
	case StateProvisional:
		return "provisional"
	case StatePending:
		return "pending"
	case StateDurable:
		return "durable"
	default:
		return "unknown"
	}
}

// Message is one timeline entry as the client sees it. Local marks entries
// created on this device that the server has not confirmed: optimistic user
// messages and client-side system notices.
type Message struct {
	Role      string
	Content   string
	Local     bool
	CreatedAt time.Time
}

// Session is a client-side conversation. All mutation goes through the
// mutex; readers get copies.
type Session struct {
	mu sync.Mutex

	id       string
	state    SessionState
	title    string
	messages []Message
	inFlight bool
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// Messages returns a snapshot of the timeline.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}
