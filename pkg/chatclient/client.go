// FILE: pkg/chatclient/client.go
// PURPOSE: Go client for the assistant API with optimistic local state

package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// ErrSendInFlight is returned when a send is attempted on a session that
// already has one running. One message at a time per session.
var ErrSendInFlight = errors.New("chatclient: a send is already in flight for this session")

// Client keeps per-session local state and talks to the assistant backend.
// Sessions are held in an expiring cache so abandoned provisional sessions
// do not accumulate forever.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	mu       sync.Mutex // guards session re-keying in the cache
	sessions *gocache.Cache
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 90 * time.Second},
		sessions:   gocache.New(24*time.Hour, time.Hour),
	}
}

// NewSession creates a provisional session with a local identifier. The
// durable id arrives with the first send response.
func (c *Client) NewSession() *Session {
	session := &Session{
		id:    "local-" + uuid.NewString(),
		state: StateProvisional,
	}
	c.sessions.Set(session.id, session, gocache.DefaultExpiration)
	return session
}

// Session looks a session up by its current id, provisional or durable.
func (c *Client) Session(id string) (*Session, bool) {
	v, ok := c.sessions.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type wireMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type sendResult struct {
	ChatSessionId string       `json:"chat_session_id"`
	Title         string       `json:"title"`
	Sent          *wireMessage `json:"sent"`
	Reply         *wireMessage `json:"reply"`
}

type sessionDetail struct {
	Id       string        `json:"id"`
	Title    string        `json:"title"`
	Messages []wireMessage `json:"messages"`
}

// SendMessage appends the text optimistically, posts it, and on success
// promotes the session to its durable identity in one step. On failure the
// session drops back to its previous state and the optimistic message
// stays visible, flagged local.
func (c *Client) SendMessage(ctx context.Context, session *Session, text string) error {
	session.mu.Lock()
	if session.inFlight {
		session.mu.Unlock()
		return ErrSendInFlight
	}
	session.inFlight = true
	wasProvisional := session.state == StateProvisional
	if wasProvisional {
		session.state = StatePending
	}
	session.messages = append(session.messages, Message{
		Role:      "user",
		Content:   text,
		Local:     true,
		CreatedAt: time.Now(),
	})
	optimisticIdx := len(session.messages) - 1
	provisionalId := session.id

	payload := map[string]interface{}{"chat": text}
	if session.state == StateDurable {
		payload["chat_session_id"] = session.id
	} else {
		payload["session_hint"] = provisionalId
	}
	session.mu.Unlock()

	result, err := c.postSend(ctx, payload)

	session.mu.Lock()
	defer session.mu.Unlock()
	session.inFlight = false

	if err != nil {
		if wasProvisional {
			session.state = StateProvisional
		}
		return err
	}

	// Promotion: swap to the durable id, confirm the optimistic message,
	// and append the reply, all under the session lock.
	oldId := session.id
	session.id = result.ChatSessionId
	session.state = StateDurable
	session.title = result.Title
	if result.Sent != nil && optimisticIdx < len(session.messages) {
		session.messages[optimisticIdx].Local = false
		session.messages[optimisticIdx].CreatedAt = result.Sent.CreatedAt
	}
	if result.Reply != nil {
		session.messages = append(session.messages, Message{
			Role:      result.Reply.Role,
			Content:   result.Reply.Content,
			CreatedAt: result.Reply.CreatedAt,
		})
	}

	if oldId != session.id {
		c.mu.Lock()
		c.sessions.Delete(oldId)
		c.sessions.Set(session.id, session, gocache.DefaultExpiration)
		c.mu.Unlock()
	}
	return nil
}

// Refresh replaces the local timeline with the merge of local state and
// the server's canonical timeline. Provisional sessions have nothing to
// fetch and are left alone.
func (c *Client) Refresh(ctx context.Context, session *Session) error {
	session.mu.Lock()
	if session.state != StateDurable {
		session.mu.Unlock()
		return nil
	}
	id := session.id
	session.mu.Unlock()

	detail, err := c.getSessionDetail(ctx, id)
	if err != nil {
		return err
	}

	canonical := make([]Message, len(detail.Messages))
	for i, m := range detail.Messages {
		canonical[i] = Message{Role: m.Role, Content: m.Content, CreatedAt: m.CreatedAt}
	}

	session.mu.Lock()
	session.title = detail.Title
	session.messages = MergeTimeline(session.messages, canonical)
	session.mu.Unlock()
	return nil
}

// RenderLocalError appends a client-side system notice to the timeline.
// It never reaches the server and survives merges.
func (c *Client) RenderLocalError(session *Session, text string) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.messages = append(session.messages, Message{
		Role:      "system",
		Content:   text,
		Local:     true,
		CreatedAt: time.Now(),
	})
}

func (c *Client) postSend(ctx context.Context, payload map[string]interface{}) (*sendResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat/v1/send", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	envelope, err := decodeEnvelope(resp)
	if err != nil {
		return nil, err
	}

	var result sendResult
	if err := json.Unmarshal(envelope.Data, &result); err != nil {
		return nil, fmt.Errorf("decode send result: %w", err)
	}
	return &result, nil
}

func (c *Client) getSessionDetail(ctx context.Context, id string) (*sessionDetail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/chat/v1/session/"+id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	envelope, err := decodeEnvelope(resp)
	if err != nil {
		return nil, err
	}

	var detail sessionDetail
	if err := json.Unmarshal(envelope.Data, &detail); err != nil {
		return nil, fmt.Errorf("decode session detail: %w", err)
	}
	return &detail, nil
}

func decodeEnvelope(resp *http.Response) (*apiEnvelope, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, err
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("status %d: unreadable response", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK || !envelope.Success {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, envelope.Message)
	}
	return &envelope, nil
}
