package controller

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"inventory-assistant-be/internal/dto"
	"inventory-assistant-be/internal/pkg/logger"
	"inventory-assistant-be/internal/pkg/serverutils"
)

type stubChatService struct {
	calls int
}

func (s *stubChatService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	s.calls++
	return &dto.SessionResponse{Id: uuid.New()}, nil
}

func (s *stubChatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error) {
	s.calls++
	return nil, nil
}

func (s *stubChatService) GetSessionDetail(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SessionDetailResponse, error) {
	s.calls++
	return &dto.SessionDetailResponse{Id: id}, nil
}

func (s *stubChatService) SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	s.calls++
	return &dto.SendChatResponse{}, nil
}

func (s *stubChatService) DeleteSession(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	s.calls++
	return nil
}

// newIdentityApp wires the controller behind a middleware that plants the
// given value as the user_id local, standing in for whatever the token claim
// carried.
func newIdentityApp(svc *stubChatService, userIdLocal interface{}) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(logger.NewNopLogger()))
	app.Use(func(ctx *fiber.Ctx) error {
		ctx.Locals("user_id", userIdLocal)
		return ctx.Next()
	})

	c := &chatController{chatService: svc}
	h := app.Group("/chat/v1")
	h.Get("sessions", c.GetAllSessions)
	h.Get("session/:id", c.GetSessionDetail)
	return app
}

// Tokens minted by the external auth service can carry a numeric or absent
// user_id claim; the handlers must answer 401 instead of panicking on the
// type assertion.
func TestHandlersRejectNonStringUserIdClaim(t *testing.T) {
	svc := &stubChatService{}
	app := newIdentityApp(svc, 12345)

	resp, err := app.Test(httptest.NewRequest("GET", "/chat/v1/sessions", nil))
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401 for a non-string user_id claim, got %d", resp.StatusCode)
	}
	if svc.calls != 0 {
		t.Errorf("expected the service to stay untouched, got %d calls", svc.calls)
	}
}

func TestHandlersRejectMalformedUserIdClaim(t *testing.T) {
	svc := &stubChatService{}
	app := newIdentityApp(svc, "not-a-uuid")

	resp, err := app.Test(httptest.NewRequest("GET", "/chat/v1/sessions", nil))
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401 for a malformed user_id claim, got %d", resp.StatusCode)
	}
	if svc.calls != 0 {
		t.Errorf("expected the service to stay untouched, got %d calls", svc.calls)
	}
}

func TestHandlersAcceptValidUserIdClaim(t *testing.T) {
	svc := &stubChatService{}
	app := newIdentityApp(svc, uuid.NewString())

	resp, err := app.Test(httptest.NewRequest("GET", "/chat/v1/sessions", nil))
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200 for a valid user_id claim, got %d", resp.StatusCode)
	}
	if svc.calls != 1 {
		t.Errorf("expected one service call, got %d", svc.calls)
	}
}
