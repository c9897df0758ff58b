// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"inventory-assistant-be/internal/config"
	"inventory-assistant-be/internal/constant"
	"inventory-assistant-be/internal/dto"
	"inventory-assistant-be/internal/entity"
	"inventory-assistant-be/internal/repository/specification"
	"inventory-assistant-be/internal/repository/unitofwork"
	"inventory-assistant-be/pkg/events"
	"inventory-assistant-be/pkg/llm"
	pktNats "inventory-assistant-be/pkg/nats"
	"inventory-assistant-be/pkg/rag/history"
	"inventory-assistant-be/pkg/rag/intent"
	"inventory-assistant-be/pkg/rag/prompt"
	"inventory-assistant-be/pkg/rag/retrieval"
	"inventory-assistant-be/pkg/rag/search"
)

type IChatService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error)
	GetSessionDetail(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SessionDetailResponse, error)
	SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	structured     *retrieval.StructuredRetriever
	vector         *search.VectorRetriever
	llmProvider    llm.LLMProvider
	eventPublisher *pktNats.Publisher
	chatCfg        config.ChatConfig
	logger         *log.Logger

	// one mutex per session id so concurrent sends to the same session
	// serialize instead of interleaving their transactions
	sessionLocks sync.Map
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	structured *retrieval.StructuredRetriever,
	vector *search.VectorRetriever,
	llmProvider llm.LLMProvider,
	eventPublisher *pktNats.Publisher,
	chatCfg config.ChatConfig,
	logger *log.Logger,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		structured:     structured,
		vector:         vector,
		llmProvider:    llmProvider,
		eventPublisher: eventPublisher,
		chatCfg:        chatCfg,
		logger:         logger,
	}
}

func (c *chatService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = constant.DefaultSessionTitle
	}

	session := entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     title,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	greeting := entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleAssistant,
		Content:       constant.GreetingMessage,
		CreatedAt:     time.Now(),
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, &greeting); err != nil {
		uow.Rollback()
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return toSessionResponse(&session), nil
}

func (c *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.SessionResponse, len(sessions))
	for i, session := range sessions {
		result[i] = toSessionResponse(session)
	}
	return result, nil
}

func (c *chatService) GetSessionDetail(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SessionDetailResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &dto.NotFoundError{Resource: "chat session"}
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	detail := &dto.SessionDetailResponse{
		Id:        session.Id,
		Title:     session.Title,
		IsActive:  session.IsActive,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		Messages:  make([]dto.ChatMessageDTO, len(messages)),
	}
	for i, msg := range messages {
		detail.Messages[i] = toChatMessageDTO(msg)
	}
	return detail, nil
}

// SendChat runs the full question pipeline: resolve the session, persist
// the user message, classify, retrieve, build the prompt, call the
// completion provider once, persist the reply.
//
// Persistence is split into two transactions on purpose. The user message
// commits before the provider call so a provider failure still leaves the
// question in the timeline; the assistant message commits only after the
// provider answered.
func (c *chatService) SendChat(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	session, err := c.resolveSession(ctx, userId, req)
	if err != nil {
		return nil, err
	}

	lock := c.lockFor(session.Id)
	lock.Lock()
	defer lock.Unlock()

	uow := c.uowFactory.NewUnitOfWork(ctx)
	recentHistory, err := history.LoadRecent(ctx, uow.ChatMessageRepository(), session.Id, c.chatCfg.HistoryWindow)
	if err != nil {
		return nil, err
	}

	userMsg, err := c.persistUserMessage(ctx, session, req.Chat)
	if err != nil {
		return nil, err
	}

	analysis := intent.Analyze(req.Chat)
	c.logger.Printf("[CHAT] session=%s topics=%v entities=%+v hint=%q", session.Id, analysis.TopicStrings(), analysis.Entities, req.SessionHint)

	// Both retrieval paths degrade to empty on failure; the provider call
	// happens regardless of what they found.
	structuredResult := c.structured.Retrieve(ctx, analysis)
	snippets := c.vector.Retrieve(ctx, req.Chat)

	promptText := prompt.Build(prompt.Input{
		Structured: structuredResult,
		Snippets:   snippets,
		History:    recentHistory,
		Question:   req.Chat,
	})

	callCtx, cancel := context.WithTimeout(ctx, c.chatCfg.CompletionTimeout)
	defer cancel()
	reply, err := c.llmProvider.Generate(callCtx, promptText)
	if err != nil {
		c.logger.Printf("[CHAT] provider call failed for session %s: %v", session.Id, err)
		return nil, &dto.ProviderError{Err: err}
	}

	assistantMsg, err := c.persistAssistantMessage(ctx, session, reply, analysis, structuredResult, snippets)
	if err != nil {
		return nil, err
	}

	c.publishReplyCreated(ctx, session.Id, userId)

	sentDTO := toChatMessageDTO(userMsg)
	replyDTO := toChatMessageDTO(assistantMsg)
	return &dto.SendChatResponse{
		ChatSessionId:    session.Id,
		ChatSessionTitle: session.Title,
		Sent:             &sentDTO,
		Reply:            &replyDTO,
	}, nil
}

func (c *chatService) DeleteSession(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return &dto.NotFoundError{Resource: "chat session"}
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, session.Id); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.ChatSessionRepository().Delete(ctx, session.Id); err != nil {
		uow.Rollback()
		return err
	}
	return uow.Commit()
}

// resolveSession turns the request's claimed identity into a durable
// session. A missing or unresolvable id never fails the send: the service
// mints a fresh session instead, and logs the claimed id for correlation.
func (c *chatService) resolveSession(ctx context.Context, userId uuid.UUID, req *dto.SendChatRequest) (*entity.ChatSession, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	if req.ChatSessionId != nil {
		session, err := uow.ChatSessionRepository().FindOne(ctx,
			specification.ByID{ID: *req.ChatSessionId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if session != nil {
			return session, nil
		}
		c.logger.Printf("[IDENTITY] session %s not resolvable for user %s (hint=%q), creating a new one", req.ChatSessionId, userId, req.SessionHint)
	}

	session := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     constant.DefaultSessionTitle,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (c *chatService) persistUserMessage(ctx context.Context, session *entity.ChatSession, content string) (*entity.ChatMessage, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	userMsg := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleUser,
		Content:       content,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMsg); err != nil {
		uow.Rollback()
		return nil, err
	}

	// The session was loaded before the per-session lock was taken, so this
	// copy may be stale. Re-read the stored title inside the lock before
	// deciding whether to name the session: the title is set exactly once and
	// never recomputed after.
	current, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: session.Id})
	if err != nil {
		uow.Rollback()
		return nil, err
	}
	if current != nil {
		session.Title = current.Title
	}

	// First real message names the session.
	if session.Title == constant.DefaultSessionTitle {
		session.Title = deriveSessionTitle(content)
		now := time.Now()
		session.UpdatedAt = &now
		if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
			uow.Rollback()
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return userMsg, nil
}

func (c *chatService) persistAssistantMessage(
	ctx context.Context,
	session *entity.ChatSession,
	reply string,
	analysis *intent.Analysis,
	structuredResult *retrieval.Result,
	snippets []search.Snippet,
) (*entity.ChatMessage, error) {
	metadata := map[string]interface{}{
		"topics":           analysis.TopicStrings(),
		"structured_count": len(structuredResult.Assets) + len(structuredResult.Rooms),
		"vector_count":     len(snippets),
	}
	if analysis.Entities.AssetCode != "" {
		metadata["asset_code"] = analysis.Entities.AssetCode
	}
	if analysis.Entities.RoomName != "" {
		metadata["room_name"] = analysis.Entities.RoomName
	}
	if analysis.Entities.Year != 0 {
		metadata["year"] = analysis.Entities.Year
	}

	assistantMsg := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleAssistant,
		Content:       reply,
		Metadata:      metadata,
		CreatedAt:     time.Now(),
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMsg); err != nil {
		uow.Rollback()
		return nil, err
	}

	now := time.Now()
	session.UpdatedAt = &now
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		uow.Rollback()
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return assistantMsg, nil
}

func (c *chatService) publishReplyCreated(ctx context.Context, sessionId, userId uuid.UUID) {
	if c.eventPublisher == nil {
		return
	}
	evt := events.NewChatReplyCreated(sessionId.String(), userId.String())
	// Notification fan-out is auxiliary; a failed publish never fails the send.
	if err := c.eventPublisher.Publish(ctx, evt); err != nil {
		c.logger.Printf("[WARN] Failed to publish CHAT_REPLY_CREATED event: %v", err)
	}
}

func (c *chatService) lockFor(sessionId uuid.UUID) *sync.Mutex {
	lock, _ := c.sessionLocks.LoadOrStore(sessionId, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func deriveSessionTitle(content string) string {
	title := strings.Join(strings.Fields(content), " ")
	runes := []rune(title)
	if len(runes) > constant.SessionTitleMaxRunes {
		title = string(runes[:constant.SessionTitleMaxRunes])
	}
	if title == "" {
		return constant.DefaultSessionTitle
	}
	return title
}

func toSessionResponse(session *entity.ChatSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:        session.Id,
		Title:     session.Title,
		IsActive:  session.IsActive,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

func toChatMessageDTO(msg *entity.ChatMessage) dto.ChatMessageDTO {
	return dto.ChatMessageDTO{
		Id:        msg.Id,
		Role:      msg.Role,
		Content:   msg.Content,
		Metadata:  msg.Metadata,
		CreatedAt: msg.CreatedAt,
	}
}
