package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"hipaai-chat-be/internal/apperror"
	"hipaai-chat-be/internal/constant"
	"hipaai-chat-be/internal/dto"
	"hipaai-chat-be/internal/entity"
	"hipaai-chat-be/internal/repository/specification"
	"hipaai-chat-be/internal/repository/unitofwork"
	"hipaai-chat-be/pkg/redactor"
)

var errNoGeneratedId = errors.New("store did not report a generated id")

// IChatService implements the five chat operations. The caller identity is
// threaded explicitly into every call; no ambient session state exists.
type IChatService interface {
	GetChats(ctx context.Context, userId int64) ([]*dto.ChatSummaryResponse, error)
	CreateChat(ctx context.Context, userId int64) (*dto.CreateChatResponse, error)
	GetMessages(ctx context.Context, userId int64, chatId int64) ([]*dto.ChatTurnResponse, error)
	SendMessage(ctx context.Context, userId int64, request *dto.SendMessageRequest) (*dto.ChatTurnResponse, error)
	DeleteChat(ctx context.Context, userId int64, chatId int64) error
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	redactor   redactor.Redactor
	settings   ISettingsService
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	redactorClient redactor.Redactor,
	settings ISettingsService,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		redactor:   redactorClient,
		settings:   settings,
	}
}

// GetChats lists the caller's sessions, most recently active first.
func (cs *chatService) GetChats(ctx context.Context, userId int64) ([]*dto.ChatSummaryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatSessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, apperror.Persistence("Failed to fetch chat sessions.", err)
	}

	response := make([]*dto.ChatSummaryResponse, 0, len(chatSessions))
	for _, s := range chatSessions {
		response = append(response, &dto.ChatSummaryResponse{
			ChatId:    s.Id,
			Title:     s.Title,
			UpdatedAt: s.UpdatedAt,
		})
	}

	return response, nil
}

// CreateChat inserts an empty session with a timestamped default title.
func (cs *chatService) CreateChat(ctx context.Context, userId int64) (*dto.CreateChatResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	chatSession := entity.ChatSession{
		UserId:    userId,
		Title:     constant.ChatSessionTitlePrefix + now.Format(constant.ChatSessionTitleTimeLayout),
		CreatedAt: now,
	}

	if err := uow.ChatSessionRepository().Create(ctx, &chatSession); err != nil {
		return nil, apperror.Persistence("Failed to create chat session.", err)
	}
	if chatSession.Id == 0 {
		return nil, apperror.Persistence("Failed to create chat session.", errNoGeneratedId)
	}

	return &dto.CreateChatResponse{
		ChatId: chatSession.Id,
		Title:  chatSession.Title,
		UserId: chatSession.UserId,
	}, nil
}

// GetMessages returns the session's turns in chronological order.
func (cs *chatService) GetMessages(ctx context.Context, userId int64, chatId int64) ([]*dto.ChatTurnResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := cs.findOwnedSession(ctx, uow, userId, chatId); err != nil {
		return nil, err
	}

	chatMessages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: chatId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, apperror.Persistence("Failed to fetch chat messages.", err)
	}

	response := make([]*dto.ChatTurnResponse, 0, len(chatMessages))
	for _, msg := range chatMessages {
		response = append(response, &dto.ChatTurnResponse{
			Role:    roleFor(msg.Sender),
			Content: msg.Content,
		})
	}

	return response, nil
}

// SendMessage persists the user turn, forwards the rendered transcript to
// the redaction service and persists the reply. Both inserts plus the
// session touch happen in one transaction so an upstream failure leaves no
// orphaned user message behind.
func (cs *chatService) SendMessage(ctx context.Context, userId int64, request *dto.SendMessageRequest) (*dto.ChatTurnResponse, error) {
	content := strings.TrimSpace(request.MessageContent)
	if content == "" {
		return nil, apperror.BadRequest("Message content must not be empty.")
	}

	// Resolve the credential before opening the transaction; a missing
	// credential should not tie up a database connection.
	apiKey, err := cs.settings.UpstreamAPIKey(ctx)
	if err != nil {
		return nil, err
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chatSession, err := cs.findOwnedSession(ctx, uow, userId, request.ChatId)
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Persistence("Failed to start transaction.", err)
	}
	defer uow.Rollback()

	now := time.Now()
	userMessage := entity.ChatMessage{
		ChatSessionId: chatSession.Id,
		UserId:        userId,
		Sender:        constant.ChatMessageSenderUser,
		Content:       content,
		CreatedAt:     now,
	}
	if err := uow.ChatMessageRepository().Create(ctx, &userMessage); err != nil {
		return nil, apperror.Persistence("Failed to save message.", err)
	}

	history, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: chatSession.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, apperror.Persistence("Failed to fetch chat history.", err)
	}

	reply, err := cs.redactor.Redact(ctx, apiKey, renderTranscript(history))
	if err != nil {
		return nil, err
	}

	assistantMessage := entity.ChatMessage{
		ChatSessionId: chatSession.Id,
		UserId:        userId,
		Sender:        constant.ChatMessageSenderAssistant,
		Content:       reply,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, &assistantMessage); err != nil {
		return nil, apperror.Persistence("Failed to save assistant reply.", err)
	}

	// Listing orders by updated_at, so appending a turn bumps the session.
	touched := now
	chatSession.UpdatedAt = &touched
	if err := uow.ChatSessionRepository().Update(ctx, chatSession); err != nil {
		return nil, apperror.Persistence("Failed to touch chat session.", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Persistence("Failed to commit message exchange.", err)
	}

	return &dto.ChatTurnResponse{
		Role:    constant.ChatMessageSenderAssistant,
		Content: reply,
	}, nil
}

// DeleteChat removes the session and its messages in one transaction.
func (cs *chatService) DeleteChat(ctx context.Context, userId int64, chatId int64) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if _, err := cs.findOwnedSession(ctx, uow, userId, chatId); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return apperror.Persistence("Failed to start transaction.", err)
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatSessionId(ctx, chatId); err != nil {
		return apperror.Persistence("Failed to delete chat messages.", err)
	}
	if err := uow.ChatSessionRepository().Delete(ctx, chatId); err != nil {
		return apperror.Persistence("Failed to delete chat session.", err)
	}

	if err := uow.Commit(); err != nil {
		return apperror.Persistence("Failed to commit chat deletion.", err)
	}

	return nil
}

// findOwnedSession checks existence before ownership, so a missing session
// reads NotFound while someone else's session reads Forbidden.
func (cs *chatService) findOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId int64, chatId int64) (*entity.ChatSession, error) {
	chatSession, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: chatId},
	)
	if err != nil {
		return nil, apperror.Persistence("Failed to fetch chat session.", err)
	}
	if chatSession == nil {
		return nil, apperror.NotFound("Chat session not found.")
	}
	if chatSession.UserId != userId {
		return nil, apperror.Forbidden("You do not have access to this chat session.")
	}
	return chatSession, nil
}

func roleFor(sender string) string {
	if sender == constant.ChatMessageSenderAssistant {
		return constant.ChatMessageSenderAssistant
	}
	return constant.ChatMessageSenderUser
}

// renderTranscript formats the history as alternating "User:"/"Assistant:"
// blocks separated by blank lines, trailing whitespace trimmed.
func renderTranscript(messages []*entity.ChatMessage) string {
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if msg.Sender == constant.ChatMessageSenderAssistant {
			b.WriteString("Assistant: ")
		} else {
			b.WriteString("User: ")
		}
		b.WriteString(msg.Content)
	}
	return strings.TrimRight(b.String(), " \t\r\n")
}
