package service

import (
	"context"
	"time"

	"ai-studymate-be/internal/constant"
	"ai-studymate-be/internal/dto"
	"ai-studymate-be/internal/pkg/logger"
	"ai-studymate-be/internal/repository/memory"
	"ai-studymate-be/pkg/apperror"
	"ai-studymate-be/pkg/llm"
	"ai-studymate-be/pkg/normalize"
	"ai-studymate-be/pkg/prompt"
	"ai-studymate-be/pkg/store"
	"ai-studymate-be/pkg/vectorstore"
)

type IChatService interface {
	SendMessage(ctx context.Context, sessionId string, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	History(ctx context.Context, sessionId string) (*dto.ChatHistoryResponse, error)
	Reset(ctx context.Context, sessionId string) (*dto.ResetChatResponse, error)
}

type chatService struct {
	sessionRepo  *memory.SessionRepository
	normalizer   *normalize.Normalizer
	storeManager *vectorstore.Manager
	llmProvider  llm.LLMProvider
	logger       logger.ILogger
}

func NewChatService(
	sessionRepo *memory.SessionRepository,
	normalizer *normalize.Normalizer,
	storeManager *vectorstore.Manager,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
) IChatService {
	return &chatService{
		sessionRepo:  sessionRepo,
		normalizer:   normalizer,
		storeManager: storeManager,
		llmProvider:  llmProvider,
		logger:       log,
	}
}

// SendMessage runs one tutoring turn. The conversation is only extended
// after the model answers: a failed turn leaves the history exactly as it
// was, so the user can retry the same message.
func (s *chatService) SendMessage(ctx context.Context, sessionId string, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	sess := s.sessionRepo.GetOrCreate(sessionId)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	result, err := s.normalizer.Normalize(ctx, sess.Material)
	if err != nil {
		return nil, err
	}

	storeId, err := s.storeManager.EnsureStore(ctx, sess, storePayload(sess.Material, result))
	if err != nil {
		return nil, err
	}

	history := sess.Conversation.Window(constant.ConversationWindow)
	messages := prompt.TutorTurn(result.Text, history, req.Message)

	reply, err := s.llmProvider.Chat(ctx, messages, llm.WithVectorStore(storeId))
	if err != nil {
		s.logger.Error("ChatService", "tutor turn failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return nil, apperror.Generation(err)
	}

	sess.Conversation.Append(store.RoleUser, req.Message)
	sess.Conversation.Append(store.RoleAssistant, reply)

	return &dto.SendChatResponse{
		Reply:     reply,
		CreatedAt: time.Now(),
	}, nil
}

func (s *chatService) History(ctx context.Context, sessionId string) (*dto.ChatHistoryResponse, error) {
	sess := s.sessionRepo.GetOrCreate(sessionId)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	turns := make([]dto.ChatTurnDTO, 0, sess.Conversation.Len())
	for _, t := range sess.Conversation.Turns {
		turns = append(turns, dto.ChatTurnDTO{
			Role:      t.Role,
			Content:   t.Content,
			CreatedAt: t.CreatedAt,
		})
	}
	return &dto.ChatHistoryResponse{Turns: turns}, nil
}

// Reset clears the conversation and deletes the session's knowledge store.
// Store deletion is best-effort: a failure is logged, the reset still
// succeeds, and the next study action provisions a fresh store.
func (s *chatService) Reset(ctx context.Context, sessionId string) (*dto.ResetChatResponse, error) {
	sess := s.sessionRepo.GetOrCreate(sessionId)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	sess.Conversation.Reset()

	deleted := false
	if handle := sess.StoreHandle; handle != nil {
		sess.StoreHandle = nil
		if err := s.storeManager.Teardown(ctx, handle); err != nil {
			s.logger.Warn("ChatService", "failed to delete knowledge store on reset", map[string]interface{}{
				"session_id": sessionId,
				"store_id":   handle.StoreId,
				"error":      err.Error(),
			})
		} else {
			deleted = true
		}
	}

	return &dto.ResetChatResponse{StoreDeleted: deleted}, nil
}
