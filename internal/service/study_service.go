package service

import (
	"context"

	"ai-studymate-be/internal/dto"
	"ai-studymate-be/internal/pkg/logger"
	"ai-studymate-be/internal/repository/memory"
	"ai-studymate-be/pkg/apperror"
	"ai-studymate-be/pkg/llm"
	"ai-studymate-be/pkg/normalize"
	"ai-studymate-be/pkg/prompt"
	"ai-studymate-be/pkg/quiz"
	"ai-studymate-be/pkg/store"
	"ai-studymate-be/pkg/vectorstore"
)

const quizMaxTokens = 2048

type IStudyService interface {
	GenerateNotes(ctx context.Context, sessionId string) (*dto.GenerateNotesResponse, error)
	GenerateQuiz(ctx context.Context, sessionId string, req *dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error)
	Artifact(ctx context.Context, sessionId string, kind string) (content string, filename string, err error)
}

type studyService struct {
	sessionRepo  *memory.SessionRepository
	normalizer   *normalize.Normalizer
	storeManager *vectorstore.Manager
	llmProvider  llm.LLMProvider
	logger       logger.ILogger
}

func NewStudyService(
	sessionRepo *memory.SessionRepository,
	normalizer *normalize.Normalizer,
	storeManager *vectorstore.Manager,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
) IStudyService {
	return &studyService{
		sessionRepo:  sessionRepo,
		normalizer:   normalizer,
		storeManager: storeManager,
		llmProvider:  llmProvider,
		logger:       log,
	}
}

func (s *studyService) GenerateNotes(ctx context.Context, sessionId string) (*dto.GenerateNotesResponse, error) {
	sess := s.sessionRepo.GetOrCreate(sessionId)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	result, err := s.normalizer.Normalize(ctx, sess.Material)
	if err != nil {
		return nil, err
	}

	// The store is provisioned here even though notes are generated from the
	// inline text, so follow-up tutoring questions hit a warm index.
	if _, err := s.storeManager.EnsureStore(ctx, sess, storePayload(sess.Material, result)); err != nil {
		return nil, err
	}

	out, err := s.llmProvider.Chat(ctx, prompt.Notes(result.Text))
	if err != nil {
		s.logger.Error("StudyService", "notes generation failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return nil, apperror.Generation(err)
	}

	sess.Artifacts[store.ArtifactNotes] = out
	return &dto.GenerateNotesResponse{
		MaterialId: sess.Material.Id,
		Notes:      out,
	}, nil
}

func (s *studyService) GenerateQuiz(ctx context.Context, sessionId string, req *dto.GenerateQuizRequest) (*dto.GenerateQuizResponse, error) {
	sess := s.sessionRepo.GetOrCreate(sessionId)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	result, err := s.normalizer.Normalize(ctx, sess.Material)
	if err != nil {
		return nil, err
	}

	questionType, difficulty := "", ""
	if req != nil {
		questionType, difficulty = req.QuestionType, req.Difficulty
	}

	out, err := s.llmProvider.Generate(ctx,
		prompt.Quiz(result.Text, questionType, difficulty),
		llm.WithMaxTokens(quizMaxTokens),
	)
	if err != nil {
		s.logger.Error("StudyService", "quiz generation failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return nil, apperror.Generation(err)
	}

	pairs := quiz.Parse(out)
	questions := make([]dto.QuizPairDTO, 0, len(pairs))
	for _, p := range pairs {
		questions = append(questions, dto.QuizPairDTO{
			Question: p.Question,
			Answer:   p.Answer,
			Answered: p.Answered,
		})
	}

	sess.Artifacts[store.ArtifactQuiz] = out
	return &dto.GenerateQuizResponse{
		MaterialId: sess.Material.Id,
		Raw:        out,
		Questions:  questions,
	}, nil
}

func (s *studyService) Artifact(ctx context.Context, sessionId string, kind string) (string, string, error) {
	sess := s.sessionRepo.GetOrCreate(sessionId)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	var filename string
	switch kind {
	case store.ArtifactNotes:
		filename = "lecture-notes.md"
	case store.ArtifactQuiz:
		filename = "quiz.txt"
	default:
		return "", "", apperror.InputValidation("unknown artifact kind, expected 'notes' or 'quiz'")
	}

	content, ok := sess.Artifacts[kind]
	if !ok {
		return "", "", apperror.InputValidation("nothing has been generated yet for this session")
	}
	return content, filename, nil
}

// storePayload picks what gets indexed: the original file for documents so
// the retrieval tool sees the full content past the prompt truncation cap,
// the normalized text for everything else.
func storePayload(m *store.Material, result *normalize.Result) vectorstore.Payload {
	if m.Kind == store.KindDocument {
		return vectorstore.Payload{Data: m.Data, Filename: m.Filename}
	}
	return vectorstore.Payload{Data: []byte(result.Text), Filename: "material.txt"}
}
