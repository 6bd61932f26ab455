package prompt

import (
	"fmt"
	"strings"

	"ai-studymate-be/internal/constant"
	"ai-studymate-be/pkg/llm"
	"ai-studymate-be/pkg/store"
)

// Quiz parameters. Free-form values are accepted; these are the ones the
// client offers.
const (
	QuizTypeMultipleChoice = "multiple choice, 5 questions"
	QuizTypeShortAnswer    = "short answer, 5 questions"
	QuizTypeEssay          = "essay, 3 questions"
	QuizTypeMixed          = "mixed, 5 questions"

	DifficultyEasy   = "easy"
	DifficultyNormal = "normal"
	DifficultyHard   = "hard"
)

// Notes composes the note-generation exchange: the fixed 4-part role
// template plus the normalized material text. Pure function.
func Notes(materialText string) []llm.Message {
	return []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.NotesSystemPromptV1},
		{Role: constant.ChatMessageRoleUser, Content: materialText},
	}
}

// TutorTurn composes one tutoring exchange: role instruction, a one-time
// material context block on the first turn only, the windowed history in
// original order, then the new user message. Pure function.
func TutorTurn(materialText string, history []store.Turn, userMessage string) []llm.Message {
	messages := make([]llm.Message, 0, len(history)+3)
	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleSystem,
		Content: constant.TutorSystemPromptV1,
	})

	if len(history) == 0 && strings.TrimSpace(materialText) != "" {
		messages = append(messages, llm.Message{
			Role:    constant.ChatMessageRoleSystem,
			Content: fmt.Sprintf(constant.TutorContextPromptV1, materialText),
		})
	}

	for _, turn := range history {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}

	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleUser,
		Content: userMessage,
	})
	return messages
}

// Quiz composes the quiz-generation prompt, parametrized by question type
// and difficulty, with the answer-marker output convention spelled out.
// Pure function.
func Quiz(materialText, questionType, difficulty string) string {
	if questionType == "" {
		questionType = QuizTypeMixed
	}
	if difficulty == "" {
		difficulty = DifficultyNormal
	}
	return fmt.Sprintf(constant.QuizPromptV1, questionType, difficulty, materialText, constant.AnswerMarker)
}
