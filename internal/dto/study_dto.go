package dto

import (
	"github.com/google/uuid"
)

type GenerateNotesResponse struct {
	MaterialId uuid.UUID `json:"material_id"`
	Notes      string    `json:"notes"`
}

type GenerateQuizRequest struct {
	QuestionType string `json:"question_type,omitempty"`
	Difficulty   string `json:"difficulty,omitempty"`
}

type QuizPairDTO struct {
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
	Answered bool   `json:"answered"`
}

type GenerateQuizResponse struct {
	MaterialId uuid.UUID     `json:"material_id"`
	Raw        string        `json:"raw"`
	Questions  []QuizPairDTO `json:"questions"`
}
