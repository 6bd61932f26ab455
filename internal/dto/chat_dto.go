package dto

import "time"

type SendChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type SendChatResponse struct {
	Reply     string    `json:"reply"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatTurnDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatHistoryResponse struct {
	Turns []ChatTurnDTO `json:"turns"`
}

type ResetChatResponse struct {
	StoreDeleted bool `json:"store_deleted"`
}
