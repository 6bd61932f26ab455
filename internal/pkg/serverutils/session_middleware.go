package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const SessionHeader = "X-Session-Id"

// SessionMiddleware resolves the logical session key for the request. A
// missing or malformed header gets a fresh id, echoed back so the client
// can keep using it.
func SessionMiddleware(ctx *fiber.Ctx) error {
	sessionId := ctx.Get(SessionHeader)
	if _, err := uuid.Parse(sessionId); err != nil {
		sessionId = uuid.New().String()
	}

	ctx.Locals("session_id", sessionId)
	ctx.Set(SessionHeader, sessionId)
	return ctx.Next()
}

// SessionID reads the session key resolved by SessionMiddleware.
func SessionID(ctx *fiber.Ctx) string {
	if id, ok := ctx.Locals("session_id").(string); ok {
		return id
	}
	return ""
}
