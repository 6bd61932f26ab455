package store

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry in the tutoring conversation.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is an append-only, submission-ordered log of turns.
// Consecutive same-role turns are allowed (they happen after failed
// generations); only ordering matters.
type Conversation struct {
	Turns []Turn `json:"turns"`
}

func (c *Conversation) Append(role, content string) {
	c.Turns = append(c.Turns, Turn{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
}

// Window returns the last n turns in original chronological order.
// n <= 0 returns nil.
func (c *Conversation) Window(n int) []Turn {
	if n <= 0 {
		return nil
	}
	if len(c.Turns) <= n {
		return c.Turns
	}
	return c.Turns[len(c.Turns)-n:]
}

func (c *Conversation) Len() int {
	return len(c.Turns)
}

func (c *Conversation) Reset() {
	c.Turns = nil
}
