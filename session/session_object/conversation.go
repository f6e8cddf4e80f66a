package session_object

import (
	"sync"
	"time"

	"github.com/xinyuew3S2024/NewsByMood/session/session_models"
)

// Conversation is an append-only, role-tagged message log. It is created with
// a single seed system message and afterwards grows only by Append.
type Conversation struct {
	id        string
	expiresAt time.Time
	messages  []session_models.Message
	mu        sync.RWMutex
}

func NewConversation(id string, systemPrompt string, ttl time.Duration) *Conversation {
	return &Conversation{
		id:        id,
		expiresAt: time.Now().Add(ttl),
		messages: []session_models.Message{{
			Role:      session_models.RoleSystem,
			Content:   systemPrompt,
			CreatedAt: time.Now(),
		}},
	}
}

func (c *Conversation) ID() string { return c.id }

func (c *Conversation) Expire(ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expiresAt = time.Now().Add(ttl)
}

func (c *Conversation) Expired() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Now().After(c.expiresAt)
}

func (c *Conversation) Append(role session_models.Role, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, session_models.Message{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
}

// Messages returns a snapshot copy; callers never see later appends.
func (c *Conversation) Messages() []session_models.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]session_models.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Turns counts completed turns: every turn appends one user and one assistant
// message after the seed, so the log holds 1+2N messages after N turns.
func (c *Conversation) Turns() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return (len(c.messages) - 1) / 2
}
