package session

import (
	"fmt"
	"time"

	"github.com/xinyuew3S2024/NewsByMood/session/inmemory"
	"github.com/xinyuew3S2024/NewsByMood/session/session_object"
)

// Store interface for conversation management
type Store interface {
	EnsureConversation(id string, ttl time.Duration) (*session_object.Conversation, error)
	GetConversation(id string) (*session_object.Conversation, error)
}

type StoreType string

const (
	InMemoryStore StoreType = "inmemory"
)

func NewStore(storeType StoreType, systemPrompt string) Store {
	var store Store
	switch storeType {
	case InMemoryStore:
		store = inmemory.NewInMemoryConversationStore(systemPrompt)
	default:
		panic(fmt.Sprintf("unsupported store type: %s", storeType))
	}

	return store
}
