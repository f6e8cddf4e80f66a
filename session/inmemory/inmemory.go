package inmemory

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xinyuew3S2024/NewsByMood/session/session_object"
)

type Store struct {
	conversations map[string]*session_object.Conversation
	systemPrompt  string
	mu            sync.RWMutex
}

func NewInMemoryConversationStore(systemPrompt string) *Store {
	return &Store{
		conversations: make(map[string]*session_object.Conversation),
		systemPrompt:  systemPrompt,
	}
}

func (store *Store) EnsureConversation(id string, ttl time.Duration) (*session_object.Conversation, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if id != "" {
		if conv, ok := store.conversations[id]; ok && !conv.Expired() {
			conv.Expire(ttl)
			return conv, nil
		}
	}

	conv := session_object.NewConversation(uuid.NewString(), store.systemPrompt, ttl)
	store.conversations[conv.ID()] = conv
	store.sweepLocked()
	return conv, nil
}

func (store *Store) GetConversation(id string) (*session_object.Conversation, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	conv, ok := store.conversations[id]
	if !ok || conv.Expired() {
		return nil, nil
	}
	return conv, nil
}

func (store *Store) sweepLocked() {
	for id, conv := range store.conversations {
		if conv.Expired() {
			delete(store.conversations, id)
		}
	}
}
