package agent

import (
	"context"
	"sync"
)

// Role identifies the author of a stored message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one persisted conversation turn. Intermediate tool calls are
// not persisted.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Checkpointer persists conversation history per thread.
type Checkpointer interface {
	Load(ctx context.Context, threadID string) ([]Message, error)
	Save(ctx context.Context, threadID string, messages []Message) error
}

// MemoryCheckpointer keeps threads for the lifetime of the process.
type MemoryCheckpointer struct {
	mu      sync.RWMutex
	threads map[string][]Message
}

func NewMemoryCheckpointer() *MemoryCheckpointer {
	return &MemoryCheckpointer{threads: make(map[string][]Message)}
}

func (m *MemoryCheckpointer) Load(_ context.Context, threadID string) ([]Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Message(nil), m.threads[threadID]...), nil
}

func (m *MemoryCheckpointer) Save(_ context.Context, threadID string, messages []Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.threads[threadID] = append([]Message(nil), messages...)
	return nil
}
