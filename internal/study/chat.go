package study

import (
	"context"
	"sync"
	"time"

	"eduseva-cli/internal/cache"
	"eduseva-cli/internal/model"
)

// ChatSession holds a question-answer conversation about the active
// document. History is session-scoped: starting a session wipes the
// stored history, and turns are persisted as they happen so an
// interrupted session leaves its transcript behind for export.
type ChatSession struct {
	gen   Generator
	cache *cache.Cache
	ttl   time.Duration

	mu      sync.Mutex
	history []model.ChatMessage
	started bool
}

func newChatSession(gen Generator, c *cache.Cache, ttl time.Duration) *ChatSession {
	return &ChatSession{gen: gen, cache: c, ttl: ttl}
}

// Start begins a fresh session, discarding any stored history from a
// previous one.
func (s *ChatSession) Start(ctx context.Context) {
	s.cache.Remove(ctx, cache.KeyChatHistory)

	s.mu.Lock()
	s.history = nil
	s.started = true
	s.mu.Unlock()
}

// Ask sends a question about the active document and records both turns.
// The stored history is rewritten after every successful exchange. A
// failed exchange keeps the question in memory, so the transcript shows
// what was asked, but does not persist it.
func (s *ChatSession) Ask(ctx context.Context, question string) (string, error) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		s.Start(ctx)
		s.mu.Lock()
	}
	s.history = append(s.history, model.ChatMessage{
		Role:    model.RoleUser,
		Content: question,
		AskedAt: time.Now(),
	})
	s.mu.Unlock()

	answer, err := s.gen.Chat(ctx, question)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.history = append(s.history, model.ChatMessage{
		Role:    model.RoleAssistant,
		Content: answer,
		AskedAt: time.Now(),
	})
	history := make([]model.ChatMessage, len(s.history))
	copy(history, s.history)
	s.mu.Unlock()

	s.cache.Set(ctx, cache.KeyChatHistory, history, s.ttl)

	return answer, nil
}

// History returns a copy of the session transcript so far.
func (s *ChatSession) History() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]model.ChatMessage, len(s.history))
	copy(history, s.history)
	return history
}

// reset clears in-memory state without touching the cache.
func (s *ChatSession) reset() {
	s.mu.Lock()
	s.history = nil
	s.started = false
	s.mu.Unlock()
}
