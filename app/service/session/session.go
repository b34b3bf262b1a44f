package session

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one history entry. Messages are never mutated after Append.
type Message struct {
	Role    Role
	Content string
}

// Store holds the rolling conversation history and session-scoped user
// attributes for a single conversation. Safe for use from the reader and
// engine goroutines.
type Store struct {
	mu sync.RWMutex

	maxPairs        int
	messages        []Message
	userName        string
	lastInteraction time.Time
}

func NewStore(maxPairs int) *Store {
	if maxPairs <= 0 {
		maxPairs = 5
	}

	return &Store{
		maxPairs: maxPairs,
	}
}

// Append adds a message, evicting the oldest pair when the history grows past
// maxPairs question/answer pairs.
func (s *Store) Append(role Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append(s.messages, Message{Role: role, Content: content})
	if limit := s.maxPairs * 2; len(s.messages) > limit {
		s.messages = append(s.messages[:0], s.messages[len(s.messages)-limit:]...)
	}

	s.lastInteraction = time.Now()
}

// Recent returns up to n most recent messages in chronological order.
func (s *Store) Recent(n int) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.messages) {
		n = len(s.messages)
	}
	if n <= 0 {
		return nil
	}

	result := make([]Message, n)
	copy(result, s.messages[len(s.messages)-n:])

	return result
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.messages)
}

// Reset clears the history. User attributes survive a reset.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = nil
}

// Format renders the full retained history as a prompt context block.
func (s *Store) Format() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.messages) == 0 {
		return "No previous messages"
	}

	var builder strings.Builder

	for _, msg := range s.messages {
		switch msg.Role {
		case RoleUser:
			builder.WriteString(fmt.Sprintf("User: %s\n", msg.Content))
		case RoleAssistant:
			builder.WriteString(fmt.Sprintf("Assistant: %s\n", msg.Content))
		}
	}

	return builder.String()
}

// SetName records the user's display name. The first write sticks; use
// UpdateName for an explicit change.
func (s *Store) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userName == "" && name != "" {
		s.userName = name
	}
}

func (s *Store) UpdateName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userName = name
}

func (s *Store) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.userName
}

func (s *Store) LastInteraction() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastInteraction
}
