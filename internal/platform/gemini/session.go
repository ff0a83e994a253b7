package gemini

import (
	"context"
	"sync"
)

// Session is a process-wide chat conversation. The lock serializes access so
// concurrent requests cannot interleave their prompts into one history.
type Session struct {
	client *Client

	mu      sync.Mutex
	history []Content
}

func NewSession(client *Client) *Session {
	return &Session{client: client}
}

// SendMessage appends the prompt to the conversation, asks the model for a
// reply and records it before returning.
func (s *Session) SendMessage(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.history, Content{Role: RoleUser, Parts: []Part{{Text: prompt}}})

	reply, err := s.client.GenerateContent(ctx, history)
	if err != nil {
		return "", err
	}

	s.history = append(history, Content{Role: RoleModel, Parts: []Part{{Text: reply}}})
	return reply, nil
}
