package notifier

import (
	"sync"
)

// MockNotifier is a recording implementation of the Notifier interface for
// testing.
type MockNotifier struct {
	mu       sync.RWMutex
	messages []string
	err      error
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{
		messages: make([]string, 0),
	}
}

// FailWith makes every subsequent Send return err.
func (m *MockNotifier) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.err = err
}

// Send records the message that would have been sent.
func (m *MockNotifier) Send(message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.messages = append(m.messages, message)

	return nil
}

// SentMessages returns a copy of all recorded messages.
func (m *MockNotifier) SentMessages() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	messages := make([]string, len(m.messages))
	copy(messages, m.messages)
	return messages
}

// Reset clears the record of sent messages.
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = make([]string, 0)
	m.err = nil
}
