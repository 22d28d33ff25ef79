package protocol

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// mockTransport implements Transport for testing.
type mockTransport struct {
	mu       sync.Mutex
	messages [][]byte
	msgChan  chan json.RawMessage
	errChan  chan error
}

func newMockTransport() *mockTransport {
	return &mockTransport{
		messages: make([][]byte, 0, 10),
		msgChan:  make(chan json.RawMessage, 10),
		errChan:  make(chan error, 1),
	}
}

func (m *mockTransport) ReadMessages(_ context.Context) (<-chan json.RawMessage, <-chan error) {
	return m.msgChan, m.errChan
}

func (m *mockTransport) SendMessage(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = append(m.messages, data)

	return nil
}

// sent returns every envelope written so far.
func (m *mockTransport) sent(t *testing.T) []*Envelope {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Envelope, 0, len(m.messages))

	for _, data := range m.messages {
		var env Envelope
		require.NoError(t, json.Unmarshal(data, &env))

		out = append(out, &env)
	}

	return out
}

// waitForSent blocks until at least n envelopes were written.
func (m *mockTransport) waitForSent(t *testing.T, n int) []*Envelope {
	t.Helper()

	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()

		return len(m.messages) >= n
	}, 2*time.Second, time.Millisecond)

	return m.sent(t)
}

// inject delivers a raw inbound message to the controller.
func (m *mockTransport) inject(msg string) {
	m.msgChan <- json.RawMessage(msg)
}
