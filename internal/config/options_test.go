package config

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTransport struct{}

func (stubTransport) Start(context.Context) error { return nil }

func (stubTransport) ReadMessages(context.Context) (<-chan json.RawMessage, <-chan error) {
	return nil, nil
}

func (stubTransport) SendMessage(context.Context, []byte) error { return nil }
func (stubTransport) Close() error                              { return nil }
func (stubTransport) IsReady() bool                             { return true }

func TestOptions_TransportNotSerialized(t *testing.T) {
	opts := Options{
		Transport: stubTransport{},
		Cleanups:  []CleanupFunc{func(context.Context) error { return nil }},
	}

	data, err := json.Marshal(&opts)
	require.NoError(t, err)

	assert.False(t, bytes.Contains(data, []byte("Transport")))
	assert.False(t, bytes.Contains(data, []byte("Cleanups")))
}
