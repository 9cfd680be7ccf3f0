package router

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestMQTTHandle(t *testing.T) {
	tests := []struct {
		name       string
		event      MQTTEvent
		wantStatus int
		wantBody   string
	}{
		{
			name:       "string message",
			event:      MQTTEvent{Message: []byte(`"hello"`)},
			wantStatus: 200,
			wantBody:   `{"status": "processed"}`,
		},
		{
			name:       "object message",
			event:      MQTTEvent{Message: []byte(`{"temp": 21}`)},
			wantStatus: 200,
			wantBody:   `{"status": "processed"}`,
		},
		{
			name:       "null message is still present",
			event:      MQTTEvent{Message: []byte(`null`)},
			wantStatus: 200,
			wantBody:   `{"status": "processed"}`,
		},
		{
			name:       "missing message",
			event:      MQTTEvent{},
			wantStatus: 400,
			wantBody:   `{"error": "Invalid message format"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewMQTT(testLogger())
			resp, err := h.Handle(context.Background(), tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.JSONEq(t, tt.wantBody, resp.Body)
		})
	}
}

func TestMQTTHandleIdempotent(t *testing.T) {
	h := NewMQTT(testLogger())
	event := MQTTEvent{Message: []byte(`"hello"`)}

	first, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	second, err := h.Handle(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
