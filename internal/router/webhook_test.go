package router

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookHandle(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "object payload",
			body:       `{"x": 1}`,
			wantStatus: 200,
			wantBody:   `{"status": "success", "data": {"x": 1}}`,
		},
		{
			name:       "nested payload echoed verbatim",
			body:       `{"order": {"id": "a1", "items": [1, 2, 3]}}`,
			wantStatus: 200,
			wantBody:   `{"status": "success", "data": {"order": {"id": "a1", "items": [1, 2, 3]}}}`,
		},
		{
			name:       "scalar payload is valid json",
			body:       `42`,
			wantStatus: 200,
			wantBody:   `{"status": "success", "data": 42}`,
		},
		{
			name:       "malformed payload",
			body:       `not-json`,
			wantStatus: 400,
			wantBody:   `{"error": "Invalid payload"}`,
		},
		{
			name:       "truncated payload",
			body:       `{"x": `,
			wantStatus: 400,
			wantBody:   `{"error": "Invalid payload"}`,
		},
		{
			name:       "absent body",
			body:       "",
			wantStatus: 400,
			wantBody:   `{"error": "Invalid payload"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewWebhook(testLogger())
			resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{Body: tt.body})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.JSONEq(t, tt.wantBody, resp.Body)
		})
	}
}

func TestWebhookHandleIdempotent(t *testing.T) {
	h := NewWebhook(testLogger())
	req := events.APIGatewayProxyRequest{Body: `{"x": 1}`}

	first, err := h.Handle(context.Background(), req)
	require.NoError(t, err)
	second, err := h.Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
