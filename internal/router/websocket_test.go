package router

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsRequest(routeKey, body string) events.APIGatewayWebsocketProxyRequest {
	return events.APIGatewayWebsocketProxyRequest{
		Body: body,
		RequestContext: events.APIGatewayWebsocketProxyRequestContext{
			RouteKey:     routeKey,
			ConnectionID: "abc123",
		},
	}
}

func TestWebSocketHandle(t *testing.T) {
	tests := []struct {
		name       string
		req        events.APIGatewayWebsocketProxyRequest
		wantStatus int
		wantBody   string
	}{
		{
			name:       "connect accepted unconditionally",
			req:        wsRequest("$connect", ""),
			wantStatus: 200,
		},
		{
			name:       "connect ignores body",
			req:        wsRequest("$connect", `{"token": "ignored"}`),
			wantStatus: 200,
		},
		{
			name:       "disconnect accepted unconditionally",
			req:        wsRequest("$disconnect", ""),
			wantStatus: 200,
		},
		{
			name:       "default echoes parsed body",
			req:        wsRequest("$default", `{"a": 1}`),
			wantStatus: 200,
			wantBody:   `{"message": "Echo: {\"a\":1}"}`,
		},
		{
			name:       "default falls back to empty object on bad json",
			req:        wsRequest("$default", `not-json`),
			wantStatus: 200,
			wantBody:   `{"message": "Echo: {}"}`,
		},
		{
			name:       "default falls back to empty object on absent body",
			req:        wsRequest("$default", ""),
			wantStatus: 200,
			wantBody:   `{"message": "Echo: {}"}`,
		},
		{
			name:       "unknown route key",
			req:        wsRequest("$other", ""),
			wantStatus: 400,
		},
		{
			name:       "absent route key",
			req:        wsRequest("", `{"a": 1}`),
			wantStatus: 400,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewWebSocket(testLogger())
			resp, err := h.Handle(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantBody == "" {
				assert.Empty(t, resp.Body)
			} else {
				assert.JSONEq(t, tt.wantBody, resp.Body)
			}
		})
	}
}

func TestWebSocketHandleIdempotent(t *testing.T) {
	h := NewWebSocket(testLogger())
	req := wsRequest("$default", `{"a": 1}`)

	first, err := h.Handle(context.Background(), req)
	require.NoError(t, err)
	second, err := h.Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
