package router

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// WebSocket dispatches on the gateway route key. Connection lifecycle is
// owned entirely by the gateway: $connect and $disconnect are acknowledged
// unconditionally and hold no session state here.
type WebSocket struct {
	log *slog.Logger
}

func NewWebSocket(log *slog.Logger) *WebSocket {
	return &WebSocket{log: log}
}

func (h *WebSocket) Handle(ctx context.Context, req events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch req.RequestContext.RouteKey {
	case "$connect":
		h.log.Info("connection opened", slog.String("connectionId", req.RequestContext.ConnectionID))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
	case "$disconnect":
		h.log.Info("connection closed", slog.String("connectionId", req.RequestContext.ConnectionID))
		return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
	case "$default":
		return h.echo(req), nil
	}
	h.log.Warn("unrecognized route key", slog.String("routeKey", req.RequestContext.RouteKey))
	return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest}, nil
}

// echo renders the parsed body back to the client. An absent or unparseable
// body falls back to an empty object rather than erroring.
func (h *WebSocket) echo(req events.APIGatewayWebsocketProxyRequest) events.APIGatewayProxyResponse {
	var payload any = map[string]any{}
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
		payload = map[string]any{}
	}
	rendered, err := json.Marshal(payload)
	if err != nil {
		rendered = []byte("{}")
	}
	h.log.Info("echoing message", slog.String("connectionId", req.RequestContext.ConnectionID))
	return respond(http.StatusOK, map[string]string{"message": "Echo: " + string(rendered)})
}
