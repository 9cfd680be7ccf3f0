package router

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// Webhook accepts inbound callbacks and echoes the parsed payload back to
// the caller. Any failure to parse the body, including an absent body,
// collapses into the single invalid-payload response.
type Webhook struct {
	log *slog.Logger
}

func NewWebhook(log *slog.Logger) *Webhook {
	return &Webhook{log: log}
}

type webhookAck struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func (h *Webhook) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var payload json.RawMessage
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
		h.log.Error("error processing webhook", slog.Any("error", err))
		return respond(http.StatusBadRequest, errorBody("Invalid payload")), nil
	}
	h.log.Info("webhook received", slog.String("payload", string(payload)))
	return respond(http.StatusOK, webhookAck{Status: "success", Data: payload}), nil
}
