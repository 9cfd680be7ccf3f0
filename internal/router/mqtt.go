package router

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// MQTTEvent is the payload delivered by the IoT topic rule. Message is kept
// raw so that a JSON null is still "present"; only a missing key rejects.
type MQTTEvent struct {
	Message json.RawMessage `json:"message"`
}

// MQTT acknowledges messages republished from the broker. It records the
// message and answers, nothing more.
type MQTT struct {
	log *slog.Logger
}

func NewMQTT(log *slog.Logger) *MQTT {
	return &MQTT{log: log}
}

func (h *MQTT) Handle(ctx context.Context, event MQTTEvent) (events.APIGatewayProxyResponse, error) {
	if event.Message == nil {
		h.log.Warn("invalid mqtt message format")
		return respond(http.StatusBadRequest, errorBody("Invalid message format")), nil
	}
	h.log.Info("mqtt message received", slog.String("message", string(event.Message)))
	return respond(http.StatusOK, map[string]string{"status": "processed"}), nil
}
