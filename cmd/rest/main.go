package main

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	slog.Info("Request received", slog.String("path", event.Path))
	return events.APIGatewayProxyResponse{
		StatusCode: 200,
		Body:       `{"status": "ok"}`,
	}, nil
}

func main() {
	lambda.Start(handler)
}
