package main

import (
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"microservices-app/internal/router"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	h := router.NewWebhook(log)
	lambda.Start(h.Handle)
}
