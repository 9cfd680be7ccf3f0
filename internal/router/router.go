// Package router implements the stateless event routers behind the stack's
// lambda functions. Each handler is a total function: every invocation
// produces exactly one response and no error ever reaches the runtime.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

func respond(status int, body any) events.APIGatewayProxyResponse {
	encoded, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Body:       `{"error":"Invalid payload"}`,
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Body:       string(encoded),
	}
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}
