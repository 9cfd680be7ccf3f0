package main

import (
	"fmt"
	"strings"

	apigwv2 "github.com/pulumi/pulumi-aws/sdk/v6/go/aws/apigatewayv2"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/lambda"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

type WebSocketApiArgs struct {
	handler *lambda.Function
	cfg     StackConfig
}

type WebSocketApi struct {
	api   *apigwv2.Api
	stage *apigwv2.Stage
}

// NewWebSocketApi wires the websocket front door: one lambda integration
// shared by the $connect, $disconnect and $default routes.
func NewWebSocketApi(ctx *pulumi.Context, args WebSocketApiArgs) (*WebSocketApi, error) {
	ws := &WebSocketApi{}
	var err error
	ws.api, err = apigwv2.NewApi(ctx, "websocket-api", &apigwv2.ApiArgs{
		ProtocolType:             pulumi.String("WEBSOCKET"),
		RouteSelectionExpression: pulumi.String("$request.body.action"),
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating websocket api: %w", err)
	}

	integration, err := apigwv2.NewIntegration(ctx, "websocket-integration", &apigwv2.IntegrationArgs{
		ApiId:           ws.api.ID(),
		IntegrationType: pulumi.String("AWS_PROXY"),
		IntegrationUri:  args.handler.InvokeArn,
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating integration: %w", err)
	}

	for _, routeKey := range []string{"$connect", "$disconnect", "$default"} {
		name := fmt.Sprintf("websocket-%s-route", strings.TrimPrefix(routeKey, "$"))
		_, err = apigwv2.NewRoute(ctx, name, &apigwv2.RouteArgs{
			ApiId:    ws.api.ID(),
			RouteKey: pulumi.String(routeKey),
			Target:   pulumi.Sprintf("integrations/%s", integration.ID()),
		})
		if err != nil {
			return nil, fmt.Errorf("Error creating route: %w", err)
		}
	}

	ws.stage, err = apigwv2.NewStage(ctx, "websocket-prod-stage", &apigwv2.StageArgs{
		ApiId:      ws.api.ID(),
		Name:       pulumi.String("prod"),
		AutoDeploy: pulumi.Bool(true),
		DefaultRouteSettings: &apigwv2.StageDefaultRouteSettingsArgs{
			ThrottlingRateLimit:  pulumi.Float64(args.cfg.throttlingRate),
			ThrottlingBurstLimit: pulumi.Int(args.cfg.throttlingBurst),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating stage: %w", err)
	}

	_, err = lambda.NewPermission(ctx, "websocket-lambda-permission", &lambda.PermissionArgs{
		Action:    pulumi.String("lambda:InvokeFunction"),
		SourceArn: pulumi.Sprintf("%s/*/*", ws.api.ExecutionArn),
		Function:  args.handler.Name,
		Principal: pulumi.String("apigateway.amazonaws.com"),
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating permission: %w", err)
	}

	ctx.Export("websocketEndpoint", ws.api.ApiEndpoint)

	return ws, nil
}
