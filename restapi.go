package main

import (
	"fmt"

	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/apigateway"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/cloudwatch"
	"github.com/pulumi/pulumi-aws/sdk/v6/go/aws/lambda"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

type RestApiArgs struct {
	handler *lambda.Function
	webhook *lambda.Function
	cfg     StackConfig
}

type RestApi struct {
	api   *apigateway.RestApi
	stage *apigateway.Stage
}

func NewRestApi(ctx *pulumi.Context, args RestApiArgs) (*RestApi, error) {
	restApi := &RestApi{}
	var err error
	restApi.api, err = apigateway.NewRestApi(ctx, "rest-api", &apigateway.RestApiArgs{})
	if err != nil {
		return nil, fmt.Errorf("Error creating rest api: %w", err)
	}

	resource, err := apigateway.NewResource(ctx, "rest-resource", &apigateway.ResourceArgs{
		RestApi:  restApi.api.ID(),
		ParentId: restApi.api.RootResourceId,
		PathPart: pulumi.String("rest"),
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating resource: %w", err)
	}

	method, err := apigateway.NewMethod(ctx, "rest-get", &apigateway.MethodArgs{
		RestApi:       restApi.api.ID(),
		ResourceId:    resource.ID(),
		HttpMethod:    pulumi.String("GET"),
		Authorization: pulumi.String("NONE"),
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating method: %w", err)
	}

	integration, err := apigateway.NewIntegration(ctx, "rest-integration", &apigateway.IntegrationArgs{
		RestApi:               restApi.api.ID(),
		ResourceId:            resource.ID(),
		HttpMethod:            method.HttpMethod,
		IntegrationHttpMethod: pulumi.String("POST"),
		Type:                  pulumi.String("AWS_PROXY"),
		Uri:                   args.handler.InvokeArn,
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating integration: %w", err)
	}

	webhookIntegration, err := restApi.registerWebhook(ctx, args.webhook)
	if err != nil {
		return nil, err
	}

	deployment, err := apigateway.NewDeployment(ctx, "rest-deployment", &apigateway.DeploymentArgs{
		RestApi: restApi.api.ID(),
	}, pulumi.DependsOn([]pulumi.Resource{integration, webhookIntegration}))
	if err != nil {
		return nil, fmt.Errorf("Error creating deployment: %w", err)
	}

	accessLogs, err := cloudwatch.NewLogGroup(ctx, "rest-api-access-logs", &cloudwatch.LogGroupArgs{
		RetentionInDays: pulumi.IntPtr(7),
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating access log group: %w", err)
	}

	restApi.stage, err = apigateway.NewStage(ctx, "prod-stage", &apigateway.StageArgs{
		RestApi:             restApi.api.ID(),
		Deployment:          deployment.ID(),
		StageName:           pulumi.String("prod"),
		CacheClusterEnabled: pulumi.Bool(true),
		CacheClusterSize:    pulumi.String("0.5"),
		XrayTracingEnabled:  pulumi.Bool(true),
		AccessLogSettings: &apigateway.StageAccessLogSettingsArgs{
			DestinationArn: accessLogs.Arn,
			Format:         pulumi.String(`{"requestId":"$context.requestId","path":"$context.path","status":"$context.status","latency":"$context.responseLatency"}`),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating stage: %w", err)
	}

	_, err = apigateway.NewMethodSettings(ctx, "prod-settings", &apigateway.MethodSettingsArgs{
		RestApi:    restApi.api.ID(),
		StageName:  restApi.stage.StageName,
		MethodPath: pulumi.String("*/*"),
		Settings: &apigateway.MethodSettingsSettingsArgs{
			CachingEnabled:       pulumi.Bool(true),
			CacheTtlInSeconds:    pulumi.Int(args.cfg.cacheTtl),
			ThrottlingRateLimit:  pulumi.Float64(args.cfg.throttlingRate),
			ThrottlingBurstLimit: pulumi.Int(args.cfg.throttlingBurst),
			LoggingLevel:         pulumi.String("INFO"),
			MetricsEnabled:       pulumi.Bool(true),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating method settings: %w", err)
	}

	_, err = lambda.NewPermission(ctx, "rest-lambda-permission", &lambda.PermissionArgs{
		Action:    pulumi.String("lambda:InvokeFunction"),
		SourceArn: pulumi.Sprintf("%s/*/*/*", restApi.api.ExecutionArn),
		Function:  args.handler.Name,
		Principal: pulumi.String("apigateway.amazonaws.com"),
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating permission: %w", err)
	}

	ctx.Export("restUrl", pulumi.Sprintf("%s/rest", restApi.stage.InvokeUrl))

	return restApi, nil
}

// registerWebhook exposes the inbound-callback function at POST /webhook.
func (r *RestApi) registerWebhook(ctx *pulumi.Context, handler *lambda.Function) (*apigateway.Integration, error) {
	resource, err := apigateway.NewResource(ctx, "webhook-resource", &apigateway.ResourceArgs{
		RestApi:  r.api.ID(),
		ParentId: r.api.RootResourceId,
		PathPart: pulumi.String("webhook"),
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating resource: %w", err)
	}

	method, err := apigateway.NewMethod(ctx, "webhook-post", &apigateway.MethodArgs{
		RestApi:       r.api.ID(),
		ResourceId:    resource.ID(),
		HttpMethod:    pulumi.String("POST"),
		Authorization: pulumi.String("NONE"),
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating method: %w", err)
	}

	integration, err := apigateway.NewIntegration(ctx, "webhook-integration", &apigateway.IntegrationArgs{
		RestApi:               r.api.ID(),
		ResourceId:            resource.ID(),
		HttpMethod:            method.HttpMethod,
		IntegrationHttpMethod: pulumi.String("POST"),
		Type:                  pulumi.String("AWS_PROXY"),
		Uri:                   handler.InvokeArn,
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating integration: %w", err)
	}

	_, err = lambda.NewPermission(ctx, "webhook-lambda-permission", &lambda.PermissionArgs{
		Action:    pulumi.String("lambda:InvokeFunction"),
		SourceArn: pulumi.Sprintf("%s/*/*/*", r.api.ExecutionArn),
		Function:  handler.Name,
		Principal: pulumi.String("apigateway.amazonaws.com"),
	})
	if err != nil {
		return nil, fmt.Errorf("Error creating permission: %w", err)
	}

	return integration, nil
}
